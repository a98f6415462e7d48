// Package envelope decodes the marketplace backend's JSON response shapes.
//
// Single-resource endpoints answer with
//
//	{"success": true, "message": "...", "data": {...}}
//
// or, on older endpoints, the bare resource. List endpoints additionally may
// answer with a bare array, {"data": [...]}, a nested {"data": {"data": [...]}}
// page object, or a named collection such as {"categories": [...]}. Every
// shape is matched here once, and callers receive a tagged Result.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
)

// Result is either Ok(value) or Err(reason).
type Result[T any] struct {
	value   T
	message string
	err     error
}

// Ok builds a successful result.
func Ok[T any](value T, message string) Result[T] {
	return Result[T]{value: value, message: message}
}

// Err builds a failed result. A nil reason is replaced by ErrUnexpectedResponse.
func Err[T any](reason error) Result[T] {
	if reason == nil {
		reason = apperrors.ErrUnexpectedResponse
	}
	return Result[T]{err: reason}
}

// IsOk reports whether the result carries a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Value returns the decoded value (zero on Err).
func (r Result[T]) Value() T { return r.value }

// Message returns the server-provided message, if any.
func (r Result[T]) Message() string { return r.message }

// Err returns the failure reason (nil on Ok).
func (r Result[T]) Err() error { return r.err }

// Unwrap returns the value and the failure reason.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }

// raw is the loosely-typed envelope used to detect which shape was sent.
type raw struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func unexpected(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperrors.ErrUnexpectedResponse}, args...)...)
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

func isArray(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

func isNull(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// Decode parses a single-resource response. It prefers the envelope's data
// field and falls back to decoding the whole body as T when no envelope keys
// are present. success=false yields Err carrying the server message.
func Decode[T any](body []byte) Result[T] {
	var zero T
	if isNull(body) {
		return Err[T](unexpected("empty body"))
	}

	if isObject(body) {
		var env raw
		if err := json.Unmarshal(body, &env); err != nil {
			return Err[T](unexpected("%v", err))
		}
		if env.Success != nil && !*env.Success {
			return Err[T](apperrors.RequestFailed(env.Message))
		}
		if env.Success != nil || env.Data != nil {
			if isNull(env.Data) {
				return Ok(zero, env.Message)
			}
			var v T
			if err := json.Unmarshal(env.Data, &v); err != nil {
				return Err[T](unexpected("decode data: %v", err))
			}
			return Ok(v, env.Message)
		}
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return Err[T](unexpected("%v", err))
	}
	return Ok(v, "")
}

// DecodeList parses a list response in any of the supported shapes. keys
// names additional collection fields to look for (e.g. "categories"), both at
// the top level and inside data. The returned slice is never nil on Ok.
func DecodeList[T any](body []byte, keys ...string) Result[[]T] {
	if isNull(body) {
		return Err[[]T](unexpected("empty body"))
	}

	if isArray(body) {
		return decodeArray[T](body, "")
	}
	if !isObject(body) {
		return Err[[]T](unexpected("list body is neither array nor object"))
	}

	var env raw
	if err := json.Unmarshal(body, &env); err != nil {
		return Err[[]T](unexpected("%v", err))
	}
	if env.Success != nil && !*env.Success {
		return Err[[]T](apperrors.RequestFailed(env.Message))
	}

	switch {
	case isArray(env.Data):
		return decodeArray[T](env.Data, env.Message)
	case isObject(env.Data):
		if items, ok := findCollection(env.Data, append([]string{"data", "items"}, keys...)); ok {
			return decodeArray[T](items, env.Message)
		}
	case env.Success != nil && isNull(env.Data):
		return Ok([]T{}, env.Message)
	}

	if items, ok := findCollection(body, keys); ok {
		return decodeArray[T](items, env.Message)
	}
	return Err[[]T](unexpected("no collection found"))
}

func findCollection(obj []byte, keys []string) (json.RawMessage, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(obj, &fields); err != nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := fields[k]; ok && isArray(v) {
			return v, true
		}
	}
	return nil, false
}

func decodeArray[T any](b []byte, message string) Result[[]T] {
	items := []T{}
	if err := json.Unmarshal(b, &items); err != nil {
		return Err[[]T](unexpected("decode items: %v", err))
	}
	if items == nil {
		items = []T{}
	}
	return Ok(items, message)
}

// Message extracts the message of an envelope without decoding its data. It
// is used for mutation responses whose data is irrelevant.
func Message(body []byte) Result[struct{}] {
	if isNull(body) {
		return Ok(struct{}{}, "")
	}
	if !isObject(body) {
		return Ok(struct{}{}, "")
	}
	var env raw
	if err := json.Unmarshal(body, &env); err != nil {
		return Err[struct{}](unexpected("%v", err))
	}
	if env.Success != nil && !*env.Success {
		return Err[struct{}](apperrors.RequestFailed(env.Message))
	}
	return Ok(struct{}{}, env.Message)
}

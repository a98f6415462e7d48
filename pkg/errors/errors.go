package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Standard sentinel errors for the failure classes the client distinguishes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrServer             = errors.New("server error")
	ErrServiceUnavail     = errors.New("service unavailable")
	ErrRequestFailed      = errors.New("request failed")
	ErrUnexpectedResponse = errors.New("unexpected response shape")
)

// DefaultMessage is shown when neither the server nor the transport supplied
// anything more specific.
const DefaultMessage = "Something went wrong"

// LoginMessage is the generic notice used for every 401 response.
const LoginMessage = "Please log in to continue."

// AppError represents a normalized backend or transport error.
type AppError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Status  int                 `json:"-"`
	Fields  map[string][]string `json:"errors,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Validation creates a 422 error carrying field-level messages.
func Validation(message string, fields map[string][]string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Fields:  fields,
		Err:     ErrValidation,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Server creates a 5xx error.
func Server(status int, message string) *AppError {
	return &AppError{
		Code:    "SERVER_ERROR",
		Message: message,
		Status:  status,
		Err:     ErrServer,
	}
}

// RequestFailed is used when the envelope reports success=false on a 2xx.
func RequestFailed(message string) *AppError {
	return &AppError{
		Code:    "REQUEST_FAILED",
		Message: message,
		Status:  http.StatusOK,
		Err:     ErrRequestFailed,
	}
}

// FromStatus maps an HTTP status and the server-provided message and field
// errors onto an AppError with the matching sentinel.
func FromStatus(status int, message string, fields map[string][]string) *AppError {
	switch {
	case len(fields) > 0 || status == http.StatusUnprocessableEntity:
		return Validation(message, fields)
	case status == http.StatusNotFound:
		return &AppError{Code: "NOT_FOUND", Message: message, Status: status, Err: ErrNotFound}
	case status == http.StatusBadRequest:
		return InvalidInput(message)
	case status == http.StatusUnauthorized:
		return Unauthorized(message)
	case status == http.StatusForbidden:
		return Forbidden(message)
	case status == http.StatusConflict:
		return &AppError{Code: "CONFLICT", Message: message, Status: status, Err: ErrConflict}
	case status == http.StatusServiceUnavailable:
		return &AppError{Code: "SERVICE_UNAVAILABLE", Message: message, Status: status, Err: ErrServiceUnavail}
	case status >= 500:
		return Server(status, message)
	default:
		return &AppError{Code: "REQUEST_FAILED", Message: message, Status: status, Err: ErrRequestFailed}
	}
}

// HTTPStatus returns the HTTP status code associated with err, or 0 when the
// error never reached the server (transport failures).
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return 0
	}
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err is a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// FieldErrors returns the field-level validation messages carried by err.
func FieldErrors(err error) map[string][]string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// Message resolves the text shown for a failed fetch: the server-provided
// message, else the transport error text, else fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			return appErr.Message
		}
		if appErr.Err != nil && appErr.Err.Error() != "" {
			return appErr.Err.Error()
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// UserMessage resolves the text shown for a failed resource call: validation
// field messages, else the general message, else fallback. Transport errors
// without a server message fall back.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fallback
	}
	if len(appErr.Fields) > 0 {
		keys := make([]string, 0, len(appErr.Fields))
		for k := range appErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var msgs []string
		for _, k := range keys {
			msgs = append(msgs, appErr.Fields[k]...)
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
	}
	if appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

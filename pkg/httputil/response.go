// Package httputil writes the marketplace backend's JSON envelopes. It is used
// by the in-process fake backend and by tests that stand in for the real one.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
	"github.com/localharvest/marketclient/pkg/logger"
	"github.com/localharvest/marketclient/pkg/validator"
)

// UnauthenticatedMessage is the body message of every 401.
const UnauthenticatedMessage = "Unauthenticated."

// Response is the standard JSON envelope.
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a successful envelope around data.
func WriteData(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// WriteMessage writes a successful envelope with no data.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{Success: true, Message: message})
}

// WriteError writes a failure envelope for err. AppErrors keep their status,
// message and field errors; anything else becomes a logged 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		err = valErr.AppError()
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		WriteJSON(w, appErr.Status, Response{Message: appErr.Message, Errors: appErr.Fields})
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == 0 {
		status = http.StatusInternalServerError
	}
	message := http.StatusText(status)

	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context(), fallback).ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		message = "Server error"
	}

	WriteJSON(w, status, Response{Message: message})
}

// WriteUnauthenticated writes the standard 401 envelope.
func WriteUnauthenticated(w http.ResponseWriter) {
	WriteJSON(w, http.StatusUnauthorized, Response{Message: UnauthenticatedMessage})
}

// WriteValidationError writes a 422 envelope for a decode or validation
// failure.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		appErr := valErr.AppError()
		WriteJSON(w, appErr.Status, Response{Message: appErr.Message, Errors: appErr.Fields})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{Message: err.Error()})
}

// Page is the nested page object list endpoints answer with inside "data".
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// NewPage builds a page object from one slice of items and the overall total.
func NewPage[T any](data []T, total, page, perPage int) Page[T] {
	lastPage := 1
	if perPage > 0 {
		lastPage = total / perPage
		if total%perPage > 0 {
			lastPage++
		}
		if lastPage == 0 {
			lastPage = 1
		}
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:        data,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// ParseID parses a positive integer path parameter. If invalid, it writes a
// 404 envelope and returns false, signaling the caller to return early.
func ParseID(w http.ResponseWriter, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusNotFound, Response{Message: "Resource not found."})
		return 0, false
	}
	return id, true
}

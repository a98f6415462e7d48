package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/localharvest/marketclient/pkg/httputil"
	"github.com/localharvest/marketclient/pkg/middleware"
	"github.com/localharvest/marketclient/pkg/pagination"
	"github.com/localharvest/marketclient/pkg/validator"
)

// Handler serves the marketplace endpoints from a Store.
type Handler struct {
	store  *Store
	tokens *TokenManager
	logger *slog.Logger
}

// NewHandler creates the endpoint handlers.
func NewHandler(store *Store, tokens *TokenManager, logger *slog.Logger) *Handler {
	return &Handler{store: store, tokens: tokens, logger: logger}
}

// decode reads and validates a JSON body into dst, writing a 400 or 422
// response on failure. An empty body decodes as the zero value so that
// optional payloads can be omitted.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteValidationError(w, fmt.Errorf("decode request body: %w", err))
		return false
	}
	if err := validator.Validate(dst); err != nil {
		httputil.WriteValidationError(w, err)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteError(w, r, err, h.logger)
}

func userID(r *http.Request) int64 {
	return middleware.UserIDFromContext(r.Context())
}

// writePage answers with one page of items wrapped in the nested page object.
func writePage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	p := pagination.FromRequest(r)
	httputil.WriteData(w, http.StatusOK, "", httputil.NewPage(pagination.Slice(items, p), len(items), p.Page, p.Limit))
}

// --- auth ---

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	for _, u := range h.store.Users() {
		if !strings.EqualFold(u.Email, req.Email) {
			continue
		}
		if !h.store.checkPassword(u.ID, req.Password) {
			break
		}
		token, err := h.tokens.Issue(u)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httputil.WriteData(w, http.StatusOK, "Login successful", loginResponse{Token: token, User: u})
		return
	}
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{Message: "These credentials do not match our records."})
}

// NotFound answers unknown routes with the standard envelope.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{Message: "Not found."})
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.Response{Message: "Method not allowed."})
}

func param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// Package middleware holds the chi middleware stack of the marketplace fake
// backend: bearer authentication, role gating, panic recovery, request
// logging, metrics and tracing.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/localharvest/marketclient/pkg/httputil"
)

type contextKeyType string

const (
	userIDKey contextKeyType = "user_id"
	roleKey   contextKeyType = "role"
)

// ForbiddenMessage is the body message of every 403.
const ForbiddenMessage = "This action is unauthorized."

// Identity is what a validated bearer token resolves to.
type Identity struct {
	UserID int64
	Role   string
}

// TokenValidator validates a bearer token and returns the caller's identity.
type TokenValidator func(token string) (*Identity, error)

// Auth rejects requests without a valid bearer token and stores the caller's
// identity in the request context.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.WriteUnauthenticated(w)
				return
			}

			id, err := validate(token)
			if err != nil {
				httputil.WriteUnauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, id.UserID)
			ctx = context.WithValue(ctx, roleKey, id.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := roleSet[RoleFromContext(r.Context())]; !ok {
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{Message: ForbiddenMessage})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user id, or 0.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// RoleFromContext extracts the authenticated user's role.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

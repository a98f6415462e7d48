package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/localharvest/marketclient/pkg/httputil"
	"github.com/localharvest/marketclient/pkg/logger"
)

// Recovery recovers from panics and answers with a 500 envelope instead of
// crashing.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.FromContext(r.Context(), l).ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{Message: "Server error"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

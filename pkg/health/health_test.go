package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Report `json:"data"`
}

func serve(t *testing.T, h http.HandlerFunc) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec.Code, env
}

func TestLivenessHandler_AlwaysUp(t *testing.T) {
	h := NewHandler(time.Second)
	h.Register("redis", func(context.Context) error { return errors.New("down") })

	code, env := serve(t, h.LivenessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, StatusUp, env.Data.Status)
	assert.False(t, env.Data.Timestamp.IsZero())
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		checkers map[string]Checker
		code     int
		status   Status
	}{
		{"no checks", nil, http.StatusOK, StatusUp},
		{"all healthy", map[string]Checker{
			"store": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return nil },
		}, http.StatusOK, StatusUp},
		{"one down", map[string]Checker{
			"store": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		}, http.StatusServiceUnavailable, StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(time.Second)
			for name, c := range tt.checkers {
				h.Register(name, c)
			}

			code, env := serve(t, h.ReadinessHandler())
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, env.Data.Status)
			assert.Len(t, env.Data.Checks, len(tt.checkers))
			assert.Equal(t, tt.code == http.StatusOK, env.Success)
		})
	}
}

func TestCheck_ReportsErrorText(t *testing.T) {
	h := NewHandler(time.Second)
	h.Register("redis", func(context.Context) error { return errors.New("connection refused") })

	report := h.Check(context.Background())
	assert.Equal(t, StatusDown, report.Status)
	assert.Equal(t, "connection refused", report.Checks["redis"].Error)
}

func TestCheck_AppliesTimeout(t *testing.T) {
	h := NewHandler(10 * time.Millisecond)
	h.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := h.Check(context.Background())
	assert.Equal(t, StatusDown, report.Status)
	assert.Contains(t, report.Checks["slow"].Error, "deadline exceeded")
}

func TestNewHandler_DefaultTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewHandler(0).timeout)
}

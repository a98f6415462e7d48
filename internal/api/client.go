// Package api is the authenticated HTTP adapter every resource module and
// fetch unit goes through.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
	"github.com/localharvest/marketclient/pkg/httpclient"
	"github.com/localharvest/marketclient/pkg/logger"
	"github.com/localharvest/marketclient/pkg/tracing"
)

// CorrelationHeader carries the request correlation id.
const CorrelationHeader = "X-Correlation-ID"

// maxBody caps how much of a success response is read.
const maxBody = 10 << 20

// unavailableMessage is returned while the circuit breaker is open.
const unavailableMessage = "The marketplace is temporarily unavailable. Please try again shortly."

// TokenSource supplies the bearer token for each request. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// CircuitOpenFallback converts an open circuit into a 503 error with a
// user-facing message.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.FromStatus(http.StatusServiceUnavailable, unavailableMessage, nil)
}

// Client sends JSON requests to the marketplace API. Both httpclient.Client
// and httpclient.CircuitBreakerClient can serve as its transport.
type Client struct {
	baseURL string
	http    httpclient.Doer
	tokens  TokenSource
	logger  *slog.Logger
}

// New creates an API client rooted at baseURL (e.g. "https://api.example.com/api").
func New(baseURL string, doer httpclient.Doer, tokens TokenSource, logger *slog.Logger) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		tokens:  tokens,
		logger:  logger,
	}
}

// Get performs a GET and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do executes one API call. Non-2xx responses are returned as
// *apperrors.AppError carrying the server message and field errors;
// transport failures are returned wrapped.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	ctx, span := tracing.StartClientSpan(ctx, method, path)
	defer span.End()

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	correlationID := logger.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	req.Header.Set(CorrelationHeader, correlationID)
	tracing.InjectHeaders(ctx, req.Header)

	log := c.logger.With(
		slog.String("method", method),
		slog.String("path", path),
		slog.String("correlation_id", correlationID),
	)

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		log.WarnContext(ctx, "api request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if !httpclient.IsSuccess(resp.StatusCode) {
		apiErr := httpclient.ParseResponseError(resp)
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		level, msg := slog.LevelWarn, "api request errored"
		if httpclient.IsClientError(resp.StatusCode) {
			level, msg = slog.LevelDebug, "api request rejected"
		}
		log.Log(ctx, level, msg,
			slog.Int("status", resp.StatusCode),
			slog.String("error", apiErr.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return nil, apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	log.DebugContext(ctx, "api request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return data, nil
}

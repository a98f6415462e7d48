// Package fetch provides the stateful fetch units consumers use to load API
// data: Resource for a single document and Pager for paginated lists.
//
// Every request is tagged with a sequence number and runs under its own
// cancellable context. Starting a request cancels the one before it, and a
// response whose sequence number is no longer the latest is discarded, so
// state always reflects the last request issued.
package fetch

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
	"github.com/localharvest/marketclient/pkg/logger"
)

// Getter loads one value.
type Getter[T any] func(ctx context.Context) (T, error)

// Options configure a fetch unit.
type Options[T any] struct {
	// Enabled gates the fetch performed by Mount.
	Enabled bool
	// OnSuccess is called with the loaded value after state is updated.
	OnSuccess func(T)
	// OnError is called with the resolved error message after state is updated.
	OnError func(message string)
	Logger  *slog.Logger
}

func (o Options[T]) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Discard()
}

// State is a snapshot of a Resource. Loading implies Error is empty. On
// failure Data keeps the value from the last successful request.
type State[T any] struct {
	Data    *T
	Loading bool
	Error   string
}

// Resource holds the state of a single-document fetch.
type Resource[T any] struct {
	get    Getter[T]
	opts   Options[T]
	logger *slog.Logger

	mu      sync.Mutex
	state   State[T]
	enabled bool
	seq     uint64
	cancel  context.CancelFunc
	closed  bool
}

// New creates a Resource. Nothing is fetched until Mount, SetEnabled or
// Refetch is called.
func New[T any](get Getter[T], opts Options[T]) *Resource[T] {
	return &Resource[T]{
		get:     get,
		opts:    opts,
		logger:  opts.logger(),
		enabled: opts.Enabled,
	}
}

// Mount performs the initial fetch if the resource is enabled.
func (r *Resource[T]) Mount(ctx context.Context) {
	r.mu.Lock()
	enabled := r.enabled
	r.mu.Unlock()

	if enabled {
		r.Refetch(ctx)
	}
}

// SetEnabled fetches when enabled flips from false to true.
func (r *Resource[T]) SetEnabled(ctx context.Context, enabled bool) {
	r.mu.Lock()
	was := r.enabled
	r.enabled = enabled
	r.mu.Unlock()

	if !was && enabled {
		r.Refetch(ctx)
	}
}

// Refetch runs a new request, superseding any request still in flight, and
// blocks until it settles. Failures are reported through State and OnError.
func (r *Resource[T]) Refetch(ctx context.Context) {
	reqCtx, seq, ok := r.begin(ctx)
	if !ok {
		return
	}

	data, err := r.get(reqCtx)
	r.settle(seq, data, err)
}

// State returns a snapshot of the current state.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Close cancels any request in flight. Later results and calls are ignored.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resource[T]) begin(parent context.Context) (context.Context, uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, 0, false
	}
	if r.cancel != nil {
		r.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	r.seq++
	r.cancel = cancel
	r.state.Loading = true
	r.state.Error = ""
	return ctx, r.seq, true
}

func (r *Resource[T]) settle(seq uint64, data T, err error) {
	r.mu.Lock()
	if r.closed || seq != r.seq {
		r.mu.Unlock()
		r.logger.Debug("discarding stale response", slog.Uint64("seq", seq))
		return
	}

	r.cancel()
	r.cancel = nil
	r.state.Loading = false

	if err != nil {
		msg := apperrors.Message(err, apperrors.DefaultMessage)
		r.state.Error = msg
		r.mu.Unlock()

		r.logger.Debug("fetch failed", slog.String("error", msg))
		if r.opts.OnError != nil {
			r.opts.OnError(msg)
		}
		return
	}

	r.state.Data = &data
	r.state.Error = ""
	r.mu.Unlock()

	if r.opts.OnSuccess != nil {
		r.opts.OnSuccess(data)
	}
}

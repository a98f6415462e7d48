package fetch

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/localharvest/marketclient/pkg/errors"
)

// DefaultPageSize is used when a Pager is created with a non-positive limit.
const DefaultPageSize = 10

// PageGetter loads one page of a list. Pages are 1-based.
type PageGetter[T any] func(ctx context.Context, page, limit int) ([]T, error)

// PageState is a snapshot of a Pager. Data is the concatenation of every
// successfully fetched page in fetch order.
type PageState[T any] struct {
	Data        []T
	Loading     bool
	Error       string
	HasMore     bool
	CurrentPage int
}

// Pager accumulates a paginated list.
//
// HasMore is true exactly when the last page came back full, so a list whose
// final page is exactly limit long reports one extra, empty, page.
type Pager[T any] struct {
	get    PageGetter[T]
	limit  int
	opts   Options[[]T]
	logger *slog.Logger

	mu       sync.Mutex
	state    PageState[T]
	inFlight bool
	seq      uint64
	cancel   context.CancelFunc
	closed   bool
}

// NewPager creates a Pager fetching limit items per page. OnSuccess receives
// each fetched page.
func NewPager[T any](get PageGetter[T], limit int, opts Options[[]T]) *Pager[T] {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Pager[T]{
		get:    get,
		limit:  limit,
		opts:   opts,
		logger: opts.logger(),
		state:  PageState[T]{Data: []T{}},
	}
}

// Limit returns the page size.
func (p *Pager[T]) Limit() int {
	return p.limit
}

// Mount fetches page 1 if the pager is enabled.
func (p *Pager[T]) Mount(ctx context.Context) {
	if p.opts.Enabled {
		p.Refetch(ctx)
	}
}

// Refetch clears accumulated data and fetches page 1, superseding any page
// fetch in flight.
func (p *Pager[T]) Refetch(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.state.Data = []T{}
	p.state.CurrentPage = 0
	p.state.HasMore = false
	reqCtx, seq := p.beginLocked(ctx)
	p.mu.Unlock()

	p.fetch(reqCtx, seq, 1)
}

// LoadMore fetches the next page. It returns false without fetching when
// there are no more pages or a fetch is already in flight.
func (p *Pager[T]) LoadMore(ctx context.Context) bool {
	p.mu.Lock()
	if p.closed || !p.state.HasMore || p.inFlight {
		p.mu.Unlock()
		return false
	}
	page := p.state.CurrentPage + 1
	reqCtx, seq := p.beginLocked(ctx)
	p.mu.Unlock()

	p.fetch(reqCtx, seq, page)
	return true
}

// State returns a snapshot of the current state. The Data slice is a copy.
func (p *Pager[T]) State() PageState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Data = append([]T(nil), p.state.Data...)
	if s.Data == nil {
		s.Data = []T{}
	}
	return s
}

// Close cancels any fetch in flight. Later results and calls are ignored.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Pager[T]) beginLocked(parent context.Context) (context.Context, uint64) {
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	p.seq++
	p.cancel = cancel
	p.inFlight = true
	p.state.Loading = true
	p.state.Error = ""
	return ctx, p.seq
}

func (p *Pager[T]) fetch(ctx context.Context, seq uint64, page int) {
	items, err := p.get(ctx, page, p.limit)

	p.mu.Lock()
	if p.closed || seq != p.seq {
		p.mu.Unlock()
		p.logger.Debug("discarding stale page",
			slog.Uint64("seq", seq),
			slog.Int("page", page),
		)
		return
	}

	p.cancel()
	p.cancel = nil
	p.inFlight = false
	p.state.Loading = false

	if err != nil {
		msg := apperrors.Message(err, apperrors.DefaultMessage)
		p.state.Error = msg
		p.state.HasMore = false
		p.mu.Unlock()

		p.logger.Debug("page fetch failed",
			slog.Int("page", page),
			slog.String("error", msg),
		)
		if p.opts.OnError != nil {
			p.opts.OnError(msg)
		}
		return
	}

	p.state.Data = append(p.state.Data, items...)
	p.state.CurrentPage = page
	p.state.HasMore = len(items) == p.limit
	p.mu.Unlock()

	if p.opts.OnSuccess != nil {
		p.opts.OnSuccess(items)
	}
}

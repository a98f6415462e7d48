// Package wishlist keeps the user's favorited products in sync with the
// backend. The Store caches the full item list plus the set of favorited
// product ids; only the ids are persisted between runs.
package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/notify"
	apperrors "github.com/localharvest/marketclient/pkg/errors"
	"github.com/localharvest/marketclient/pkg/logger"
)

// ErrNotAuthenticated is returned by mutations attempted while logged out.
var ErrNotAuthenticated = errors.New("wishlist: not authenticated")

// NotAuthenticatedMessage is the store error set for logged-out mutations.
const NotAuthenticatedMessage = "Please log in to manage your wishlist"

// Status is the store's request state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusOK      Status = "ok"
	StatusError   Status = "error"
)

// Remote is the backend side of the wishlist.
type Remote interface {
	List(ctx context.Context) ([]domain.WishlistProduct, error)
	Add(ctx context.Context, productID int64) error
	Remove(ctx context.Context, productID int64) error
	Toggle(ctx context.Context, productID int64) (bool, error)
	Check(ctx context.Context, productID int64) (bool, error)
}

// Auth reports whether a user is signed in. *auth.Session satisfies it.
type Auth interface {
	Authenticated() bool
}

// Subscriber delivers sign-in state transitions. *auth.Session satisfies it.
type Subscriber interface {
	Subscribe(fn func(authenticated bool)) (unsubscribe func())
}

// Options configure a Store. Every field is optional.
type Options struct {
	Persister Persister
	Notifier  notify.Notifier
	Logger    *slog.Logger
}

// Snapshot is a copy of the store state. ProductIDs is sorted.
type Snapshot struct {
	Items      []domain.WishlistProduct
	ProductIDs []int64
	Status     Status
	Error      string
}

// Store is the wishlist cache. It is safe for concurrent use, but
// overlapping mutations settle in the order their responses arrive.
type Store struct {
	remote   Remote
	auth     Auth
	persist  Persister
	notifier notify.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	items  []domain.WishlistProduct
	ids    map[int64]struct{}
	status Status
	err    string

	persistMu sync.Mutex
}

// NewStore creates an empty store.
func NewStore(remote Remote, auth Auth, opts Options) *Store {
	s := &Store{
		remote:   remote,
		auth:     auth,
		persist:  opts.Persister,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		items:    []domain.WishlistProduct{},
		ids:      make(map[int64]struct{}),
		status:   StatusIdle,
	}
	if s.persist == nil {
		s.persist = NewMemoryStore()
	}
	if s.notifier == nil {
		s.notifier = notify.Discard{}
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// FetchWishlist replaces the cached items and ids with the server's list.
// Logged out, it empties the cache without a network call.
func (s *Store) FetchWishlist(ctx context.Context) error {
	if !s.auth.Authenticated() {
		s.reset()
		s.save(ctx)
		return nil
	}

	s.begin()
	items, err := s.remote.List(ctx)
	if err != nil {
		return s.fail(ctx, "fetch", err, "Failed to load wishlist")
	}
	if items == nil {
		items = []domain.WishlistProduct{}
	}

	ids := make(map[int64]struct{}, len(items))
	for _, item := range items {
		ids[item.ProductID] = struct{}{}
	}

	s.mu.Lock()
	s.items = items
	s.ids = ids
	s.status = StatusOK
	s.err = ""
	s.mu.Unlock()

	s.save(ctx)
	return nil
}

// AddItem favorites a product, then refetches the list to pick up its
// details. A failed refetch leaves the id added and sets the store error.
func (s *Store) AddItem(ctx context.Context, productID int64) error {
	if err := s.requireAuth(ctx); err != nil {
		return err
	}

	s.begin()
	if err := s.remote.Add(ctx, productID); err != nil {
		return s.fail(ctx, "add", err, "Failed to add to wishlist")
	}

	s.mu.Lock()
	s.ids[productID] = struct{}{}
	s.mu.Unlock()
	s.save(ctx)
	notify.Success(ctx, s.notifier, "Added to wishlist")

	if err := s.FetchWishlist(ctx); err != nil {
		s.logger.WarnContext(ctx, "wishlist backfill failed",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// RemoveItem unfavorites a product and drops it from the cache without
// refetching.
func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	if err := s.requireAuth(ctx); err != nil {
		return err
	}

	s.begin()
	if err := s.remote.Remove(ctx, productID); err != nil {
		return s.fail(ctx, "remove", err, "Failed to remove from wishlist")
	}

	s.mu.Lock()
	s.dropLocked(productID)
	s.status = StatusOK
	s.mu.Unlock()

	s.save(ctx)
	notify.Success(ctx, s.notifier, "Removed from wishlist")
	return nil
}

// ToggleItem flips a product's favorite state in one round trip and applies
// the server's answer. A newly favorited product has no item details until
// the next FetchWishlist.
func (s *Store) ToggleItem(ctx context.Context, productID int64) (bool, error) {
	if err := s.requireAuth(ctx); err != nil {
		return false, err
	}

	s.begin()
	favorite, err := s.remote.Toggle(ctx, productID)
	if err != nil {
		return false, s.fail(ctx, "toggle", err, "Failed to update wishlist")
	}

	s.mu.Lock()
	if favorite {
		s.ids[productID] = struct{}{}
	} else {
		s.dropLocked(productID)
	}
	s.status = StatusOK
	s.mu.Unlock()

	s.save(ctx)
	if favorite {
		notify.Success(ctx, s.notifier, "Added to wishlist")
	} else {
		notify.Success(ctx, s.notifier, "Removed from wishlist")
	}
	return favorite, nil
}

// IsFavorite reports cached membership. It never touches the network.
func (s *Store) IsFavorite(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[productID]
	return ok
}

// CheckFavorite asks the server and reconciles the cached id set. Items are
// left as they are. Logged out, nothing is a favorite.
func (s *Store) CheckFavorite(ctx context.Context, productID int64) (bool, error) {
	if !s.auth.Authenticated() {
		return false, nil
	}

	favorite, err := s.remote.Check(ctx, productID)
	if err != nil {
		s.setError(apperrors.UserMessage(err, "Failed to check wishlist"))
		return false, err
	}

	s.mu.Lock()
	_, had := s.ids[productID]
	if favorite {
		s.ids[productID] = struct{}{}
	} else {
		delete(s.ids, productID)
	}
	s.mu.Unlock()

	if had != favorite {
		s.save(ctx)
	}
	return favorite, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:      slices.Clone(s.items),
		ProductIDs: s.sortedIDsLocked(),
		Status:     s.status,
		Error:      s.err,
	}
}

// Clear empties the cache and the persisted ids.
func (s *Store) Clear(ctx context.Context) {
	s.reset()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.persist.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "clear persisted wishlist failed", slog.String("error", err.Error()))
	}
}

// Restore loads persisted ids into the cache without a network call. Items
// stay empty until the next FetchWishlist.
func (s *Store) Restore(ctx context.Context) error {
	ids, err := s.persist.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ids = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.mu.Unlock()
	return nil
}

// Watch clears the store whenever the session signs out. The returned func
// stops watching.
func (s *Store) Watch(sub Subscriber) (stop func()) {
	return sub.Subscribe(func(authenticated bool) {
		if !authenticated {
			s.logger.Debug("session ended, clearing wishlist")
			s.Clear(context.Background())
		}
	})
}

func (s *Store) requireAuth(ctx context.Context) error {
	if s.auth.Authenticated() {
		return nil
	}
	s.setError(NotAuthenticatedMessage)
	notify.Error(ctx, s.notifier, apperrors.LoginMessage)
	return ErrNotAuthenticated
}

func (s *Store) begin() {
	s.mu.Lock()
	s.status = StatusLoading
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) fail(ctx context.Context, op string, err error, fallback string) error {
	msg := apperrors.UserMessage(err, fallback)
	if apperrors.IsUnauthorized(err) {
		msg = apperrors.LoginMessage
	}
	s.setError(msg)
	s.logger.WarnContext(ctx, "wishlist request failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	notify.Error(ctx, s.notifier, msg)
	return err
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.status = StatusError
	s.err = msg
	s.mu.Unlock()
}

func (s *Store) reset() {
	s.mu.Lock()
	s.items = []domain.WishlistProduct{}
	s.ids = make(map[int64]struct{})
	s.status = StatusIdle
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) dropLocked(productID int64) {
	delete(s.ids, productID)
	s.items = slices.DeleteFunc(s.items, func(item domain.WishlistProduct) bool {
		return item.ProductID == productID
	})
}

func (s *Store) sortedIDsLocked() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// save persists the id set as it is when the write happens, so the last
// write always reflects the latest state.
func (s *Store) save(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	ids := s.sortedIDsLocked()
	s.mu.Unlock()

	if err := s.persist.Save(ctx, ids); err != nil {
		s.logger.WarnContext(ctx, "persist wishlist failed", slog.String("error", err.Error()))
	}
}

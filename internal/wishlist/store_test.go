package wishlist

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localharvest/marketclient/internal/auth"
	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/notify"
	apperrors "github.com/localharvest/marketclient/pkg/errors"
	"github.com/localharvest/marketclient/pkg/logger"
)

type fakeAuth struct{ on atomic.Bool }

func (f *fakeAuth) Authenticated() bool { return f.on.Load() }

func signedIn() *fakeAuth {
	a := &fakeAuth{}
	a.on.Store(true)
	return a
}

// fakeRemote is an in-memory backend that counts every call.
type fakeRemote struct {
	mu       sync.Mutex
	products map[int64]bool
	calls    map[string]int
	errs     map[string]error
}

func newFakeRemote(ids ...int64) *fakeRemote {
	r := &fakeRemote{products: map[int64]bool{}, calls: map[string]int{}, errs: map[string]error{}}
	for _, id := range ids {
		r.products[id] = true
	}
	return r
}

func (r *fakeRemote) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
	return r.errs[op]
}

func (r *fakeRemote) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

func (r *fakeRemote) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *fakeRemote) fail(op string, err error) {
	r.mu.Lock()
	r.errs[op] = err
	r.mu.Unlock()
}

func (r *fakeRemote) List(context.Context) ([]domain.WishlistProduct, error) {
	if err := r.record("list"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []domain.WishlistProduct
	for id := range r.products {
		items = append(items, domain.WishlistProduct{ID: id * 10, ProductID: id})
	}
	return items, nil
}

func (r *fakeRemote) Add(_ context.Context, id int64) error {
	if err := r.record("add"); err != nil {
		return err
	}
	r.mu.Lock()
	r.products[id] = true
	r.mu.Unlock()
	return nil
}

func (r *fakeRemote) Remove(_ context.Context, id int64) error {
	if err := r.record("remove"); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.products, id)
	r.mu.Unlock()
	return nil
}

func (r *fakeRemote) Toggle(_ context.Context, id int64) (bool, error) {
	if err := r.record("toggle"); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.products[id] {
		delete(r.products, id)
		return false, nil
	}
	r.products[id] = true
	return true, nil
}

func (r *fakeRemote) Check(_ context.Context, id int64) (bool, error) {
	if err := r.record("check"); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id], nil
}

func newTestStore(remote Remote, a Auth) (*Store, *MemoryStore, *notify.Recorder) {
	mem := NewMemoryStore()
	rec := notify.NewRecorder()
	return NewStore(remote, a, Options{Persister: mem, Notifier: rec, Logger: logger.Discard()}), mem, rec
}

func TestFetchWishlist_ReplacesItemsAndIDs(t *testing.T) {
	remote := newFakeRemote(3, 1, 2)
	s, mem, _ := newTestStore(remote, signedIn())

	require.NoError(t, s.FetchWishlist(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, []int64{1, 2, 3}, snap.ProductIDs)
	assert.Len(t, snap.Items, 3)
	assert.Equal(t, StatusOK, snap.Status)
	for _, item := range snap.Items {
		assert.True(t, s.IsFavorite(item.ProductID))
	}

	persisted, _ := mem.Load(context.Background())
	assert.Equal(t, []int64{1, 2, 3}, persisted)
}

func TestFetchWishlist_LoggedOutResetsWithoutNetwork(t *testing.T) {
	remote := newFakeRemote(1)
	a := signedIn()
	s, _, _ := newTestStore(remote, a)
	require.NoError(t, s.FetchWishlist(context.Background()))

	a.on.Store(false)
	require.NoError(t, s.FetchWishlist(context.Background()))

	snap := s.Snapshot()
	assert.Empty(t, snap.ProductIDs)
	assert.Empty(t, snap.Items)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, 1, remote.count("list"))
}

func TestFetchWishlist_ErrorSetsStoreError(t *testing.T) {
	remote := newFakeRemote()
	remote.fail("list", apperrors.Server(http.StatusInternalServerError, "Server error"))
	s, _, rec := newTestStore(remote, signedIn())

	err := s.FetchWishlist(context.Background())
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Server error", snap.Error)
	assert.Len(t, rec.Filter(notify.LevelError), 1)
}

func TestToggleItem_FavoritesWithoutRefetch(t *testing.T) {
	remote := newFakeRemote()
	s, _, _ := newTestStore(remote, signedIn())

	fav, err := s.ToggleItem(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, fav)

	assert.True(t, s.IsFavorite(42))
	assert.Contains(t, s.Snapshot().ProductIDs, int64(42))
	assert.Empty(t, s.Snapshot().Items, "items stay stale until the next full fetch")
	assert.Equal(t, 1, remote.total())
}

func TestToggleItem_UnfavoriteDropsItem(t *testing.T) {
	remote := newFakeRemote(42, 7)
	s, _, _ := newTestStore(remote, signedIn())
	require.NoError(t, s.FetchWishlist(context.Background()))

	fav, err := s.ToggleItem(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, fav)
	assert.False(t, s.IsFavorite(42))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(7), snap.Items[0].ProductID)
}

func TestRemoveItem_SingleRequest(t *testing.T) {
	remote := newFakeRemote(42, 7)
	s, mem, rec := newTestStore(remote, signedIn())
	require.NoError(t, s.FetchWishlist(context.Background()))
	before := remote.total()

	require.NoError(t, s.RemoveItem(context.Background(), 42))

	snap := s.Snapshot()
	assert.Equal(t, []int64{7}, snap.ProductIDs)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(7), snap.Items[0].ProductID)
	assert.Equal(t, before+1, remote.total())
	assert.Equal(t, 1, remote.count("remove"))

	persisted, _ := mem.Load(context.Background())
	assert.Equal(t, []int64{7}, persisted)
	assert.Equal(t, "Removed from wishlist", rec.Filter(notify.LevelSuccess)[0].Message)
}

func TestAddItem_BackfillsItems(t *testing.T) {
	remote := newFakeRemote(1)
	s, _, _ := newTestStore(remote, signedIn())

	require.NoError(t, s.AddItem(context.Background(), 5))

	snap := s.Snapshot()
	assert.Equal(t, []int64{1, 5}, snap.ProductIDs)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 1, remote.count("add"))
	assert.Equal(t, 1, remote.count("list"))
}

func TestAddItem_BackfillFailureKeepsID(t *testing.T) {
	remote := newFakeRemote()
	remote.fail("list", errors.New("connection reset"))
	s, _, _ := newTestStore(remote, signedIn())

	require.NoError(t, s.AddItem(context.Background(), 5))

	snap := s.Snapshot()
	assert.True(t, s.IsFavorite(5))
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, "Failed to load wishlist", snap.Error)
}

func TestMutations_LoggedOutMakeNoRequests(t *testing.T) {
	remote := newFakeRemote()
	s, _, rec := newTestStore(remote, &fakeAuth{})
	ctx := context.Background()

	assert.ErrorIs(t, s.AddItem(ctx, 1), ErrNotAuthenticated)
	assert.ErrorIs(t, s.RemoveItem(ctx, 1), ErrNotAuthenticated)
	_, err := s.ToggleItem(ctx, 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Equal(t, 0, remote.total())
	snap := s.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, NotAuthenticatedMessage, snap.Error)
	assert.Len(t, rec.Filter(notify.LevelError), 3)

	fav, err := s.CheckFavorite(ctx, 1)
	assert.NoError(t, err)
	assert.False(t, fav)
	assert.Equal(t, 0, remote.total())
}

func TestMutation_FailureIsReturned(t *testing.T) {
	remote := newFakeRemote()
	remote.fail("toggle", apperrors.Server(http.StatusBadGateway, ""))
	s, _, _ := newTestStore(remote, signedIn())

	_, err := s.ToggleItem(context.Background(), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServer)
	assert.False(t, s.IsFavorite(3))
	assert.Equal(t, "Failed to update wishlist", s.Snapshot().Error)
}

func TestMutation_UnauthorizedShowsLoginNotice(t *testing.T) {
	remote := newFakeRemote()
	remote.fail("remove", apperrors.Unauthorized("Unauthenticated."))
	s, _, rec := newTestStore(remote, signedIn())

	require.Error(t, s.RemoveItem(context.Background(), 3))
	assert.Equal(t, apperrors.LoginMessage, s.Snapshot().Error)
	assert.Equal(t, apperrors.LoginMessage, rec.Filter(notify.LevelError)[0].Message)
}

func TestCheckFavorite_ReconcilesIDsOnly(t *testing.T) {
	remote := newFakeRemote(9)
	s, _, _ := newTestStore(remote, signedIn())

	fav, err := s.CheckFavorite(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, fav)
	assert.True(t, s.IsFavorite(9))
	assert.Empty(t, s.Snapshot().Items)

	remote.fail("check", errors.New("timeout"))
	_, err = s.CheckFavorite(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, s.IsFavorite(9), "failed check leaves cache alone")
}

func TestRestore_NoNetwork(t *testing.T) {
	remote := newFakeRemote()
	mem := NewMemoryStore()
	require.NoError(t, mem.Save(context.Background(), []int64{4, 8}))

	s := NewStore(remote, signedIn(), Options{Persister: mem})
	require.NoError(t, s.Restore(context.Background()))

	assert.True(t, s.IsFavorite(4))
	assert.True(t, s.IsFavorite(8))
	assert.Equal(t, 0, remote.total())
}

func TestWatch_ClearsOnLogout(t *testing.T) {
	session := auth.NewSession(logger.Discard())
	require.NoError(t, session.Login("opaque-token"))

	remote := newFakeRemote(1, 2)
	s, mem, _ := newTestStore(remote, session)
	stop := s.Watch(session)
	defer stop()

	require.NoError(t, s.FetchWishlist(context.Background()))
	require.Len(t, s.Snapshot().ProductIDs, 2)

	session.Logout()

	assert.Empty(t, s.Snapshot().ProductIDs)
	assert.Empty(t, s.Snapshot().Items)
	persisted, _ := mem.Load(context.Background())
	assert.Empty(t, persisted)
}

func TestWatch_ClearsOnExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(1500 * time.Millisecond))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	session := auth.NewSession(logger.Discard())
	require.NoError(t, session.Login(token))

	s, _, _ := newTestStore(newFakeRemote(3), session)
	stop := s.Watch(session)
	defer stop()

	require.NoError(t, s.FetchWishlist(context.Background()))
	require.True(t, s.IsFavorite(3))

	require.Eventually(t, func() bool { return !session.Authenticated() }, 3*time.Second, 50*time.Millisecond)
	assert.False(t, s.IsFavorite(3))
	assert.Empty(t, s.Snapshot().Items)
}

func TestIsolatedStores(t *testing.T) {
	a, _, _ := newTestStore(newFakeRemote(), signedIn())
	b, _, _ := newTestStore(newFakeRemote(), signedIn())

	_, err := a.ToggleItem(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, a.IsFavorite(1))
	assert.False(t, b.IsFavorite(1))
}

func TestConcurrentToggles(t *testing.T) {
	remote := newFakeRemote()
	s, _, _ := newTestStore(remote, signedIn())

	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _ = s.ToggleItem(context.Background(), id%5)
		}(i)
	}
	wg.Wait()

	// Responses may apply out of order; a full fetch reconciles with the
	// server, where each id was toggled an even number of times.
	assert.Equal(t, 20, remote.count("toggle"))
	require.NoError(t, s.FetchWishlist(context.Background()))
	assert.Empty(t, s.Snapshot().ProductIDs)
}

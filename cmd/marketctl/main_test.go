package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localharvest/marketclient/internal/dashboard"
	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/fakeapi"
	"github.com/localharvest/marketclient/pkg/health"
	"github.com/localharvest/marketclient/pkg/logger"
)

type backend struct {
	store  *fakeapi.Store
	seed   fakeapi.Seeded
	tokens *fakeapi.TokenManager
}

// newBackend starts a seeded fake API and points marketctl at it.
func newBackend(t *testing.T) *backend {
	t.Helper()
	store := fakeapi.NewStore()
	b := &backend{store: store, seed: fakeapi.Seed(store), tokens: fakeapi.NewTokenManager("cli-test-secret", time.Hour)}
	srv := httptest.NewServer(fakeapi.NewRouter(
		fakeapi.NewHandler(store, b.tokens, logger.Discard()),
		health.NewHandler(time.Second),
		logger.Discard(),
	))
	t.Cleanup(srv.Close)

	t.Setenv("MARKET_API_URL", srv.URL)
	t.Setenv("MARKET_API_TOKEN", "")
	t.Setenv("WISHLIST_STORAGE", "memory")
	t.Setenv("LOG_LEVEL", "error")
	return b
}

func (b *backend) token(t *testing.T, p domain.Profile) string {
	t.Helper()
	token, err := b.tokens.Issue(p)
	require.NoError(t, err)
	return token
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(args ...string) result {
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), args, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decode[T any](t *testing.T, r result) T {
	t.Helper()
	require.NoError(t, r.err, r.stderr)
	var v T
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &v), r.stdout)
	return v
}

func TestCategoriesList(t *testing.T) {
	newBackend(t)

	cats := decode[[]domain.Category](t, run("categories", "list"))
	require.Len(t, cats, 4)
	slugs := make([]string, 0, len(cats))
	for _, c := range cats {
		slugs = append(slugs, c.Slug)
	}
	assert.Contains(t, slugs, "fresh-vegetables")

	dairy := decode[domain.Category](t, run("categories", "get", "dairy-eggs"))
	assert.Equal(t, "Dairy & Eggs", dairy.Name)
}

func TestProducts(t *testing.T) {
	newBackend(t)

	t.Run("filtered", func(t *testing.T) {
		products := decode[[]domain.Product](t, run("products", "list", "--category", "fresh-vegetables"))
		assert.Len(t, products, 3)
	})

	t.Run("all pages", func(t *testing.T) {
		t.Setenv("MARKET_PAGE_SIZE", "4")
		products := decode[[]domain.Product](t, run("products", "list", "--all"))
		assert.Len(t, products, 6)
	})

	t.Run("get", func(t *testing.T) {
		products := decode[[]domain.Product](t, run("products", "list", "--search", "kale"))
		require.Len(t, products, 1)

		p := decode[domain.Product](t, run("products", "get", products[0].UniqueID))
		assert.Equal(t, products[0].ID, p.ID)
	})

	t.Run("get unknown", func(t *testing.T) {
		r := run("products", "get", "missing")
		require.Error(t, r.err)
		assert.Empty(t, r.stdout)
		assert.Contains(t, r.stderr, `product "missing" not found`)
	})
}

func TestLogin(t *testing.T) {
	b := newBackend(t)

	res := decode[loginResult](t, run("login", "--email", "seller@example.com", "--password", fakeapi.SeedPassword))
	assert.Equal(t, b.seed.Seller.ID, res.User.ID)
	require.NotEmpty(t, res.Token)

	summary := decode[domain.EarningsSummary](t, run("--token", res.Token, "earnings", "summary"))
	assert.True(t, decimal.NewFromInt(114).Equal(summary.Available), summary.Available.String())

	r := run("login", "--email", "seller@example.com", "--password", "wrong")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "These credentials do not match our records.")
}

func TestAnonymousWritesAskForLogin(t *testing.T) {
	newBackend(t)

	orders := decode[[]domain.Order](t, run("orders", "list"))
	assert.Empty(t, orders)

	r := run("wishlist", "add", "1")
	require.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "[error] Please log in to continue.")
	assert.NotContains(t, r.stderr, "Error:")
}

func TestWishlist(t *testing.T) {
	b := newBackend(t)
	t.Setenv("MARKET_API_TOKEN", b.token(t, b.seed.Buyer))

	eggs := b.store.Products(fakeapi.ProductQuery{Search: "eggs"})[0]
	id := strconv.FormatInt(eggs.ID, 10)

	fav := decode[favorite](t, run("wishlist", "toggle", id))
	assert.True(t, fav.Favorite)

	items := decode[[]domain.WishlistProduct](t, run("wishlist", "list"))
	require.Len(t, items, 1)
	assert.Equal(t, eggs.ID, items[0].ProductID)

	fav = decode[favorite](t, run("wishlist", "check", id))
	assert.True(t, fav.Favorite)

	fav = decode[favorite](t, run("wishlist", "remove", id))
	assert.False(t, fav.Favorite)
	assert.Empty(t, decode[[]domain.WishlistProduct](t, run("wishlist", "list")))

	r := run("wishlist", "add", "abc")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, `invalid product id "abc"`)
}

func TestPayout(t *testing.T) {
	b := newBackend(t)
	t.Setenv("MARKET_API_TOKEN", b.token(t, b.seed.Seller))

	r := run("earnings", "payout", "--amount", "100")
	payout := decode[domain.Payout](t, r)
	assert.True(t, decimal.NewFromInt(100).Equal(payout.Amount))
	assert.Contains(t, r.stderr, "[success]")

	r = run("earnings", "payout", "--amount", "100", "--method", "cash")
	require.ErrorIs(t, r.err, errReported)
	assert.Contains(t, r.stderr, "[error]")

	r = run("earnings", "payout", "--amount", "lots")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "--amount must be a number")
}

func TestDashboards(t *testing.T) {
	b := newBackend(t)

	t.Setenv("MARKET_API_TOKEN", b.token(t, b.seed.Seller))
	seller := decode[dashboard.Seller](t, run("dashboard", "seller"))
	assert.Len(t, seller.Products, 7)
	assert.Equal(t, 2, seller.LowStockProducts)

	t.Setenv("MARKET_API_TOKEN", b.token(t, b.seed.Courier))
	courier := decode[dashboard.Courier](t, run("dashboard", "courier"))
	assert.Len(t, courier.Deliveries, 2)
	assert.True(t, courier.Verified)
}

func TestInvalidConfig(t *testing.T) {
	newBackend(t)
	t.Setenv("MARKET_PAGE_SIZE", "0")

	r := run("categories", "list")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "MARKET_PAGE_SIZE")
}

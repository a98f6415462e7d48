// Package app wires the marketplace client together from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/localharvest/marketclient/internal/api"
	"github.com/localharvest/marketclient/internal/auth"
	"github.com/localharvest/marketclient/internal/config"
	"github.com/localharvest/marketclient/internal/dashboard"
	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/fetch"
	"github.com/localharvest/marketclient/internal/notify"
	"github.com/localharvest/marketclient/internal/resource"
	"github.com/localharvest/marketclient/internal/wishlist"
	"github.com/localharvest/marketclient/pkg/database"
	"github.com/localharvest/marketclient/pkg/httpclient"
	"github.com/localharvest/marketclient/pkg/tracing"
)

// ServiceName labels the client's logs, metrics and spans.
const ServiceName = "marketctl"

// Version is stamped at build time.
var Version = "dev"

// Options supply the parts of the client the caller owns. Every field is
// optional.
type Options struct {
	Notifier   notify.Notifier
	Registerer prometheus.Registerer
}

// App holds the wired client.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	Session    *auth.Session
	API        *api.Client
	Services   *resource.Services
	Wishlist   *wishlist.Store
	Dashboards *dashboard.Loader

	rdb             *redis.Client
	stopWatch       func()
	tracingShutdown func(context.Context) error
}

// New builds the client: transport, session, resource services, wishlist
// store and dashboard loader.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLogger(logger)
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}

	shutdown, err := tracing.InitTracer(ctx, cfg.Tracing(ServiceName, Version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, tracingShutdown: shutdown}

	a.Session = auth.NewSession(logger)
	if cfg.APIToken != "" {
		if err := a.Session.Login(cfg.APIToken); err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("load api token: %w", err)
		}
	}

	a.API = api.New(cfg.APIURL, a.transport(), a.Session, logger)
	a.Services = resource.NewServices(a.API, opts.Notifier, logger)
	a.Dashboards = dashboard.NewLoader(a.Services, logger)

	persister, err := a.persister(ctx, opts.Registerer)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Wishlist = wishlist.NewStore(wishlist.NewHTTPRemote(a.API), a.Session, wishlist.Options{
		Persister: persister,
		Notifier:  opts.Notifier,
		Logger:    logger,
	})
	if err := a.Wishlist.Restore(ctx); err != nil {
		logger.WarnContext(ctx, "restore wishlist failed", slog.String("error", err.Error()))
	}
	a.stopWatch = a.Wishlist.Watch(a.Session)

	logger.DebugContext(ctx, "client initialized",
		slog.String("api_url", cfg.APIURL),
		slog.Bool("breaker", cfg.BreakerEnabled),
		slog.String("wishlist_storage", cfg.WishlistStorage),
		slog.Bool("authenticated", a.Session.Authenticated()),
	)
	return a, nil
}

func (a *App) transport() httpclient.Doer {
	client := httpclient.New(a.cfg.HTTPClient())
	if !a.cfg.BreakerEnabled {
		return client
	}
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("marketplace-api"), a.logger)
	return cb.WithFallback(api.CircuitOpenFallback)
}

func (a *App) persister(ctx context.Context, reg prometheus.Registerer) (wishlist.Persister, error) {
	switch a.cfg.WishlistStorage {
	case config.StorageMemory:
		return wishlist.NewMemoryStore(), nil
	case config.StorageFile:
		return wishlist.NewFileStore(a.cfg.WishlistFile), nil
	case config.StorageRedis:
		database.SetSlowCommandLogging(a.cfg.Redis.SlowCommand, a.logger)
		rdb, err := database.NewRedisClient(ctx, a.cfg.Redis.Database())
		if err != nil {
			return nil, fmt.Errorf("connect wishlist storage: %w", err)
		}
		a.rdb = rdb

		var already prometheus.AlreadyRegisteredError
		if err := database.RegisterPoolMetrics(reg, rdb, ServiceName); err != nil && !errors.As(err, &already) {
			a.logger.WarnContext(ctx, "register redis pool metrics failed", slog.String("error", err.Error()))
		}
		a.logger.InfoContext(ctx, "connected to Redis",
			slog.String("addr", a.cfg.Redis.Database().Addr()),
			slog.Int("db", a.cfg.Redis.DB),
		)
		return wishlist.NewRedisStore(rdb, a.redisPrefix()), nil
	default:
		return nil, fmt.Errorf("unknown wishlist storage %q", a.cfg.WishlistStorage)
	}
}

// redisPrefix scopes the persisted ids to the signed-in user.
func (a *App) redisPrefix() string {
	parts := []string{}
	if a.cfg.Redis.KeyPrefix != "" {
		parts = append(parts, a.cfg.Redis.KeyPrefix)
	}
	if id := a.Session.UserID(); id != "" {
		parts = append(parts, "user:"+id)
	}
	return strings.Join(parts, ":")
}

// ProductPager pages through the public catalog with the configured page
// size.
func (a *App) ProductPager(filter domain.ProductFilter, opts fetch.Options[[]domain.Product]) *fetch.Pager[domain.Product] {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	return fetch.NewPager(fetch.PagesFromAPI[domain.Product](a.API, "/products", q, "products"), a.cfg.PageSize, opts)
}

// OrderPager pages through the buyer's orders with the configured page size.
func (a *App) OrderPager(status string, opts fetch.Options[[]domain.Order]) *fetch.Pager[domain.Order] {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	return fetch.NewPager(fetch.PagesFromAPI[domain.Order](a.API, "/orders", q, "orders"), a.cfg.PageSize, opts)
}

// EarningsSummary tracks the signed-in seller's balances.
func (a *App) EarningsSummary(opts fetch.Options[domain.EarningsSummary]) *fetch.Resource[domain.EarningsSummary] {
	return fetch.New(fetch.FromAPI[domain.EarningsSummary](a.API, "/earnings/summary", nil), opts)
}

// Close releases the Redis connection and flushes pending spans.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}
	return errors.Join(errs...)
}

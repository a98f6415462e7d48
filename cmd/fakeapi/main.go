// Command fakeapi serves an in-memory marketplace backend speaking the same
// envelope format as the production API, for local development of marketctl.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localharvest/marketclient/internal/config"
	"github.com/localharvest/marketclient/internal/domain"
	"github.com/localharvest/marketclient/internal/fakeapi"
	"github.com/localharvest/marketclient/pkg/health"
	"github.com/localharvest/marketclient/pkg/logger"
	"github.com/localharvest/marketclient/pkg/tracing"
)

const serviceName = "fakeapi"

var version = "dev"

func main() {
	// Load configuration from environment variables.
	cfg, err := config.LoadFakeAPI()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.LogLevel)
	log.Info("starting fake marketplace API",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
	log.Info("fake marketplace API stopped")
}

func run(ctx context.Context, cfg *config.FakeAPI, log *slog.Logger) error {
	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing(serviceName, version))
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	store := fakeapi.NewStore()
	tokens := fakeapi.NewTokenManager(cfg.JWTSecret, cfg.TokenExpiry)
	if cfg.Seed {
		seeded := fakeapi.Seed(store)
		for _, u := range []domain.Profile{seeded.Buyer, seeded.Seller, seeded.Courier} {
			token, err := tokens.Issue(u)
			if err != nil {
				return fmt.Errorf("issue token for %s: %w", u.Email, err)
			}
			log.Info("seeded account",
				slog.String("role", u.Role),
				slog.String("email", u.Email),
				slog.String("password", fakeapi.SeedPassword),
				slog.String("token", token),
			)
		}
	}

	healthHandler := health.NewHandler(2 * time.Second)
	healthHandler.Register("store", func(ctx context.Context) error {
		if len(store.Users()) == 0 && cfg.Seed {
			return errors.New("store is not seeded")
		}
		return ctx.Err()
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      fakeapi.NewRouter(fakeapi.NewHandler(store, tokens, log), healthHandler, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

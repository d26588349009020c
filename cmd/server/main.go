// Package main runs the meme token dashboard HTTP server.
//
// Storage is selected with STORAGE_BACKEND (memory or postgres). On start the
// postgres schema is migrated and an empty store is seeded with sample data,
// unless disabled by RUN_MIGRATIONS / SEED_ON_START.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meme-token-dashboard/internal/api"
	"meme-token-dashboard/internal/config"
	"meme-token-dashboard/internal/dashboard"
	"meme-token-dashboard/internal/logging"
	"meme-token-dashboard/internal/observability"
	"meme-token-dashboard/internal/seed"
	"meme-token-dashboard/internal/storage"
	"meme-token-dashboard/internal/storage/memory"
	"meme-token-dashboard/internal/storage/migrations"
	pgstore "meme-token-dashboard/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment.
	flag.StringVar(&cfg.HTTP.Addr, "addr", cfg.HTTP.Addr, "HTTP listen address")
	flag.StringVar(&cfg.HTTP.APIPrefix, "api-prefix", cfg.HTTP.APIPrefix, "Prefix for dashboard routes")
	flag.StringVar(&cfg.Storage.Backend, "backend", cfg.Storage.Backend, "Storage backend (memory, postgres)")
	flag.StringVar(&cfg.Storage.PostgresDSN, "postgres-dsn", cfg.Storage.PostgresDSN, "PostgreSQL connection string")
	flag.BoolVar(&cfg.Storage.RunMigrations, "migrate", cfg.Storage.RunMigrations, "Apply postgres migrations on start")
	flag.BoolVar(&cfg.Storage.SeedOnStart, "seed", cfg.Storage.SeedOnStart, "Seed an empty store with sample data")
	flag.StringVar(&cfg.App.LogLevel, "log-level", cfg.App.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.Must(cfg.App.LogLevel, cfg.App.LogFormat)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, cleanup, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Storage.SeedOnStart {
		if _, err := seed.Apply(ctx, stores, logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := api.NewAlertHub(logger, nil)
	defer hub.Close()

	svc := dashboard.NewService(stores,
		dashboard.WithLogger(logger),
		dashboard.WithAlertNotifier(hub),
	)
	router := api.NewRouter(svc, api.Options{
		Prefix: cfg.HTTP.APIPrefix,
		Logger: logger,
		Hub:    hub,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("backend", cfg.Storage.Backend),
			zap.String("api_prefix", cfg.HTTP.APIPrefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	observability.DefaultMetrics.StartTimestamp.SetToCurrentTime()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("received shutdown signal, draining connections",
		zap.Duration("timeout", cfg.HTTP.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	// Hijacked stream connections are not drained by Shutdown.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStores builds the configured backend. cleanup releases its resources.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Stores, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return storage.Stores{}, nil, err
		}
		if cfg.Storage.RunMigrations {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				pool.Close()
				return storage.Stores{}, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		logger.Info("using postgres storage")
		return pgstore.NewStores(pool), pool.Close, nil
	default:
		logger.Info("using in-memory storage")
		return memory.NewStores(nil), func() {}, nil
	}
}

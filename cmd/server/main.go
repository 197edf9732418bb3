package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/internal/config"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/logging"
	"github.com/diewo77/stock-admin/internal/middleware"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/internal/store"
	"github.com/diewo77/stock-admin/view"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run store migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	db, err := store.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	if err := store.Migrate(db); err != nil {
		return err
	}
	if *migrateOnlyFlag {
		logger.Info().Str("driver", cfg.Database.Driver).Msg("migrations completed")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth.SetSecret(cfg.Session.Secret)
	middleware.DefaultLang = cfg.App.DefaultLang
	view.SetCurrency(cfg.POS.Currency)
	if loc, err := cfg.App.Location(); err == nil {
		listing.SetLocation(loc)
	}

	sessions := store.NewSessionStore(db, cfg.Session.Secret)
	carts := store.NewCartStore(db)
	auth.SetSessionLoader(sessions.SlidingLoader(cfg.Session.TTL))
	go store.RunCleanup(ctx, cfg.Session.Cleanup, sessions, carts, logger)

	api := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout,
		backend.WithTokenSource(auth.TokenFromContext),
		backend.WithLogger(logger),
	)

	roles, err := policy.LoadRoles(cfg.App.RolesFile)
	if err != nil {
		return err
	}

	routerCfg, err := NewRouterConfig(Deps{
		Config:   cfg,
		API:      api,
		DB:       db,
		Sessions: sessions,
		Carts:    carts,
		Roles:    roles,
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}
	routerCfg.LoginLimiter.StartCleanup(ctx, 10*time.Minute)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(routerCfg, logger, cfg.App.Dev),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("backend", cfg.Backend.URL).Bool("dev", cfg.App.Dev).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("server stopped gracefully")
	return nil
}

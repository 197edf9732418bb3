// Package store is the dashboard's own persistence: login sessions and POS
// carts. Business data stays in the backend.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/stock-admin/internal/config"
)

// Open connects to the configured database. Postgres gets a few attempts
// so the dashboard can start alongside its database container.
func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	attempts := 1
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
		attempts = 5
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("of", attempts).Msg("database connection failed, retrying")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the store tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&sessionRecord{}, &cartRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// RunCleanup deletes expired sessions and orphaned carts every interval
// until ctx is done.
func RunCleanup(ctx context.Context, interval time.Duration, sessions *SessionStore, carts *CartStore, log zerolog.Logger) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("session cleanup failed")
				continue
			}
			m, err := carts.DeleteOrphans(ctx)
			if err != nil {
				log.Error().Err(err).Msg("cart cleanup failed")
				continue
			}
			if n > 0 || m > 0 {
				log.Info().Int64("sessions", n).Int64("carts", m).Msg("store cleanup")
			}
		}
	}
}

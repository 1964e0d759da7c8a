// Package migrate applies goose SQL migrations for this engine's schema,
// adapted from the teacher's generic goose runner
// (internal/migrate/migrate.go) with a configurable migrations directory
// and structured logging of the startup ping-retry loop.
package migrate

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const defaultMigrationsDir = "db/migrations"

// Run applies all pending migrations in migrationsDir (defaulting to
// db/migrations) using goose. It opens and closes its own DB handle so
// it is independent of the application's connection pool.
func Run(dsn, migrationsDir string, log *slog.Logger) error {
	if migrationsDir == "" {
		migrationsDir = defaultMigrationsDir
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	// On fresh docker-compose startup, Postgres may not be ready
	// immediately; retry pings for up to 30s before giving up.
	deadline := time.Now().Add(30 * time.Second)
	attempt := 0
	for {
		if err := db.Ping(); err == nil {
			break
		}
		attempt++
		if time.Now().After(deadline) {
			if err := db.Ping(); err != nil {
				return fmt.Errorf("db not ready after %d attempts: %w", attempt, err)
			}
			break
		}
		if log != nil {
			log.Warn("db_not_ready_retrying", "attempt", attempt)
		}
		time.Sleep(500 * time.Millisecond)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	if log != nil {
		log.Info("migrations_applied", "dir", migrationsDir)
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/config"
	"github.com/stemsi/college-registration/internal/database/migrations"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// DSN returns the data source name for the SQLite file at path.
// Writers wait up to 5s for the file lock instead of failing with SQLITE_BUSY.
func DSN(path string) string {
	return filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// NewSQLitePool opens and validates the connection pool for the students store.
func NewSQLitePool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open(DriverName, DSN(cfg.DatabasePath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if cfg.MaxDBConns > 0 {
		db.SetMaxOpenConns(cfg.MaxDBConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	log.Info().
		Str("path", cfg.DatabasePath).
		Int("max_conns", cfg.MaxDBConns).
		Msg("SQLite connected")

	return db, nil
}

// NewMigrator builds a golang-migrate instance over the embedded migrations.
// It owns its own handle on the file; Close on the result releases it.
func NewMigrator(path string) (*migrate.Migrate, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init migrate driver: %w", err)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, DriverName, driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

// Initialize ensures the students table exists. It is idempotent and runs on
// every startup.
func Initialize(path string, log zerolog.Logger) error {
	m, err := NewMigrator(path)
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Closing migrator failed")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}

	log.Info().
		Str("path", path).
		Uint("schema_version", version).
		Bool("dirty", dirty).
		Msg("Database initialized")

	return nil
}

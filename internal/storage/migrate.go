package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the ledger schema up to the latest embedded revision
// and reports the version it landed on.
func RunMigrations(dbPath string) error {
	// Migrations get their own connection so the repository's pool is not
	// disturbed mid-flight.
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case err == nil:
		if version, dirty, verr := m.Version(); verr == nil {
			slog.Info("Ledger schema migrated", "version", version, "dirty", dirty)
		}
	case err == migrate.ErrNoChange:
		slog.Debug("Ledger schema already up to date")
	default:
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

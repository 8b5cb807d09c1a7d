// Package database provides the schema migrations for the bot's PostgreSQL store.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator creates a migrate instance on top of an open connection
func NewMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// RunMigrations applies all pending up migrations
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	m, err := NewMigrator(db)
	if err != nil {
		return err
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		version, _, _ := m.Version()
		logger.Info("Migrations applied successfully", zap.Uint("version", version))
	}

	return nil
}

// MigrationFiles lists the embedded migration file names
func MigrationFiles() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

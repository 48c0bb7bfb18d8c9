// ABOUTME: Schema migrations embedded in the binary and applied with golang-migrate
// ABOUTME: One migration set shared by the sqlite, sqlite3 and postgres drivers

package store

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/2389/portfolio/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// newMigrator builds a migrator bound to the store's open connection.
func (s *SQLStore) newMigrator() (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	switch s.driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(s.db, &postgres.Config{})
	case config.DriverSQLite3:
		driver, err = sqlite3.WithInstance(s.db, &sqlite3.Config{})
	default:
		driver, err = sqlite.WithInstance(s.db, &sqlite.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s migration driver: %w", s.driver, err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, s.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// migrate applies all pending migrations. Already applied migrations are skipped.
func (s *SQLStore) migrate() error {
	m, err := s.newMigrator()
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("getting migration version: %w", err)
	}

	if dirty {
		s.logger.Warn("database migration state is dirty", "version", version)
	} else {
		s.logger.Debug("database migrations complete", "version", version)
	}
	return nil
}

// SchemaVersion returns the applied migration version and whether it is dirty.
func (s *SQLStore) SchemaVersion() (uint, bool, error) {
	m, err := s.newMigrator()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

package migrator

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type Migrator struct {
	migrate *migrate.Migrate
	logger  *slog.Logger
}

// New binds the migration files at sourceUrl to an open postgres handle.
func New(db *sql.DB, sourceUrl string, databaseName string, logger *slog.Logger) (*Migrator, error) {
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		return nil, fmt.Errorf("loading migrations from %s: %w", sourceUrl, err)
	}

	return &Migrator{migrate: m, logger: logger}, nil
}

func (m *Migrator) Up() error {
	return m.run("up", m.migrate.Up)
}

func (m *Migrator) Down() error {
	return m.run("down", m.migrate.Down)
}

func (m *Migrator) run(direction string, step func() error) error {
	err := step()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("no change made by migration scripts", "direction", direction)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, err := m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	m.logger.Info("migrations applied", "direction", direction, "version", version, "dirty", dirty)

	return nil
}

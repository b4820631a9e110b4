package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"freelance-job-board/pkg/postgres"
)

type DiagnosticsRepo struct {
	*postgres.Postgres
}

func NewDiagnosticsRepo(pgdb *postgres.Postgres) *DiagnosticsRepo {
	return &DiagnosticsRepo{pgdb}
}

var ErrDirtySchema = errors.New("database schema is in a dirty migration state")

// Ping checks connectivity and that the last migration finished cleanly.
func (tr *DiagnosticsRepo) Ping(ctx context.Context) error {
	if err := tr.Database.PingContext(ctx); err != nil {
		return err
	}

	versionSql, args, _ := tr.SqlBuilder.
		Select("version", "dirty").
		From("schema_migrations").
		Limit(1).
		ToSql()

	var (
		version int64
		dirty   bool
	)
	err := tr.Database.QueryRowContext(ctx, versionSql, args...).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("database schema has not been migrated")
	}
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("%w (version %d)", ErrDirtySchema, version)
	}

	return nil
}

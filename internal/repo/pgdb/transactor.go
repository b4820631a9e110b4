package pgdb

import (
	"context"
	"database/sql"
	"fmt"
	"freelance-job-board/internal/repo"
	"freelance-job-board/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

type conn struct {
	db         postgres.Querier
	SqlBuilder squirrel.StatementBuilderType
}

type Transactor struct {
	*postgres.Postgres
	isolation sql.IsolationLevel
}

func NewTransactor(pgdb *postgres.Postgres) *Transactor {
	return &Transactor{Postgres: pgdb, isolation: sql.LevelSerializable}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(r *repo.TxRepositories) error) error {
	tx, err := t.Database.BeginTx(ctx, &sql.TxOptions{Isolation: t.isolation})
	if err != nil {
		return mapError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	c := conn{db: tx, SqlBuilder: t.SqlBuilder}
	repos := &repo.TxRepositories{
		Job:             &JobRepo{c},
		Proposal:        &ProposalRepo{c},
		Contract:        &ContractRepo{c},
		ContractVersion: &ContractVersionRepo{c},
		ChangeRequest:   &ChangeRequestRepo{c},
	}

	if err = fn(repos); err != nil {
		if e := tx.Rollback(); e != nil {
			return fmt.Errorf("%w (rollback: %v)", err, e)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return mapError(err)
	}

	return nil
}

func NewRepositories(pgdb *postgres.Postgres) *repo.Repositories {
	return &repo.Repositories{
		Diagnostics:  NewDiagnosticsRepo(pgdb),
		Notification: NewNotificationRepo(pgdb),
		Transactor:   NewTransactor(pgdb),
	}
}

package pgdb

import (
	"database/sql"
	"errors"
	"fmt"
	"freelance-job-board/internal/repo/repo_errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return repo_errors.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case serializationFailure, deadlockDetected:
			return fmt.Errorf("%w: %s", repo_errors.ErrConcurrentUpdate, pqErr.Message)
		case uniqueViolation:
			return fmt.Errorf("%w: %s", repo_errors.ErrAlreadyExists, pqErr.Constraint)
		}
	}

	return err
}

func checkAffected(res sql.Result, want int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != want {
		return repo_errors.ErrConcurrentUpdate
	}

	return nil
}

package pgdb

import (
	"context"
	"regexp"
	"testing"
	"time"

	"freelance-job-board/internal/repo/repo_errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockJobById(t *testing.T) {
	pg, mock := newMock(t)
	r := NewJobRepo(pg)

	clientId := uuid.New()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + jobColumns + " FROM job WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "title", "description", "budget", "payment_type",
			"deadline", "status", "created_at", "updated_at"}).
			AddRow(int64(7), clientId.String(), "Landing page", "Build it", 1000.0, "Fixed", nil, "Open", created, created))

	job, err := r.LockJobById(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), job.Id)
	assert.Equal(t, clientId, job.ClientId)
	assert.Equal(t, "Open", job.Status)
	assert.Nil(t, job.Deadline)
}

func TestGetJobByIdNotFound(t *testing.T) {
	pg, mock := newMock(t)
	r := NewJobRepo(pg)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + jobColumns + " FROM job WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.GetJobById(context.Background(), 3)
	assert.ErrorIs(t, err, repo_errors.ErrNotFound)
}

func TestUpdateJobStatusById(t *testing.T) {
	pg, mock := newMock(t)
	r := NewJobRepo(pg)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE job SET status = $1, updated_at = now() WHERE id = $2")).
		WithArgs("InProgress", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE job SET status = $1")).
		WithArgs("Completed", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.UpdateJobStatusById(context.Background(), 7, "InProgress"))
	assert.ErrorIs(t, r.UpdateJobStatusById(context.Background(), 8, "Completed"), repo_errors.ErrConcurrentUpdate)
}

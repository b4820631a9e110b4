package pgdb

import (
	"context"
	"regexp"
	"testing"
	"time"

	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo/repo_errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewProposalsSql = "UPDATE proposal SET status = $1, feedback = $2, reviewed_at = $3, reviewed_by = $4, " +
	"row_version = row_version + $5 WHERE id IN ($6,$7) AND status IN ($8,$9)"

func TestReviewProposals(t *testing.T) {
	reviewedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	review := &entity.ProposalReview{
		Status:     common.ProposalRejected,
		Feedback:   "Another proposal was accepted for this job.",
		ReviewedBy: uuid.New(),
		ReviewedAt: reviewedAt,
	}
	from := []string{common.ProposalSubmitted, common.ProposalUnderReview}

	t.Run("every listed proposal updated", func(t *testing.T) {
		pg, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(reviewProposalsSql)).
			WithArgs(common.ProposalRejected, review.Feedback, reviewedAt, sqlmock.AnyArg(), 1,
				int64(2), int64(3), common.ProposalSubmitted, common.ProposalUnderReview).
			WillReturnResult(sqlmock.NewResult(0, 2))

		require.NoError(t, NewProposalRepo(pg).ReviewProposals(context.Background(), []int64{2, 3}, from, review))
	})

	t.Run("one proposal left its open status", func(t *testing.T) {
		pg, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(reviewProposalsSql)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewProposalRepo(pg).ReviewProposals(context.Background(), []int64{2, 3}, from, review)
		assert.ErrorIs(t, err, repo_errors.ErrConcurrentUpdate)
	})

	t.Run("no ids issues no statement", func(t *testing.T) {
		pg, _ := newMock(t)
		require.NoError(t, NewProposalRepo(pg).ReviewProposals(context.Background(), nil, from, review))
	})
}

func TestReviewProposalChecksRowVersion(t *testing.T) {
	pg, mock := newMock(t)
	r := NewProposalRepo(pg)

	reviewer := uuid.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &entity.Proposal{Id: 5, Status: common.ProposalAccepted, ReviewedAt: &now, ReviewedBy: &reviewer, RowVersion: 1}

	updateSql := regexp.QuoteMeta("UPDATE proposal SET status = $1, feedback = $2, reviewed_at = $3, reviewed_by = $4, " +
		"row_version = row_version + $5 WHERE id = $6 AND row_version = $7")
	mock.ExpectExec(updateSql).
		WithArgs(common.ProposalAccepted, "", sqlmock.AnyArg(), sqlmock.AnyArg(), 1, int64(5), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateSql).
		WithArgs(common.ProposalAccepted, "", sqlmock.AnyArg(), sqlmock.AnyArg(), 1, int64(5), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.ReviewProposal(context.Background(), p))
	assert.Equal(t, 2, p.RowVersion)

	stale := *p
	stale.RowVersion = 1
	assert.ErrorIs(t, r.ReviewProposal(context.Background(), &stale), repo_errors.ErrConcurrentUpdate)
}

func TestDoesFreelancerProposalExist(t *testing.T) {
	existsSql := regexp.QuoteMeta("SELECT id FROM proposal WHERE job_id = $1 AND freelancer_id = $2")
	freelancer := uuid.New()

	pg, mock := newMock(t)
	r := NewProposalRepo(pg)

	mock.ExpectQuery(existsSql).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(existsSql).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))
	mock.ExpectQuery(existsSql).
		WillReturnError(&pq.Error{Code: deadlockDetected, Message: "deadlock detected"})

	exists, err := r.DoesFreelancerProposalExist(context.Background(), 1, freelancer)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = r.DoesFreelancerProposalExist(context.Background(), 1, freelancer)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = r.DoesFreelancerProposalExist(context.Background(), 1, freelancer)
	assert.ErrorIs(t, err, repo_errors.ErrConcurrentUpdate)
}

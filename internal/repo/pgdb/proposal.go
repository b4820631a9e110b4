package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"freelance-job-board/internal/entity"
	"freelance-job-board/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const proposalColumns = "id, job_id, freelancer_id, bid_amount, timeline_days, cover_letter, status, feedback, reviewed_at, reviewed_by, row_version, submitted_at"

type ProposalRepo struct {
	conn
}

func NewProposalRepo(pgdb *postgres.Postgres) *ProposalRepo {
	return &ProposalRepo{conn{db: pgdb.Database, SqlBuilder: pgdb.SqlBuilder}}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*entity.Proposal, error) {
	var p entity.Proposal
	err := row.Scan(&p.Id, &p.JobId, &p.FreelancerId, &p.BidAmount, &p.TimelineDays, &p.CoverLetter,
		&p.Status, &p.Feedback, &p.ReviewedAt, &p.ReviewedBy, &p.RowVersion, &p.SubmittedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProposalRepo) CreateProposal(ctx context.Context, input *entity.CreateProposalInput) (int64, error) {
	createProposalSql, args, _ := r.SqlBuilder.
		Insert("proposal").
		Columns("job_id", "freelancer_id", "bid_amount", "timeline_days", "cover_letter", "status", "feedback", "row_version", "submitted_at").
		Values(input.JobId, input.FreelancerId, input.BidAmount, input.TimelineDays, input.CoverLetter, input.Status, "", 1, input.SubmittedAt).
		Suffix("RETURNING id").
		ToSql()

	var proposalId int64
	if err := r.db.QueryRowContext(ctx, createProposalSql, args...).Scan(&proposalId); err != nil {
		return 0, mapError(err)
	}

	return proposalId, nil
}

func (r *ProposalRepo) GetProposalById(ctx context.Context, id int64) (*entity.Proposal, error) {
	return r.getProposal(ctx, id, "")
}

func (r *ProposalRepo) LockProposalById(ctx context.Context, id int64) (*entity.Proposal, error) {
	return r.getProposal(ctx, id, "FOR UPDATE")
}

func (r *ProposalRepo) getProposal(ctx context.Context, id int64, suffix string) (*entity.Proposal, error) {
	getProposalSql, args, _ := r.SqlBuilder.
		Select(proposalColumns).
		From("proposal").
		Where("id = ?", id).
		Suffix(suffix).
		ToSql()

	p, err := scanProposal(r.db.QueryRowContext(ctx, getProposalSql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	return p, nil
}

func (r *ProposalRepo) GetJobProposals(ctx context.Context, jobId int64) ([]entity.Proposal, error) {
	getJobProposalsSql, args, _ := r.SqlBuilder.
		Select(proposalColumns).
		From("proposal").
		Where("job_id = ?", jobId).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()

	rows, err := r.db.QueryContext(ctx, getJobProposalsSql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	proposals := make([]entity.Proposal, 0)
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return proposals, err
		}
		proposals = append(proposals, *p)
	}
	if err = rows.Err(); err != nil {
		return proposals, mapError(err)
	}

	return proposals, nil
}

func (r *ProposalRepo) DoesFreelancerProposalExist(ctx context.Context, jobId int64, freelancerId uuid.UUID) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("id").
		From("proposal").
		Where("job_id = ?", jobId).
		Where("freelancer_id = ?", freelancerId).
		ToSql()

	var id int64
	err := r.db.QueryRowContext(ctx, sqlReq, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, mapError(err)
	}

	return true, nil
}

func (r *ProposalRepo) ReviewProposal(ctx context.Context, p *entity.Proposal) error {
	reviewSql, args, _ := r.SqlBuilder.
		Update("proposal").
		Set("status", p.Status).
		Set("feedback", p.Feedback).
		Set("reviewed_at", p.ReviewedAt).
		Set("reviewed_by", p.ReviewedBy).
		Set("row_version", squirrel.Expr("row_version + ?", 1)).
		Where("id = ?", p.Id).
		Where("row_version = ?", p.RowVersion).
		ToSql()

	res, err := r.db.ExecContext(ctx, reviewSql, args...)
	if err != nil {
		return mapError(err)
	}
	if err = checkAffected(res, 1); err != nil {
		return err
	}
	p.RowVersion++

	return nil
}

func (r *ProposalRepo) ReviewProposals(ctx context.Context, ids []int64, fromStatuses []string, review *entity.ProposalReview) error {
	if len(ids) == 0 {
		return nil
	}

	reviewSql, args, _ := r.SqlBuilder.
		Update("proposal").
		Set("status", review.Status).
		Set("feedback", review.Feedback).
		Set("reviewed_at", review.ReviewedAt).
		Set("reviewed_by", review.ReviewedBy).
		Set("row_version", squirrel.Expr("row_version + ?", 1)).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"status": fromStatuses}).
		ToSql()

	res, err := r.db.ExecContext(ctx, reviewSql, args...)
	if err != nil {
		return mapError(err)
	}

	return checkAffected(res, int64(len(ids)))
}

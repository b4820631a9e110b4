package pgdb

import (
	"context"
	"freelance-job-board/internal/entity"
	"freelance-job-board/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

const jobColumns = "id, client_id, title, description, budget, payment_type, deadline, status, created_at, updated_at"

type JobRepo struct {
	conn
}

func NewJobRepo(pgdb *postgres.Postgres) *JobRepo {
	return &JobRepo{conn{db: pgdb.Database, SqlBuilder: pgdb.SqlBuilder}}
}

func (r *JobRepo) CreateJob(ctx context.Context, input *entity.CreateJobInput) (int64, error) {
	createJobSql, args, _ := r.SqlBuilder.
		Insert("job").
		Columns("client_id", "title", "description", "budget", "payment_type", "deadline", "status", "created_at", "updated_at").
		Values(input.ClientId, input.Title, input.Description, input.Budget, input.PaymentType, input.Deadline,
			input.Status, input.CreatedAt, input.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	var jobId int64
	if err := r.db.QueryRowContext(ctx, createJobSql, args...).Scan(&jobId); err != nil {
		return 0, mapError(err)
	}

	return jobId, nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id int64) (*entity.Job, error) {
	return r.getJob(ctx, id, "")
}

func (r *JobRepo) LockJobById(ctx context.Context, id int64) (*entity.Job, error) {
	return r.getJob(ctx, id, "FOR UPDATE")
}

func (r *JobRepo) getJob(ctx context.Context, id int64, suffix string) (*entity.Job, error) {
	getJobSql, args, _ := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("id = ?", id).
		Suffix(suffix).
		ToSql()

	var job entity.Job
	err := r.db.QueryRowContext(ctx, getJobSql, args...).Scan(&job.Id, &job.ClientId, &job.Title, &job.Description,
		&job.Budget, &job.PaymentType, &job.Deadline, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return &job, nil
}

func (r *JobRepo) UpdateJobStatusById(ctx context.Context, id int64, newStatus string) error {
	updateStatusSql, args, _ := r.SqlBuilder.
		Update("job").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id).
		ToSql()

	res, err := r.db.ExecContext(ctx, updateStatusSql, args...)
	if err != nil {
		return mapError(err)
	}

	return checkAffected(res, 1)
}

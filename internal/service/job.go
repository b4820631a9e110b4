package service

import (
	"context"
	"errors"
	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo"
	"freelance-job-board/internal/repo/repo_errors"
	"log/slog"
	"time"
)

type JobService struct {
	transactor repo.Transactor
	logger     *slog.Logger
	now        func() time.Time
}

func NewJobService(repos *repo.Repositories, deps Dependencies) *JobService {
	return &JobService{
		transactor: repos.Transactor,
		logger:     deps.Logger,
		now:        deps.Now,
	}
}

func (s *JobService) CreateJob(ctx context.Context, input *entity.CreateJobInput) (*entity.JobOutputModel, error) {
	if input.PaymentType != common.PaymentFixed && input.PaymentType != common.PaymentHourly {
		return nil, ErrInvalidPaymentType
	}

	input.Status = common.JobOpen
	input.CreatedAt = s.now()

	var job *entity.Job
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		id, err := r.Job.CreateJob(ctx, input)
		if err != nil {
			return err
		}

		job, err = r.Job.GetJobById(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job created", "job_id", job.Id, "client_id", job.ClientId)

	return mapJob(job), nil
}

// Jobs are public: any authenticated user may look one up.
func (s *JobService) GetJobById(ctx context.Context, jobId int64) (*entity.JobOutputModel, error) {
	var job *entity.Job
	err := s.transactor.WithinTransaction(ctx, func(r *repo.TxRepositories) error {
		var err error
		job, err = r.Job.GetJobById(ctx, jobId)
		return err
	})
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	return mapJob(job), nil
}

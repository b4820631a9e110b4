package pgdb

import (
	"context"
	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

const contractColumns = "id, job_id, proposal_id, client_id, freelancer_id, contract_status_id, payment_amount, start_time, end_time, " +
	"completion_requested_by_user_id, completion_requested_at, row_version, created_at, updated_at"

type ContractRepo struct {
	conn
}

func NewContractRepo(pgdb *postgres.Postgres) *ContractRepo {
	return &ContractRepo{conn{db: pgdb.Database, SqlBuilder: pgdb.SqlBuilder}}
}

func scanContract(row rowScanner) (*entity.Contract, error) {
	var c entity.Contract
	err := row.Scan(&c.Id, &c.JobId, &c.ProposalId, &c.ClientId, &c.FreelancerId, &c.ContractStatusId, &c.PaymentAmount,
		&c.StartTime, &c.EndTime, &c.CompletionRequestedByUserId, &c.CompletionRequestedAt, &c.RowVersion,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *ContractRepo) CreateContract(ctx context.Context, input *entity.CreateContractInput) (int64, error) {
	createContractSql, args, _ := r.SqlBuilder.
		Insert("contract").
		Columns("job_id", "proposal_id", "client_id", "freelancer_id", "contract_status_id", "payment_amount",
			"start_time", "row_version", "created_at", "updated_at").
		Values(input.JobId, input.ProposalId, input.ClientId, input.FreelancerId, common.ContractPending, input.PaymentAmount,
			input.StartTime, 1, input.StartTime, input.StartTime).
		Suffix("RETURNING id").
		ToSql()

	var contractId int64
	if err := r.db.QueryRowContext(ctx, createContractSql, args...).Scan(&contractId); err != nil {
		return 0, mapError(err)
	}

	return contractId, nil
}

func (r *ContractRepo) GetContractById(ctx context.Context, id int64) (*entity.Contract, error) {
	return r.getContract(ctx, squirrel.Eq{"id": id}, "")
}

func (r *ContractRepo) LockContractById(ctx context.Context, id int64) (*entity.Contract, error) {
	return r.getContract(ctx, squirrel.Eq{"id": id}, "FOR UPDATE")
}

func (r *ContractRepo) GetContractByProposalId(ctx context.Context, proposalId int64) (*entity.Contract, error) {
	return r.getContract(ctx, squirrel.Eq{"proposal_id": proposalId}, "")
}

func (r *ContractRepo) getContract(ctx context.Context, where squirrel.Eq, suffix string) (*entity.Contract, error) {
	getContractSql, args, _ := r.SqlBuilder.
		Select(contractColumns).
		From("contract").
		Where(where).
		Suffix(suffix).
		ToSql()

	c, err := scanContract(r.db.QueryRowContext(ctx, getContractSql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	return c, nil
}

func (r *ContractRepo) UpdateContractState(ctx context.Context, c *entity.Contract) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("contract").
		Set("contract_status_id", c.ContractStatusId).
		Set("end_time", c.EndTime).
		Set("completion_requested_by_user_id", c.CompletionRequestedByUserId).
		Set("completion_requested_at", c.CompletionRequestedAt).
		Set("updated_at", c.UpdatedAt).
		Set("row_version", squirrel.Expr("row_version + ?", 1)).
		Where("id = ?", c.Id).
		Where("row_version = ?", c.RowVersion).
		ToSql()

	res, err := r.db.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return mapError(err)
	}
	if err = checkAffected(res, 1); err != nil {
		return err
	}
	c.RowVersion++

	return nil
}

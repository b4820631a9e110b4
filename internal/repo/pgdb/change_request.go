package pgdb

import (
	"context"
	"freelance-job-board/internal/common"
	"freelance-job-board/internal/entity"
	"freelance-job-board/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const changeRequestColumns = "cr.id, cr.contract_id, cr.from_version_id, cr.proposed_version_id, cr.requested_by_user_id, " +
	"cr.requested_by_role, cr.reason, cr.status, cr.request_date, cr.expiry_date, cr.response_by_user_id, " +
	"cr.response_by_role, cr.response_date, cr.response_notes"

type ChangeRequestRepo struct {
	conn
}

func NewChangeRequestRepo(pgdb *postgres.Postgres) *ChangeRequestRepo {
	return &ChangeRequestRepo{conn{db: pgdb.Database, SqlBuilder: pgdb.SqlBuilder}}
}

func scanChangeRequest(row rowScanner) (*entity.ContractChangeRequest, error) {
	var cr entity.ContractChangeRequest
	err := row.Scan(&cr.Id, &cr.ContractId, &cr.FromVersionId, &cr.ProposedVersionId, &cr.RequestedByUserId,
		&cr.RequestedByRole, &cr.Reason, &cr.Status, &cr.RequestDate, &cr.ExpiryDate, &cr.ResponseByUserId,
		&cr.ResponseByRole, &cr.ResponseDate, &cr.ResponseNotes)
	if err != nil {
		return nil, err
	}

	return &cr, nil
}

func (r *ChangeRequestRepo) CreateChangeRequest(ctx context.Context, cr *entity.ContractChangeRequest) (int64, error) {
	createSql, args, _ := r.SqlBuilder.
		Insert("contract_change_request").
		Columns("contract_id", "from_version_id", "proposed_version_id", "requested_by_user_id", "requested_by_role",
			"reason", "status", "request_date", "expiry_date").
		Values(cr.ContractId, cr.FromVersionId, cr.ProposedVersionId, cr.RequestedByUserId, cr.RequestedByRole,
			cr.Reason, cr.Status, cr.RequestDate, cr.ExpiryDate).
		Suffix("RETURNING id").
		ToSql()

	var id int64
	if err := r.db.QueryRowContext(ctx, createSql, args...).Scan(&id); err != nil {
		return 0, mapError(err)
	}

	return id, nil
}

func (r *ChangeRequestRepo) GetChangeRequestById(ctx context.Context, id int64) (*entity.ContractChangeRequest, error) {
	return r.getChangeRequest(ctx, squirrel.Eq{"cr.id": id}, "")
}

func (r *ChangeRequestRepo) LockChangeRequestById(ctx context.Context, id int64) (*entity.ContractChangeRequest, error) {
	return r.getChangeRequest(ctx, squirrel.Eq{"cr.id": id}, "FOR UPDATE")
}

func (r *ChangeRequestRepo) GetPendingChangeRequest(ctx context.Context, contractId int64) (*entity.ContractChangeRequest, error) {
	return r.getChangeRequest(ctx, squirrel.Eq{"cr.contract_id": contractId, "cr.status": common.ChangeRequestPending}, "FOR UPDATE")
}

func (r *ChangeRequestRepo) getChangeRequest(ctx context.Context, where squirrel.Eq, suffix string) (*entity.ContractChangeRequest, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(changeRequestColumns).
		From("contract_change_request cr").
		Where(where).
		Suffix(suffix).
		ToSql()

	cr, err := scanChangeRequest(r.db.QueryRowContext(ctx, getSql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	return cr, nil
}

func (r *ChangeRequestRepo) GetContractChangeRequests(ctx context.Context, contractId int64) ([]entity.ContractChangeRequest, error) {
	return r.listChangeRequests(ctx, r.SqlBuilder.
		Select(changeRequestColumns).
		From("contract_change_request cr").
		Where("cr.contract_id = ?", contractId).
		OrderBy("cr.id ASC"))
}

func (r *ChangeRequestRepo) GetPendingChangeRequestsForUser(ctx context.Context, userId uuid.UUID) ([]entity.ContractChangeRequest, error) {
	return r.listChangeRequests(ctx, r.SqlBuilder.
		Select(changeRequestColumns).
		From("contract_change_request cr").
		InnerJoin("contract c on c.id = cr.contract_id").
		Where("cr.status = ?", common.ChangeRequestPending).
		Where(squirrel.Or{squirrel.Eq{"c.client_id": userId}, squirrel.Eq{"c.freelancer_id": userId}}).
		Where("cr.requested_by_user_id <> ?", userId).
		Where(squirrel.NotEq{"c.contract_status_id": []common.ContractStatus{common.ContractCompleted, common.ContractCancelled}}).
		OrderBy("cr.request_date ASC"))
}

func (r *ChangeRequestRepo) listChangeRequests(ctx context.Context, query squirrel.SelectBuilder) ([]entity.ContractChangeRequest, error) {
	listSql, args, _ := query.ToSql()

	rows, err := r.db.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	requests := make([]entity.ContractChangeRequest, 0)
	for rows.Next() {
		cr, err := scanChangeRequest(rows)
		if err != nil {
			return requests, err
		}
		requests = append(requests, *cr)
	}
	if err = rows.Err(); err != nil {
		return requests, mapError(err)
	}

	return requests, nil
}

func (r *ChangeRequestRepo) UpdateChangeRequestStatus(ctx context.Context, cr *entity.ContractChangeRequest) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("contract_change_request").
		Set("status", cr.Status).
		Set("response_by_user_id", cr.ResponseByUserId).
		Set("response_by_role", cr.ResponseByRole).
		Set("response_date", cr.ResponseDate).
		Set("response_notes", cr.ResponseNotes).
		Where("id = ?", cr.Id).
		Where("status = ?", common.ChangeRequestPending).
		ToSql()

	res, err := r.db.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return mapError(err)
	}

	return checkAffected(res, 1)
}

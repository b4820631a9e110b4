package pgdb

import (
	"context"
	"freelance-job-board/internal/entity"
	"freelance-job-board/pkg/postgres"
)

const contractVersionColumns = "id, contract_id, version_number, title, description, payment_amount, payment_type, deadline, " +
	"deliverables, terms, notes, created_by_role, created_by_user_id, is_current_version, created_at"

type ContractVersionRepo struct {
	conn
}

func NewContractVersionRepo(pgdb *postgres.Postgres) *ContractVersionRepo {
	return &ContractVersionRepo{conn{db: pgdb.Database, SqlBuilder: pgdb.SqlBuilder}}
}

func scanContractVersion(row rowScanner) (*entity.ContractVersion, error) {
	var v entity.ContractVersion
	err := row.Scan(&v.Id, &v.ContractId, &v.VersionNumber, &v.Title, &v.Description, &v.PaymentAmount, &v.PaymentType,
		&v.Deadline, &v.Deliverables, &v.Terms, &v.Notes, &v.CreatedByRole, &v.CreatedByUserId, &v.IsCurrentVersion,
		&v.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *ContractVersionRepo) CreateVersion(ctx context.Context, v *entity.ContractVersion) (int64, error) {
	createVersionSql, args, _ := r.SqlBuilder.
		Insert("contract_version").
		Columns("contract_id", "version_number", "title", "description", "payment_amount", "payment_type", "deadline",
			"deliverables", "terms", "notes", "created_by_role", "created_by_user_id", "is_current_version", "created_at").
		Values(v.ContractId, v.VersionNumber, v.Title, v.Description, v.PaymentAmount, v.PaymentType, v.Deadline,
			v.Deliverables, v.Terms, v.Notes, v.CreatedByRole, v.CreatedByUserId, v.IsCurrentVersion, v.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	var versionId int64
	if err := r.db.QueryRowContext(ctx, createVersionSql, args...).Scan(&versionId); err != nil {
		return 0, mapError(err)
	}

	return versionId, nil
}

func (r *ContractVersionRepo) GetVersionById(ctx context.Context, id int64) (*entity.ContractVersion, error) {
	getVersionSql, args, _ := r.SqlBuilder.
		Select(contractVersionColumns).
		From("contract_version").
		Where("id = ?", id).
		ToSql()

	v, err := scanContractVersion(r.db.QueryRowContext(ctx, getVersionSql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	return v, nil
}

func (r *ContractVersionRepo) GetCurrentVersion(ctx context.Context, contractId int64) (*entity.ContractVersion, error) {
	getCurrentSql, args, _ := r.SqlBuilder.
		Select(contractVersionColumns).
		From("contract_version").
		Where("contract_id = ?", contractId).
		Where("is_current_version = ?", true).
		ToSql()

	v, err := scanContractVersion(r.db.QueryRowContext(ctx, getCurrentSql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	return v, nil
}

func (r *ContractVersionRepo) GetNextVersionNumber(ctx context.Context, contractId int64) (int, error) {
	nextSql, args, _ := r.SqlBuilder.
		Select("COALESCE(MAX(version_number), 0) + 1").
		From("contract_version").
		Where("contract_id = ?", contractId).
		ToSql()

	var next int
	if err := r.db.QueryRowContext(ctx, nextSql, args...).Scan(&next); err != nil {
		return 0, mapError(err)
	}

	return next, nil
}

func (r *ContractVersionRepo) GetContractVersions(ctx context.Context, contractId int64) ([]entity.ContractVersion, error) {
	getVersionsSql, args, _ := r.SqlBuilder.
		Select(contractVersionColumns).
		From("contract_version").
		Where("contract_id = ?", contractId).
		OrderBy("version_number ASC").
		ToSql()

	rows, err := r.db.QueryContext(ctx, getVersionsSql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	versions := make([]entity.ContractVersion, 0)
	for rows.Next() {
		v, err := scanContractVersion(rows)
		if err != nil {
			return versions, err
		}
		versions = append(versions, *v)
	}
	if err = rows.Err(); err != nil {
		return versions, mapError(err)
	}

	return versions, nil
}

// SetCurrentVersion clears the flag before setting it so the partial unique
// index on (contract_id) WHERE is_current_version holds after each statement.
func (r *ContractVersionRepo) SetCurrentVersion(ctx context.Context, contractId int64, versionId int64) error {
	clearSql, args, _ := r.SqlBuilder.
		Update("contract_version").
		Set("is_current_version", false).
		Where("contract_id = ?", contractId).
		Where("is_current_version = ?", true).
		ToSql()

	if _, err := r.db.ExecContext(ctx, clearSql, args...); err != nil {
		return mapError(err)
	}

	setSql, args, _ := r.SqlBuilder.
		Update("contract_version").
		Set("is_current_version", true).
		Where("id = ?", versionId).
		Where("contract_id = ?", contractId).
		ToSql()

	res, err := r.db.ExecContext(ctx, setSql, args...)
	if err != nil {
		return mapError(err)
	}

	return checkAffected(res, 1)
}

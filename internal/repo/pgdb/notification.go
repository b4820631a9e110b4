package pgdb

import (
	"context"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo/repo_errors"
	"freelance-job-board/pkg/postgres"

	"github.com/google/uuid"
)

type NotificationRepo struct {
	*postgres.Postgres
}

func NewNotificationRepo(pgdb *postgres.Postgres) *NotificationRepo {
	return &NotificationRepo{pgdb}
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n *entity.Notification) (int64, error) {
	createSql, args, _ := r.SqlBuilder.
		Insert("notification").
		Columns("user_id", "title", "message", "is_read", "created_at").
		Values(n.UserId, n.Title, n.Message, false, n.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	var id int64
	if err := r.Database.QueryRowContext(ctx, createSql, args...).Scan(&id); err != nil {
		return 0, mapError(err)
	}

	return id, nil
}

func (r *NotificationRepo) GetUserNotifications(ctx context.Context, userId uuid.UUID, pg *entity.PaginationInput) ([]entity.Notification, error) {
	listSql, args, _ := r.SqlBuilder.
		Select("id, user_id, title, message, is_read, created_at").
		From("notification").
		Where("user_id = ?", userId).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.Id, &n.UserId, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return notifications, err
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return notifications, mapError(err)
	}

	return notifications, nil
}

func (r *NotificationRepo) MarkNotificationRead(ctx context.Context, id int64, userId uuid.UUID) error {
	markSql, args, _ := r.SqlBuilder.
		Update("notification").
		Set("is_read", true).
		Where("id = ?", id).
		Where("user_id = ?", userId).
		ToSql()

	res, err := r.Database.ExecContext(ctx, markSql, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

package memdb

import (
	"context"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo/repo_errors"
	"sort"

	"github.com/google/uuid"
)

type NotificationRepo struct{ db *DB }

func (r *NotificationRepo) CreateNotification(ctx context.Context, n *entity.Notification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *n
	stored.Id = r.db.state.nextId()
	r.db.state.notifications[stored.Id] = stored

	return stored.Id, nil
}

func (r *NotificationRepo) GetUserNotifications(ctx context.Context, userId uuid.UUID, pg *entity.PaginationInput) ([]entity.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	notifications := make([]entity.Notification, 0)
	for _, n := range r.db.state.notifications {
		if n.UserId == userId {
			notifications = append(notifications, n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].Id > notifications[j].Id })

	start, end := pg.Window(len(notifications))

	return notifications[start:end], nil
}

func (r *NotificationRepo) MarkNotificationRead(ctx context.Context, id int64, userId uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n, ok := r.db.state.notifications[id]
	if !ok || n.UserId != userId {
		return repo_errors.ErrNotFound
	}
	n.IsRead = true
	r.db.state.notifications[id] = n

	return nil
}

package service

import (
	"context"
	"errors"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo"
	"freelance-job-board/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type NotificationService struct {
	notificationRepo repo.Notification
}

func NewNotificationService(repos *repo.Repositories) *NotificationService {
	return &NotificationService{repos.Notification}
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userId uuid.UUID, pg *entity.PaginationInput) ([]entity.NotificationOutputModel, error) {
	notifications, err := s.notificationRepo.GetUserNotifications(ctx, userId, pg)
	if err != nil {
		return nil, err
	}

	return mapNotifications(notifications), nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, notificationId int64, userId uuid.UUID) error {
	err := s.notificationRepo.MarkNotificationRead(ctx, notificationId, userId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrNotificationNotFound
		}

		return err
	}

	return nil
}

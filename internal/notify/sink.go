package notify

import (
	"context"
	"errors"
	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// StoreSink persists notifications so users can read them in-app.
type StoreSink struct {
	repo repo.Notification
}

func NewStoreSink(r repo.Notification) *StoreSink {
	return &StoreSink{repo: r}
}

func (s *StoreSink) Notify(ctx context.Context, userId uuid.UUID, title, message string) error {
	_, err := s.repo.CreateNotification(ctx, &entity.Notification{
		UserId:    userId,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})

	return err
}

type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, userId uuid.UUID, title, message string) error {
	s.logger.InfoContext(ctx, "notification", "user_id", userId, "title", title, "message", message)
	return nil
}

// MultiSink fans out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Notify(ctx context.Context, userId uuid.UUID, title, message string) error {
	var errs []error
	for _, s := range m {
		if err := s.Notify(ctx, userId, title, message); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

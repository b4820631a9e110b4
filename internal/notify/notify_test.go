package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"freelance-job-board/internal/entity"
	"freelance-job-board/internal/repo/memdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkFunc func(ctx context.Context, userId uuid.UUID, title, message string) error

func (f sinkFunc) Notify(ctx context.Context, userId uuid.UUID, title, message string) error {
	return f(ctx, userId, title, message)
}

type recordingSink struct {
	mu     sync.Mutex
	titles []string
}

func (s *recordingSink) Notify(ctx context.Context, userId uuid.UUID, title, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles = append(s.titles, title)
	return nil
}

func (s *recordingSink) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.titles...)
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func closeDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
}

func TestDispatcherDeliversInOrderAndDrainsOnClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, newLogger(&bytes.Buffer{}), 16)
	user := uuid.New()

	d.Publish(Event{UserId: user, Title: "one"}, Event{UserId: user, Title: "two"})
	d.Publish(Event{UserId: user, Title: "three"})
	closeDispatcher(t, d)

	assert.Equal(t, []string{"one", "two", "three"}, sink.Titles())
}

func TestDispatcherDropsWhenQueueIsFull(t *testing.T) {
	var logs bytes.Buffer
	started := make(chan struct{})
	release := make(chan struct{})
	sink := &recordingSink{}

	first := true
	blocking := sinkFunc(func(ctx context.Context, userId uuid.UUID, title, message string) error {
		if first {
			first = false
			close(started)
			<-release
		}
		return sink.Notify(ctx, userId, title, message)
	})

	d := NewDispatcher(blocking, newLogger(&logs), 1)
	user := uuid.New()

	d.Publish(Event{UserId: user, Title: "in flight"})
	<-started
	d.Publish(Event{UserId: user, Title: "queued"}, Event{UserId: user, Title: "dropped"})
	close(release)
	closeDispatcher(t, d)

	assert.Equal(t, []string{"in flight", "queued"}, sink.Titles())
	assert.Contains(t, logs.String(), "notification queue full")
}

func TestDispatcherSurvivesSinkFailures(t *testing.T) {
	var logs bytes.Buffer
	sink := &recordingSink{}

	flaky := sinkFunc(func(ctx context.Context, userId uuid.UUID, title, message string) error {
		switch title {
		case "panic":
			panic("sink exploded")
		case "fail":
			return errors.New("smtp down")
		}
		return sink.Notify(ctx, userId, title, message)
	})

	d := NewDispatcher(flaky, newLogger(&logs), 8)
	user := uuid.New()
	d.Publish(Event{UserId: user, Title: "panic"}, Event{UserId: user, Title: "fail"}, Event{UserId: user, Title: "ok"})
	closeDispatcher(t, d)

	assert.Equal(t, []string{"ok"}, sink.Titles())
	assert.Contains(t, logs.String(), "notification sink panicked")
	assert.Contains(t, logs.String(), "smtp down")
}

func TestPublishAfterClose(t *testing.T) {
	var logs bytes.Buffer
	sink := &recordingSink{}
	d := NewDispatcher(sink, newLogger(&logs), 4)
	closeDispatcher(t, d)

	assert.NotPanics(t, func() { d.Publish(Event{UserId: uuid.New(), Title: "late"}) })
	assert.Empty(t, sink.Titles())
	assert.Contains(t, logs.String(), ErrDispatcherClosed.Error())
	require.NoError(t, d.Close(context.Background()))
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	sink := &recordingSink{}

	m := MultiSink{
		sinkFunc(func(context.Context, uuid.UUID, string, string) error { return errA }),
		sink,
		sinkFunc(func(context.Context, uuid.UUID, string, string) error { return errB }),
	}

	err := m.Notify(context.Background(), uuid.New(), "title", "message")
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"title"}, sink.Titles())

	assert.NoError(t, MultiSink{sink}.Notify(context.Background(), uuid.New(), "t", "m"))
}

func TestStoreSinkPersistsNotification(t *testing.T) {
	ctx := context.Background()
	repos := memdb.NewRepositories(memdb.New())
	user := uuid.New()

	require.NoError(t, NewStoreSink(repos.Notification).Notify(ctx, user, "Proposal accepted", "Your proposal was accepted."))

	stored, err := repos.Notification.GetUserNotifications(ctx, user, entity.NewPaginationInput(10, 0))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Proposal accepted", stored[0].Title)
	assert.False(t, stored[0].IsRead)
}

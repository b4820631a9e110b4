// Package notify delivers best-effort messages to marketplace users after the
// operation that produced them has committed.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	UserId  uuid.UUID
	Title   string
	Message string
}

// Sink performs the actual delivery.
type Sink interface {
	Notify(ctx context.Context, userId uuid.UUID, title, message string) error
}

// Publisher accepts events without waiting for them to be delivered.
type Publisher interface {
	Publish(events ...Event)
}

var ErrDispatcherClosed = errors.New("notification dispatcher is closed")

// Dispatcher queues events and hands them to a Sink from a single background
// goroutine. Publish never blocks: when the queue is full the event is dropped
// and logged.
type Dispatcher struct {
	sink    Sink
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(sink Sink, logger *slog.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}

	d := &Dispatcher{
		sink:    sink,
		logger:  logger,
		timeout: 5 * time.Second,
		queue:   make(chan Event, buffer),
		done:    make(chan struct{}),
	}
	go d.run()

	return d
}

func (d *Dispatcher) Publish(events ...Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range events {
		if d.closed {
			d.logger.Warn("dropping notification", "user_id", e.UserId, "title", e.Title, "error", ErrDispatcherClosed)
			continue
		}

		select {
		case d.queue <- e:
		default:
			d.logger.Warn("notification queue full, dropping event", "user_id", e.UserId, "title", e.Title)
		}
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *Dispatcher) deliver(e Event) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("notification sink panicked", "user_id", e.UserId, "title", e.Title, "panic", p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.Notify(ctx, e.UserId, e.Title, e.Message); err != nil {
		d.logger.Error("notification delivery failed", "user_id", e.UserId, "title", e.Title, "error", err)
	}
}

// Close stops accepting events and waits until the queue is drained or ctx
// expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

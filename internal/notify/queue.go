// Package notify delivers lifecycle notifications off the request path.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/rs/zerolog"
)

var (
	ErrQueueFull   = errors.New("notification queue is full")
	ErrQueueClosed = errors.New("notification queue is closed")
)

type Handler interface {
	Send(ctx context.Context, n domain.Notification) error
}

type HandlerFunc func(ctx context.Context, n domain.Notification) error

func (f HandlerFunc) Send(ctx context.Context, n domain.Notification) error {
	return f(ctx, n)
}

// Queue is a bounded in-memory queue drained by a fixed pool of workers. Delivery is
// best effort: a full queue drops the notification and nothing is retried.
type Queue struct {
	handler     Handler
	items       chan domain.Notification
	workers     int
	sendTimeout time.Duration
	log         zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithSendTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.sendTimeout = d
		}
	}
}

func NewQueue(handler Handler, size int, log zerolog.Logger, opts ...Option) *Queue {
	if size < 1 {
		size = 1
	}
	q := &Queue{
		handler:     handler,
		items:       make(chan domain.Notification, size),
		workers:     1,
		sendTimeout: 30 * time.Second,
		log:         log,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Start launches the workers. They exit once Close has been called and the queue is drained.
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
}

// Dispatch enqueues n without blocking.
func (q *Queue) Dispatch(ctx context.Context, n domain.Notification) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting notifications and waits for queued ones to be handled or for ctx to end.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.items)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for n := range q.items {
		q.handle(n)
	}
}

func (q *Queue) handle(n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
	defer cancel()

	if err := q.handler.Send(ctx, n); err != nil {
		q.log.Error().
			Err(err).
			Str("notification_id", n.ID).
			Str("kind", string(n.Kind)).
			Str("booking_id", n.BookingID).
			Msg("failed to deliver notification")
	}
}

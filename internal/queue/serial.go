// Package queue provides strictly ordered serial task queues. The engine owns
// two of them: a foreground queue for frames and tap events, and a background
// queue for persistence I/O. A queue is not a thread: a deployment may run
// both on a single goroutine, but each queue processes tasks in submission
// order.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// DefaultCapacity is the default buffer size of the task channel. Buffering
// keeps background submitters (persistence writes) from stalling the frame
// loop.
const DefaultCapacity = 64

// ErrQueueStopped is returned when submitting to a queue whose run loop has
// exited or whose context is done.
var ErrQueueStopped = errors.New("serial queue stopped")

// Serial executes submitted tasks one at a time, in submission order.
type Serial struct {
	name     string
	tasks    chan func()
	capacity int

	runCtx    context.Context
	runCancel context.CancelFunc
	started   atomic.Bool
	stopped   atomic.Bool

	logger *slog.Logger
}

// Option is a functional option for configuring a Serial queue.
type Option func(*Serial)

// WithLogHandler sets a custom slog handler for the queue.
func WithLogHandler(handler slog.Handler) Option {
	return func(q *Serial) {
		if handler != nil {
			q.logger = slog.New(handler).WithGroup("queue." + q.name)
		}
	}
}

// WithCapacity sets the task buffer size. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(q *Serial) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// NewSerial creates a named serial queue.
func NewSerial(name string, opts ...Option) *Serial {
	q := &Serial{
		name:     name,
		capacity: DefaultCapacity,
		logger:   slog.Default().WithGroup("queue." + name),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan func(), q.capacity)
	return q
}

// Run processes tasks until the context is canceled. The task in flight when
// cancellation arrives is allowed to finish; queued tasks behind it are
// dropped.
func (q *Serial) Run(ctx context.Context) error {
	if !q.started.CompareAndSwap(false, true) {
		return fmt.Errorf("queue %q already running", q.name)
	}
	q.runCtx, q.runCancel = context.WithCancel(ctx)
	defer q.runCancel()

	q.logger.Debug("Queue running")
	for {
		select {
		case <-q.runCtx.Done():
			q.stopped.Store(true)
			q.logger.Debug("Queue stopped", "dropped", len(q.tasks))
			return nil
		case task := <-q.tasks:
			task()
		}
	}
}

// Stop cancels the run loop. Safe to call multiple times, and before Run.
func (q *Serial) Stop() {
	q.stopped.Store(true)
	if q.runCancel != nil {
		q.runCancel()
	}
}

// Submit enqueues a task for ordered execution. It blocks only when the queue
// buffer is full, and gives up when either context is done.
func (q *Serial) Submit(ctx context.Context, task func()) error {
	if task == nil {
		return nil
	}
	if q.stopped.Load() {
		return ErrQueueStopped
	}
	select {
	case q.tasks <- task:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrQueueStopped, ctx.Err())
	}
}

// Do enqueues a task and waits until it has run. Used for operations whose
// result must be observed synchronously, like tap dispatch.
func (q *Serial) Do(ctx context.Context, task func()) error {
	done := make(chan struct{})
	err := q.Submit(ctx, func() {
		defer close(done)
		task()
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len reports the number of queued tasks not yet started.
func (q *Serial) Len() int {
	return len(q.tasks)
}

// String returns the queue name.
func (q *Serial) String() string {
	return "queue." + q.name
}

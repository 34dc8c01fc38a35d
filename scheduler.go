package formrig

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Timer is a cancellable delayed task.
type Timer interface {
	// Stop prevents the task from being dispatched. It reports false when the
	// task was already dispatched or stopped.
	Stop() bool
}

// Scheduler is the serialized execution context a form runs on. Tasks are
// executed one at a time, in dispatch order.
type Scheduler interface {
	// Dispatch queues task for execution. It never blocks on task execution.
	Dispatch(task func())

	// AfterFunc dispatches task once d has elapsed, unless stopped first.
	AfterFunc(d time.Duration, task func()) Timer

	// Now returns the scheduler's current time.
	Now() time.Time
}

// Loop is a Scheduler backed by a single goroutine draining an unbounded
// FIFO queue. Tasks may dispatch further tasks.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool

	wake    chan struct{}
	stopped chan struct{}
	logger  zerolog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used to report panicking tasks.
func WithLoopLogger(logger zerolog.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// NewLoop starts a new Loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.run()
	return l
}

// Dispatch queues task. Tasks dispatched after Close are dropped.
func (l *Loop) Dispatch(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()
	l.signal()
}

// AfterFunc dispatches task onto the loop after d.
func (l *Loop) AfterFunc(d time.Duration, task func()) Timer {
	return time.AfterFunc(d, func() {
		l.Dispatch(task)
	})
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Flush blocks until every task queued before the call has run.
func (l *Loop) Flush(ctx context.Context) error {
	done := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.queue = append(l.queue, func() { close(done) })
	l.mu.Unlock()
	l.signal()

	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks. Tasks already queued still run, then the
// goroutine exits. Close does not wait; use Done for that.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()
	l.signal()
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.stopped
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer close(l.stopped)

	for range l.wake {
		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				closed := l.closed
				l.mu.Unlock()
				if closed {
					return
				}
				break
			}
			task := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			l.execute(task)
		}
	}
}

func (l *Loop) execute(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error().Interface("panic", rec).Msg("scheduler task panicked")
		}
	}()
	task()
}

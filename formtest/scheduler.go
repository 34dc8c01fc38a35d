// Package formtest provides a deterministic scheduler for testing forms.
//
// Tasks never run on their own: tests call Drain to run queued tasks and
// Advance to move the virtual clock and fire debounce timers.
//
//	sched := formtest.NewScheduler()
//	form, _ := formrig.NewForm(specs, formrig.WithScheduler(sched))
//	field, _ := form.Field("Email")
//	field.SetValue("jdoe@example.com")
//	sched.Advance(500 * time.Millisecond)
package formtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Azhovan/formrig"
)

// Epoch is the initial virtual time of a Scheduler.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Scheduler is a formrig.Scheduler driven by the test. It is safe for
// concurrent use, but tasks only run inside Drain, Advance and Flush.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	queue  []func()
	timers []*timer
	seq    uint64
	ran    int
}

type timer struct {
	s    *Scheduler
	due  time.Time
	seq  uint64
	task func()
}

// Stop cancels the timer. It reports false when the timer already fired or
// was stopped.
func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i, other := range t.s.timers {
		if other == t {
			t.s.timers = append(t.s.timers[:i], t.s.timers[i+1:]...)
			return true
		}
	}
	return false
}

// NewScheduler returns a Scheduler whose clock starts at Epoch.
func NewScheduler() *Scheduler {
	return &Scheduler{now: Epoch}
}

// Dispatch queues task until the next Drain.
func (s *Scheduler) Dispatch(task func()) {
	if task == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, task)
	s.mu.Unlock()
}

// AfterFunc queues task once the virtual clock reaches Now()+d.
func (s *Scheduler) AfterFunc(d time.Duration, task func()) formrig.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &timer{s: s, due: s.now.Add(d), seq: s.seq, task: task}
	s.timers = append(s.timers, t)
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due.Equal(s.timers[j].due) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due.Before(s.timers[j].due)
	})
	return t
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Drain runs queued tasks, including tasks they dispatch, until the queue
// is empty. It returns the number of tasks run.
func (s *Scheduler) Drain() int {
	n := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return n
		}
		task := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.ran++
		s.mu.Unlock()

		task()
		n++
	}
}

// Advance drains the queue, then moves the clock forward by d, firing due
// timers in order and draining after each one.
func (s *Scheduler) Advance(d time.Duration) {
	s.Drain()

	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.timers) == 0 || s.timers[0].due.After(target) {
			s.now = target
			s.mu.Unlock()
			break
		}
		next := s.timers[0]
		s.timers = s.timers[1:]
		s.now = next.due
		s.queue = append(s.queue, next.task)
		s.mu.Unlock()

		s.Drain()
	}
	s.Drain()
}

// PendingTimers returns the number of armed timers.
func (s *Scheduler) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Ran returns the number of tasks run so far.
func (s *Scheduler) Ran() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// Flush drains the queue. Timers are left armed.
func (s *Scheduler) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Drain()
	return nil
}

package formtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_DrainRunsInOrder(t *testing.T) {
	s := NewScheduler()
	var got []int
	s.Dispatch(func() {
		got = append(got, 1)
		s.Dispatch(func() { got = append(got, 3) })
	})
	s.Dispatch(func() { got = append(got, 2) })

	assert.Equal(t, 2, s.Pending())
	assert.Equal(t, 3, s.Drain())
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 3, s.Ran())
}

func TestScheduler_AdvanceFiresDueTimers(t *testing.T) {
	s := NewScheduler()
	var fired []string
	var at []time.Time
	s.AfterFunc(200*time.Millisecond, func() {
		fired = append(fired, "b")
		at = append(at, s.Now())
	})
	s.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, "a")
		at = append(at, s.Now())
	})
	s.AfterFunc(time.Second, func() { fired = append(fired, "c") })

	s.Advance(500 * time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, []time.Time{Epoch.Add(100 * time.Millisecond), Epoch.Add(200 * time.Millisecond)}, at)
	assert.Equal(t, Epoch.Add(500*time.Millisecond), s.Now())
	assert.Equal(t, 1, s.PendingTimers())
}

func TestScheduler_EqualDeadlinesKeepArmingOrder(t *testing.T) {
	s := NewScheduler()
	var fired []int
	for i := 0; i < 3; i++ {
		i := i
		s.AfterFunc(time.Second, func() { fired = append(fired, i) })
	}
	s.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2}, fired)
}

func TestScheduler_StoppedTimerNeverFires(t *testing.T) {
	s := NewScheduler()
	fired := false
	timer := s.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing to cancel")
	s.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.Equal(t, 0, s.PendingTimers())
}

func TestScheduler_TimerArmedByTimer(t *testing.T) {
	s := NewScheduler()
	var fired []time.Time
	s.AfterFunc(time.Second, func() {
		fired = append(fired, s.Now())
		s.AfterFunc(time.Second, func() { fired = append(fired, s.Now()) })
	})

	s.Advance(3 * time.Second)
	assert.Equal(t, []time.Time{Epoch.Add(time.Second), Epoch.Add(2 * time.Second)}, fired)
}

func TestScheduler_Flush(t *testing.T) {
	s := NewScheduler()
	ran := false
	s.Dispatch(func() { ran = true })
	require.NoError(t, s.Flush(context.Background()))
	assert.True(t, ran)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Flush(ctx), context.Canceled)
}

package polling

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestScheduler_Schedule(t *testing.T) {
	t.Run("past due runs immediately", func(t *testing.T) {
		s := NewScheduler(nil, time.Second)
		defer s.Stop()

		var runs atomic.Int32
		s.Schedule("poll", time.Now().Add(-time.Hour), func(context.Context) error {
			runs.Add(1)
			return nil
		})

		waitFor(t, time.Second, func() bool { return runs.Load() == 1 })
		if s.Pending("poll") {
			t.Error("past due task left an armed timer")
		}
	})

	t.Run("future task waits for its time", func(t *testing.T) {
		s := NewScheduler(nil, time.Second)
		defer s.Stop()

		fired := make(chan time.Time, 1)
		at := time.Now().Add(50 * time.Millisecond)
		s.Schedule("poll", at, func(context.Context) error {
			fired <- time.Now()
			return nil
		})

		if !s.Pending("poll") {
			t.Fatal("task is not pending")
		}

		select {
		case firedAt := <-fired:
			if firedAt.Before(at) {
				t.Errorf("task fired at %v, before %v", firedAt, at)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("task never fired")
		}
		waitFor(t, time.Second, func() bool { return !s.Pending("poll") })
	})

	t.Run("rescheduling replaces the timer", func(t *testing.T) {
		s := NewScheduler(nil, time.Second)
		defer s.Stop()

		var first, second atomic.Int32
		s.Schedule("poll", time.Now().Add(30*time.Millisecond), func(context.Context) error {
			first.Add(1)
			return nil
		})
		s.Schedule("poll", time.Now().Add(30*time.Millisecond), func(context.Context) error {
			second.Add(1)
			return nil
		})

		if s.Len() != 1 {
			t.Errorf("Len() = %d, want 1", s.Len())
		}
		waitFor(t, 2*time.Second, func() bool { return second.Load() == 1 })
		time.Sleep(50 * time.Millisecond)
		if first.Load() != 0 {
			t.Error("replaced task still ran")
		}
	})
}

func TestScheduler_FailuresAreContained(t *testing.T) {
	s := NewScheduler(nil, time.Second)
	defer s.Stop()

	var after atomic.Int32
	s.Schedule("panics", time.Now(), func(context.Context) error {
		panic("boom")
	})
	s.Schedule("fails", time.Now(), func(context.Context) error {
		return errors.New("store unavailable")
	})
	s.Schedule("runs", time.Now().Add(10*time.Millisecond), func(context.Context) error {
		after.Add(1)
		return nil
	})

	waitFor(t, time.Second, func() bool { return after.Load() == 1 })
}

func TestScheduler_TaskTimeout(t *testing.T) {
	s := NewScheduler(nil, 20*time.Millisecond)
	defer s.Stop()

	done := make(chan error, 1)
	s.Schedule("slow", time.Now(), func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("ctx.Err() = %v, want DeadlineExceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("task context was never cancelled")
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := NewScheduler(nil, time.Second)

	var runs atomic.Int32
	s.Schedule("poll", time.Now().Add(30*time.Millisecond), func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Stop()

	s.Schedule("late", time.Now(), func(context.Context) error {
		runs.Add(1)
		return nil
	})

	time.Sleep(80 * time.Millisecond)
	if runs.Load() != 0 {
		t.Errorf("%d tasks ran after Stop", runs.Load())
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Stop", s.Len())
	}
}

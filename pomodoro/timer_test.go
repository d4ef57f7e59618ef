package pomodoro

import (
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
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNewDefaults(t *testing.T) {
	timer := New(Config{})
	snap := timer.Snapshot()
	if snap.Mode != ModeWork || snap.Running {
		t.Fatalf("unexpected initial state: %+v", snap)
	}
	if snap.Remaining != 25*60 {
		t.Fatalf("expected full work duration, got %d", snap.Remaining)
	}
}

func TestCompletionFlipsModeExactlyOnce(t *testing.T) {
	transitions := make(chan Mode, 10)
	timer := New(Config{
		Work:         3 * time.Second,
		Break:        2 * time.Second,
		TickInterval: time.Millisecond,
		OnTransition: func(next Mode) { transitions <- next },
	})

	timer.Start()

	select {
	case next := <-transitions:
		if next != ModeBreak {
			t.Fatalf("expected transition to break, got %s", next)
		}
	case <-time.After(time.Second):
		t.Fatal("timer never completed")
	}

	snap := timer.Snapshot()
	if snap.Running {
		t.Fatal("timer must stop at zero")
	}
	if snap.Mode != ModeBreak || snap.Remaining != 2 {
		t.Fatalf("expected break mode at full break duration, got %+v", snap)
	}

	// No double-fire from overlapping tickers.
	select {
	case m := <-transitions:
		t.Fatalf("unexpected second transition: %s", m)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBreakCompletionFlipsBackToWork(t *testing.T) {
	transitions := make(chan Mode, 10)
	timer := New(Config{
		Work:         2 * time.Second,
		Break:        2 * time.Second,
		TickInterval: time.Millisecond,
		OnTransition: func(next Mode) { transitions <- next },
	})

	timer.Start()
	if next := <-transitions; next != ModeBreak {
		t.Fatalf("expected break first, got %s", next)
	}
	timer.Start()
	if next := <-transitions; next != ModeWork {
		t.Fatalf("expected work after break, got %s", next)
	}
	if snap := timer.Snapshot(); snap.Remaining != 2 {
		t.Fatalf("expected full work duration restored, got %+v", snap)
	}
}

func TestPauseStopsTicking(t *testing.T) {
	timer := New(Config{Work: time.Hour, TickInterval: time.Millisecond})
	timer.Start()

	waitFor(t, time.Second, func() bool {
		return timer.Snapshot().Remaining < 3600
	})

	timer.Pause()
	snap := timer.Snapshot()
	if snap.Running {
		t.Fatal("pause must clear the running flag")
	}

	time.Sleep(20 * time.Millisecond)
	if got := timer.Snapshot().Remaining; got != snap.Remaining {
		t.Fatalf("paused timer still ticking: %d -> %d", snap.Remaining, got)
	}
}

func TestResetRestoresModeDurationWithoutFlip(t *testing.T) {
	timer := New(Config{Work: time.Hour, Break: time.Minute, TickInterval: time.Millisecond})
	timer.Start()
	waitFor(t, time.Second, func() bool {
		return timer.Snapshot().Remaining < 3600
	})

	timer.Reset()
	snap := timer.Snapshot()
	if snap.Running {
		t.Fatal("reset must stop the timer")
	}
	if snap.Mode != ModeWork {
		t.Fatal("reset must not flip mode")
	}
	if snap.Remaining != 3600 {
		t.Fatalf("reset must restore the full duration, got %d", snap.Remaining)
	}
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	transitions := make(chan Mode, 10)
	timer := New(Config{
		Work:         5 * time.Second,
		TickInterval: time.Millisecond,
		OnTransition: func(next Mode) { transitions <- next },
	})

	timer.Start()
	timer.Start()
	timer.Start()

	if next := <-transitions; next != ModeBreak {
		t.Fatalf("unexpected transition: %s", next)
	}
	select {
	case m := <-transitions:
		t.Fatalf("duplicate start produced extra transition: %s", m)
	case <-time.After(20 * time.Millisecond):
	}
}

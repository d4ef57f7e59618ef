// Package pomodoro implements the focus/break countdown. State is local to
// one timer instance and never persisted.
package pomodoro

import (
	"sync"
	"time"
)

// Mode is the current phase of the countdown.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// Fixed product durations.
const (
	DefaultWorkDuration  = 25 * time.Minute
	DefaultBreakDuration = 5 * time.Minute
)

// Config tunes a Timer. Zero values fall back to the product defaults; the
// tick interval is overridable so tests do not wait on wall-clock seconds.
type Config struct {
	Work         time.Duration
	Break        time.Duration
	TickInterval time.Duration

	// OnTransition fires exactly once each time the countdown reaches zero,
	// with the mode that is about to begin.
	OnTransition func(next Mode)
}

// Timer is a work/break countdown. While running it decrements once per
// tick; at zero it stops, flips mode, resets to the new mode's duration and
// fires the transition callback.
type Timer struct {
	mu           sync.Mutex
	workSecs     int
	breakSecs    int
	tick         time.Duration
	onTransition func(Mode)

	mode      Mode
	remaining int
	running   bool
	stopCh    chan struct{}
}

// Snapshot is a point-in-time view of the timer.
type Snapshot struct {
	Mode      Mode `json:"mode"`
	Remaining int  `json:"remaining"`
	Running   bool `json:"running"`
}

// New creates a stopped Timer in work mode at the full work duration.
func New(cfg Config) *Timer {
	if cfg.Work <= 0 {
		cfg.Work = DefaultWorkDuration
	}
	if cfg.Break <= 0 {
		cfg.Break = DefaultBreakDuration
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	t := &Timer{
		workSecs:     int(cfg.Work / time.Second),
		breakSecs:    int(cfg.Break / time.Second),
		tick:         cfg.TickInterval,
		onTransition: cfg.OnTransition,
		mode:         ModeWork,
	}
	t.remaining = t.workSecs
	return t
}

// Start begins ticking. Starting a running timer is a no-op, so overlapping
// tickers cannot exist.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.remaining <= 0 {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	go t.run(t.stopCh)
}

// Pause stops ticking without touching the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the timer and restores the current mode's full duration
// without flipping mode.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.remaining = t.durationSecs(t.mode)
}

// Close releases the tick goroutine. The timer may be restarted afterwards.
func (t *Timer) Close() {
	t.Pause()
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{Mode: t.mode, Remaining: t.remaining, Running: t.running}
}

func (t *Timer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.step() {
				return
			}
		}
	}
}

// step applies one tick. It returns true when the goroutine should exit,
// either because the timer was paused or the countdown completed.
func (t *Timer) step() bool {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return true
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}

	t.running = false
	t.stopCh = nil
	next := ModeBreak
	if t.mode == ModeBreak {
		next = ModeWork
	}
	t.mode = next
	t.remaining = t.durationSecs(next)
	cb := t.onTransition
	t.mu.Unlock()

	if cb != nil {
		cb(next)
	}
	return true
}

func (t *Timer) stopLocked() {
	if !t.running {
		return
	}
	t.running = false
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

func (t *Timer) durationSecs(m Mode) int {
	if m == ModeBreak {
		return t.breakSecs
	}
	return t.workSecs
}

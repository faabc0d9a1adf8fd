package control

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// A Timer is a stopwatch. It accumulates time while running and keeps the accumulated time when
// stopped.
type Timer struct {
	clk clock.Clock

	mu          sync.Mutex
	start       time.Time
	accumulated time.Duration
	running     bool
}

// NewTimer returns a stopped timer at zero.
func NewTimer(clk clock.Clock) *Timer {
	return &Timer{clk: clk, start: clk.Now()}
}

// Get returns the accumulated time, including the current run if the timer is running.
func (t *Timer) Get() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getLocked()
}

func (t *Timer) getLocked() time.Duration {
	if t.running {
		return t.accumulated + t.clk.Since(t.start)
	}
	return t.accumulated
}

// Reset sets the accumulated time to zero. A running timer keeps running from now.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accumulated = 0
	t.start = t.clk.Now()
}

// Start starts the timer. Starting a running timer does nothing.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		t.start = t.clk.Now()
		t.running = true
	}
}

// Stop stops the timer, keeping the time accumulated so far.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accumulated = t.getLocked()
	t.running = false
}

// HasElapsed reports whether at least d has accumulated.
func (t *Timer) HasElapsed(d time.Duration) bool {
	return t.Get() >= d
}

// Running reports whether the timer is running.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Package flourish is a self-expiring visibility flag for the celebratory
// confetti shown after a like.
package flourish

import (
	"sync"
	"time"
)

// DefaultDuration is how long the flourish stays visible.
const DefaultDuration = 5 * time.Second

// Timer shows the flourish for a fixed duration. Triggering while visible
// restarts the single pending dismissal instead of stacking another one.
type Timer struct {
	mu       sync.Mutex
	duration time.Duration
	active   bool
	until    time.Time
	timer    *time.Timer
	gen      uint64
}

func New(d time.Duration) *Timer {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Timer{duration: d}
}

// Trigger makes the flourish visible until the duration elapses.
func (t *Timer) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.active = true
	t.until = time.Now().Add(t.duration)
	t.timer = time.AfterFunc(t.duration, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// a stale callback that lost the race with Stop or Trigger
		if gen != t.gen {
			return
		}
		t.active = false
		t.timer = nil
	})
}

// Active reports whether the flourish is showing.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Remaining is the time left before dismissal, zero when not showing.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return 0
	}
	if left := time.Until(t.until); left > 0 {
		return left
	}
	return 0
}

// Stop dismisses the flourish immediately. Safe to call repeatedly.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.active = false
}

package poll

import (
	"sync"
	"time"
)

// ManualClock is a virtual clock that moves only when something waits on it.
// Every After call advances the clock by d, runs OnAdvance, and returns an
// already-fired channel, so polling loops run without real sleeps.
type ManualClock struct {
	mu    sync.Mutex
	now   time.Time
	waits int

	// OnAdvance is called after each advance with the new time and the
	// number of waits so far.
	OnAdvance func(now time.Time, waits int)
}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current virtual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After advances the clock by d and returns a channel holding the new time.
func (c *ManualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.waits++
	now, waits, hook := c.now, c.waits, c.OnAdvance
	c.mu.Unlock()

	if hook != nil {
		hook(now, waits)
	}
	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

// Waits reports how many times After has been called.
func (c *ManualClock) Waits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waits
}

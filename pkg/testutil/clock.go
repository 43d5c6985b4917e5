package testutil

import (
	"sync"
	"time"
)

// FixedClock returns the same instant on every call until advanced. Tests use
// it to pin SLA and escalation math to a known business day.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock pins the clock to the given instant.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set replaces the pinned instant.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

package ledger

import (
	"sync"
	"time"
)

// monotonicClock never hands out a timestamp earlier than the previous one.
// Stamps are truncated to microseconds, the resolution of TIMESTAMPTZ, so a stored
// operation reads back exactly as it was returned.
type monotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newMonotonicClock(now func() time.Time) *monotonicClock {
	if now == nil {
		now = time.Now
	}
	return &monotonicClock{now: now}
}

func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}

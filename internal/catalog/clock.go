package catalog

import (
	"sync"
	"time"
)

// Clock stamps record timestamps.
type Clock interface {
	Now() time.Time
}

// WallClock is a millisecond clock that never repeats or goes backwards.
//
// Timestamps are persisted as Unix milliseconds, so two mutations within the
// same millisecond would otherwise share an UpdatedAt. WallClock bumps the
// value by one millisecond in that case, which keeps UpdatedAt strictly
// increasing across consecutive updates.
//
// Thread-safety: WallClock is safe for concurrent use.
type WallClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewWallClock creates a clock backed by time.Now.
func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Now returns the next timestamp, truncated to milliseconds.
func (c *WallClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return time.UnixMilli(ms)
}

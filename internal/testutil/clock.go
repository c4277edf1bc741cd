package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first timestamp returned by a fresh StepClock
// (2023-11-14T22:13:20Z).
const DefaultEpoch int64 = 1_700_000_000_000

// StepClock is a deterministic catalog.Clock for tests.
//
// Every call to Now advances by a fixed step, so timestamps are predictable
// and strictly increasing. This keeps golden exports byte-stable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	next int64
	step int64
}

// NewStepClock creates a clock starting at DefaultEpoch advancing one second
// per call.
func NewStepClock() *StepClock {
	return NewStepClockAt(DefaultEpoch, time.Second)
}

// NewStepClockAt creates a clock starting at startMillis advancing by step.
func NewStepClockAt(startMillis int64, step time.Duration) *StepClock {
	return &StepClock{next: startMillis, step: step.Milliseconds()}
}

// Now returns the current timestamp and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.UnixMilli(c.next)
	c.next += c.step
	return t
}

// Peek returns the timestamp the next call to Now will return.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.UnixMilli(c.next)
}

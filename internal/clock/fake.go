package clock

import "time"

// FakeClock is a manually driven Clock. Tests advance it to simulate a
// usage session's duration instead of sleeping.
type FakeClock struct {
	now time.Time
}

// NewFakeClock starts the clock at t, normalized to UTC like the
// system clock.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d. Not safe for concurrent use;
// tests drive it from a single goroutine.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

package portfolio

import (
	"sync"
	"time"
)

// Clock supplies creation timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// MonotonicClock wraps a Clock so that successive readings are strictly
// increasing at microsecond precision, the resolution Postgres keeps. Each
// reading is rounded up to the next microsecond so it is never earlier than
// the underlying time.
type MonotonicClock struct {
	mu   sync.Mutex
	base Clock
	last time.Time
}

// NewMonotonicClock wraps base. A nil base uses the system clock.
func NewMonotonicClock(base Clock) *MonotonicClock {
	if base == nil {
		base = ClockFunc(time.Now)
	}
	return &MonotonicClock{base: base}
}

func (c *MonotonicClock) Now() time.Time {
	now := ceilMicro(c.base.Now().UTC())

	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}

func ceilMicro(t time.Time) time.Time {
	r := t.Truncate(time.Microsecond)
	if r.Before(t) {
		r = r.Add(time.Microsecond)
	}
	return r
}

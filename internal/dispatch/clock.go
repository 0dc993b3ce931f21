package dispatch

import (
	"sync/atomic"
	"time"
)

// Clock is a monotonic logical clock. Every applied event is stamped with
// Next, so ordering never depends on wall time.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock whose first Next is 1.
func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// FrameClock supplies frame times for events that do not carry one.
type FrameClock interface {
	Now() time.Time
}

// SystemFrames is the wall clock.
type SystemFrames struct{}

func (SystemFrames) Now() time.Time { return time.Now() }

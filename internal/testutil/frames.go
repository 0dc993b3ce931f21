package testutil

import (
	"sync"
	"time"
)

// ManualFrames is a frame clock that only moves when told to.
//
// It satisfies dispatch.FrameClock, so a test can drive fling sampling
// frame by frame and get identical frame times on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualFrames struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualFrames creates a frame clock stopped at start.
func NewManualFrames(start time.Time) *ManualFrames {
	return &ManualFrames{now: start}
}

// Now returns the current frame time.
func (f *ManualFrames) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d and returns the new time.
func (f *ManualFrames) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}

// Set jumps to t.
func (f *ManualFrames) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timeslider/internal/calendar"
)

var (
	minute = calendar.Of(calendar.Minute)
	t0     = calendar.FromTime(time.Date(2024, time.March, 15, 10, 42, 0, 0, time.UTC))
	start  = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
)

func newEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e := NewEngine(cfg)
	e.SetTime(t0)
	return e
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in     string
		want   Orientation
		wantOK bool
	}{
		{"up", Up, true},
		{"DOWN", Down, true},
		{" left", Left, true},
		{"right", Right, true},
		{"sideways", Down, false},
	}
	for _, tt := range tests {
		got, ok := ParseOrientation(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestOrientation_Axis(t *testing.T) {
	assert.Equal(t, -1, Up.AxisSign())
	assert.Equal(t, 1, Down.AxisSign())
	assert.Equal(t, -1, Left.AxisSign())
	assert.Equal(t, 1, Right.AxisSign())
	assert.True(t, Left.Horizontal())
	assert.False(t, Down.Horizontal())
	assert.Equal(t, "right", Right.String())
}

func TestEngine_MillisPerPixel(t *testing.T) {
	e := newEngine(t, nil)
	// 60000 ms per minute over a 60 px item height.
	assert.Equal(t, 1000.0, e.MillisPerPixel(minute))

	h := newEngine(t, func(c *Config) { c.Orientation = Left; c.Speed = 2 })
	// 2 × 60000 / 150
	assert.Equal(t, 800.0, h.MillisPerPixel(minute))
	assert.Equal(t, 150, h.PixelsPerUnit())

	decade := calendar.Granularity{Unit: calendar.Year, Factor: 10}
	assert.Equal(t, float64(calendar.ApproxMillis(calendar.Year))*10/60, e.MillisPerPixel(decade))
}

func TestEngine_DragMinuteEndToEnd(t *testing.T) {
	e := newEngine(t, nil)
	e.Begin(minute, "s1")

	// 90 px × 1000 ms/px = +90000 ms
	got, changed := e.ApplyDrag(minute, 90, 1)

	assert.True(t, changed)
	assert.Equal(t, t0+60_000, got)
	assert.Equal(t, 0, got.Time().Second())
	assert.Equal(t, 0, got.Time().Nanosecond())
	assert.Equal(t, t0+90_000, e.Session().Continuous)
}

func TestEngine_DragReversible(t *testing.T) {
	for _, o := range []Orientation{Up, Down, Left, Right} {
		t.Run(o.String(), func(t *testing.T) {
			e := newEngine(t, func(c *Config) { c.Orientation = o })
			e.Begin(minute, "s1")

			_, changed := e.Drag(minute, 200, 200)
			require.True(t, changed)
			got, _ := e.Drag(minute, -200, -200)

			assert.Equal(t, t0, got)
		})
	}
}

func TestEngine_DragDirection(t *testing.T) {
	e := newEngine(t, func(c *Config) { c.Orientation = Left })
	e.Begin(minute, "s1")

	// 30 px × 400 ms/px backwards lands in the previous minute.
	got, changed := e.Drag(minute, 30, 999)

	assert.True(t, changed)
	assert.Equal(t, t0-60_000, got)
}

func TestEngine_SmallDragWithinUnitUnchanged(t *testing.T) {
	e := newEngine(t, nil)
	e.Begin(minute, "s1")

	got, changed := e.Drag(minute, 0, 10)

	assert.False(t, changed)
	assert.Equal(t, t0, got)
}

func TestEngine_NoScaleIsNoop(t *testing.T) {
	e := newEngine(t, func(c *Config) { c.ItemHeight = 0 })
	e.Begin(minute, "s1")

	got, changed := e.Drag(minute, 0, 500)
	assert.False(t, changed)
	assert.Equal(t, t0, got)

	assert.False(t, e.Fling(minute, 0, -1000, start))
	assert.False(t, e.Flinging())
}

func TestEngine_DragWithoutSessionIsNoop(t *testing.T) {
	e := newEngine(t, nil)

	got, changed := e.Drag(minute, 0, 500)

	assert.False(t, changed)
	assert.Equal(t, t0, got)
}

func TestTrajectory(t *testing.T) {
	decel := Deceleration(DefaultPPI, DefaultFriction)
	assert.InDelta(t, 926.6, decel, 0.1)

	tr := NewTrajectory(start, 1000, decel)
	assert.InDelta(t, 1000/decel, tr.Duration().Seconds(), 1e-6)
	assert.InDelta(t, 1e6/(2*decel), float64(tr.Distance()), 1)

	off, done := tr.Offset(start)
	assert.Equal(t, 0, off)
	assert.False(t, done)

	off, done = tr.Offset(start.Add(100 * time.Millisecond))
	assert.Equal(t, 95, off)
	assert.False(t, done)

	off, done = tr.Offset(start.Add(10 * time.Second))
	assert.Equal(t, tr.Distance(), off)
	assert.True(t, done)

	back := NewTrajectory(start, -1000, decel)
	assert.Equal(t, -tr.Distance(), back.Distance())
}

func TestEngine_Fling(t *testing.T) {
	e := newEngine(t, nil)
	e.Begin(minute, "s1")

	// Down orientation inverts the vertical velocity.
	require.True(t, e.Fling(minute, 0, -1000, start))
	require.True(t, e.Flinging())

	got, changed, running := e.Sample(minute, start.Add(100*time.Millisecond))
	assert.True(t, changed)
	assert.True(t, running)
	assert.Equal(t, t0+60_000, got)

	got, changed, running = e.Sample(minute, start.Add(10*time.Second))
	assert.True(t, changed)
	assert.False(t, running)
	assert.Equal(t, t0+9*60_000, got)
	assert.False(t, e.Flinging())

	_, changed, running = e.Sample(minute, start.Add(11*time.Second))
	assert.False(t, changed)
	assert.False(t, running)
}

func TestEngine_BeginCancelsFling(t *testing.T) {
	e := newEngine(t, nil)
	require.True(t, e.Fling(minute, 0, 1000, start))

	e.Begin(minute, "s2")

	assert.False(t, e.Flinging())
	assert.Equal(t, "s2", e.Session().Token)
}

func TestEngine_StopAndEnd(t *testing.T) {
	e := newEngine(t, nil)
	e.Begin(minute, "s1")
	require.True(t, e.Fling(minute, 0, 1000, start))

	e.End()
	assert.Nil(t, e.Session())
	assert.True(t, e.Flinging())

	e.Stop()
	assert.False(t, e.Flinging())
}

func TestEngine_ZeroVelocityFling(t *testing.T) {
	e := newEngine(t, func(c *Config) { c.Orientation = Right })
	assert.False(t, e.Fling(minute, 0, 1000, start))
}

// Package scroll turns drag and fling gestures into changes of a discrete
// calendar time.
//
// An Engine owns the discrete time of one scrollable. A gesture session
// tracks a continuous, unquantized time that accumulates raw pixel deltas;
// after every delta the fields of the continuous time that are coarser than
// or equal to the active unit are cascaded onto the discrete time. A fling
// runs a Trajectory whose offset is sampled on every display refresh and
// mapped through the same cascade.
package scroll

import (
	"time"

	"github.com/roach88/timeslider/internal/calendar"
)

// Config holds the layout and kinematic parameters of an engine.
type Config struct {
	Orientation Orientation
	// Speed multiplies the time scrolled per pixel.
	Speed float64
	// ItemWidth and ItemHeight are the item box in pixels. The one along
	// the scroll axis is the pixels-per-unit scale.
	ItemWidth  int
	ItemHeight int
	// Friction and PPI determine the fling deceleration.
	Friction float64
	PPI      float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Orientation: Down,
		Speed:       1.0,
		ItemWidth:   150,
		ItemHeight:  60,
		Friction:    DefaultFriction,
		PPI:         DefaultPPI,
	}
}

// Session is the state of one press-to-release gesture.
type Session struct {
	Token string
	// Origin is the discrete time when the session began.
	Origin calendar.Instant
	// Continuous accumulates the unquantized drag position.
	Continuous calendar.Instant
	// MillisPerPixel is the scale fixed at session start.
	MillisPerPixel float64
	// Manual is set once the first drag of the session has been applied.
	Manual bool
}

type fling struct {
	traj   *Trajectory
	origin calendar.Instant
	mpp    float64
}

// Engine maps gestures onto a discrete time. It is not safe for concurrent
// use.
type Engine struct {
	cfg     Config
	time    calendar.Instant
	session *Session
	fling   *fling
}

// NewEngine returns an engine at time 0.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Time returns the discrete time.
func (e *Engine) Time() calendar.Instant { return e.time }

// SetTime replaces the discrete time. A running session or fling keeps its
// own origin.
func (e *Engine) SetTime(t calendar.Instant) { e.time = t }

// Session returns the active session, or nil.
func (e *Engine) Session() *Session { return e.session }

// Flinging reports whether a fling trajectory is running.
func (e *Engine) Flinging() bool { return e.fling != nil }

// PixelsPerUnit is the item size along the scroll axis.
func (e *Engine) PixelsPerUnit() int {
	if e.cfg.Orientation.Horizontal() {
		return e.cfg.ItemWidth
	}
	return e.cfg.ItemHeight
}

// MillisPerPixel returns the time scrolled by one pixel for g, or 0 when the
// pixel scale is not known yet.
func (e *Engine) MillisPerPixel(g calendar.Granularity) float64 {
	ppu := e.PixelsPerUnit()
	if ppu <= 0 {
		return 0
	}
	factor := g.Factor
	if factor < 1 {
		factor = 1
	}
	return e.cfg.Speed * float64(calendar.ApproxMillis(g.Unit)) * float64(factor) / float64(ppu)
}

// Begin starts a gesture session at the current discrete time. Any running
// fling is cancelled.
func (e *Engine) Begin(g calendar.Granularity, token string) *Session {
	e.fling = nil
	e.session = &Session{
		Token:          token,
		Origin:         e.time,
		Continuous:     e.time,
		MillisPerPixel: e.MillisPerPixel(g),
	}
	return e.session
}

// End discards the session. A fling started from it keeps running.
func (e *Engine) End() {
	e.session = nil
}

// Stop cancels a running fling.
func (e *Engine) Stop() {
	e.fling = nil
}

// ApplyDrag moves the continuous time by axisSign × distance pixels and
// cascades it onto the discrete time. It reports the new discrete time and
// whether it changed. Without a session or a pixel scale it is a no-op.
func (e *Engine) ApplyDrag(g calendar.Granularity, distance float64, axisSign int) (calendar.Instant, bool) {
	s := e.session
	if s == nil || s.MillisPerPixel == 0 {
		return e.time, false
	}
	s.Continuous += calendar.Instant(int64(float64(axisSign) * distance * s.MillisPerPixel))
	return e.update(s.Continuous, g)
}

// Drag applies a scroll distance reported by the gesture source, picking the
// component along the scroll axis and its sign from the orientation.
func (e *Engine) Drag(g calendar.Granularity, dx, dy float64) (calendar.Instant, bool) {
	d := dy
	if e.cfg.Orientation.Horizontal() {
		d = dx
	}
	return e.ApplyDrag(g, d, e.cfg.Orientation.AxisSign())
}

// Fling starts a decelerating trajectory from the current discrete time. It
// reports false when no pixel scale is known or the velocity along the axis
// is zero.
func (e *Engine) Fling(g calendar.Granularity, vx, vy float64, now time.Time) bool {
	mpp := e.MillisPerPixel(g)
	if mpp == 0 {
		return false
	}
	var v float64
	switch e.cfg.Orientation {
	case Left:
		v = vx
	case Right:
		v = -vx
	case Up:
		v = vy
	case Down:
		v = -vy
	}
	if v == 0 {
		return false
	}
	friction := e.cfg.Friction
	if friction <= 0 {
		friction = DefaultFriction
	}
	ppi := e.cfg.PPI
	if ppi <= 0 {
		ppi = DefaultPPI
	}
	e.fling = &fling{
		traj:   NewTrajectory(now, v, Deceleration(ppi, friction)),
		origin: e.time,
		mpp:    mpp,
	}
	return true
}

// Sample advances a running fling to now. It returns the discrete time,
// whether it changed and whether the fling is still running afterwards.
func (e *Engine) Sample(g calendar.Granularity, now time.Time) (t calendar.Instant, changed, running bool) {
	f := e.fling
	if f == nil {
		return e.time, false, false
	}
	offset, done := f.traj.Offset(now)
	if done {
		e.fling = nil
	}
	continuous := f.origin + calendar.Instant(int64(f.mpp*float64(offset)))
	t, changed = e.update(continuous, g)
	return t, changed, !done
}

func (e *Engine) update(continuous calendar.Instant, g calendar.Granularity) (calendar.Instant, bool) {
	next := calendar.Cascade(e.time, continuous, g)
	changed := next != e.time
	e.time = next
	return next, changed
}

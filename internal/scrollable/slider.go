package scrollable

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/cycle"
	"github.com/roach88/timeslider/internal/format"
	"github.com/roach88/timeslider/internal/scroll"
)

// Slider is a leaf TimeScrollable.
type Slider struct {
	name        string
	start       calendar.Instant
	engine      *scroll.Engine
	cycle       *cycle.Cycle
	zone        *time.Location
	locale      language.Tag
	formatter   *format.Formatter
	listener    Listener
	itemsBefore int
	itemsAfter  int
	logger      *slog.Logger
}

// Option configures a Slider.
type Option func(*Slider)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Slider) { s.logger = l }
}

// WithCycle sets the unit cycle. The default is second, minute, hour.
func WithCycle(c *cycle.Cycle) Option {
	return func(s *Slider) { s.cycle = c }
}

// WithScroll sets the layout and kinematic parameters.
func WithScroll(cfg scroll.Config) Option {
	return func(s *Slider) { s.engine = scroll.NewEngine(cfg) }
}

// WithItems sets how many neighbor items Items returns.
func WithItems(before, after int) Option {
	return func(s *Slider) {
		s.itemsBefore = max(before, 0)
		s.itemsAfter = max(after, 0)
	}
}

// WithTime sets the initial time.
func WithTime(t calendar.Instant) Option {
	return func(s *Slider) { s.start = t }
}

// WithZone sets the display time zone.
func WithZone(zone *time.Location) Option {
	return func(s *Slider) { s.zone = zone }
}

// WithLocale sets the display language.
func WithLocale(tag language.Tag) Option {
	return func(s *Slider) { s.locale = tag }
}

// NewSlider returns a slider at time 0.
func NewSlider(name string, opts ...Option) *Slider {
	s := &Slider{
		name:        name,
		engine:      scroll.NewEngine(scroll.DefaultConfig()),
		cycle:       cycle.Build(nil, nil, nil),
		zone:        time.UTC,
		locale:      language.English,
		itemsBefore: 2,
		itemsAfter:  2,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine.SetTime(s.start)
	s.formatter = format.New(s.zone, s.locale)
	return s
}

func (s *Slider) Name() string { return s.name }

// SetListener replaces the listener and immediately reports the current
// time to it.
func (s *Slider) SetListener(l Listener) {
	s.listener = l
	if l != nil {
		l.OnTimeScroll(s.engine.Time(), s)
	}
}

func (s *Slider) Time() calendar.Instant { return s.engine.Time() }

func (s *Slider) SetTime(t calendar.Instant) { s.engine.SetTime(t) }

func (s *Slider) SetTimeZone(zone *time.Location) {
	if zone == nil {
		zone = time.UTC
	}
	s.zone = zone
	s.formatter = format.New(s.zone, s.locale)
}

func (s *Slider) SetLocale(tag language.Tag) {
	s.locale = tag
	s.formatter = format.New(s.zone, s.locale)
}

// CycleTimeUnits advances to the next unit, quantizes the time onto it and
// reports both the time and the unit change, even if the time is
// unchanged.
func (s *Slider) CycleTimeUnits() {
	spec, ok := s.cycle.Advance()
	if !ok {
		return
	}
	s.engine.SetTime(calendar.Quantize(s.engine.Time(), spec.Granularity))
	s.logger.Debug("unit cycled", "slider", s.name, "unit", spec.Key, "time", s.engine.Time())
	s.notifyScroll()
	s.notifyUnit()
}

func (s *Slider) ResetScrolling() {
	s.cycle.Reset()
}

func (s *Slider) CurrentScrollUnitName() string {
	spec, _ := s.cycle.Current()
	return spec.Name
}

func (s *Slider) NextScrollUnitName() string {
	spec, _ := s.cycle.Next()
	return spec.Name
}

// Unit returns the active unit spec.
func (s *Slider) Unit() (cycle.UnitSpec, bool) {
	return s.cycle.Current()
}

// Flinging reports whether a fling is running.
func (s *Slider) Flinging() bool {
	return s.engine.Flinging()
}

// PressStart begins a gesture session. It cancels any running fling.
func (s *Slider) PressStart(token string) {
	spec, ok := s.cycle.Current()
	if !ok {
		return
	}
	sess := s.engine.Begin(spec.Granularity, token)
	s.logger.Debug("gesture started", "slider", s.name, "session", token, "millis_per_pixel", sess.MillisPerPixel)
}

// Release ends the gesture session. A fling keeps running.
func (s *Slider) Release() {
	s.engine.End()
}

// Drag applies a scroll distance from the gesture source. The first drag
// of a session switches into manual mode: the time is quantized onto the
// active unit and the host is told which slider is now in control. It
// reports whether the time changed.
func (s *Slider) Drag(dx, dy float64) bool {
	spec, ok := s.cycle.Current()
	sess := s.engine.Session()
	if !ok || sess == nil {
		return false
	}
	// Without a pixel scale a drag cannot move the time, so it does not
	// enter manual mode either.
	if sess.MillisPerPixel == 0 {
		return false
	}
	if !sess.Manual {
		sess.Manual = true
		t := calendar.Quantize(s.engine.Time(), spec.Granularity)
		s.engine.SetTime(t)
		sess.Continuous = t
		s.logger.Debug("manual mode", "slider", s.name, "session", sess.Token, "unit", spec.Key)
		s.notifyScroll()
		s.notifyUnit()
	}
	_, changed := s.engine.Drag(spec.Granularity, dx, dy)
	if changed {
		s.notifyScroll()
	}
	return changed
}

// Fling starts an inertial scroll with the release velocity in pixels per
// second. It reports whether a trajectory was started.
func (s *Slider) Fling(vx, vy float64, now time.Time) bool {
	spec, ok := s.cycle.Current()
	if !ok {
		return false
	}
	started := s.engine.Fling(spec.Granularity, vx, vy, now)
	if started {
		s.logger.Debug("fling started", "slider", s.name, "vx", vx, "vy", vy)
	}
	return started
}

// Tick samples a running fling at now and reports whether it is still
// running.
func (s *Slider) Tick(now time.Time) bool {
	spec, ok := s.cycle.Current()
	if !ok || !s.engine.Flinging() {
		return false
	}
	_, changed, running := s.engine.Sample(spec.Granularity, now)
	if changed {
		s.notifyChanged()
	}
	if !running {
		s.logger.Debug("fling settled", "slider", s.name, "time", s.engine.Time())
	}
	return running
}

// StopFling cancels a running fling.
func (s *Slider) StopFling() {
	s.engine.Stop()
}

// SingleTap makes this slider the active one.
func (s *Slider) SingleTap() {
	s.notifyUnit()
}

// DoubleTap cycles the time unit.
func (s *Slider) DoubleTap() {
	s.CycleTimeUnits()
}

// Label renders the current time with the active unit's pattern.
func (s *Slider) Label() string {
	spec, ok := s.cycle.Current()
	if !ok {
		return ""
	}
	return s.formatter.Format(s.engine.Time(), spec.Format)
}

// Item is one entry of the visible strip around the current time.
type Item struct {
	Time  calendar.Instant
	Label string
	// Offset is the item's distance from the selected item along the
	// scroll axis, in pixels.
	Offset   int
	Selected bool
}

// Items returns the strip of itemsBefore + 1 + itemsAfter entries centered
// on the current time, stepping by the active unit.
func (s *Slider) Items() []Item {
	spec, ok := s.cycle.Current()
	if !ok {
		return nil
	}
	cfg := s.engine.Config()
	step := max(spec.Factor, 1)
	size := s.engine.PixelsPerUnit()
	dir := cfg.Orientation.AxisSign()

	t := calendar.AddUnits(s.engine.Time(), spec.Unit, -s.itemsBefore*step)
	items := make([]Item, 0, s.itemsBefore+1+s.itemsAfter)
	for i := -s.itemsBefore; i <= s.itemsAfter; i++ {
		items = append(items, Item{
			Time:     t,
			Label:    s.formatter.Format(t, spec.Format),
			Offset:   dir * i * size,
			Selected: i == 0,
		})
		t = calendar.AddUnits(t, spec.Unit, step)
	}
	return items
}

func (s *Slider) notifyScroll() {
	if s.listener != nil {
		s.listener.OnTimeScroll(s.engine.Time(), s)
	}
}

func (s *Slider) notifyChanged() {
	if s.listener != nil {
		s.listener.OnTimeChanged(s.engine.Time(), s)
	}
}

func (s *Slider) notifyUnit() {
	if s.listener != nil {
		s.listener.OnScrollUnitChanged(s)
	}
}

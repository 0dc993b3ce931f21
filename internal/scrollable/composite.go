package scrollable

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/roach88/timeslider/internal/calendar"
)

// noActive marks a composite whose children have not reported yet.
const noActive = -1

// Composite groups TimeScrollables and keeps their times in step. It does
// not own its children.
type Composite struct {
	name     string
	children []TimeScrollable
	active   int
	time     calendar.Instant
	zone     *time.Location
	locale   language.Tag
	listener Listener
	logger   *slog.Logger
}

// CompositeOption configures a Composite.
type CompositeOption func(*Composite)

// WithCompositeLogger sets the logger. The default discards all output.
func WithCompositeLogger(l *slog.Logger) CompositeOption {
	return func(c *Composite) { c.logger = l }
}

// WithCompositeZone sets the time zone forwarded to children.
func WithCompositeZone(zone *time.Location) CompositeOption {
	return func(c *Composite) { c.zone = zone }
}

// WithCompositeLocale sets the language forwarded to children.
func WithCompositeLocale(tag language.Tag) CompositeOption {
	return func(c *Composite) { c.locale = tag }
}

// NewComposite returns an empty composite.
func NewComposite(name string, opts ...CompositeOption) *Composite {
	c := &Composite{
		name:   name,
		active: noActive,
		zone:   time.UTC,
		locale: language.English,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach appends children. Each child's listener is rebound to the
// composite and the composite's zone and locale are forwarded. A Slider
// reports its time as soon as it is attached, so after attaching several
// sliders all of them hold the time of the last one.
func (c *Composite) Attach(children ...TimeScrollable) {
	for _, child := range children {
		idx := len(c.children)
		c.children = append(c.children, child)
		child.SetListener(&relay{c: c, idx: idx})
		child.SetTimeZone(c.zone)
		child.SetLocale(c.locale)
	}
}

// Children returns the attached children in order.
func (c *Composite) Children() []TimeScrollable {
	return append([]TimeScrollable(nil), c.children...)
}

// Active returns the child that produced the last event, or nil.
func (c *Composite) Active() TimeScrollable {
	if c.active == noActive {
		return nil
	}
	return c.children[c.active]
}

func (c *Composite) Name() string { return c.name }

// SetListener replaces the listener. Unlike a Slider, a composite does not
// report its time on registration.
func (c *Composite) SetListener(l Listener) { c.listener = l }

func (c *Composite) Time() calendar.Instant { return c.time }

// SetTime sets the time of the composite and of every child.
func (c *Composite) SetTime(t calendar.Instant) {
	c.time = t
	for _, child := range c.children {
		child.SetTime(t)
	}
}

func (c *Composite) SetTimeZone(zone *time.Location) {
	c.zone = zone
	for _, child := range c.children {
		child.SetTimeZone(zone)
	}
}

func (c *Composite) SetLocale(tag language.Tag) {
	c.locale = tag
	for _, child := range c.children {
		child.SetLocale(tag)
	}
}

func (c *Composite) CycleTimeUnits() {
	if a := c.Active(); a != nil {
		a.CycleTimeUnits()
	}
}

func (c *Composite) ResetScrolling() {
	if a := c.Active(); a != nil {
		a.ResetScrolling()
	}
}

func (c *Composite) CurrentScrollUnitName() string {
	if a := c.Active(); a != nil {
		return a.CurrentScrollUnitName()
	}
	return ""
}

func (c *Composite) NextScrollUnitName() string {
	if a := c.Active(); a != nil {
		return a.NextScrollUnitName()
	}
	return ""
}

// synchronize stores t, marks child idx active and pushes t to its
// siblings.
func (c *Composite) synchronize(idx int, t calendar.Instant) {
	c.time = t
	c.active = idx
	for i, child := range c.children {
		if i != idx {
			child.SetTime(t)
		}
	}
	c.logger.Debug("synchronized", "composite", c.name, "active", c.children[idx].Name(), "time", t)
}

// relay is the listener a composite installs on one child. It carries the
// child's position so the composite can tell which direct child spoke even
// when the reported source is nested deeper.
type relay struct {
	c   *Composite
	idx int
}

func (r *relay) OnTimeScroll(t calendar.Instant, source TimeScrollable) {
	r.c.synchronize(r.idx, t)
	if r.c.listener != nil {
		r.c.listener.OnTimeScroll(t, source)
	}
}

func (r *relay) OnTimeChanged(t calendar.Instant, source TimeScrollable) {
	r.c.synchronize(r.idx, t)
	if r.c.listener != nil {
		r.c.listener.OnTimeChanged(t, source)
	}
}

func (r *relay) OnScrollUnitChanged(source TimeScrollable) {
	r.c.active = r.idx
	if r.c.listener != nil {
		r.c.listener.OnScrollUnitChanged(source)
	}
}

package scrollable

import (
	"time"

	"golang.org/x/text/language"

	"github.com/roach88/timeslider/internal/calendar"
)

// Listener receives notifications from a TimeScrollable.
type Listener interface {
	OnTimeScroll(t calendar.Instant, source TimeScrollable)
	OnTimeChanged(t calendar.Instant, source TimeScrollable)
	OnScrollUnitChanged(source TimeScrollable)
}

// TimeScrollable is a component holding a discrete time that can be
// scrolled in steps of a configurable unit.
type TimeScrollable interface {
	// Name identifies the component in logs and journals.
	Name() string

	// SetListener replaces the listener. A nil listener disables
	// notifications.
	SetListener(l Listener)

	Time() calendar.Instant
	SetTime(t calendar.Instant)

	// SetTimeZone and SetLocale only affect how times are rendered.
	SetTimeZone(zone *time.Location)
	SetLocale(tag language.Tag)

	// CycleTimeUnits switches to the next unit.
	CycleTimeUnits()
	// ResetScrolling switches back to the first unit without notifying.
	ResetScrolling()

	CurrentScrollUnitName() string
	NextScrollUnitName() string
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	TimeScroll        func(t calendar.Instant, source TimeScrollable)
	TimeChanged       func(t calendar.Instant, source TimeScrollable)
	ScrollUnitChanged func(source TimeScrollable)
}

func (f ListenerFuncs) OnTimeScroll(t calendar.Instant, source TimeScrollable) {
	if f.TimeScroll != nil {
		f.TimeScroll(t, source)
	}
}

func (f ListenerFuncs) OnTimeChanged(t calendar.Instant, source TimeScrollable) {
	if f.TimeChanged != nil {
		f.TimeChanged(t, source)
	}
}

func (f ListenerFuncs) OnScrollUnitChanged(source TimeScrollable) {
	if f.ScrollUnitChanged != nil {
		f.ScrollUnitChanged(source)
	}
}

// NotificationKind names a listener callback.
type NotificationKind string

const (
	KindTimeScroll        NotificationKind = "time_scroll"
	KindTimeChanged       NotificationKind = "time_changed"
	KindScrollUnitChanged NotificationKind = "scroll_unit_changed"
)

// Notification is a recorded listener callback.
type Notification struct {
	Kind   NotificationKind
	Source string
	// Time is zero for KindScrollUnitChanged.
	Time calendar.Instant
	// Unit is the source's current unit name at the time of the callback.
	Unit string
}

// Recorder is a Listener that appends every callback to a slice and
// optionally forwards it.
type Recorder struct {
	Notifications []Notification
	// Forward, if set, receives every notification after it is recorded.
	Forward func(Notification)
}

func (r *Recorder) record(n Notification) {
	r.Notifications = append(r.Notifications, n)
	if r.Forward != nil {
		r.Forward(n)
	}
}

func (r *Recorder) OnTimeScroll(t calendar.Instant, source TimeScrollable) {
	r.record(NewNotification(KindTimeScroll, t, source))
}

func (r *Recorder) OnTimeChanged(t calendar.Instant, source TimeScrollable) {
	r.record(NewNotification(KindTimeChanged, t, source))
}

func (r *Recorder) OnScrollUnitChanged(source TimeScrollable) {
	r.record(NewNotification(KindScrollUnitChanged, 0, source))
}

// Reset drops all recorded notifications.
func (r *Recorder) Reset() {
	r.Notifications = nil
}

// NewNotification describes a callback from source. The source's name and
// current unit are captured at call time.
func NewNotification(kind NotificationKind, t calendar.Instant, source TimeScrollable) Notification {
	return Notification{Kind: kind, Source: nameOf(source), Time: t, Unit: unitOf(source)}
}

func nameOf(s TimeScrollable) string {
	if s == nil {
		return ""
	}
	return s.Name()
}

func unitOf(s TimeScrollable) string {
	if s == nil {
		return ""
	}
	return s.CurrentScrollUnitName()
}

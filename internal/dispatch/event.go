package dispatch

import (
	"fmt"
	"time"

	"github.com/roach88/timeslider/internal/calendar"
)

// EventType distinguishes event kinds.
type EventType int

const (
	EventPress EventType = iota + 1
	EventDrag
	EventFling
	EventRelease
	EventTick
	EventSingleTap
	EventDoubleTap
	EventCycle
	EventReset
	EventSetTime
)

var eventNames = map[EventType]string{
	EventPress:     "press",
	EventDrag:      "drag",
	EventFling:     "fling",
	EventRelease:   "release",
	EventTick:      "tick",
	EventSingleTap: "tap",
	EventDoubleTap: "double_tap",
	EventCycle:     "cycle",
	EventReset:     "reset",
	EventSetTime:   "set_time",
}

func (t EventType) String() string {
	if s, ok := eventNames[t]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// ParseEventType resolves the name used in scenarios and journals.
func ParseEventType(s string) (EventType, error) {
	for t, name := range eventNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// Event is one unit of host input.
type Event struct {
	Type EventType
	// Target names the slider or group the event is for. An empty target
	// on a tick event samples every flinging slider.
	Target string
	// DX and DY are the scroll distance for drags and the release
	// velocity in pixels per second for flings.
	DX, DY float64
	// Time is the new time of a set_time event.
	Time calendar.Instant
	// At is the frame time of the event. A zero value is filled in from
	// the dispatcher's frame clock.
	At time.Time

	// Seq and Session are stamped by the dispatcher.
	Seq     int64
	Session string
}

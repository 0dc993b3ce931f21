package store

import (
	"time"

	"github.com/roach88/timeslider/internal/dispatch"
)

// Frame times are stored as Unix nanoseconds in UTC. A zero time is
// stored as 0 so it reads back as the zero time.
func marshalAt(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func unmarshalAt(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func marshalType(t dispatch.EventType) string {
	return t.String()
}

func unmarshalType(s string) (dispatch.EventType, error) {
	return dispatch.ParseEventType(s)
}

package harness

import (
	"sort"

	"github.com/roach88/timeslider/internal/dispatch"
	"github.com/roach88/timeslider/internal/scrollable"
)

// Trace entry types.
const (
	TraceEventType        = "event"
	TraceNotificationType = "notification"
)

// TraceEvent is one applied event or one notification.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Type string `json:"type"`
	// Kind is the event type for events and the callback for
	// notifications.
	Kind    string  `json:"kind"`
	Target  string  `json:"target,omitempty"`
	Source  string  `json:"source,omitempty"`
	DX      float64 `json:"dx,omitempty"`
	DY      float64 `json:"dy,omitempty"`
	Time    string  `json:"time,omitempty"`
	Unit    string  `json:"unit,omitempty"`
	Session string  `json:"session,omitempty"`
	// AtMillis is the frame time relative to FrameEpoch.
	AtMillis int64 `json:"at_ms,omitempty"`
}

// FinalState is a slider's state after a run.
type FinalState struct {
	Name  string `json:"name"`
	Time  string `json:"time"`
	Unit  string `json:"unit"`
	Label string `json:"label"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if no step failed unexpectedly and every assertion
	// held.
	Pass bool `json:"pass"`

	// Trace holds events and notifications in the order they happened.
	Trace []TraceEvent `json:"trace"`

	// Final holds every slider's state, sorted by name.
	Final []FinalState `json:"final"`

	// Errors contains step and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// RunID is set when the run was recorded in a store.
	RunID string `json:"run_id,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Final:  []FinalState{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Notifications returns the notifications caused by steps.
func (r *Result) Notifications() []TraceEvent {
	var out []TraceEvent
	for _, e := range r.Trace {
		if e.Type == TraceNotificationType && e.Seq > 0 {
			out = append(out, e)
		}
	}
	return out
}

// EventEntry converts an applied event to a trace entry.
func EventEntry(ev dispatch.Event) TraceEvent {
	entry := TraceEvent{
		Seq:      ev.Seq,
		Type:     TraceEventType,
		Kind:     ev.Type.String(),
		Target:   ev.Target,
		DX:       ev.DX,
		DY:       ev.DY,
		Session:  ev.Session,
		AtMillis: ev.At.Sub(FrameEpoch).Milliseconds(),
	}
	if ev.Type == dispatch.EventSetTime {
		entry.Time = ev.Time.String()
	}
	return entry
}

// NotificationEntry converts a delivered notification to a trace entry.
func NotificationEntry(rec dispatch.Record) TraceEvent {
	entry := TraceEvent{
		Seq:    rec.Seq,
		Type:   TraceNotificationType,
		Kind:   string(rec.Kind),
		Source: rec.Source,
		Unit:   rec.Unit,
	}
	if rec.Kind != scrollable.KindScrollUnitChanged {
		entry.Time = rec.Time.String()
	}
	return entry
}

// MergeTrace rebuilds a trace from journaled events and notifications:
// ordered by seq, each event ahead of the notifications it caused.
// Records must be in (seq, idx) order.
func MergeTrace(events []dispatch.Event, records []dispatch.Record) []TraceEvent {
	trace := make([]TraceEvent, 0, len(events)+len(records))
	for _, ev := range events {
		trace = append(trace, EventEntry(ev))
	}
	for _, rec := range records {
		trace = append(trace, NotificationEntry(rec))
	}
	sort.SliceStable(trace, func(i, j int) bool {
		if trace[i].Seq != trace[j].Seq {
			return trace[i].Seq < trace[j].Seq
		}
		return trace[i].Type == TraceEventType && trace[j].Type != TraceEventType
	})
	return trace
}

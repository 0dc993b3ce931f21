package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timeslider/internal/dispatch"
	"github.com/roach88/timeslider/internal/scrollable"
)

func note(seq int64, kind, source string) TraceEvent {
	return TraceEvent{Seq: seq, Type: TraceNotificationType, Kind: kind, Source: source}
}

var sampleNotes = []TraceEvent{
	note(1, "scroll_unit_changed", "a"),
	note(2, "time_scroll", "a"),
	note(2, "time_scroll", "b"),
	note(3, "time_changed", "a"),
}

func TestAssertNotificationCount(t *testing.T) {
	tests := []struct {
		name    string
		a       Assertion
		wantErr bool
	}{
		{"all", Assertion{Count: 4}, false},
		{"by kind", Assertion{Kind: "time_scroll", Count: 2}, false},
		{"by kind and source", Assertion{Kind: "time_scroll", Source: "b", Count: 1}, false},
		{"none", Assertion{Kind: "time_changed", Source: "b", Count: 0}, false},
		{"wrong count", Assertion{Kind: "time_changed", Count: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertNotificationCount(sampleNotes, tt.a)
			if tt.wantErr {
				var ae *AssertionError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, AssertNotificationCount, ae.Type)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssertNotificationOrder(t *testing.T) {
	tests := []struct {
		name    string
		a       Assertion
		wantErr string
	}{
		{"subsequence", Assertion{Kinds: []string{"scroll_unit_changed", "time_changed"}}, ""},
		{"repeated kind", Assertion{Kinds: []string{"time_scroll", "time_scroll"}}, ""},
		{"filtered by source", Assertion{Source: "a", Kinds: []string{"time_scroll", "time_changed"}}, ""},
		{"source excludes", Assertion{Source: "b", Kinds: []string{"time_scroll", "time_scroll"}}, "matched 1 of 2"},
		{"wrong order", Assertion{Kinds: []string{"time_changed", "time_scroll"}}, "missing time_scroll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertNotificationOrder(sampleNotes, tt.a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertFinalTime,
		Expected: "a at noon",
		Actual:   "midnight",
		Trace:    []TraceEvent{{Seq: 4, Kind: "time_scroll", Source: "a", Time: "2024-03-15T10:43:00.000Z"}},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: final_time")
	assert.Contains(t, msg, "Expected: a at noon")
	assert.Contains(t, msg, "Actual: midnight")
	assert.Contains(t, msg, "[4] time_scroll a 2024-03-15T10:43:00.000Z")
}

func TestResult_Notifications(t *testing.T) {
	r := NewResult()
	r.Trace = []TraceEvent{
		note(0, "time_scroll", "a"),
		{Seq: 1, Type: TraceEventType, Kind: "tap"},
		note(1, "scroll_unit_changed", "a"),
	}

	got := r.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "scroll_unit_changed", got[0].Kind)

	r.AddError("boom")
	assert.False(t, r.Pass)
}

func TestMergeTrace_EventsLeadTheirNotifications(t *testing.T) {
	events := []dispatch.Event{
		{Seq: 1, Type: dispatch.EventSingleTap, Target: "a", At: FrameEpoch},
		{Seq: 2, Type: dispatch.EventCycle, Target: "a", At: FrameEpoch.Add(16 * time.Millisecond)},
	}
	records := []dispatch.Record{
		{Seq: 0, Index: 0, Notification: scrollable.Notification{Kind: scrollable.KindTimeScroll, Source: "a"}},
		{Seq: 1, Index: 1, Notification: scrollable.Notification{Kind: scrollable.KindScrollUnitChanged, Source: "a", Unit: "minute"}},
		{Seq: 2, Index: 2, Notification: scrollable.Notification{Kind: scrollable.KindScrollUnitChanged, Source: "a", Unit: "minute"}},
	}

	trace := MergeTrace(events, records)
	require.Len(t, trace, 5)
	var order []string
	for _, e := range trace {
		order = append(order, e.Type)
	}
	assert.Equal(t, []string{
		TraceNotificationType,
		TraceEventType, TraceNotificationType,
		TraceEventType, TraceNotificationType,
	}, order)
	assert.Equal(t, int64(16), trace[3].AtMillis)
	assert.Equal(t, "cycle", trace[3].Kind)
}

package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Event("drag")
	m.Event("drag")
	m.Event("press")
	m.Notification("time_scroll")
	m.Error("UNKNOWN_TARGET")
	m.Session()
	m.FlingSample()
	m.FlingSample()
	m.SetActiveFlings(1)
	m.SetQueueDepth(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("drag")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsTotal.WithLabelValues("press")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("time_scroll")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("UNKNOWN_TARGET")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FlingSamplesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveFlings))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.QueueDepth))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.Event("drag")
		m.Notification("time_scroll")
		m.Error("X")
		m.Session()
		m.FlingSample()
		m.SetActiveFlings(1)
		m.SetQueueDepth(1)
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.Session()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SessionsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SessionsTotal))
}

func TestWriteSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Event("tick")
	m.Session()

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "timeslider_events_total{type=\"tick\"} 1\n")
	assert.Contains(t, out, "timeslider_sessions_total 1\n")
	assert.Contains(t, out, "timeslider_queue_depth 0\n")
}

// Package metrics provides Prometheus metrics for the event dispatcher.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the dispatcher collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	EventsTotal        *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
	SessionsTotal      prometheus.Counter
	FlingSamplesTotal  prometheus.Counter
	ActiveFlings       prometheus.Gauge
	QueueDepth         prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timeslider_events_total",
				Help: "Total number of applied events",
			},
			[]string{"type"},
		),
		NotificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timeslider_notifications_total",
				Help: "Total number of listener notifications delivered to the host",
			},
			[]string{"kind"},
		),
		ErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "timeslider_errors_total",
				Help: "Total number of events that failed to apply",
			},
			[]string{"code"},
		),
		SessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "timeslider_sessions_total",
			Help: "Total number of gesture sessions started",
		}),
		FlingSamplesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "timeslider_fling_samples_total",
			Help: "Total number of fling trajectory samples",
		}),
		ActiveFlings: f.NewGauge(prometheus.GaugeOpts{
			Name: "timeslider_active_flings",
			Help: "Number of sliders with a running fling",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "timeslider_queue_depth",
			Help: "Number of events waiting to be applied",
		}),
	}
}

func (m *Metrics) Event(eventType string) {
	if m != nil {
		m.EventsTotal.WithLabelValues(eventType).Inc()
	}
}

func (m *Metrics) Notification(kind string) {
	if m != nil {
		m.NotificationsTotal.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) Error(code string) {
	if m != nil {
		m.ErrorsTotal.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) Session() {
	if m != nil {
		m.SessionsTotal.Inc()
	}
}

func (m *Metrics) FlingSample() {
	if m != nil {
		m.FlingSamplesTotal.Inc()
	}
}

func (m *Metrics) SetActiveFlings(n int) {
	if m != nil {
		m.ActiveFlings.Set(float64(n))
	}
}

func (m *Metrics) SetQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}

// WriteSummary writes one line per sample gathered from g, sorted by name,
// in the form name{label="value"} value.
func WriteSummary(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := fam.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, v))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

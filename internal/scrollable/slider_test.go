package scrollable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/cycle"
	"github.com/roach88/timeslider/internal/scroll"
)

var (
	t0      = calendar.FromTime(time.Date(2024, time.March, 15, 10, 42, 0, 0, time.UTC))
	t0Extra = calendar.FromTime(time.Date(2024, time.March, 15, 10, 42, 37, 500*int(time.Millisecond), time.UTC))
	now     = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
)

// minuteSlider returns a slider cycling second, minute, hour that starts
// on minute.
func minuteSlider(t *testing.T, name string, start calendar.Instant) *Slider {
	t.Helper()
	s := NewSlider(name,
		WithTime(start),
		WithCycle(cycle.Build([]string{"minute", "hour", "second"}, nil, nil)),
	)
	return s
}

func kinds(ns []Notification) []NotificationKind {
	out := make([]NotificationKind, len(ns))
	for i, n := range ns {
		out[i] = n.Kind
	}
	return out
}

func TestSlider_SetListenerReportsImmediately(t *testing.T) {
	s := NewSlider("a", WithTime(t0))
	rec := &Recorder{}

	s.SetListener(rec)

	require.Len(t, rec.Notifications, 1)
	assert.Equal(t, Notification{Kind: KindTimeScroll, Source: "a", Time: t0, Unit: "second"}, rec.Notifications[0])
}

func TestSlider_NilListener(t *testing.T) {
	s := minuteSlider(t, "a", t0)
	s.SetListener(nil)

	s.CycleTimeUnits()
	s.PressStart("s1")
	s.Drag(0, 90)
	s.SingleTap()
	// no panic is the assertion
	assert.Equal(t, "hour", s.CurrentScrollUnitName())
}

func TestSlider_CycleTimeUnits(t *testing.T) {
	s := NewSlider("a", WithTime(t0Extra))
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	s.CycleTimeUnits()

	assert.Equal(t, "minute", s.CurrentScrollUnitName())
	assert.Equal(t, "hour", s.NextScrollUnitName())
	assert.Equal(t, t0, s.Time())
	assert.Equal(t, []NotificationKind{KindTimeScroll, KindScrollUnitChanged}, kinds(rec.Notifications))

	// Fires even when the quantized time is unchanged.
	rec.Reset()
	s.CycleTimeUnits()
	s.CycleTimeUnits()
	assert.Equal(t, "second", s.CurrentScrollUnitName())
	assert.Len(t, rec.Notifications, 4)
}

func TestSlider_ResetScrollingIsSilent(t *testing.T) {
	s := NewSlider("a", WithTime(t0))
	rec := &Recorder{}
	s.CycleTimeUnits()
	s.SetListener(rec)
	rec.Reset()

	s.ResetScrolling()

	assert.Equal(t, "second", s.CurrentScrollUnitName())
	assert.Empty(t, rec.Notifications)
}

func TestSlider_DragMinute(t *testing.T) {
	s := minuteSlider(t, "a", t0Extra)
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	s.PressStart("s1")
	changed := s.Drag(0, 90)

	assert.True(t, changed)
	assert.Equal(t, t0+60_000, s.Time())
	assert.Equal(t, []NotificationKind{KindTimeScroll, KindScrollUnitChanged, KindTimeScroll}, kinds(rec.Notifications))
	assert.Equal(t, t0, rec.Notifications[0].Time, "manual mode quantizes first")
	assert.Equal(t, t0+60_000, rec.Notifications[2].Time)
}

func TestSlider_ManualModeOncePerSession(t *testing.T) {
	s := minuteSlider(t, "a", t0)
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	s.PressStart("s1")
	s.Drag(0, 10)
	s.Drag(0, 10)
	s.Release()

	// Two 10 s drags stay inside the minute: only the manual switch fires.
	assert.Equal(t, []NotificationKind{KindTimeScroll, KindScrollUnitChanged}, kinds(rec.Notifications))

	s.PressStart("s2")
	s.Drag(0, 10)
	assert.Len(t, rec.Notifications, 4)
}

func TestSlider_DragWithoutPressIsNoop(t *testing.T) {
	s := minuteSlider(t, "a", t0)
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	assert.False(t, s.Drag(0, 500))
	assert.Empty(t, rec.Notifications)
}

func TestSlider_NoPixelScaleLeavesTimeAlone(t *testing.T) {
	start := calendar.FromTime(time.Date(2023, time.November, 14, 22, 15, 23, 456*int(time.Millisecond), time.UTC))
	cfg := scroll.DefaultConfig()
	cfg.ItemHeight = 0
	s := NewSlider("a",
		WithTime(start),
		WithCycle(cycle.Build([]string{"hour"}, nil, nil)),
		WithScroll(cfg),
	)
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	s.PressStart("s1")
	assert.False(t, s.Drag(0, 500))
	assert.False(t, s.Fling(0, -1000, now))
	s.Release()

	assert.Equal(t, start, s.Time())
	assert.Empty(t, rec.Notifications)
}

func TestSlider_FlingFiresTimeChanged(t *testing.T) {
	s := minuteSlider(t, "a", t0)
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	s.PressStart("s1")
	require.True(t, s.Fling(0, -1000, now))
	s.Release()

	assert.True(t, s.Tick(now.Add(100*time.Millisecond)))
	assert.False(t, s.Tick(now.Add(10*time.Second)))
	assert.False(t, s.Flinging())
	assert.False(t, s.Tick(now.Add(11*time.Second)))

	assert.Equal(t, []NotificationKind{KindTimeChanged, KindTimeChanged}, kinds(rec.Notifications))
	assert.Equal(t, t0+9*60_000, s.Time())
}

func TestSlider_PressStopsFling(t *testing.T) {
	s := minuteSlider(t, "a", t0)
	require.True(t, s.Fling(0, -1000, now))

	s.PressStart("s2")

	assert.False(t, s.Flinging())
	assert.False(t, s.Tick(now.Add(time.Second)))
	assert.Equal(t, t0, s.Time())
}

func TestSlider_Taps(t *testing.T) {
	s := NewSlider("a", WithTime(t0))
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	s.SingleTap()
	s.DoubleTap()

	assert.Equal(t, []NotificationKind{KindScrollUnitChanged, KindTimeScroll, KindScrollUnitChanged}, kinds(rec.Notifications))
	assert.Equal(t, "minute", s.CurrentScrollUnitName())
}

func TestSlider_Items(t *testing.T) {
	s := minuteSlider(t, "a", t0)

	items := s.Items()

	require.Len(t, items, 5)
	var labels []string
	var offsets []int
	for _, it := range items {
		labels = append(labels, it.Label)
		offsets = append(offsets, it.Offset)
	}
	assert.Equal(t, []string{"10:40", "10:41", "10:42", "10:43", "10:44"}, labels)
	assert.Equal(t, []int{-120, -60, 0, 60, 120}, offsets)
	assert.True(t, items[2].Selected)
	assert.Equal(t, t0, items[2].Time)
}

func TestSlider_ItemsHorizontalDecade(t *testing.T) {
	cfg := scroll.DefaultConfig()
	cfg.Orientation = scroll.Left
	start := calendar.FromTime(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	s := NewSlider("a",
		WithTime(start),
		WithScroll(cfg),
		WithItems(1, 1),
		WithCycle(cycle.Build([]string{"decade"}, []string{"Decade"}, []string{"yyyy"})),
	)

	items := s.Items()

	require.Len(t, items, 3)
	assert.Equal(t, "2010", items[0].Label)
	assert.Equal(t, "2030", items[2].Label)
	assert.Equal(t, []int{150, 0, -150}, []int{items[0].Offset, items[1].Offset, items[2].Offset})
	assert.Equal(t, "Decade", s.CurrentScrollUnitName())
}

func TestSlider_LabelUsesZoneAndLocale(t *testing.T) {
	s := NewSlider("a",
		WithTime(t0),
		WithCycle(cycle.Build([]string{"day"}, nil, []string{"EEEE HH:mm"})),
	)
	assert.Equal(t, "Friday 10:42", s.Label())

	zone, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	s.SetTimeZone(zone)
	s.SetLocale(language.German)

	assert.Equal(t, "Freitag 19:42", s.Label())
	assert.Equal(t, t0, s.Time())
}

func TestSlider_EmptyCycle(t *testing.T) {
	s := NewSlider("a", WithTime(t0), WithCycle(cycle.New()))
	rec := &Recorder{}
	s.SetListener(rec)
	rec.Reset()

	s.PressStart("s1")
	assert.False(t, s.Drag(0, 100))
	assert.False(t, s.Fling(0, 1000, now))
	s.CycleTimeUnits()

	assert.Empty(t, rec.Notifications)
	assert.Nil(t, s.Items())
	assert.Equal(t, "", s.Label())
	assert.Equal(t, "", s.CurrentScrollUnitName())
}

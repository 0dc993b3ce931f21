package scrollable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/timeslider/internal/calendar"
)

// mockChild is a TimeScrollable that counts calls and lets tests emit
// events through whatever listener is installed.
type mockChild struct {
	name     string
	time     calendar.Instant
	listener Listener
	zone     *time.Location
	locale   language.Tag

	setTimeCalls int
	cycleCalls   int
	resetCalls   int
}

func (m *mockChild) Name() string { return m.name }
func (m *mockChild) SetListener(l Listener) { m.listener = l }
func (m *mockChild) Time() calendar.Instant { return m.time }
func (m *mockChild) SetTimeZone(zone *time.Location) { m.zone = zone }
func (m *mockChild) SetLocale(tag language.Tag) { m.locale = tag }
func (m *mockChild) CycleTimeUnits() { m.cycleCalls++ }
func (m *mockChild) ResetScrolling() { m.resetCalls++ }
func (m *mockChild) CurrentScrollUnitName() string { return m.name + "-current" }
func (m *mockChild) NextScrollUnitName() string { return m.name + "-next" }

func (m *mockChild) SetTime(t calendar.Instant) {
	m.setTimeCalls++
	m.time = t
}

func (m *mockChild) scroll(t calendar.Instant) {
	m.time = t
	m.listener.OnTimeScroll(t, m)
}

func (m *mockChild) fling(t calendar.Instant) {
	m.time = t
	m.listener.OnTimeChanged(t, m)
}

func newMocks(names ...string) []*mockChild {
	out := make([]*mockChild, len(names))
	for i, n := range names {
		out[i] = &mockChild{name: n}
	}
	return out
}

func attachAll(c *Composite, mocks []*mockChild) {
	for _, m := range mocks {
		c.Attach(m)
	}
}

func TestComposite_NoEcho(t *testing.T) {
	mocks := newMocks("a", "b", "c")
	c := NewComposite("group")
	attachAll(c, mocks)

	mocks[1].scroll(t0)

	assert.Equal(t, 0, mocks[1].setTimeCalls, "originating child must not be called back")
	assert.Equal(t, 1, mocks[0].setTimeCalls)
	assert.Equal(t, 1, mocks[2].setTimeCalls)
	assert.Equal(t, t0, mocks[0].Time())
	assert.Equal(t, t0, mocks[2].Time())
	assert.Equal(t, t0, c.Time())
	assert.Equal(t, mocks[1], c.Active())
}

func TestComposite_ReemitsOnce(t *testing.T) {
	mocks := newMocks("a", "b")
	c := NewComposite("group")
	attachAll(c, mocks)
	rec := &Recorder{}
	c.SetListener(rec)

	mocks[0].scroll(t0)
	mocks[1].fling(t0 + 1000)
	mocks[0].listener.OnScrollUnitChanged(mocks[0])

	require.Len(t, rec.Notifications, 3)
	assert.Equal(t, Notification{Kind: KindTimeScroll, Source: "a", Time: t0, Unit: "a-current"}, rec.Notifications[0])
	assert.Equal(t, Notification{Kind: KindTimeChanged, Source: "b", Time: t0 + 1000, Unit: "b-current"}, rec.Notifications[1])
	assert.Equal(t, KindScrollUnitChanged, rec.Notifications[2].Kind)
	assert.Equal(t, mocks[0], c.Active())
}

func TestComposite_SetListenerIsSilent(t *testing.T) {
	c := NewComposite("group")
	rec := &Recorder{}

	c.SetListener(rec)

	assert.Empty(t, rec.Notifications)
}

func TestComposite_DelegatesToActive(t *testing.T) {
	mocks := newMocks("a", "b")
	c := NewComposite("group")
	attachAll(c, mocks)

	assert.Nil(t, c.Active())
	assert.Equal(t, "", c.CurrentScrollUnitName())
	assert.Equal(t, "", c.NextScrollUnitName())
	c.CycleTimeUnits()
	c.ResetScrolling()
	assert.Zero(t, mocks[0].cycleCalls+mocks[1].cycleCalls+mocks[0].resetCalls+mocks[1].resetCalls)

	mocks[1].scroll(t0)
	c.CycleTimeUnits()
	c.ResetScrolling()

	assert.Equal(t, 1, mocks[1].cycleCalls)
	assert.Equal(t, 1, mocks[1].resetCalls)
	assert.Zero(t, mocks[0].cycleCalls)
	assert.Equal(t, "b-current", c.CurrentScrollUnitName())
	assert.Equal(t, "b-next", c.NextScrollUnitName())
}

func TestComposite_DirectCallsBroadcast(t *testing.T) {
	mocks := newMocks("a", "b")
	c := NewComposite("group")
	attachAll(c, mocks)
	mocks[0].scroll(t0)
	mocks[1].setTimeCalls = 0

	c.SetTime(t0 + 5)
	zone, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	c.SetTimeZone(zone)
	c.SetLocale(language.French)

	for _, m := range mocks {
		assert.Equal(t, 1, m.setTimeCalls, m.name)
		assert.Equal(t, t0+5, m.Time(), m.name)
		assert.Equal(t, zone, m.zone, m.name)
		assert.Equal(t, language.French, m.locale, m.name)
	}
	assert.Equal(t, t0+5, c.Time())
}

func TestComposite_AttachForwardsZoneAndLocale(t *testing.T) {
	zone, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	c := NewComposite("group", WithCompositeZone(zone), WithCompositeLocale(language.French))
	m := &mockChild{name: "a"}

	c.Attach(m)

	assert.Equal(t, zone, m.zone)
	assert.Equal(t, language.French, m.locale)
	assert.NotNil(t, m.listener)
	assert.Len(t, c.Children(), 1)
}

func TestComposite_AttachSlidersLastWins(t *testing.T) {
	a := minuteSlider(t, "a", t0)
	b := minuteSlider(t, "b", t0+3_600_000)
	c := NewComposite("group")

	c.Attach(a, b)

	assert.Equal(t, t0+3_600_000, a.Time())
	assert.Equal(t, t0+3_600_000, b.Time())
	assert.Equal(t, t0+3_600_000, c.Time())
	assert.Equal(t, b, c.Active())
}

func TestComposite_SlidersStayInStep(t *testing.T) {
	date := NewSlider("date", WithTime(t0))
	clock := minuteSlider(t, "clock", t0)
	c := NewComposite("group")
	c.Attach(date, clock)
	rec := &Recorder{}
	c.SetListener(rec)

	clock.PressStart("s1")
	clock.Drag(0, 90)
	clock.Release()

	assert.Equal(t, t0+60_000, date.Time())
	assert.Equal(t, t0+60_000, c.Time())
	assert.Equal(t, []NotificationKind{KindTimeScroll, KindScrollUnitChanged, KindTimeScroll}, kinds(rec.Notifications))
	for _, n := range rec.Notifications {
		assert.Equal(t, "clock", n.Source)
	}
	assert.Equal(t, "minute", c.CurrentScrollUnitName())
}

func TestComposite_Nested(t *testing.T) {
	inner := NewComposite("inner")
	leafs := newMocks("x", "y")
	for _, m := range leafs {
		inner.Attach(m)
	}
	sibling := &mockChild{name: "z"}
	outer := NewComposite("outer")
	outer.Attach(inner, sibling)
	rec := &Recorder{}
	outer.SetListener(rec)

	leafs[0].scroll(t0)

	require.Len(t, rec.Notifications, 1)
	assert.Equal(t, "x", rec.Notifications[0].Source, "source is the innermost originator")
	assert.Equal(t, 0, leafs[0].setTimeCalls)
	assert.Equal(t, 1, leafs[1].setTimeCalls, "inner composite is not echoed into")
	assert.Equal(t, 1, sibling.setTimeCalls)
	assert.Equal(t, inner, outer.Active())
	assert.Equal(t, "x-current", outer.CurrentScrollUnitName())

	outer.CycleTimeUnits()
	assert.Equal(t, 1, leafs[0].cycleCalls)
}

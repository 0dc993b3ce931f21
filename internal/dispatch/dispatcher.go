package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/metrics"
	"github.com/roach88/timeslider/internal/scrollable"
)

// DefaultRefreshHz is the frame rate at which running flings are sampled.
const DefaultRefreshHz = 60

// DefaultTickBudget bounds the number of synthetic frames RunUntilIdle
// spends on settling flings.
const DefaultTickBudget = 10_000

// Targets resolves event targets by name.
type Targets interface {
	Lookup(name string) (scrollable.TimeScrollable, bool)
}

// Gestures is implemented by scrollables that accept pointer input.
type Gestures interface {
	scrollable.TimeScrollable
	PressStart(token string)
	Release()
	Drag(dx, dy float64) bool
	Fling(vx, vy float64, now time.Time) bool
	Tick(now time.Time) bool
	StopFling()
	SingleTap()
	DoubleTap()
}

// Record is a notification delivered to the host, positioned by the
// sequence number of the event that caused it. Seq is 0 for notifications
// emitted while listeners are installed.
type Record struct {
	Seq   int64
	Index int
	scrollable.Notification
}

// Sink receives every applied event and every notification.
type Sink interface {
	Event(ev Event) error
	Notification(rec Record) error
}

type flinger struct {
	name string
	g    Gestures
}

// Dispatcher applies events to scrollables from a single goroutine.
//
// Thread-safety model:
//   - Enqueue and Stop: safe from any goroutine
//   - Run or RunUntilIdle: from exactly one goroutine
type Dispatcher struct {
	targets  Targets
	queue    *eventQueue
	clock    *Clock
	sessions SessionGenerator
	frames   FrameClock
	sink     Sink
	metrics  *metrics.Metrics
	logger   *slog.Logger
	refresh  time.Duration
	budget   int

	// Owned by the applying goroutine.
	flinging []flinger
	seq      int64
	index    int
	now      time.Time
	sinkErr  error

	flingActive atomic.Bool
	tickPending atomic.Bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithSink(s Sink) Option {
	return func(d *Dispatcher) { d.sink = s }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithSessions sets the session token generator. The default generates
// UUIDv7 tokens.
func WithSessions(g SessionGenerator) Option {
	return func(d *Dispatcher) { d.sessions = g }
}

// WithFrames sets the clock used for events without a frame time.
func WithFrames(f FrameClock) Option {
	return func(d *Dispatcher) { d.frames = f }
}

// WithRefreshHz sets the fling sampling rate.
func WithRefreshHz(hz int) Option {
	return func(d *Dispatcher) {
		if hz > 0 {
			d.refresh = time.Second / time.Duration(hz)
		}
	}
}

// WithTickBudget sets how many synthetic frames RunUntilIdle may spend.
func WithTickBudget(n int) Option {
	return func(d *Dispatcher) { d.budget = n }
}

// New creates a dispatcher and installs its listener on every root. Sliders
// report their time as soon as the listener is installed; those
// notifications carry sequence number 0.
func New(targets Targets, roots []scrollable.TimeScrollable, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		targets:  targets,
		queue:    newEventQueue(),
		clock:    NewClock(),
		sessions: UUIDv7Generator{},
		frames:   SystemFrames{},
		logger:   slog.Default(),
		refresh:  time.Second / DefaultRefreshHz,
		budget:   DefaultTickBudget,
	}
	for _, opt := range opts {
		opt(d)
	}

	l := scrollable.ListenerFuncs{
		TimeScroll: func(t calendar.Instant, source scrollable.TimeScrollable) {
			d.deliver(scrollable.NewNotification(scrollable.KindTimeScroll, t, source))
		},
		TimeChanged: func(t calendar.Instant, source scrollable.TimeScrollable) {
			d.deliver(scrollable.NewNotification(scrollable.KindTimeChanged, t, source))
		},
		ScrollUnitChanged: func(source scrollable.TimeScrollable) {
			d.deliver(scrollable.NewNotification(scrollable.KindScrollUnitChanged, 0, source))
		},
	}
	for _, root := range roots {
		root.SetListener(l)
	}
	return d
}

// Enqueue submits an event. Safe from any goroutine.
func (d *Dispatcher) Enqueue(ev Event) error {
	if !d.queue.Enqueue(ev) {
		return ErrClosed
	}
	d.metrics.SetQueueDepth(d.queue.Len())
	return nil
}

// Stop closes the queue. Run applies what is already queued and returns.
func (d *Dispatcher) Stop() {
	d.queue.Close()
}

// Seq returns the sequence number of the last applied event.
func (d *Dispatcher) Seq() int64 {
	return d.clock.Current()
}

// Run applies events until ctx is cancelled or Stop is called. While a
// fling is running a frame ticker enqueues tick events at the refresh
// rate. Errors from individual events are logged and do not stop the loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("dispatcher starting", "refresh", d.refresh)

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		return d.loop(ctx)
	})
	g.Go(func() error {
		return d.frameTicker(ctx, done)
	})
	return g.Wait()
}

func (d *Dispatcher) loop(ctx context.Context) error {
	for {
		if ev, ok := d.queue.TryDequeue(); ok {
			d.metrics.SetQueueDepth(d.queue.Len())
			if err := d.apply(ev); err != nil {
				d.logger.Error("event failed",
					"type", ev.Type.String(),
					"target", ev.Target,
					"error", err,
				)
			}
			continue
		}

		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopping: context cancelled")
			d.queue.Close()
			return ctx.Err()
		case <-d.queue.Wait():
			if d.queue.Closed() && d.queue.Len() == 0 {
				d.logger.Info("dispatcher stopping: queue closed")
				return nil
			}
		}
	}
}

// frameTicker enqueues at most one pending tick per frame while flings are
// running.
func (d *Dispatcher) frameTicker(ctx context.Context, done <-chan struct{}) error {
	t := time.NewTicker(d.refresh)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		case <-t.C:
			if d.flingActive.Load() && !d.tickPending.Swap(true) {
				if !d.queue.Enqueue(Event{Type: EventTick}) {
					return nil
				}
			}
		}
	}
}

// RunUntilIdle applies all queued events on the calling goroutine, then
// samples running flings on synthetic frames spaced by the refresh
// interval until every fling has settled. It stops at the first failing
// event.
func (d *Dispatcher) RunUntilIdle() error {
	ticks := 0
	for {
		if err := d.Drain(); err != nil {
			return err
		}
		if len(d.flinging) == 0 {
			return nil
		}
		if ticks >= d.budget {
			return &Error{Code: ErrCodeTickBudget, Message: fmt.Sprintf("flings still running after %d frames", ticks)}
		}
		ticks++
		if !d.queue.Enqueue(Event{Type: EventTick, At: d.now.Add(d.refresh)}) {
			return ErrClosed
		}
	}
}

// Drain applies the queued events on the calling goroutine without
// sampling running flings. It stops at the first failing event.
func (d *Dispatcher) Drain() error {
	for {
		ev, ok := d.queue.TryDequeue()
		if !ok {
			return nil
		}
		if err := d.apply(ev); err != nil {
			return err
		}
	}
}

// Flinging returns the names of the sliders with a running fling.
func (d *Dispatcher) Flinging() []string {
	names := make([]string, len(d.flinging))
	for i, f := range d.flinging {
		names[i] = f.name
	}
	return names
}

// apply runs one event. Called only from the applying goroutine. Rejected
// events do not consume a sequence number.
func (d *Dispatcher) apply(ev Event) error {
	ev.Seq = d.clock.Current() + 1
	if ev.At.IsZero() {
		ev.At = d.frames.Now()
	}

	if _, ok := eventNames[ev.Type]; !ok {
		return d.fail(&Error{Code: ErrCodeUnknownEvent, Message: ev.Type.String(), Seq: ev.Seq})
	}

	var target scrollable.TimeScrollable
	if ev.Type != EventTick || ev.Target != "" {
		t, ok := d.targets.Lookup(ev.Target)
		if !ok {
			return d.fail(&Error{Code: ErrCodeUnknownTarget, Message: "no such slider or group", Target: ev.Target, Seq: ev.Seq})
		}
		target = t
	}
	var g Gestures
	if isGesture(ev.Type) {
		var ok bool
		if g, ok = target.(Gestures); !ok {
			return d.fail(&Error{Code: ErrCodeNotGestureTarget, Message: ev.Type.String() + " needs a slider", Target: ev.Target, Seq: ev.Seq})
		}
	}

	d.clock.Next()
	d.seq, d.index = ev.Seq, 0
	d.now = ev.At

	if ev.Type == EventPress {
		ev.Session = d.sessions.Generate()
		d.metrics.Session()
	}
	if d.sink != nil {
		if err := d.sink.Event(ev); err != nil {
			return d.fail(&Error{Code: ErrCodeSink, Message: "record event", Target: ev.Target, Seq: ev.Seq, Err: err})
		}
	}

	d.logger.Debug("applying event",
		"seq", ev.Seq,
		"type", ev.Type.String(),
		"target", ev.Target,
		"session", ev.Session,
	)

	switch ev.Type {
	case EventPress:
		d.dropFling(ev.Target)
		g.PressStart(ev.Session)
	case EventDrag:
		g.Drag(ev.DX, ev.DY)
	case EventFling:
		if g.Fling(ev.DX, ev.DY, ev.At) {
			d.dropFling(ev.Target)
			d.flinging = append(d.flinging, flinger{name: ev.Target, g: g})
		}
	case EventRelease:
		g.Release()
	case EventTick:
		d.tick(ev)
	case EventSingleTap:
		g.SingleTap()
	case EventDoubleTap:
		g.DoubleTap()
	case EventCycle:
		target.CycleTimeUnits()
	case EventReset:
		target.ResetScrolling()
	case EventSetTime:
		target.SetTime(ev.Time)
	}

	d.flingActive.Store(len(d.flinging) > 0)
	d.metrics.SetActiveFlings(len(d.flinging))
	d.metrics.Event(ev.Type.String())

	if err := d.sinkErr; err != nil {
		d.sinkErr = nil
		return d.fail(&Error{Code: ErrCodeSink, Message: "record notification", Target: ev.Target, Seq: ev.Seq, Err: err})
	}
	return nil
}

func isGesture(t EventType) bool {
	switch t {
	case EventPress, EventDrag, EventFling, EventRelease, EventSingleTap, EventDoubleTap:
		return true
	}
	return false
}

// tick samples the flings addressed by ev and forgets the ones that have
// settled.
func (d *Dispatcher) tick(ev Event) {
	if ev.Target == "" {
		d.tickPending.Store(false)
	}
	kept := d.flinging[:0]
	for _, f := range d.flinging {
		if ev.Target != "" && f.name != ev.Target {
			kept = append(kept, f)
			continue
		}
		d.metrics.FlingSample()
		if f.g.Tick(ev.At) {
			kept = append(kept, f)
		}
	}
	d.flinging = kept
}

func (d *Dispatcher) dropFling(name string) {
	kept := d.flinging[:0]
	for _, f := range d.flinging {
		if f.name != name {
			kept = append(kept, f)
		}
	}
	d.flinging = kept
}

func (d *Dispatcher) fail(err *Error) error {
	d.metrics.Error(string(err.Code))
	return err
}

// deliver forwards one notification to the sink.
func (d *Dispatcher) deliver(n scrollable.Notification) {
	rec := Record{Seq: d.seq, Index: d.index, Notification: n}
	d.index++
	d.metrics.Notification(string(n.Kind))
	d.logger.Debug("notification",
		"seq", rec.Seq,
		"kind", string(n.Kind),
		"source", n.Source,
		"time", n.Time,
	)
	if d.sink != nil && d.sinkErr == nil {
		d.sinkErr = d.sink.Notification(rec)
	}
}

package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/config"
	"github.com/roach88/timeslider/internal/dispatch"
	"github.com/roach88/timeslider/internal/metrics"
	"github.com/roach88/timeslider/internal/store"
	"github.com/roach88/timeslider/internal/testutil"
)

// FrameEpoch is the frame time of the first step of every run.
var FrameEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type options struct {
	store   *store.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a run.
type Option func(*options)

// WithStore records the run in st.
func WithStore(st *store.Store) Option {
	return func(o *options) { o.store = st }
}

// WithMetrics counts the run's events and notifications in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Build the sliders and groups at the scenario's start time
// 2. Apply each step on its own frame, checking expected errors
// 3. Settle running flings on synthetic frames
// 4. Evaluate assertions against the trace and the final slider states
//
// An error is returned only when the run cannot start or the journal
// fails; step and assertion failures are reported in the result.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	start, err := ParseInstant(scenario.Start)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: start: %w", scenario.Name, err)
	}
	cfg := scenario.Config
	// Normalize rewrites slider entries in place; keep the scenario's own.
	cfg.Sliders = slices.Clone(cfg.Sliders)
	cfg.Normalize()
	tree, err := cfg.Assemble(start, o.logger)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	sink := &traceSink{result: result}
	if o.store != nil {
		journal, err := beginJournal(ctx, o.store, scenario.Name, &cfg, start)
		if err != nil {
			return nil, err
		}
		defer journal.Rollback()
		sink.journal = journal
		result.RunID = journal.RunID()
	}

	frames := testutil.NewManualFrames(FrameEpoch)
	d := dispatch.New(tree, tree.Roots,
		dispatch.WithSink(sink),
		dispatch.WithLogger(o.logger),
		dispatch.WithMetrics(o.metrics),
		dispatch.WithSessions(dispatch.NewSequenceGenerator(scenario.sessionPrefix())),
		dispatch.WithFrames(frames),
		dispatch.WithRefreshHz(cfg.RefreshHz),
	)

	for i, step := range scenario.Steps {
		frames.Advance(step.Wait)
		ev, err := step.event()
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		if err := d.Enqueue(ev); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		checkStep(result, i, step, d.Drain())
	}

	if scenario.settle() {
		if err := d.RunUntilIdle(); err != nil {
			result.AddError(fmt.Sprintf("settle: %v", err))
		}
	}
	if sink.err != nil {
		return nil, sink.err
	}

	result.Final = finalStates(tree)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, tree) {
		result.AddError(msg)
	}

	if sink.journal != nil {
		if err := sink.journal.Commit(); err != nil {
			return nil, err
		}
	}

	o.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"events", d.Seq(),
	)
	return result, nil
}

func beginJournal(ctx context.Context, st *store.Store, name string, cfg *config.File, start calendar.Instant) (*store.Journal, error) {
	data, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}
	journal, _, err := st.BeginRun(ctx, store.Run{Name: name, Config: string(data), Start: start})
	if err != nil {
		return nil, err
	}
	return journal, nil
}

// checkStep compares a step's outcome against its expect_error.
func checkStep(result *Result, i int, step Step, err error) {
	var de *dispatch.Error
	switch {
	case step.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, step.Action, err))
	case step.ExpectError != "" && err == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got none", i, step.Action, step.ExpectError))
	case step.ExpectError != "" && !errors.As(err, &de):
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %v", i, step.Action, step.ExpectError, err))
	case step.ExpectError != "" && string(de.Code) != step.ExpectError:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %s", i, step.Action, step.ExpectError, de.Code))
	}
}

func finalStates(tree *config.Tree) []FinalState {
	states := make([]FinalState, 0, len(tree.Sliders))
	for name, s := range tree.Sliders {
		states = append(states, FinalState{
			Name:  name,
			Time:  s.Time().String(),
			Unit:  s.CurrentScrollUnitName(),
			Label: s.Label(),
		})
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states
}

// traceSink appends to the result's trace and forwards to the journal.
type traceSink struct {
	result  *Result
	journal *store.Journal
	err     error
}

func (s *traceSink) Event(ev dispatch.Event) error {
	s.result.Trace = append(s.result.Trace, EventEntry(ev))
	return s.forward(func(j *store.Journal) error { return j.Event(ev) })
}

func (s *traceSink) Notification(rec dispatch.Record) error {
	s.result.Trace = append(s.result.Trace, NotificationEntry(rec))
	return s.forward(func(j *store.Journal) error { return j.Notification(rec) })
}

func (s *traceSink) forward(write func(*store.Journal) error) error {
	if s.journal == nil || s.err != nil {
		return s.err
	}
	s.err = write(s.journal)
	return s.err
}

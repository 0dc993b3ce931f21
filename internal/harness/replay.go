package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/timeslider/internal/config"
	"github.com/roach88/timeslider/internal/dispatch"
	"github.com/roach88/timeslider/internal/store"
	"github.com/roach88/timeslider/internal/testutil"
)

// ReplayResult compares a recorded run with a fresh execution of its
// events.
type ReplayResult struct {
	RunID         string   `json:"run_id"`
	Events        int      `json:"events"`
	Notifications int      `json:"notifications"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// Identical reports whether the replay reproduced every notification.
func (r *ReplayResult) Identical() bool {
	return len(r.Mismatches) == 0
}

// Replay rebuilds a recorded run's sliders from its stored configuration,
// re-applies the recorded events with their recorded frame times and
// session tokens, and compares the notifications with the recorded ones.
func Replay(ctx context.Context, st *store.Store, runID string, logger *slog.Logger) (*ReplayResult, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Decode([]byte(run.Config))
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", runID, err)
	}
	tree, err := cfg.Assemble(run.Start, logger)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", runID, err)
	}
	events, err := st.ReadEvents(ctx, runID)
	if err != nil {
		return nil, err
	}
	want, err := st.ReadNotifications(ctx, runID)
	if err != nil {
		return nil, err
	}

	sessions := &recordedSessions{}
	for _, ev := range events {
		if ev.Type == dispatch.EventPress {
			sessions.tokens = append(sessions.tokens, ev.Session)
		}
	}

	got := &recordSink{}
	d := dispatch.New(tree, tree.Roots,
		dispatch.WithSink(got),
		dispatch.WithLogger(logger),
		dispatch.WithSessions(sessions),
		dispatch.WithFrames(testutil.NewManualFrames(FrameEpoch)),
		dispatch.WithRefreshHz(cfg.RefreshHz),
	)
	for _, ev := range events {
		ev.Seq, ev.Session = 0, ""
		if err := d.Enqueue(ev); err != nil {
			return nil, err
		}
		if err := d.Drain(); err != nil {
			return nil, fmt.Errorf("replay %s: %w", runID, err)
		}
	}

	result := &ReplayResult{RunID: runID, Events: len(events), Notifications: len(want)}
	for i := 0; i < max(len(want), len(got.records)); i++ {
		switch {
		case i >= len(got.records):
			result.Mismatches = append(result.Mismatches, fmt.Sprintf("notification %d: missing %s", i, describe(want[i])))
		case i >= len(want):
			result.Mismatches = append(result.Mismatches, fmt.Sprintf("notification %d: unexpected %s", i, describe(got.records[i])))
		case want[i] != got.records[i]:
			result.Mismatches = append(result.Mismatches, fmt.Sprintf("notification %d: recorded %s, replayed %s", i, describe(want[i]), describe(got.records[i])))
		}
	}
	logger.Debug("replay finished", "run", runID, "events", len(events), "mismatches", len(result.Mismatches))
	return result, nil
}

func describe(rec dispatch.Record) string {
	return fmt.Sprintf("[%d.%d] %s %s %s unit=%s", rec.Seq, rec.Index, rec.Kind, rec.Source, rec.Time, rec.Unit)
}

// recordedSessions hands out recorded session tokens in order.
type recordedSessions struct {
	tokens []string
	next   int
}

func (g *recordedSessions) Generate() string {
	if g.next >= len(g.tokens) {
		return ""
	}
	g.next++
	return g.tokens[g.next-1]
}

type recordSink struct {
	records []dispatch.Record
}

func (s *recordSink) Event(dispatch.Event) error { return nil }

func (s *recordSink) Notification(rec dispatch.Record) error {
	s.records = append(s.records, rec)
	return nil
}

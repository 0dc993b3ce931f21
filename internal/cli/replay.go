package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/timeslider/internal/harness"
	"github.com/roach88/timeslider/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayOutput holds the overall replay result.
type ReplayOutput struct {
	Runs         []*harness.ReplayResult `json:"runs"`
	Total        int                     `json:"total"`
	AllIdentical bool                    `json:"all_identical"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded runs and verify determinism",
		Long: `Rebuild the sliders of recorded runs from their stored configuration,
re-apply the recorded events and compare every notification with the
recorded one.

Exit codes:
  0 - Every replay reproduced its recording
  1 - At least one replay diverged
  2 - Command error (database not found, unknown run, etc.)

Examples:
  timeslider replay --db ./runs.db
  timeslider replay --db ./runs.db --run 01936c1e-...
  timeslider replay --db ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	p := newPrinter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := replayTargets(ctx, st, opts.RunID)
	if err != nil {
		return err
	}

	out := ReplayOutput{Runs: make([]*harness.ReplayResult, 0, len(ids)), Total: len(ids), AllIdentical: true}
	for _, id := range ids {
		res, err := harness.Replay(ctx, st, id, logger)
		if errors.Is(err, store.ErrNoRun) {
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		p.Logf("run %s: %d event(s), %d notification(s), %d mismatch(es)",
			id, res.Events, res.Notifications, len(res.Mismatches))
		if !res.Identical() {
			out.AllIdentical = false
		}
		out.Runs = append(out.Runs, res)
	}

	if !out.AllIdentical {
		msg := "replay diverged from the recording"
		if err := p.Failure(CodeReplayDiverged, msg, out, func(w io.Writer) {
			writeReplayText(w, out)
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return p.Success(out, func(w io.Writer) {
		writeReplayText(w, out)
	})
}

func replayTargets(ctx context.Context, st *store.Store, runID string) ([]string, error) {
	if runID != "" {
		return []string{runID}, nil
	}
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids, nil
}

func writeReplayText(w io.Writer, out ReplayOutput) {
	if out.Total == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range out.Runs {
		status := "identical"
		if !r.Identical() {
			status = "DIVERGED"
		}
		fmt.Fprintf(w, "%s  %s  %d event(s), %d notification(s)\n", r.RunID, status, r.Events, r.Notifications)
		for _, m := range r.Mismatches {
			fmt.Fprintf(w, "    %s\n", m)
		}
	}
	fmt.Fprintf(w, "\n%d run(s) replayed\n", out.Total)
}

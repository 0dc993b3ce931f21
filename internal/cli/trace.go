package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/timeslider/internal/harness"
	"github.com/roach88/timeslider/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Source   string
}

// RunListing is one run in the trace listing.
type RunListing struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Start         string `json:"start"`
	Events        int    `json:"events"`
	Notifications int    `json:"notifications"`
}

// TraceOutput is the trace of one recorded run.
type TraceOutput struct {
	RunID string               `json:"run_id"`
	Name  string               `json:"name"`
	Start string               `json:"start"`
	Trace []harness.TraceEvent `json:"trace"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded runs",
		Long: `Show the events and notifications of a recorded run.

Without --run the recorded runs are listed. With --source only notifications
from that scrollable are shown, together with every event.

Examples:
  timeslider trace --db ./runs.db
  timeslider trace --db ./runs.db --run 01936c1e-...
  timeslider trace --db ./runs.db --run 01936c1e-... --source clock --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run to show")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only show notifications from this scrollable")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	p := newPrinter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, p, st)
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrNoRun) {
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	events, err := st.ReadEvents(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}
	records, err := st.ReadNotifications(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read notifications", err)
	}
	p.Logf("run %s: %d event(s), %d notification(s)", run.ID, len(events), len(records))

	out := TraceOutput{RunID: run.ID, Name: run.Name, Start: run.Start.String()}
	for _, e := range harness.MergeTrace(events, records) {
		if opts.Source != "" && e.Type == harness.TraceNotificationType && e.Source != opts.Source {
			continue
		}
		out.Trace = append(out.Trace, e)
	}
	if out.Trace == nil {
		out.Trace = []harness.TraceEvent{}
	}

	return p.Success(out, func(w io.Writer) {
		fmt.Fprintf(w, "Run %s (%s) starting %s\n\n", out.RunID, out.Name, out.Start)
		for _, e := range out.Trace {
			writeTraceLine(w, e)
		}
	})
}

func listRuns(ctx context.Context, p *Printer, st *store.Store) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	listing := make([]RunListing, 0, len(runs))
	for _, r := range runs {
		listing = append(listing, RunListing{
			ID:            r.ID,
			Name:          r.Name,
			Start:         r.Start.String(),
			Events:        r.Events,
			Notifications: r.Notifications,
		})
	}
	return p.Success(listing, func(w io.Writer) {
		if len(listing) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return
		}
		for _, r := range listing {
			fmt.Fprintf(w, "%s  %-20s %s  %d event(s), %d notification(s)\n",
				r.ID, r.Name, r.Start, r.Events, r.Notifications)
		}
	})
}

func writeTraceLine(w io.Writer, e harness.TraceEvent) {
	if e.Type == harness.TraceEventType {
		fmt.Fprintf(w, "[%d] %-10s -> %s", e.Seq, e.Kind, e.Target)
		if e.DX != 0 || e.DY != 0 {
			fmt.Fprintf(w, " (%g, %g)", e.DX, e.DY)
		}
		if e.Time != "" {
			fmt.Fprintf(w, " %s", e.Time)
		}
		fmt.Fprintf(w, " @%dms\n", e.AtMillis)
		return
	}
	fmt.Fprintf(w, "     %-20s %-10s %s %s\n", e.Kind, e.Source, e.Time, e.Unit)
}

// openExisting opens a database that must already exist; store.Open would
// create an empty one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

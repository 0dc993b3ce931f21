package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/timeslider/internal/harness"
	"github.com/roach88/timeslider/internal/metrics"
	"github.com/roach88/timeslider/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Metrics  bool
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Name   string               `json:"name"`
	Pass   bool                 `json:"pass"`
	RunID  string               `json:"run_id,omitempty"`
	Final  []harness.FinalState `json:"final,omitempty"`
	Errors []string             `json:"errors,omitempty"`
}

// RunResult summarizes a run command.
type RunResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario|dir>",
		Short: "Run gesture scenarios",
		Long: `Run one scenario file or every *.yaml scenario in a directory.

Each scenario builds its sliders, applies its steps through the event
dispatcher, lets running flings settle and checks its assertions. With --db
every run is journaled so it can be inspected with trace and checked with
replay.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, database errors, etc.)

Examples:
  timeslider run ./scenarios
  timeslider run ./scenarios/fling.yaml --db ./runs.db
  timeslider run ./scenarios --metrics --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print event and notification counters to stderr")

	return cmd
}

func runScenarios(opts *RunOptions, path string, cmd *cobra.Command) error {
	p := newPrinter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())

	scenarios, err := harness.LoadScenarios(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	p.Logf("loaded %d scenario(s) from %s", len(scenarios), path)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	runOpts := []harness.Option{
		harness.WithLogger(logger),
		harness.WithMetrics(metrics.New(reg)),
	}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("close database", "error", closeErr)
			}
		}()
		runOpts = append(runOpts, harness.WithStore(st))
	}

	out := RunResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarios)),
		Total:     len(scenarios),
	}
	for _, s := range scenarios {
		sr := ScenarioResult{Name: s.Name}
		res, err := harness.Run(ctx, s, runOpts...)
		switch {
		case err != nil:
			sr.Errors = []string{err.Error()}
		default:
			sr.Pass = res.Pass
			sr.RunID = res.RunID
			sr.Final = res.Final
			sr.Errors = res.Errors
		}
		if sr.Pass {
			out.Passed++
		} else {
			out.Failed++
		}
		p.Logf("%s: pass=%t", s.Name, sr.Pass)
		out.Scenarios = append(out.Scenarios, sr)
		if ctx.Err() != nil {
			return WrapExitError(ExitCommandError, "interrupted", ctx.Err())
		}
	}

	if opts.Metrics {
		if err := metrics.WriteSummary(cmd.ErrOrStderr(), reg); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}

	if out.Failed > 0 {
		msg := fmt.Sprintf("%d of %d scenario(s) failed", out.Failed, out.Total)
		if err := p.Failure(CodeScenarioFailed, msg, out, func(w io.Writer) {
			writeRunText(w, out)
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return p.Success(out, func(w io.Writer) {
		writeRunText(w, out)
	})
}

func writeRunText(w io.Writer, out RunResult) {
	for _, sr := range out.Scenarios {
		status := "PASS"
		if !sr.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s", status, sr.Name)
		if sr.RunID != "" {
			fmt.Fprintf(w, "  (run %s)", sr.RunID)
		}
		fmt.Fprintln(w)
		for _, fs := range sr.Final {
			fmt.Fprintf(w, "      %-10s %s  %-8s %q\n", fs.Name, fs.Time, fs.Unit, fs.Label)
		}
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "      %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", out.Passed, out.Failed, out.Total)
}

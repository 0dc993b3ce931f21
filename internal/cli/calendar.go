package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/harness"
)

// InstantResult is the output of quantize and add.
type InstantResult struct {
	Input  string `json:"input"`
	Unit   string `json:"unit"`
	Count  int    `json:"count,omitempty"`
	Time   string `json:"time"`
	Millis int64  `json:"millis"`
}

// NewQuantizeCommand creates the quantize command.
func NewQuantizeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quantize <time> <unit>",
		Short: "Truncate a time to a unit boundary",
		Long: `Truncate a time to the start of its enclosing unit.

The time is RFC 3339 or milliseconds since the Unix epoch. Units are
millisecond through year plus decade, century and millennium. Flags go
before the arguments; a negative millisecond time needs a leading --.

Examples:
  timeslider quantize 2024-03-15T10:42:31Z hour
  timeslider quantize -- -62198755200000 decade`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, g, err := parseTimeAndUnit(args[0], args[1])
			if err != nil {
				return err
			}
			q := calendar.Quantize(at, g)
			return printInstant(rootOpts, cmd, InstantResult{
				Input: args[0], Unit: g.String(), Time: q.String(), Millis: q.Millis(),
			})
		},
	}
	// Arguments may be negative numbers; flags must come first.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <time> <unit> <count>",
		Short: "Add whole units to a time",
		Long: `Add count units to a time using calendar arithmetic.

Month and year steps clamp the day to the end of the target month. A year
step counts era years, so adding years to a BC time moves it further into
the past. Decades, centuries and millennia add their multiple of years.

Examples:
  timeslider add 2024-01-31T00:00:00Z month 1
  timeslider add 2024-01-01T00:00:00Z century -3`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, g, err := parseTimeAndUnit(args[0], args[1])
			if err != nil {
				return err
			}
			count, err := strconv.Atoi(strings.TrimSpace(args[2]))
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid count", err)
			}
			r := calendar.AddUnits(at, g.Unit, count*max(g.Factor, 1))
			return printInstant(rootOpts, cmd, InstantResult{
				Input: args[0], Unit: g.String(), Count: count, Time: r.String(), Millis: r.Millis(),
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func parseTimeAndUnit(timeArg, unitArg string) (calendar.Instant, calendar.Granularity, error) {
	at, err := harness.ParseInstant(timeArg)
	if err != nil {
		return 0, calendar.Granularity{}, WrapExitError(ExitCommandError, "invalid time", err)
	}
	g, ok := calendar.Lookup(unitArg)
	if !ok {
		return 0, calendar.Granularity{}, NewExitError(ExitCommandError,
			fmt.Sprintf("unknown unit %q: must be one of %s", unitArg, strings.Join(calendar.Names(), ", ")))
	}
	return at, g, nil
}

func printInstant(opts *RootOptions, cmd *cobra.Command, res InstantResult) error {
	p := newPrinter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	p.Logf("%s in era year %d", res.Time, calendar.EraYear(calendar.Instant(res.Millis)))
	return p.Success(res, func(w io.Writer) {
		fmt.Fprintln(w, res.Time)
	})
}

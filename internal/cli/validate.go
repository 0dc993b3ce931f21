package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/config"
)

// ValidationResult holds the outcome of validating a config file.
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Sliders  []string `json:"sliders,omitempty"`
	Groups   []string `json:"groups,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a slider configuration",
		Long: `Check a slider configuration file.

The file is checked against the configuration schema, which rejects unknown
unit names and orientations, and then every slider and group is built.

Exit codes:
  0 - Configuration is valid
  1 - Configuration is invalid
  2 - Command error (file not readable, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	p := newPrinter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read config", err)
	}

	res := ValidationResult{File: filepath.Base(path)}
	if err := config.Validate(res.File, data); err != nil {
		var schemaErr *config.SchemaError
		if errors.As(err, &schemaErr) {
			res.Problems = schemaErr.Problems
		} else {
			res.Problems = []string{err.Error()}
		}
		return validationFailed(p, res)
	}

	f, err := config.Parse(data)
	if err != nil {
		res.Problems = []string{err.Error()}
		return validationFailed(p, res)
	}
	p.Logf("parsed %d slider(s), %d group(s)", len(f.Sliders), len(f.Groups))

	tree, err := f.Assemble(calendar.Instant(0), newLogger(opts.Verbose, cmd.ErrOrStderr()))
	if err != nil {
		res.Problems = []string{err.Error()}
		return validationFailed(p, res)
	}

	res.Valid = true
	res.Sliders = sortedKeys(tree.Sliders)
	res.Groups = sortedKeys(tree.Groups)
	return p.Success(res, func(w io.Writer) {
		fmt.Fprintf(w, "%s: valid (%d slider(s), %d group(s))\n", res.File, len(res.Sliders), len(res.Groups))
	})
}

func validationFailed(p *Printer, res ValidationResult) error {
	msg := fmt.Sprintf("%s is invalid", res.File)
	if err := p.Failure(CodeInvalidConfig, msg, res, func(w io.Writer) {
		for _, problem := range res.Problems {
			fmt.Fprintf(w, "  %s\n", problem)
		}
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

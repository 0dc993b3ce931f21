package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure, divergent replay, invalid config
	ExitCommandError = 2 // Bad arguments, unreadable files, database errors
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the JSON envelope every command writes with --format json.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError describes a failed command in JSON output.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error codes used in JSON output.
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeScenarioFailed  = "SCENARIO_FAILED"
	CodeReplayDiverged  = "REPLAY_DIVERGED"
	CodeStore           = "STORE_ERROR"
)

// Printer writes command results as text or as a JSON Response.
type Printer struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

func newPrinter(opts *RootOptions, out, errOut io.Writer) *Printer {
	return &Printer{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}

// Success writes data. In text mode text renders it; a nil text prints
// data with fmt.
func (p *Printer) Success(data any, text func(w io.Writer)) error {
	if p.Format == "json" {
		return json.NewEncoder(p.Writer).Encode(Response{Status: "ok", Data: data})
	}
	if text == nil {
		_, err := fmt.Fprintln(p.Writer, data)
		return err
	}
	text(p.Writer)
	return nil
}

// Failure writes an error response. Details are printed in text mode only
// when verbose.
func (p *Printer) Failure(code, message string, details any, text func(w io.Writer)) error {
	if p.Format == "json" {
		return json.NewEncoder(p.Writer).Encode(Response{
			Status: "error",
			Error:  &ResponseError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(p.Writer, "Error [%s]: %s\n", code, message)
	if text != nil {
		text(p.Writer)
	} else if p.Verbose && details != nil {
		fmt.Fprintf(p.Writer, "Details: %v\n", details)
	}
	return nil
}

// Logf writes a diagnostic line to ErrWriter when verbose.
func (p *Printer) Logf(format string, args ...any) {
	if !p.Verbose {
		return
	}
	w := p.ErrWriter
	if w == nil {
		w = p.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// newLogger returns a text logger on w. Verbose enables debug records;
// otherwise only warnings and errors are written.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger returns a logger on w honoring log_level and log_format. An
// unrecognized level is an error; any format other than "json" is text.
func (f *File) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(f.LogLevel))); err != nil {
		return nil, fmt.Errorf("log_level %q: %w", f.LogLevel, err)
	}
	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(f.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return slog.New(slog.NewTextHandler(w, hopts)), nil
}

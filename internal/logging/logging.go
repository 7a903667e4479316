package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// FormatPlugin selects the host line protocol handler, FormatConsole the
// timestamped handler for operator commands.
const (
	FormatPlugin  = "plugin"
	FormatConsole = "console"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Output defaults to stderr. The host reads log lines from stderr only;
	// stdout belongs to command output.
	Output io.Writer
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = FormatPlugin
	}

	var handler slog.Handler
	switch format {
	case FormatPlugin:
		handler = newPluginHandler(out, levelVar)
	case FormatConsole:
		handler = newConsoleHandler(out, levelVar)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), nil
}

// NewPlugin builds the logger for plugin runs. Trace lines are part of the
// host protocol, so the level is always debug.
func NewPlugin(out io.Writer) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	if out == nil {
		out = os.Stderr
	}
	return slog.New(newPluginHandler(out, levelVar))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

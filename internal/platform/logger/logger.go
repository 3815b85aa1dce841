// Package logger builds the process-wide slog.Logger.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Options selects the level, format and destination of the base logger.
type Options struct {
	Service    string
	Level      string // debug, info, warn, error
	Format     string // json or text
	Production bool
	Output     io.Writer
}

// New returns the base logger and installs it as slog's default.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		AddSource: !opts.Production,
		Level:     ParseLevel(opts.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "text":
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	default:
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	}

	l := slog.New(handler).With(slog.String("service", opts.Service))
	slog.SetDefault(l)
	return l
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

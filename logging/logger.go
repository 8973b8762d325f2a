// Package logging wires up the application's structured logger. It is the
// only place that touches log/slog's handler construction; everywhere else
// takes a *slog.Logger and calls it a day.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/wnedit/wnedit/config"
)

// NewLogger builds a *slog.Logger from cfg, sets it as the slog default,
// and returns it. Text format includes source file/line; json does not,
// since most json consumers are log aggregators that don't render it.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLoggerWithWriter(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLoggerWithWriter(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// parseLevel maps a config level string to a slog.Level, defaulting to
// info for anything it doesn't recognize.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

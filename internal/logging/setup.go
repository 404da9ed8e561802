package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewHandler returns a text or json slog handler at the given level
func NewHandler(format, level string, w io.Writer) slog.Handler {
	if strings.EqualFold(format, "json") {
		return jsonHandler(level, w)
	}
	return textHandler(level, w)
}

func textHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}

	opts := log.Options{Level: log.InfoLevel}
	switch strings.ToLower(level) {
	case "trace":
		opts.ReportCaller = true
		opts.ReportTimestamp = true
		opts.Level = log.DebugLevel
	case "debug":
		opts.ReportTimestamp = true
		opts.Level = log.DebugLevel
	case "warn", "warning":
		opts.Level = log.WarnLevel
	case "error":
		opts.Level = log.ErrorLevel
	}
	return log.NewWithOptions(w, opts)
}

func jsonHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch strings.ToLower(level) {
	case "trace":
		opts.AddSource = true
		opts.Level = slog.LevelDebug
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn", "warning":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	return slog.NewJSONHandler(w, opts)
}

// Setup installs the default logger
func Setup(format, level string) *slog.Logger {
	logger := slog.New(NewHandler(format, level, nil))
	slog.SetDefault(logger)
	return logger
}

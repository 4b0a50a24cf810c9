// Package logging configures the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewHandler builds a slog handler for the given level and format.
// Format is "text" or "json"; anything else falls back to text.
func NewHandler(level, format string, writer io.Writer) slog.Handler {
	if strings.EqualFold(format, "json") {
		return newJSONHandler(level, writer)
	}
	return newTextHandler(level, writer)
}

// Setup installs the default slog logger.
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(level, format, nil)))
}

func newTextHandler(level string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	reportTimestamp := false
	lvl := log.InfoLevel
	switch strings.ToLower(level) {
	case "trace":
		reportCaller = true
		reportTimestamp = true
		lvl = log.DebugLevel
	case "debug":
		reportTimestamp = true
		lvl = log.DebugLevel
	case "info":
		lvl = log.InfoLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: reportTimestamp,
		ReportCaller:    reportCaller,
		Level:           lvl,
	})
}

func newJSONHandler(level string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	reportCaller := false
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "trace":
		reportCaller = true
		lvl = slog.LevelDebug
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: reportCaller,
	})
}

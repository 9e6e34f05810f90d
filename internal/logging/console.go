package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ConsoleOptions holds configuration for console logging.
type ConsoleOptions struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultConsoleOptions returns default options for console logging.
func DefaultConsoleOptions() ConsoleOptions {
	return ConsoleOptions{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
		Prefix:    "studycal",
	}
}

// NewConsole returns a leveled logger writing to w (stderr if nil).
func NewConsole(w io.Writer, opts ConsoleOptions) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// NewConsoleFromConfig builds a console logger from string settings as
// found in config files and environment variables.
func NewConsoleFromConfig(w io.Writer, level, format string, timestamps, caller bool) *log.Logger {
	opts := DefaultConsoleOptions()
	opts.Level = ParseLogLevel(level)
	opts.Formatter = ParseLogFormatter(format)
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return NewConsole(w, opts)
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidLogLevel reports whether level is a recognized level name.
func ValidLogLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

// ValidLogFormat reports whether format is a recognized formatter name.
func ValidLogFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt":
		return true
	}
	return false
}

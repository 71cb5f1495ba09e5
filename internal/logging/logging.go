// Package logging sets up structured logging for condour.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the default slog logger for the server.
// Dev mode uses human-readable text at debug level; prod uses JSON at info.
func Setup(devMode bool) *slog.Logger {
	level := slog.LevelInfo
	if devMode {
		level = slog.LevelDebug
	}
	return install(New(os.Stdout, devMode, level))
}

// SetupCLI initializes the default logger for command-line use. Output is
// text on w and only warnings show unless verbose is set.
func SetupCLI(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return install(New(w, true, level))
}

// New builds a logger writing text or JSON to w.
func New(w io.Writer, text bool, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if text {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func install(l *slog.Logger) *slog.Logger {
	slog.SetDefault(l)
	return l
}

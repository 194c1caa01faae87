package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log is the global logger instance. It falls back to slog's default until
// Setup runs so packages can log from tests without initialisation.
var Log = slog.Default()

// Setup initializes the global logger based on the environment.
// production writes JSON, test only keeps errors, anything else writes text.
func Setup(env string) {
	Log = slog.New(newHandler(env, os.Stdout))
	slog.SetDefault(Log)
}

func newHandler(env string, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch env {
	case "production":
		return slog.NewJSONHandler(w, opts)
	case "test":
		opts.Level = slog.LevelError
	case "development":
		opts.Level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, opts)
}

// With returns a child logger carrying the given attributes
func With(args ...any) *slog.Logger {
	return Log.With(args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup returns a logger for the given environment and installs it as the
// slog default so package-level slog calls share the same handler.
//
//	dev      human-readable text, DEBUG and above
//	staging  JSON, DEBUG and above
//	prod     JSON, INFO and above
func Setup(env string) *slog.Logger {
	log := New(os.Stdout, env)
	slog.SetDefault(log)
	return log
}

// New is Setup without touching the default logger.
func New(w io.Writer, env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// Err is shorthand for the error attribute used across the codebase.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}

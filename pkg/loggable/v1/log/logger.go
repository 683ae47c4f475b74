// Package log defines the public logging interface used across loggable packages.
package log

import (
	"context"
	"log/slog"
)

// Logger is the diagnostic logger used by the interceptor for its own
// operational messages (skipped phases, sink failures). It is distinct from
// the sink that receives invocation records.
type Logger interface {
	// Debugf logs a formatted message at the DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof logs a formatted message at the INFO level.
	Infof(format string, args ...interface{})
	// Warnf logs a formatted message at the WARN level.
	Warnf(format string, args ...interface{})
	// Errorf logs a formatted message at the ERROR level. Implementations
	// should check if the last arg is an error and log it structurally.
	Errorf(format string, args ...interface{})

	// Log logs a message at the given level with additional key-value attributes.
	Log(level slog.Level, msg string, args ...interface{})
	// LogCtx is Log with a caller-supplied context.
	LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{})

	// With returns a Logger that adds the given attributes to every entry.
	With(args ...interface{}) Logger
	// IsEnabled reports whether entries at level would be emitted.
	IsEnabled(level slog.Level) bool
}

package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	loggablelog "github.com/gxo-labs/loggable/pkg/loggable/v1/log"
)

// Default log level if not specified or invalid.
const defaultLevel = slog.LevelInfo

// parseLogLevel converts common log level strings (case-insensitive) to slog.Level values.
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return defaultLevel
	}
}

// defaultLogger implements the public loggablelog.Logger interface over slog.
type defaultLogger struct {
	*slog.Logger
}

var _ loggablelog.Logger = (*defaultLogger)(nil)

// NewLogger creates a Logger with the given level, output format ("text" or
// "json") and writer (defaults to os.Stderr).
func NewLogger(levelStr string, formatStr string, writer io.Writer) loggablelog.Logger {
	if writer == nil {
		writer = os.Stderr
	}
	return FromHandler(NewHandler(levelStr, formatStr, writer))
}

// NewHandler builds the slog handler NewLogger uses. It is exported so that
// record sinks can share the diagnostic output format.
func NewHandler(levelStr string, formatStr string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:       parseLogLevel(levelStr),
		ReplaceAttr: replaceLevelAttribute,
	}
	switch strings.ToLower(formatStr) {
	case "json":
		return slog.NewJSONHandler(writer, opts)
	default:
		return slog.NewTextHandler(writer, opts)
	}
}

// FromHandler wraps an arbitrary slog handler in the public Logger interface.
func FromHandler(h slog.Handler) loggablelog.Logger {
	return &defaultLogger{Logger: slog.New(h)}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() loggablelog.Logger {
	return NewLogger("error", "text", io.Discard)
}

// Mapping from slog levels to the upper-case form written in logs.
var levelStringMap = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARN",
	slog.LevelError: "ERROR",
}

// replaceLevelAttribute renders the level attribute as an upper-case string.
func replaceLevelAttribute(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		levelStr, exists := levelStringMap[level]
		if !exists {
			levelStr = level.String()
		}
		a.Value = slog.StringValue(levelStr)
	}
	return a
}

// NewDefaultLogger provides a text logger writing to Stderr at the given level.
func NewDefaultLogger(levelStr string) loggablelog.Logger {
	return NewLogger(levelStr, "text", os.Stderr)
}

// Debugf logs a formatted message at the DEBUG level.
func (l *defaultLogger) Debugf(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelDebug) {
		l.Logger.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, args...))
	}
}

// Infof logs a formatted message at the INFO level.
func (l *defaultLogger) Infof(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelInfo) {
		l.Logger.Log(context.Background(), slog.LevelInfo, fmt.Sprintf(format, args...))
	}
}

// Warnf logs a formatted message at the WARN level. A trailing error argument
// is also attached structurally.
func (l *defaultLogger) Warnf(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelWarn) {
		l.logHelper(context.Background(), slog.LevelWarn, fmt.Sprintf(format, args...), args...)
	}
}

// Errorf logs a formatted message at the ERROR level. A trailing error argument
// is also attached structurally.
func (l *defaultLogger) Errorf(format string, args ...interface{}) {
	if l.Logger.Enabled(context.Background(), slog.LevelError) {
		l.logHelper(context.Background(), slog.LevelError, fmt.Sprintf(format, args...), args...)
	}
}

// logHelper adds structured error attributes when the last argument is an
// error, with extra detail for this module's instrumentation errors.
func (l *defaultLogger) logHelper(ctx context.Context, level slog.Level, msg string, args ...interface{}) {
	var attrs []any
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			var mue *loggableerrors.MetadataUnavailableError
			var swe *loggableerrors.SinkWriteError
			switch {
			case errors.As(err, &mue):
				attrs = append(attrs, slog.String("error_type", "MetadataUnavailable"))
				if mue.TypeName != "" {
					attrs = append(attrs, slog.String("class", mue.TypeName))
				}
				if mue.MethodName != "" {
					attrs = append(attrs, slog.String("method", mue.MethodName))
				}
				attrs = append(attrs, slog.String("error", mue.Reason))
			case errors.As(err, &swe):
				attrs = append(attrs, slog.String("error_type", "SinkWriteFailure"))
				if swe.Phase != "" {
					attrs = append(attrs, slog.String("phase", swe.Phase))
				}
				if swe.Cause != nil {
					attrs = append(attrs, slog.String("error", swe.Cause.Error()))
				} else {
					attrs = append(attrs, slog.String("error", swe.Error()))
				}
			default:
				attrs = append(attrs, slog.String("error", err.Error()))
			}
		}
	}
	l.Logger.Log(ctx, level, msg, attrs...)
}

// Log logs a message at the specified level with explicit key-value pairs.
func (l *defaultLogger) Log(level slog.Level, msg string, args ...interface{}) {
	l.Logger.Log(context.Background(), level, msg, args...)
}

// LogCtx logs a message at the specified level using the caller's context.
func (l *defaultLogger) LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{}) {
	l.Logger.Log(ctx, level, msg, args...)
}

// With returns a new Logger instance with added attributes.
func (l *defaultLogger) With(args ...interface{}) loggablelog.Logger {
	return &defaultLogger{Logger: l.Logger.With(args...)}
}

// IsEnabled checks if logging is enabled for the specified level.
func (l *defaultLogger) IsEnabled(level slog.Level) bool {
	return l.Logger.Enabled(context.Background(), level)
}

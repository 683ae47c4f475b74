// Package sinks provides record destinations: the module's own logger, slog,
// zap, plain writers, OpenTelemetry span events, memory capture and fan-out.
package sinks

import (
	"context"
	"log/slog"

	loggablelog "github.com/gxo-labs/loggable/pkg/loggable/v1/log"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
)

// recordMessage is the message attached to structured record output.
const recordMessage = "invocation"

// LoggerSink writes the one-line form of each record through a log.Logger.
type LoggerSink struct {
	log loggablelog.Logger
}

// NewLoggerSink creates a sink over log. A nil logger panics.
func NewLoggerSink(log loggablelog.Logger) *LoggerSink {
	if log == nil {
		panic("LoggerSink requires a non-nil logger")
	}
	return &LoggerSink{log: log}
}

// Write logs rec at INFO or ERROR.
func (s *LoggerSink) Write(ctx context.Context, level record.Level, rec record.Record) error {
	s.log.LogCtx(ctx, slogLevel(level), rec.String(), "phase", string(rec.Phase))
	return nil
}

// SlogSink writes records to a *slog.Logger with one attribute per field, in
// record order.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink over logger, or slog.Default() when nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Write emits rec as a single "invocation" entry.
func (s *SlogSink) Write(ctx context.Context, level record.Level, rec record.Record) error {
	attrs := make([]slog.Attr, 0, len(rec.Fields)+1)
	attrs = append(attrs, slog.String("phase", string(rec.Phase)))
	for _, f := range rec.Fields {
		attrs = append(attrs, slog.String(f.Key, f.Value))
	}
	s.logger.LogAttrs(ctx, slogLevel(level), recordMessage, attrs...)
	return nil
}

func slogLevel(level record.Level) slog.Level {
	if level == record.LevelError {
		return slog.LevelError
	}
	return slog.LevelInfo
}

var (
	_ sink.Sink = (*LoggerSink)(nil)
	_ sink.Sink = (*SlogSink)(nil)
)

package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
)

// ZapSink writes records to a zap logger as ordered string fields.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink over logger, or zap.NewNop() when nil.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Write logs rec at Info or Error.
func (s *ZapSink) Write(_ context.Context, level record.Level, rec record.Record) error {
	fields := make([]zap.Field, 0, len(rec.Fields)+1)
	fields = append(fields, zap.String("phase", string(rec.Phase)))
	for _, f := range rec.Fields {
		fields = append(fields, zap.String(f.Key, f.Value))
	}
	if level == record.LevelError {
		s.logger.Error(recordMessage, fields...)
	} else {
		s.logger.Info(recordMessage, fields...)
	}
	return nil
}

// Sync flushes buffered zap output.
func (s *ZapSink) Sync() error {
	return s.logger.Sync()
}

var _ sink.Sink = (*ZapSink)(nil)

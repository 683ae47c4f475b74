package sinks

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
)

// SpanEventSink attaches each record as an event on the span carried by ctx.
// Records written without a recording span are dropped silently.
type SpanEventSink struct{}

// NewSpanEventSink creates a span event sink.
func NewSpanEventSink() *SpanEventSink {
	return &SpanEventSink{}
}

// Write adds a "loggable.<phase>" event with one attribute per field.
func (s *SpanEventSink) Write(ctx context.Context, level record.Level, rec record.Record) error {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}
	attrs := make([]attribute.KeyValue, 0, len(rec.Fields)+1)
	attrs = append(attrs, attribute.String("level", string(level)))
	for _, f := range rec.Fields {
		attrs = append(attrs, attribute.String(f.Key, f.Value))
	}
	span.AddEvent("loggable."+string(rec.Phase), trace.WithAttributes(attrs...))
	return nil
}

var _ sink.Sink = (*SpanEventSink)(nil)

package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TracerProvider defines the interface for accessing a tracer provider whose
// spans the span-event sink attaches invocation records to.
type TracerProvider interface {
	// GetTracer returns a Tracer instance with the specified name and options.
	GetTracer(name string, opts ...trace.TracerOption) trace.Tracer

	// Shutdown flushes buffered spans and stops the provider. The context
	// should carry a deadline.
	Shutdown(ctx context.Context) error
}

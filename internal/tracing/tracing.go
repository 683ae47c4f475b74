package tracing

import (
	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope of spans started by this module.
const tracerName = "github.com/gxo-labs/loggable"

// GetTracer returns the module's tracer from the global OpenTelemetry provider,
// which is a no-op tracer unless the application installed one.
func GetTracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}

// TracerFrom returns the module's tracer from p, falling back to the global provider.
func TracerFrom(p *OtelTracerProvider) oteltrace.Tracer {
	if p == nil {
		return GetTracer()
	}
	return p.GetTracer(tracerName)
}

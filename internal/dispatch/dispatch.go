// Package dispatch implements the interception dispatcher: it decides per
// phase whether a record is due, extracts call metadata, renders the record
// and hands it to the sink. Instrumentation failures never reach the caller
// of the instrumented method.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gxo-labs/loggable/internal/activation"
	"github.com/gxo-labs/loggable/internal/config"
	intEvents "github.com/gxo-labs/loggable/internal/events"
	"github.com/gxo-labs/loggable/internal/format"
	intMetrics "github.com/gxo-labs/loggable/internal/metrics"
	intRegistry "github.com/gxo-labs/loggable/internal/registry"
	"github.com/gxo-labs/loggable/internal/sinks"
	intTracing "github.com/gxo-labs/loggable/internal/tracing"
	loggable "github.com/gxo-labs/loggable/pkg/loggable/v1"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/events"
	loggablelog "github.com/gxo-labs/loggable/pkg/loggable/v1/log"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/metrics"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/registry"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
	loggabletracing "github.com/gxo-labs/loggable/pkg/loggable/v1/tracing"
)

// tracerName is the instrumentation scope of invocation spans.
const tracerName = "github.com/gxo-labs/loggable/dispatch"

// Dispatcher implements loggable.InterceptorV1. Its collaborators are fixed
// after construction; the per-call state lives in Call.
type Dispatcher struct {
	log             loggablelog.Logger
	sink            sink.Sink
	eventBus        events.Bus
	registry        registry.Registry
	metricsProvider metrics.RegistryProvider
	instruments     *intMetrics.Instruments
	tracerProvider  loggabletracing.TracerProvider
	tracer          trace.Tracer
}

// NewDispatcher creates a dispatcher. Components not supplied through opts
// fall back to defaults: records go to the diagnostic logger, events are
// discarded, declarations come from the global registry, metrics use a
// private Prometheus registry and spans are NoOp.
func NewDispatcher(log loggablelog.Logger, opts ...loggable.Option) (*Dispatcher, error) {
	if log == nil {
		return nil, loggableerrors.NewConfigError("logger cannot be nil", nil)
	}

	d := &Dispatcher{log: log.With("component", "Dispatcher")}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, loggableerrors.NewConfigError(fmt.Sprintf("failed to apply interceptor option: %v", err), err)
		}
	}

	if d.sink == nil {
		d.log.Debugf("No sink provided, writing records through the diagnostic logger.")
		d.sink = sinks.NewLoggerSink(log)
	}
	if d.eventBus == nil {
		d.eventBus = intEvents.NewNoOpEventBus()
	}
	if d.registry == nil {
		d.registry = intRegistry.Default()
	}
	if d.metricsProvider == nil {
		d.metricsProvider = intMetrics.NewPrometheusRegistryProvider()
		d.initMetrics()
	}
	if d.tracerProvider == nil {
		tp, err := intTracing.NewNoOpProvider()
		if err != nil {
			return nil, loggableerrors.NewConfigError("failed to create default NoOp tracer provider", err)
		}
		d.tracerProvider = tp
		d.tracer = tp.GetTracer(tracerName)
	}
	return d, nil
}

func (d *Dispatcher) initMetrics() {
	instruments, err := intMetrics.NewInstruments(d.metricsProvider.Registry())
	if err != nil {
		d.log.Warnf("Failed to register interceptor metrics, durations will not be recorded: %v", err)
		d.instruments = nil
		return
	}
	d.instruments = instruments
}

// Pre fires the PRE phase for m and returns the call handle for the post phases.
func (d *Dispatcher) Pre(ctx context.Context, m *config.Method, args []any) loggable.Call {
	return d.pre(ctx, m, args)
}

func (d *Dispatcher) pre(ctx context.Context, m *config.Method, args []any) *Call {
	c := &Call{d: d, method: m, args: args, start: time.Now()}
	if m == nil {
		d.metadataUnavailable(ctx, record.PhasePre,
			loggableerrors.NewMetadataUnavailableError("", "", "no method declaration supplied"))
		return c
	}
	if activation.ShouldLogParameters(m.Config()) {
		if ic, ok := c.invocation(ctx, record.PhasePre); ok {
			d.write(ctx, format.RenderParameters(ic))
		}
	}
	return c
}

// Invoke runs fn between the PRE and POST phases. fn's result and error are
// returned unchanged. A panic in fn is observed as POST-FAILURE and then
// re-raised with the same value.
func (d *Dispatcher) Invoke(ctx context.Context, m *config.Method, args []any, fn loggable.InvokeFunc) (result any, err error) {
	ctx, span := d.startSpan(ctx, m)
	defer span.End()

	c := d.pre(ctx, m, args)
	defer func() {
		if r := recover(); r != nil {
			c.panicked(ctx, r)
			span.SetStatus(codes.Error, "panic")
			panic(r)
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.Failed(ctx, err)
		return result, err
	}
	c.Succeeded(ctx, result)
	return result, nil
}

// InvokeNamed looks up typeName.methodName in the registry and invokes fn
// through Invoke. When no declaration exists, fn still runs, uninstrumented,
// and the miss is reported as MetadataUnavailable.
func (d *Dispatcher) InvokeNamed(ctx context.Context, typeName, methodName string, args []any, fn loggable.InvokeFunc) (any, error) {
	m, err := d.registry.Get(typeName, methodName)
	if err != nil {
		d.metadataUnavailable(ctx, record.PhasePre,
			loggableerrors.NewMetadataUnavailableError(typeName, methodName, err.Error()))
		return fn(ctx)
	}
	return d.Invoke(ctx, m, args, fn)
}

func (d *Dispatcher) startSpan(ctx context.Context, m *config.Method) (context.Context, trace.Span) {
	name := "loggable.invoke"
	if m != nil {
		name = m.Key()
	}
	return d.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
}

// write hands rec to the sink. Errors and panics from the sink are converted
// to a SinkWriteError, logged, and published; they are never returned.
func (d *Dispatcher) write(ctx context.Context, rec record.Record) {
	if err := d.safeWrite(ctx, rec); err != nil {
		d.log.Warnf("Dropped %s invocation record: %v", rec.Phase, err)
		class, _ := rec.Get(record.KeyClass)
		method, _ := rec.Get(record.KeyMethod)
		d.eventBus.Emit(events.Event{
			Type:       events.SinkWriteFailed,
			Timestamp:  time.Now(),
			TypeName:   class,
			MethodName: method,
			Phase:      string(rec.Phase),
			Payload:    map[string]interface{}{"error": err.Error()},
		})
		return
	}
	class, _ := rec.Get(record.KeyClass)
	method, _ := rec.Get(record.KeyMethod)
	d.eventBus.Emit(events.Event{
		Type:       events.RecordEmitted,
		Timestamp:  time.Now(),
		TypeName:   class,
		MethodName: method,
		Phase:      string(rec.Phase),
	})
}

func (d *Dispatcher) safeWrite(ctx context.Context, rec record.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = loggableerrors.NewSinkWriteError(string(rec.Phase), fmt.Errorf("sink panicked: %v", r))
		}
	}()
	if werr := d.sink.Write(ctx, rec.Level(), rec); werr != nil {
		return loggableerrors.NewSinkWriteError(string(rec.Phase), werr)
	}
	return nil
}

func (d *Dispatcher) metadataUnavailable(_ context.Context, phase record.Phase, err *loggableerrors.MetadataUnavailableError) {
	d.log.Warnf("Skipped %s invocation record: %v", phase, err)
	d.eventBus.Emit(events.Event{
		Type:       events.MetadataUnavailable,
		Timestamp:  time.Now(),
		TypeName:   err.TypeName,
		MethodName: err.MethodName,
		Phase:      string(phase),
		Payload:    map[string]interface{}{"reason": err.Reason},
	})
}

// MetricsRegistryProvider returns the metrics provider in use.
func (d *Dispatcher) MetricsRegistryProvider() metrics.RegistryProvider {
	return d.metricsProvider
}

// TracerProvider returns the tracer provider in use.
func (d *Dispatcher) TracerProvider() loggabletracing.TracerProvider {
	return d.tracerProvider
}

// Instruments returns the collectors updated by this dispatcher, or nil when
// they could not be registered.
func (d *Dispatcher) Instruments() *intMetrics.Instruments {
	return d.instruments
}

func (d *Dispatcher) SetSink(s sink.Sink) error {
	if s == nil {
		return loggableerrors.NewConfigError("sink cannot be nil", nil)
	}
	d.sink = s
	return nil
}

func (d *Dispatcher) SetEventBus(bus events.Bus) error {
	if bus == nil {
		return loggableerrors.NewConfigError("event bus cannot be nil", nil)
	}
	d.eventBus = bus
	return nil
}

func (d *Dispatcher) SetRegistry(r registry.Registry) error {
	if r == nil {
		return loggableerrors.NewConfigError("registry cannot be nil", nil)
	}
	d.registry = r
	return nil
}

func (d *Dispatcher) SetMetricsRegistryProvider(provider metrics.RegistryProvider) error {
	if provider == nil {
		return loggableerrors.NewConfigError("metrics registry provider cannot be nil", nil)
	}
	d.metricsProvider = provider
	d.initMetrics()
	return nil
}

func (d *Dispatcher) SetTracerProvider(provider loggabletracing.TracerProvider) error {
	if provider == nil {
		return loggableerrors.NewConfigError("tracer provider cannot be nil", nil)
	}
	d.tracerProvider = provider
	d.tracer = provider.GetTracer(tracerName)
	return nil
}

var _ loggable.InterceptorV1 = (*Dispatcher)(nil)

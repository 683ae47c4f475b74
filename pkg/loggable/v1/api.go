package v1

import (
	"context"

	"github.com/gxo-labs/loggable/internal/config"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/events"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/metrics"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/registry"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/tracing"
)

// Declaration types.
type (
	LogConfig    = config.LogConfig
	ConfigOption = config.ConfigOption
	Parameter    = config.Parameter
	Method       = config.Method
)

// InvokeFunc is the underlying method body, invoked with the (possibly
// span-carrying) context of the instrumented call.
type InvokeFunc func(ctx context.Context) (any, error)

// Call is one in-flight invocation returned by the PRE extension point.
// Exactly one of Succeeded or Failed should be called; later calls are ignored.
type Call interface {
	Succeeded(ctx context.Context, result any)
	Failed(ctx context.Context, err error)
}

// InterceptorV1 defines the public interface of the interception dispatcher.
type InterceptorV1 interface {
	// Pre fires the PRE phase and returns the call handle for the post phases.
	Pre(ctx context.Context, m *Method, args []any) Call
	// Invoke runs fn between the PRE and POST phases and returns its result
	// and error unchanged. A panic in fn is observed and re-raised.
	Invoke(ctx context.Context, m *Method, args []any, fn InvokeFunc) (any, error)
	// InvokeNamed is Invoke with the declaration looked up in the registry.
	InvokeNamed(ctx context.Context, typeName, methodName string, args []any, fn InvokeFunc) (any, error)

	// MetricsRegistryProvider returns the metrics provider in use.
	MetricsRegistryProvider() metrics.RegistryProvider
	// TracerProvider returns the tracer provider in use.
	TracerProvider() tracing.TracerProvider

	// Setters for configuring the interceptor programmatically. They are not
	// safe to call concurrently with instrumented calls.
	SetSink(s sink.Sink) error
	SetEventBus(bus events.Bus) error
	SetRegistry(r registry.Registry) error
	SetMetricsRegistryProvider(provider metrics.RegistryProvider) error
	SetTracerProvider(provider tracing.TracerProvider) error
}

// Option configures an interceptor at creation.
type Option func(InterceptorV1) error

// WithSink sets the record destination.
func WithSink(s sink.Sink) Option {
	return func(i InterceptorV1) error {
		if s == nil {
			return loggableerrors.NewConfigError("sink cannot be nil", nil)
		}
		return i.SetSink(s)
	}
}

// WithEventBus sets the bus instrumentation events are published to.
func WithEventBus(bus events.Bus) Option {
	return func(i InterceptorV1) error {
		if bus == nil {
			return loggableerrors.NewConfigError("event bus cannot be nil", nil)
		}
		return i.SetEventBus(bus)
	}
}

// WithRegistry sets the declaration registry used by InvokeNamed.
func WithRegistry(r registry.Registry) Option {
	return func(i InterceptorV1) error {
		if r == nil {
			return loggableerrors.NewConfigError("registry cannot be nil", nil)
		}
		return i.SetRegistry(r)
	}
}

// WithMetricsRegistryProvider sets the Prometheus registry the interceptor's
// collectors are registered with.
func WithMetricsRegistryProvider(provider metrics.RegistryProvider) Option {
	return func(i InterceptorV1) error {
		if provider == nil {
			return loggableerrors.NewConfigError("metrics registry provider cannot be nil", nil)
		}
		return i.SetMetricsRegistryProvider(provider)
	}
}

// WithTracerProvider sets the provider used to open a span around each
// wrapped invocation.
func WithTracerProvider(provider tracing.TracerProvider) Option {
	return func(i InterceptorV1) error {
		if provider == nil {
			return loggableerrors.NewConfigError("tracer provider cannot be nil", nil)
		}
		return i.SetTracerProvider(provider)
	}
}

// NewLogConfig returns the default configuration with opts applied.
func NewLogConfig(opts ...ConfigOption) LogConfig { return config.NewLogConfig(opts...) }

func WithEnabled(v bool) ConfigOption       { return config.WithEnabled(v) }
func WithLogParameters(v bool) ConfigOption { return config.WithLogParameters(v) }
func WithLogResult(v bool) ConfigOption     { return config.WithLogResult(v) }
func WithLogError(v bool) ConfigOption      { return config.WithLogError(v) }

// Param declares an unmarked parameter.
func Param(name string) Parameter { return config.Param(name) }

// Logged declares a parameter whose value is included in the PRE record.
func Logged(name string) Parameter { return config.Logged(name) }

// Declare builds a validated method declaration.
func Declare(typeName, methodName string, cfg LogConfig, params ...Parameter) (*Method, error) {
	return config.Declare(typeName, methodName, cfg, params...)
}

// MustDeclare is Declare that panics on an invalid declaration.
func MustDeclare(typeName, methodName string, cfg LogConfig, params ...Parameter) *Method {
	return config.MustDeclare(typeName, methodName, cfg, params...)
}

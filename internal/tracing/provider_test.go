package tracing_test

import (
	"context"
	"testing"

	"github.com/gxo-labs/loggable/internal/logger"
	"github.com/gxo-labs/loggable/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewProviderFromEnv_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	p, err := tracing.NewProviderFromEnv(context.Background(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.True(t, p.IsEffectivelyNoOp())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderFromEnv_UnknownProtocolWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	p, err := tracing.NewProviderFromEnv(context.Background(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.True(t, p.IsEffectivelyNoOp(), "An unresolvable exporter falls back to NoOp")
}

func TestNewNoOpProvider(t *testing.T) {
	p, err := tracing.NewNoOpProvider()
	require.NoError(t, err)

	_, span := p.GetTracer("test").Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()
}

func TestNewProviderFromSDK(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	p := tracing.NewProviderFromSDK(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	assert.False(t, p.IsEffectivelyNoOp())

	_, span := tracing.TracerFrom(p).Start(context.Background(), "Greeter.greet")
	span.End()
	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "Greeter.greet", recorder.Ended()[0].Name())

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestGetTracer_Global(t *testing.T) {
	assert.NotNil(t, tracing.GetTracer())
	assert.NotNil(t, tracing.TracerFrom(nil))
}

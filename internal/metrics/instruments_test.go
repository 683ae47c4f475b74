package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/gxo-labs/loggable/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstruments_Registers(t *testing.T) {
	provider := metrics.NewPrometheusRegistryProvider()
	instruments, err := metrics.NewInstruments(provider.Registry())
	require.NoError(t, err)

	instruments.RecordsTotal.WithLabelValues("pre").Inc()
	expected := `
# HELP loggable_records_total Invocation records written to the sink, by phase.
# TYPE loggable_records_total counter
loggable_records_total{phase="pre"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(provider.Registry(), strings.NewReader(expected), "loggable_records_total"))
}

// TestNewInstruments_ReusesRegistered verifies that two interceptors sharing
// a registry share the same collectors.
func TestNewInstruments_ReusesRegistered(t *testing.T) {
	provider := metrics.NewPrometheusRegistryProvider()
	first, err := metrics.NewInstruments(provider.Registry())
	require.NoError(t, err)
	second, err := metrics.NewInstruments(provider.Registry())
	require.NoError(t, err)

	first.FailuresTotal.WithLabelValues("sink_write_failure").Inc()
	second.FailuresTotal.WithLabelValues("sink_write_failure").Inc()
	assert.Equal(t, 2.0, testutil.ToFloat64(first.FailuresTotal.WithLabelValues("sink_write_failure")))
}

func TestObserveInvocation(t *testing.T) {
	provider := metrics.NewPrometheusRegistryProvider()
	instruments, err := metrics.NewInstruments(provider.Registry())
	require.NoError(t, err)

	instruments.ObserveInvocation("Greeter", "greet", metrics.OutcomeSuccess, 5*time.Millisecond)
	instruments.ObserveInvocation("Greeter", "greet", metrics.OutcomeError, time.Millisecond)
	assert.Equal(t, 2, testutil.CollectAndCount(instruments.InvocationDuration))

	var nilInstruments *metrics.Instruments
	assert.NotPanics(t, func() {
		nilInstruments.ObserveInvocation("T", "m", metrics.OutcomePanic, time.Second)
	})
}

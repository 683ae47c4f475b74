package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "loggable"

// Outcome labels for the invocation duration histogram.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
)

// Instruments groups the collectors the interceptor updates.
type Instruments struct {
	// RecordsTotal counts records accepted by the sink, by phase.
	RecordsTotal *prometheus.CounterVec
	// FailuresTotal counts swallowed instrumentation failures, by kind.
	FailuresTotal *prometheus.CounterVec
	// InvocationDuration observes the wall-clock time of instrumented calls.
	InvocationDuration *prometheus.HistogramVec
}

// NewInstruments creates the collectors and registers them with reg. A
// collector that is already registered is reused, so several interceptors
// can share one registry.
func NewInstruments(reg prometheus.Registerer) (*Instruments, error) {
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_total",
		Help:      "Invocation records written to the sink, by phase.",
	}, []string{"phase"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "instrumentation_failures_total",
		Help:      "Instrumentation failures swallowed at the dispatcher boundary, by kind.",
	}, []string{"kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "invocation_duration_seconds",
		Help:      "Duration of instrumented method calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"class", "method", "outcome"})

	var err error
	if records, err = registerOrReuse(reg, records); err != nil {
		return nil, err
	}
	if failures, err = registerOrReuse(reg, failures); err != nil {
		return nil, err
	}
	if duration, err = registerOrReuse(reg, duration); err != nil {
		return nil, err
	}
	return &Instruments{RecordsTotal: records, FailuresTotal: failures, InvocationDuration: duration}, nil
}

// ObserveInvocation records the duration of one call.
func (i *Instruments) ObserveInvocation(class, method, outcome string, d time.Duration) {
	if i == nil {
		return
	}
	i.InvocationDuration.WithLabelValues(class, method, outcome).Observe(d.Seconds())
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

package events

import (
	"context"

	"github.com/gxo-labs/loggable/internal/metrics"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/events"
	loggablelog "github.com/gxo-labs/loggable/pkg/loggable/v1/log"
)

// Failure kind labels.
const (
	KindMetadataUnavailable = "metadata_unavailable"
	KindSinkWriteFailure    = "sink_write_failure"
)

// MetricsEventListener consumes a ChannelEventBus and updates the
// interceptor's Prometheus counters.
type MetricsEventListener struct {
	bus         *ChannelEventBus
	log         loggablelog.Logger
	instruments *metrics.Instruments
}

// NewMetricsEventListener creates a listener. All dependencies are required.
func NewMetricsEventListener(bus *ChannelEventBus, instruments *metrics.Instruments, log loggablelog.Logger) *MetricsEventListener {
	if bus == nil || instruments == nil || log == nil {
		panic("MetricsEventListener requires a non-nil ChannelEventBus, Instruments, and Logger")
	}
	return &MetricsEventListener{
		bus:         bus,
		log:         log.With("component", "MetricsEventListener"),
		instruments: instruments,
	}
}

// Start consumes events until the bus is closed or ctx is done. It blocks;
// run it in its own goroutine.
func (l *MetricsEventListener) Start(ctx context.Context) {
	l.log.Debugf("Starting metrics event listener...")
	for {
		select {
		case event, ok := <-l.bus.GetChannel():
			if !ok {
				l.log.Debugf("Event bus channel closed, stopping listener.")
				return
			}
			l.handleEvent(event)
		case <-ctx.Done():
			l.log.Debugf("Context cancelled, stopping metrics event listener.")
			return
		}
	}
}

func (l *MetricsEventListener) handleEvent(event events.Event) {
	switch event.Type {
	case events.RecordEmitted:
		l.instruments.RecordsTotal.WithLabelValues(event.Phase).Inc()
	case events.MetadataUnavailable:
		l.instruments.FailuresTotal.WithLabelValues(KindMetadataUnavailable).Inc()
	case events.SinkWriteFailed:
		l.instruments.FailuresTotal.WithLabelValues(KindSinkWriteFailure).Inc()
	default:
		l.log.Debugf("Metrics listener received unhandled event type: %s", event.Type)
	}
}

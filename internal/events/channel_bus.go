package events

import (
	"github.com/gxo-labs/loggable/pkg/loggable/v1/events"
	loggablelog "github.com/gxo-labs/loggable/pkg/loggable/v1/log"
)

// ChannelEventBus implements events.Bus with a buffered channel. Emission never
// blocks the instrumented call path; events are dropped when the buffer is full.
type ChannelEventBus struct {
	channel chan events.Event
	log     loggablelog.Logger
}

// NewChannelEventBus creates a bus with the given buffer size (default 100 when
// non-positive). A nil logger panics, since this is a wiring mistake.
func NewChannelEventBus(bufferSize int, log loggablelog.Logger) *ChannelEventBus {
	const defaultBufferSize = 100
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if log == nil {
		panic("ChannelEventBus requires a non-nil logger")
	}
	bus := &ChannelEventBus{
		channel: make(chan events.Event, bufferSize),
		log:     log.With("component", "ChannelEventBus"),
	}
	bus.log.Debugf("ChannelEventBus initialized with buffer size %d", bufferSize)
	return bus
}

// Emit sends an event without blocking, dropping it if the buffer is full.
func (c *ChannelEventBus) Emit(event events.Event) {
	select {
	case c.channel <- event:
	default:
		c.log.Warnf("Event channel buffer full, dropping event type '%s'", event.Type)
	}
}

// GetChannel returns the read side of the event channel for in-process listeners.
func (c *ChannelEventBus) GetChannel() <-chan events.Event {
	return c.channel
}

// Close closes the event channel, signalling listeners that no more events follow.
func (c *ChannelEventBus) Close() {
	c.log.Debugf("Closing ChannelEventBus channel.")
	close(c.channel)
}

var _ events.Bus = (*ChannelEventBus)(nil)

package events

import "time"

// EventType represents the type of an interceptor event.
type EventType string

// Standard interceptor event types.
const (
	RecordEmitted       EventType = "RecordEmitted"       // A record was accepted by the sink
	MetadataUnavailable EventType = "MetadataUnavailable" // A phase was skipped because call-site data could not be aligned
	SinkWriteFailed     EventType = "SinkWriteFailed"     // The sink rejected a record or panicked
)

// Event represents a significant occurrence within the interceptor.
type Event struct {
	// Type categorizes the event.
	Type EventType `json:"type"`
	// Timestamp marks when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// TypeName is the declaring type of the instrumented method.
	TypeName string `json:"type_name,omitempty"`
	// MethodName is the instrumented method.
	MethodName string `json:"method_name,omitempty"`
	// Phase is the join point the event relates to.
	Phase string `json:"phase,omitempty"`
	// Payload contains event-specific data. Argument values MUST NOT be
	// included; only the failure description is carried.
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Bus defines the interface for publishing interceptor events.
type Bus interface {
	// Emit publishes an event to the bus. Implementations must not block the
	// instrumented call path.
	Emit(event Event)
}

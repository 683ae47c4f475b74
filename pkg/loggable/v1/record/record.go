// Package record defines the wire form of an invocation record: an ordered
// sequence of key/value string pairs produced once per active phase.
package record

import "strings"

// Phase identifies the join point a record was produced at.
type Phase string

const (
	// PhasePre fires before the instrumented method body executes.
	PhasePre Phase = "pre"
	// PhasePostSuccess fires after the method returns normally.
	PhasePostSuccess Phase = "post_success"
	// PhasePostFailure fires after the method returns an error or panics.
	PhasePostFailure Phase = "post_failure"
)

// Level is the severity a sink writes a record at.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// Canonical record keys.
const (
	KeyClass        = "class"
	KeyMethod       = "method"
	KeyResult       = "result"
	KeyErrorType    = "errorType"
	KeyErrorMessage = "errorMessage"
)

// Field is a single key/value pair of a record.
type Field struct {
	Key   string
	Value string
}

// Record is the rendered output of one phase. Field order is significant and
// fully determined by the phase and the declaration's parameter markers.
type Record struct {
	Phase  Phase
	Fields []Field
}

// Level returns INFO for PRE and POST-SUCCESS records and ERROR for POST-FAILURE.
func (r Record) Level() Level {
	if r.Phase == PhasePostFailure {
		return LevelError
	}
	return LevelInfo
}

// Keys returns the record's keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key and whether it was present.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// String renders the record as one line: "class=Greeter, method=greet, name=Ada".
func (r Record) String() string {
	var b strings.Builder
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value)
	}
	return b.String()
}

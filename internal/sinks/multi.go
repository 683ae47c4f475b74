package sinks

import (
	"context"
	"errors"

	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
)

// MultiSink writes every record to each member in order. A failing member
// does not prevent the others from receiving the record.
type MultiSink struct {
	sinks []sink.Sink
}

// NewMultiSink creates a fan-out sink. Nil members are ignored.
func NewMultiSink(members ...sink.Sink) *MultiSink {
	m := &MultiSink{sinks: make([]sink.Sink, 0, len(members))}
	for _, s := range members {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Write returns the joined errors of all failing members, or nil.
func (m *MultiSink) Write(ctx context.Context, level record.Level, rec record.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, level, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of members.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

var _ sink.Sink = (*MultiSink)(nil)

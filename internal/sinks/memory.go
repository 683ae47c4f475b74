package sinks

import (
	"context"
	"sync"

	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
)

// Entry is one captured write.
type Entry struct {
	Level  record.Level
	Record record.Record
}

// MemorySink stores records in memory for tests and inspection.
type MemorySink struct {
	entries []Entry
	mu      sync.RWMutex
}

// NewMemorySink creates an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		entries: make([]Entry, 0),
	}
}

// Write stores a copy of rec.
func (m *MemorySink) Write(_ context.Context, level record.Level, rec record.Record) error {
	recCopy := record.Record{Phase: rec.Phase, Fields: make([]record.Field, len(rec.Fields))}
	copy(recCopy.Fields, rec.Fields)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Record: recCopy})
	return nil
}

// Entries returns a copy of everything written so far.
func (m *MemorySink) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Records returns the captured records in write order.
func (m *MemorySink) Records() []record.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]record.Record, len(m.entries))
	for i, e := range m.entries {
		result[i] = e.Record
	}
	return result
}

// ByPhase returns the captured records produced at phase.
func (m *MemorySink) ByPhase(phase record.Phase) []record.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []record.Record
	for _, e := range m.entries {
		if e.Record.Phase == phase {
			result = append(result, e.Record)
		}
	}
	return result
}

// Count returns the number of captured records.
func (m *MemorySink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Clear removes all captured records.
func (m *MemorySink) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = m.entries[:0]
}

var _ sink.Sink = (*MemorySink)(nil)

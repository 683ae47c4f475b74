package sinks

import (
	"context"
	"io"
	"sync"

	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/sink"
)

// WriterSink writes one "LEVEL k=v, k=v" line per record to an io.Writer.
// Writes are serialised so lines never interleave.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink over w. A nil writer panics.
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		panic("WriterSink requires a non-nil writer")
	}
	return &WriterSink{w: w}
}

// Write formats and writes one line. Short writes are reported as errors.
func (s *WriterSink) Write(_ context.Context, level record.Level, rec record.Record) error {
	line := string(level) + " " + rec.String() + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := io.WriteString(s.w, line)
	if err != nil {
		return err
	}
	if n < len(line) {
		return io.ErrShortWrite
	}
	return nil
}

// Close closes the underlying writer when it is an io.Closer.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ sink.Sink = (*WriterSink)(nil)

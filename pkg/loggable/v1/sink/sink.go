// Package sink defines the destination contract for invocation records.
package sink

import (
	"context"

	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
)

// Sink receives formatted invocation records. Write is called synchronously
// from the instrumented call path; the interceptor does not buffer, batch,
// retry or time out. A returned error (or a panic) is treated as a
// SinkWriteFailure and never reaches the instrumented method's caller.
//
// Implementations must be safe for concurrent use.
type Sink interface {
	Write(ctx context.Context, level record.Level, rec record.Record) error
}

// Func adapts an ordinary function to the Sink interface.
type Func func(ctx context.Context, level record.Level, rec record.Record) error

// Write calls f(ctx, level, rec).
func (f Func) Write(ctx context.Context, level record.Level, rec record.Record) error {
	return f(ctx, level, rec)
}

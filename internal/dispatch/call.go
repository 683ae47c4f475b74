package dispatch

import (
	"context"
	"time"

	"github.com/gxo-labs/loggable/internal/activation"
	"github.com/gxo-labs/loggable/internal/config"
	"github.com/gxo-labs/loggable/internal/format"
	"github.com/gxo-labs/loggable/internal/metadata"
	intMetrics "github.com/gxo-labs/loggable/internal/metrics"
	loggable "github.com/gxo-labs/loggable/pkg/loggable/v1"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
)

// Call is the state of one in-flight invocation. It owns the invocation's
// InvocationContext and must not be shared between calls or goroutines.
type Call struct {
	d      *Dispatcher
	method *config.Method
	args   []any
	start  time.Time

	ictx       *metadata.InvocationContext
	extractErr error
	extracted  bool
	finished   bool
}

// Succeeded fires the POST-SUCCESS phase with the method's return value.
func (c *Call) Succeeded(ctx context.Context, result any) {
	if !c.finish(intMetrics.OutcomeSuccess) {
		return
	}
	if !activation.ShouldLogResult(c.method.Config()) {
		return
	}
	if ic, ok := c.invocation(ctx, record.PhasePostSuccess); ok {
		ic.Result = result
		c.d.write(ctx, format.RenderResult(ic, result))
	}
}

// Failed fires the POST-FAILURE phase with the error the method returned.
func (c *Call) Failed(ctx context.Context, err error) {
	if !c.finish(intMetrics.OutcomeError) {
		return
	}
	if !activation.ShouldLogError(c.method.Config()) {
		return
	}
	if ic, ok := c.invocation(ctx, record.PhasePostFailure); ok {
		ic.Err = err
		c.d.write(ctx, format.RenderError(ic, err))
	}
}

func (c *Call) panicked(ctx context.Context, value any) {
	if !c.finish(intMetrics.OutcomePanic) {
		return
	}
	if !activation.ShouldLogError(c.method.Config()) {
		return
	}
	if ic, ok := c.invocation(ctx, record.PhasePostFailure); ok {
		if err, isErr := value.(error); isErr {
			ic.Err = err
		}
		c.d.write(ctx, format.RenderPanic(ic, value))
	}
}

// finish marks the call complete and records its duration. It reports false
// when the call was already finished or carries no declaration.
func (c *Call) finish(outcome string) bool {
	if c.finished || c.method == nil {
		return false
	}
	c.finished = true
	c.d.instruments.ObserveInvocation(c.method.TypeName(), c.method.Name(), outcome, time.Since(c.start))
	return true
}

// invocation extracts the InvocationContext on first use. A failed
// extraction skips the requesting phase and is reported for each phase
// that needed it.
func (c *Call) invocation(ctx context.Context, phase record.Phase) (*metadata.InvocationContext, bool) {
	if !c.extracted {
		c.extracted = true
		c.ictx, c.extractErr = metadata.Extract(metadata.NewCallSite(c.method, c.args))
	}
	if c.extractErr != nil {
		if mue, ok := c.extractErr.(*loggableerrors.MetadataUnavailableError); ok {
			c.d.metadataUnavailable(ctx, phase, mue)
		} else {
			c.d.metadataUnavailable(ctx, phase, loggableerrors.NewMetadataUnavailableError(
				c.method.TypeName(), c.method.Name(), c.extractErr.Error()))
		}
		return nil, false
	}
	return c.ictx, true
}

var _ loggable.Call = (*Call)(nil)

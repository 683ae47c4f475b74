package metadata

import (
	"fmt"

	"github.com/gxo-labs/loggable/internal/config"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
)

// CallSite is the raw call data captured by an interception strategy: the
// declaring identity, the formal parameter descriptors and the actual
// argument values, in call order.
type CallSite struct {
	TypeName   string
	MethodName string
	Params     []config.Parameter
	Args       []any
}

// NewCallSite builds a CallSite from a declaration and the actual arguments.
func NewCallSite(m *config.Method, args []any) CallSite {
	return CallSite{
		TypeName:   m.TypeName(),
		MethodName: m.Name(),
		Params:     m.Params(),
		Args:       args,
	}
}

// Argument is one aligned (name, marker, value) triple.
type Argument struct {
	Name   string
	Marked bool
	Value  any
}

// InvocationContext is the normalized description of one call. It is owned
// by a single dispatch and never shared across calls or goroutines.
type InvocationContext struct {
	TypeName   string
	MethodName string
	Arguments  []Argument

	// Result and Err are populated by the dispatcher once the call completes.
	Result any
	Err    error
}

// MarkedArguments returns the arguments carrying the marker, in declaration order.
func (c *InvocationContext) MarkedArguments() []Argument {
	var out []Argument
	for _, a := range c.Arguments {
		if a.Marked {
			out = append(out, a)
		}
	}
	return out
}

// Extract aligns a call site into an InvocationContext. It fails fast with a
// MetadataUnavailableError instead of substituting positional names.
func Extract(site CallSite) (*InvocationContext, error) {
	if site.TypeName == "" {
		return nil, loggableerrors.NewMetadataUnavailableError(site.TypeName, site.MethodName, "declaring type name is missing")
	}
	if site.MethodName == "" {
		return nil, loggableerrors.NewMetadataUnavailableError(site.TypeName, site.MethodName, "method name is missing")
	}
	if len(site.Params) != len(site.Args) {
		return nil, loggableerrors.NewMetadataUnavailableError(site.TypeName, site.MethodName,
			fmt.Sprintf("%d parameter descriptor(s) for %d argument(s)", len(site.Params), len(site.Args)))
	}

	ctx := &InvocationContext{
		TypeName:   site.TypeName,
		MethodName: site.MethodName,
		Arguments:  make([]Argument, len(site.Args)),
	}
	for i, p := range site.Params {
		if p.Name == "" {
			return nil, loggableerrors.NewMetadataUnavailableError(site.TypeName, site.MethodName,
				fmt.Sprintf("parameter %d has no name", i))
		}
		ctx.Arguments[i] = Argument{Name: p.Name, Marked: p.Marked, Value: site.Args[i]}
	}
	return ctx, nil
}

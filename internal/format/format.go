// Package format renders invocation contexts into records. Rendering is
// deterministic: identical inputs yield identical records, with no
// timestamps or map-order dependence.
package format

import (
	"fmt"
	"reflect"

	"github.com/gxo-labs/loggable/internal/metadata"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
)

// NullValue is the rendering of a nil or absent value.
const NullValue = "null"

// Kinder is implemented by errors that name their own kind. The kind takes
// precedence over the dynamic type name in the errorType field.
type Kinder interface {
	Kind() string
}

// RenderParameters builds the pre-call record: class, method, then one field
// per marked argument in declaration order.
func RenderParameters(ctx *metadata.InvocationContext) record.Record {
	fields := identity(ctx, len(ctx.Arguments))
	for _, a := range ctx.Arguments {
		if !a.Marked {
			continue
		}
		fields = append(fields, record.Field{Key: a.Name, Value: FormatValue(a.Value)})
	}
	return record.Record{Phase: record.PhasePre, Fields: fields}
}

// RenderResult builds the post-success record.
func RenderResult(ctx *metadata.InvocationContext, value any) record.Record {
	fields := identity(ctx, 1)
	fields = append(fields, record.Field{Key: record.KeyResult, Value: FormatValue(value)})
	return record.Record{Phase: record.PhasePostSuccess, Fields: fields}
}

// RenderError builds the post-failure record. errorMessage is always present,
// possibly empty.
func RenderError(ctx *metadata.InvocationContext, err error) record.Record {
	fields := identity(ctx, 2)
	fields = append(fields,
		record.Field{Key: record.KeyErrorType, Value: ErrorType(err)},
		record.Field{Key: record.KeyErrorMessage, Value: ErrorMessage(err)},
	)
	return record.Record{Phase: record.PhasePostFailure, Fields: fields}
}

// RenderPanic builds the post-failure record for a recovered panic value. An
// error value is rendered like any other error; anything else reports its
// type name and %v form.
func RenderPanic(ctx *metadata.InvocationContext, value any) record.Record {
	if err, ok := value.(error); ok {
		return RenderError(ctx, err)
	}
	fields := identity(ctx, 2)
	fields = append(fields,
		record.Field{Key: record.KeyErrorType, Value: TypeName(value)},
		record.Field{Key: record.KeyErrorMessage, Value: FormatValue(value)},
	)
	return record.Record{Phase: record.PhasePostFailure, Fields: fields}
}

func identity(ctx *metadata.InvocationContext, extra int) []record.Field {
	fields := make([]record.Field, 0, 2+extra)
	return append(fields,
		record.Field{Key: record.KeyClass, Value: ctx.TypeName},
		record.Field{Key: record.KeyMethod, Value: ctx.MethodName},
	)
}

// FormatValue returns the natural string form of v. Nil interfaces and typed
// nils render as NullValue. Nested values are not expanded beyond what %v
// does for the top-level value.
func FormatValue(v any) string {
	if isNil(v) {
		return NullValue
	}
	return fmt.Sprintf("%v", v)
}

// ErrorType names the kind of err: its Kind() if it implements Kinder,
// otherwise the simple name of its dynamic type.
func ErrorType(err error) string {
	if isNil(err) {
		return NullValue
	}
	if k, ok := err.(Kinder); ok {
		if kind := k.Kind(); kind != "" {
			return kind
		}
	}
	return TypeName(err)
}

// ErrorMessage returns err's message, or "" for a nil error.
func ErrorMessage(err error) string {
	if isNil(err) {
		return ""
	}
	return err.Error()
}

// TypeName returns the simple name of v's dynamic type with pointers and the
// package qualifier stripped. Unnamed types fall back to their literal form.
func TypeName(v any) string {
	if v == nil {
		return NullValue
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

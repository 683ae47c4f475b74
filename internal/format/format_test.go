package format_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gxo-labs/loggable/internal/config"
	"github.com/gxo-labs/loggable/internal/format"
	"github.com/gxo-labs/loggable/internal/metadata"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greetContext(t *testing.T, args ...any) *metadata.InvocationContext {
	t.Helper()
	m := config.MustDeclare("Greeter", "greet", config.DefaultLogConfig(),
		config.Logged("name"), config.Param("lastName"))
	ctx, err := metadata.Extract(metadata.NewCallSite(m, args))
	require.NoError(t, err)
	return ctx
}

type kindError struct{}

func (kindError) Error() string { return "quota exceeded" }
func (kindError) Kind() string  { return "QuotaExceeded" }

type ValidationFailure struct{ Field string }

func (e *ValidationFailure) Error() string { return "invalid " + e.Field }

type point struct{ X, Y int }

func TestRenderParameters_OnlyMarked(t *testing.T) {
	rec := format.RenderParameters(greetContext(t, "Ada", "Lovelace"))

	assert.Equal(t, record.PhasePre, rec.Phase)
	assert.Equal(t, record.LevelInfo, rec.Level())
	assert.Equal(t, []string{"class", "method", "name"}, rec.Keys())
	assert.Equal(t, "class=Greeter, method=greet, name=Ada", rec.String())
	_, hasLastName := rec.Get("lastName")
	assert.False(t, hasLastName, "Unmarked parameters must not contribute a key")
}

func TestRenderParameters_NoMarkedParameters(t *testing.T) {
	m := config.MustDeclare("Repo", "save", config.DefaultLogConfig(), config.Param("entity"))
	ctx, err := metadata.Extract(metadata.NewCallSite(m, []any{"x"}))
	require.NoError(t, err)

	rec := format.RenderParameters(ctx)
	assert.Equal(t, "class=Repo, method=save", rec.String(), "Identity fields are still emitted")
}

func TestRenderParameters_DeclarationOrder(t *testing.T) {
	m := config.MustDeclare("T", "m", config.DefaultLogConfig(),
		config.Logged("z"), config.Param("skip"), config.Logged("a"))
	ctx, err := metadata.Extract(metadata.NewCallSite(m, []any{1, 2, 3}))
	require.NoError(t, err)

	assert.Equal(t, []string{"class", "method", "z", "a"}, format.RenderParameters(ctx).Keys())
}

func TestRenderParameters_NullValues(t *testing.T) {
	var nilPtr *point
	var nilMap map[string]int
	rec := format.RenderParameters(greetContext(t, nil, "x"))
	assert.Equal(t, "class=Greeter, method=greet, name=null", rec.String())

	rec = format.RenderParameters(greetContext(t, nilPtr, nilMap))
	v, _ := rec.Get("name")
	assert.Equal(t, format.NullValue, v, "Typed nil pointers render as null")
}

func TestRenderResult(t *testing.T) {
	ctx := greetContext(t, "Ada", "Lovelace")

	testCases := []struct {
		name   string
		value  any
		expect string
	}{
		{name: "Integer", value: 42, expect: "42"},
		{name: "String", value: "Hello, Ada", expect: "Hello, Ada"},
		{name: "Nil", value: nil, expect: "null"},
		{name: "Struct", value: point{X: 1, Y: 2}, expect: "{1 2}"},
		{name: "Slice", value: []int{1, 2}, expect: "[1 2]"},
		{name: "Stringer", value: stringer("custom"), expect: "custom!"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := format.RenderResult(ctx, tc.value)
			assert.Equal(t, record.PhasePostSuccess, rec.Phase)
			assert.Equal(t, []string{"class", "method", "result"}, rec.Keys())
			v, ok := rec.Get(record.KeyResult)
			require.True(t, ok)
			assert.Equal(t, tc.expect, v)
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) + "!" }

func TestRenderError(t *testing.T) {
	ctx := greetContext(t, "Ada", "Lovelace")

	testCases := []struct {
		name       string
		err        error
		expectType string
		expectMsg  string
	}{
		{name: "Plain Error", err: errors.New("boom"), expectType: "errorString", expectMsg: "boom"},
		{name: "Kind Wins", err: kindError{}, expectType: "QuotaExceeded", expectMsg: "quota exceeded"},
		{name: "Pointer Type", err: &ValidationFailure{Field: "name"}, expectType: "ValidationFailure", expectMsg: "invalid name"},
		{name: "Wrapped", err: fmt.Errorf("outer: %w", errors.New("inner")), expectType: "wrapError", expectMsg: "outer: inner"},
		{name: "Empty Message", err: errors.New(""), expectType: "errorString", expectMsg: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := format.RenderError(ctx, tc.err)
			assert.Equal(t, record.PhasePostFailure, rec.Phase)
			assert.Equal(t, record.LevelError, rec.Level())
			assert.Equal(t, []string{"class", "method", "errorType", "errorMessage"}, rec.Keys(),
				"errorMessage is never absent")
			errType, _ := rec.Get(record.KeyErrorType)
			errMsg, _ := rec.Get(record.KeyErrorMessage)
			assert.Equal(t, tc.expectType, errType)
			assert.Equal(t, tc.expectMsg, errMsg)
		})
	}
}

func TestRenderPanic(t *testing.T) {
	ctx := greetContext(t, "Ada", "Lovelace")

	rec := format.RenderPanic(ctx, "kaboom")
	assert.Equal(t, "class=Greeter, method=greet, errorType=string, errorMessage=kaboom", rec.String())

	rec = format.RenderPanic(ctx, &ValidationFailure{Field: "x"})
	assert.Equal(t, "class=Greeter, method=greet, errorType=ValidationFailure, errorMessage=invalid x", rec.String())
}

// TestRendering_Idempotent verifies that rendering an identical context twice
// yields identical records.
func TestRendering_Idempotent(t *testing.T) {
	ctx := greetContext(t, "Ada", "Lovelace")
	boom := errors.New("boom")

	assert.Equal(t, format.RenderParameters(ctx), format.RenderParameters(ctx))
	assert.Equal(t, format.RenderResult(ctx, 42).String(), format.RenderResult(ctx, 42).String())
	assert.Equal(t, format.RenderError(ctx, boom).String(), format.RenderError(ctx, boom).String())
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "null", format.TypeName(nil))
	assert.Equal(t, "int", format.TypeName(3))
	assert.Equal(t, "point", format.TypeName(&point{}))
	assert.Equal(t, "[]int", format.TypeName([]int{}))
	assert.Equal(t, "null", format.ErrorType(nil))
	assert.Equal(t, "", format.ErrorMessage(nil))
}

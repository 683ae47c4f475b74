package metadata

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/gxo-labs/loggable/internal/config"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
)

var (
	closureSuffixRegex = regexp.MustCompile(`^(func\d+|\d+)$`)
	contextType        = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// FuncIdentity derives a declaring type name and method name from a Go
// function or method value using the runtime symbol table.
//
//	example.com/app.(*Greeter).Greet-fm  -> Greeter, Greet
//	example.com/app.Greeter.Greet-fm     -> Greeter, Greet
//	example.com/app.greet                -> app, greet
//
// Anonymous functions have no stable identity and are rejected.
func FuncIdentity(fn any) (typeName, methodName string, err error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return "", "", loggableerrors.NewMetadataUnavailableError("", "", fmt.Sprintf("expected a non-nil function, got %T", fn))
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "", "", loggableerrors.NewMetadataUnavailableError("", "", "function symbol not found")
	}
	return parseSymbol(rf.Name())
}

// parseSymbol splits a runtime symbol name into type and method.
func parseSymbol(symbol string) (string, string, error) {
	name := strings.TrimSuffix(symbol, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if idx := strings.Index(p, "["); idx >= 0 {
			parts[i] = p[:idx]
		}
	}

	last := parts[len(parts)-1]
	if closureSuffixRegex.MatchString(last) || strings.HasPrefix(last, "gowrap") {
		return "", "", loggableerrors.NewMetadataUnavailableError("", "", fmt.Sprintf("anonymous function '%s' has no stable identity", symbol))
	}

	switch len(parts) {
	case 2:
		return parts[0], parts[1], nil
	case 3:
		recv := strings.TrimSuffix(strings.TrimPrefix(parts[1], "(*"), ")")
		return recv, parts[2], nil
	default:
		return "", "", loggableerrors.NewMetadataUnavailableError("", "", fmt.Sprintf("cannot derive identity from symbol '%s'", symbol))
	}
}

// FuncArity returns the number of parameters of fn, not counting a leading
// context.Context.
func FuncArity(fn any) (int, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return 0, loggableerrors.NewMetadataUnavailableError("", "", fmt.Sprintf("expected a function, got %T", fn))
	}
	t := v.Type()
	n := t.NumIn()
	if n > 0 && t.In(0) == contextType {
		n--
	}
	return n, nil
}

// DeclareFunc declares fn using its runtime identity. The parameter
// descriptors must cover every non-context parameter of fn, since parameter
// names cannot be recovered at runtime.
func DeclareFunc(fn any, cfg config.LogConfig, params ...config.Parameter) (*config.Method, error) {
	typeName, methodName, err := FuncIdentity(fn)
	if err != nil {
		return nil, err
	}
	arity, err := FuncArity(fn)
	if err != nil {
		return nil, err
	}
	if arity != len(params) {
		return nil, loggableerrors.NewMetadataUnavailableError(typeName, methodName,
			fmt.Sprintf("function takes %d parameter(s) but %d descriptor(s) were declared", arity, len(params)))
	}
	return config.Declare(typeName, methodName, cfg, params...)
}

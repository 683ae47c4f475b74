package config

import (
	"fmt"
	"regexp"

	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
)

// Pre-compiled regex for parameter names. Names become record keys, so they
// must not contain the separators of the one-line form.
var parameterNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// LogConfig is the per-method instrumentation intent. It is resolved once per
// declaration and consumed only by value.
type LogConfig struct {
	// Enabled is the master switch; when false no phase fires.
	Enabled bool
	// LogParameters gates the pre-call record.
	LogParameters bool
	// LogResult gates the post-success record.
	LogResult bool
	// LogError gates the post-failure record.
	LogError bool
}

// ConfigOption overrides one field of the default LogConfig.
type ConfigOption func(*LogConfig)

// DefaultLogConfig returns a configuration with every flag set.
func DefaultLogConfig() LogConfig {
	return LogConfig{Enabled: true, LogParameters: true, LogResult: true, LogError: true}
}

// NewLogConfig builds a LogConfig from the defaults and the given overrides.
func NewLogConfig(opts ...ConfigOption) LogConfig {
	cfg := DefaultLogConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithEnabled(v bool) ConfigOption { return func(c *LogConfig) { c.Enabled = v } }
func WithLogParameters(v bool) ConfigOption { return func(c *LogConfig) { c.LogParameters = v } }
func WithLogResult(v bool) ConfigOption { return func(c *LogConfig) { c.LogResult = v } }
func WithLogError(v bool) ConfigOption { return func(c *LogConfig) { c.LogError = v } }

// Parameter describes one formal parameter of a declared method. Marked is the
// per-parameter opt-in: only marked parameters appear in the pre-call record.
type Parameter struct {
	Name   string
	Marked bool
}

// Param declares an unmarked parameter.
func Param(name string) Parameter { return Parameter{Name: name} }

// Logged declares a parameter carrying the logging marker.
func Logged(name string) Parameter { return Parameter{Name: name, Marked: true} }

// Method is an immutable method declaration: identity, configuration and the
// ordered parameter descriptors captured once at registration.
type Method struct {
	typeName string
	name     string
	config   LogConfig
	params   []Parameter
}

// Declare validates and builds a method declaration.
func Declare(typeName, methodName string, cfg LogConfig, params ...Parameter) (*Method, error) {
	if errs := validateDeclaration(typeName, methodName, params); len(errs) > 0 {
		return nil, errs[0]
	}
	copied := make([]Parameter, len(params))
	copy(copied, params)
	return &Method{typeName: typeName, name: methodName, config: cfg, params: copied}, nil
}

// MustDeclare is Declare for package-level declarations; it panics on error.
func MustDeclare(typeName, methodName string, cfg LogConfig, params ...Parameter) *Method {
	m, err := Declare(typeName, methodName, cfg, params...)
	if err != nil {
		panic(fmt.Errorf("failed to declare %s.%s: %w", typeName, methodName, err))
	}
	return m
}

// TypeName returns the declaring type name.
func (m *Method) TypeName() string { return m.typeName }

// Name returns the method name.
func (m *Method) Name() string { return m.name }

// Config returns the method's logging configuration.
func (m *Method) Config() LogConfig { return m.config }

// Params returns a copy of the ordered parameter descriptors.
func (m *Method) Params() []Parameter {
	out := make([]Parameter, len(m.params))
	copy(out, m.params)
	return out
}

// NumParams returns the number of declared parameters.
func (m *Method) NumParams() int { return len(m.params) }

// Key returns the side-table identity of the declaration.
func (m *Method) Key() string { return MethodKey(m.typeName, m.name) }

// MethodKey builds the registry key for a type and method name.
func MethodKey(typeName, methodName string) string {
	return typeName + "." + methodName
}

// validateDeclaration returns every problem found with a declaration.
func validateDeclaration(typeName, methodName string, params []Parameter) []error {
	var errs []error
	if typeName == "" {
		errs = append(errs, loggableerrors.NewValidationError("declaring type name is required", nil))
	}
	if methodName == "" {
		errs = append(errs, loggableerrors.NewValidationError("method name is required", nil))
	}
	seen := make(map[string]int, len(params))
	for i, p := range params {
		if p.Name == "" {
			errs = append(errs, loggableerrors.NewValidationError(fmt.Sprintf("parameter %d: name is required", i), nil))
			continue
		}
		if !parameterNameRegex.MatchString(p.Name) {
			errs = append(errs, loggableerrors.NewValidationError(fmt.Sprintf("parameter %d: name '%s' is not a valid identifier", i, p.Name), nil))
		}
		if prev, dup := seen[p.Name]; dup {
			errs = append(errs, loggableerrors.NewValidationError(fmt.Sprintf("parameter %d: name '%s' duplicates parameter %d", i, p.Name, prev), nil))
		}
		seen[p.Name] = i
	}
	return errs
}

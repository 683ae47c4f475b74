package errors

import (
	"errors"
	"fmt"
)

// --- Loggable Core Error Types ---

// ConfigError represents an error encountered while loading or parsing a
// declaration file, or while wiring an interceptor's options.
type ConfigError struct {
	Message string
	Cause   error
}

func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{Message: message, Cause: cause}
}
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}
func (e *ConfigError) Unwrap() error { return e.Cause }

// ValidationError indicates that a method declaration (identity, parameter
// names, schema version) failed validation checks.
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}
func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
func (e *ValidationError) Unwrap() error { return e.Cause }

// MetadataUnavailableError signals that the call-site data for an invocation
// cannot be aligned into (name, marker, value) triples. It is fatal to the
// logging of one phase only and never reaches the instrumented method's caller.
type MetadataUnavailableError struct {
	TypeName   string
	MethodName string
	Reason     string
}

func NewMetadataUnavailableError(typeName, methodName, reason string) *MetadataUnavailableError {
	return &MetadataUnavailableError{TypeName: typeName, MethodName: methodName, Reason: reason}
}
func (e *MetadataUnavailableError) Error() string {
	if e.TypeName == "" && e.MethodName == "" {
		return fmt.Sprintf("invocation metadata unavailable: %s", e.Reason)
	}
	return fmt.Sprintf("invocation metadata unavailable for %s.%s: %s", e.TypeName, e.MethodName, e.Reason)
}

// SinkWriteError wraps a failure reported (or a panic raised) by a log sink.
type SinkWriteError struct {
	Phase string
	Cause error
}

func NewSinkWriteError(phase string, cause error) *SinkWriteError {
	return &SinkWriteError{Phase: phase, Cause: cause}
}
func (e *SinkWriteError) Error() string {
	if e.Phase == "" {
		return fmt.Sprintf("sink write failed: %v", e.Cause)
	}
	return fmt.Sprintf("sink write failed during %s: %v", e.Phase, e.Cause)
}
func (e *SinkWriteError) Unwrap() error { return e.Cause }

// MethodNotFoundError indicates that no declaration is registered under the
// requested type and method name.
type MethodNotFoundError struct {
	Key string
}

func NewMethodNotFoundError(key string) *MethodNotFoundError {
	return &MethodNotFoundError{Key: key}
}
func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method declaration not found: %s", e.Key)
}

// IsMetadataUnavailable checks if an error is a MetadataUnavailableError using errors.As.
func IsMetadataUnavailable(err error) bool {
	var target *MetadataUnavailableError
	return errors.As(err, &target)
}

// IsSinkWriteFailure checks if an error is a SinkWriteError using errors.As.
func IsSinkWriteFailure(err error) bool {
	var target *SinkWriteError
	return errors.As(err, &target)
}

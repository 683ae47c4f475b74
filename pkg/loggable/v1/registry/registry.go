package registry

import "github.com/gxo-labs/loggable/internal/config"

// Registry is the side table of method declarations keyed by declaring type
// and method name. It is populated at startup and read on every call.
type Registry interface {
	// Register stores a declaration. Duplicate keys are rejected.
	Register(m *config.Method) error
	// Get returns the declaration for typeName.methodName, or a
	// MethodNotFoundError.
	Get(typeName, methodName string) (*config.Method, error)
	// List returns the keys of all declarations in sorted order.
	List() []string
}

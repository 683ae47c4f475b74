package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gxo-labs/loggable/internal/config"
	loggableerrors "github.com/gxo-labs/loggable/pkg/loggable/v1/errors"
	"github.com/gxo-labs/loggable/pkg/loggable/v1/registry"
)

// StaticRegistry implements registry.Registry with a map guarded by an RWMutex.
// Writes happen at startup; lookups happen on every instrumented call.
type StaticRegistry struct {
	methods map[string]*config.Method
	mu      sync.RWMutex
}

// NewStaticRegistry creates an empty registry.
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		methods: make(map[string]*config.Method),
	}
}

// Register stores m under its Type.method key.
func (r *StaticRegistry) Register(m *config.Method) error {
	if m == nil {
		return loggableerrors.NewConfigError("method registration error: declaration cannot be nil", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := m.Key()
	if _, exists := r.methods[key]; exists {
		return loggableerrors.NewConfigError(fmt.Sprintf("method registration error: duplicate declaration '%s'", key), nil)
	}
	r.methods[key] = m
	return nil
}

// Get returns the declaration for typeName.methodName.
func (r *StaticRegistry) Get(typeName, methodName string) (*config.Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := config.MethodKey(typeName, methodName)
	m, exists := r.methods[key]
	if !exists {
		return nil, loggableerrors.NewMethodNotFoundError(key)
	}
	return m, nil
}

// List returns all registered keys, sorted.
func (r *StaticRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.methods))
	for key := range r.methods {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LoadBytes parses a YAML declaration document and registers every method in
// it. Nothing is registered unless the whole document is valid and none of
// its keys is already present.
func (r *StaticRegistry) LoadBytes(documentYAML []byte, filePathHint string) error {
	methods, err := config.LoadDeclarations(documentYAML, filePathHint)
	if err != nil {
		return err
	}
	return r.registerAll(methods)
}

// LoadFile reads and registers the declaration document at filePath.
func (r *StaticRegistry) LoadFile(filePath string) error {
	methods, err := config.LoadDeclarationsFromFile(filePath)
	if err != nil {
		return err
	}
	return r.registerAll(methods)
}

func (r *StaticRegistry) registerAll(methods []*config.Method) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range methods {
		if _, exists := r.methods[m.Key()]; exists {
			return loggableerrors.NewConfigError(fmt.Sprintf("method registration error: duplicate declaration '%s'", m.Key()), nil)
		}
	}
	for _, m := range methods {
		r.methods[m.Key()] = m
	}
	return nil
}

var (
	globalRegistry = NewStaticRegistry()

	_ registry.Registry = (*StaticRegistry)(nil)
)

// Register adds m to the default registry. It panics on error, since it is
// meant for package init() where a bad declaration is a programming mistake.
func Register(m *config.Method) {
	if err := globalRegistry.Register(m); err != nil {
		panic(fmt.Errorf("failed to register method declaration globally: %w", err))
	}
}

// Default returns the process-wide registry used by Register.
func Default() *StaticRegistry {
	return globalRegistry
}

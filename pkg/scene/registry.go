package scene

import "sync"

// Built-in type names, registered by the package itself.
const (
	TypeNode  = "Node"
	TypeGroup = "Group"
)

// Constructor builds a node of a registered type with the given name. The
// declared type name is stamped onto the node by the scene after construction,
// so constructors only shape the node (ports, properties, group capability).
type Constructor func(name string) *Node

// Registry is a mapping from type name to node constructor. Registration is a
// start-up-time, additive action; there is no removal operation.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Constructor
}

// NewRegistry creates a registry pre-populated with the built-in "Node" and
// "Group" types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Constructor)}
	r.types[TypeNode] = NewNode
	r.types[TypeGroup] = NewGroup
	return r
}

// Register adds a constructor under the given type name. Registering a
// duplicate name or a constructor that does not produce a valid node is an
// error.
func (r *Registry) Register(typeName string, ctor Constructor) error {
	if ctor == nil {
		return NewError("Register").Type(typeName).Cause(ErrInvalidConstructor).Err()
	}
	// Probe the constructor once: it must return a non-nil node carrying
	// the requested name.
	if probe := ctor("probe"); probe == nil || probe.Name() != "probe" {
		return NewError("Register").Type(typeName).Cause(ErrInvalidConstructor).Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[typeName]; exists {
		return NewError("Register").Type(typeName).Cause(ErrDuplicateType).Err()
	}
	r.types[typeName] = ctor
	return nil
}

// Resolve returns the constructor registered under the given type name.
func (r *Registry) Resolve(typeName string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, exists := r.types[typeName]
	if !exists {
		return nil, NewError("Resolve").Type(typeName).Cause(ErrUnknownType).Err()
	}
	return ctor, nil
}

// TypeNames returns the registered type names, unordered.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

// defaultRegistry is the process-wide registry used by scenes unless one is
// supplied explicitly.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a constructor to the process-wide registry.
func Register(typeName string, ctor Constructor) error {
	return defaultRegistry.Register(typeName, ctor)
}

// Resolve looks up a constructor in the process-wide registry.
func Resolve(typeName string) (Constructor, error) {
	return defaultRegistry.Resolve(typeName)
}

package scene

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// Registry
	ErrUnknownType        = errors.New("node type not registered")
	ErrDuplicateType      = errors.New("node type already registered")
	ErrInvalidConstructor = errors.New("constructor does not satisfy the node contract")

	// Ports
	ErrDuplicatePort     = errors.New("port already exists")
	ErrUnknownPort       = errors.New("port not found")
	ErrInvalidConnection = errors.New("invalid connection")
	ErrNotConnected      = errors.New("ports are not connected")

	// Containment
	ErrSelfParenting      = errors.New("node cannot be its own child")
	ErrDuplicateChildName = errors.New("child name already exists")
	ErrUnknownChild       = errors.New("node is not a child")
	ErrNotAGroup          = errors.New("node is not a group")

	// Scene lookup
	ErrUnknownNode = errors.New("node not found")

	// Naming
	ErrInvalidName = errors.New("invalid name")

	// Persistence
	ErrStorage = errors.New("storage failure")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "CreateNode", "Connect")
	Entity string // Entity kind (e.g., "node", "port", "type")
	Name   string // Entity name (if applicable)
	Port   string // Port name (for port operations)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s %q (port %s): %v", e.Op, e.Entity, e.Name, e.Port, e.Cause)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Name, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Node sets the entity to "node" with the given name.
func (b *ErrorBuilder) Node(name string) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.Name = name
	return b
}

// Port sets the port name for port operations.
func (b *ErrorBuilder) Port(name string) *ErrorBuilder {
	b.err.Port = name
	return b
}

// Type sets the entity to "type" with the given name.
func (b *ErrorBuilder) Type(name string) *ErrorBuilder {
	b.err.Entity = "type"
	b.err.Name = name
	return b
}

// Document sets the entity to "document".
func (b *ErrorBuilder) Document() *ErrorBuilder {
	b.err.Entity = "document"
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownNodeError creates a node lookup failure.
func UnknownNodeError(op, name string) error {
	return NewError(op).Node(name).Cause(ErrUnknownNode).Err()
}

// UnknownPortError creates a port lookup failure.
func UnknownPortError(op, node, port string) error {
	return NewError(op).Node(node).Port(port).Cause(ErrUnknownPort).Err()
}

// IsNotFound returns true if the error is any lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownNode) || errors.Is(err, ErrUnknownPort) ||
		errors.Is(err, ErrUnknownChild) || errors.Is(err, ErrUnknownType)
}

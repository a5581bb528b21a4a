package scene

import (
	"github.com/google/uuid"

	"github.com/dd0wney/scenegraph/pkg/props"
)

// Node is a named, typed graph entity owning ordered input and output ports
// and an optional property bag. Group-capable nodes additionally own a named
// child collection; see the group operations in group.go.
type Node struct {
	id       string
	name     string
	typeName string
	inputs   []*Port
	outputs  []*Port
	bag      *props.Bag
	parent   *Node

	// Non-nil only for group nodes. childOrder preserves insertion order
	// for deterministic serialization.
	children   map[string]*Node
	childOrder []string
}

// NewNode creates a plain node with the given name.
func NewNode(name string) *Node {
	return &Node{
		id:       uuid.New().String(),
		name:     name,
		typeName: TypeNode,
		bag:      props.NewBag("properties"),
	}
}

// NewGroup creates a group-capable node with the given name.
func NewGroup(name string) *Node {
	n := NewNode(name)
	n.typeName = TypeGroup
	n.children = make(map[string]*Node)
	return n
}

// ID returns the node's stable identifier, assigned at construction and
// preserved across serialization.
func (n *Node) ID() string { return n.id }

// Name returns the node name, unique within its parent's children and within
// the owning scene's flat namespace.
func (n *Node) Name() string { return n.name }

// TypeName returns the declared type name used for registry construction.
func (n *Node) TypeName() string { return n.typeName }

// Parent returns the containing group, or nil for an unparented node and the
// scene root.
func (n *Node) Parent() *Node { return n.parent }

// IsGroup reports whether the node can contain children.
func (n *Node) IsGroup() bool { return n.children != nil }

// Properties returns the node's property bag.
func (n *Node) Properties() *props.Bag { return n.bag }

// AddInput creates and returns a new input port.
func (n *Node) AddInput(name string) (*Port, error) {
	return n.addPort(name, Input)
}

// AddOutput creates and returns a new output port.
func (n *Node) AddOutput(name string) (*Port, error) {
	return n.addPort(name, Output)
}

func (n *Node) addPort(name string, dir Direction) (*Port, error) {
	for _, p := range n.portsFor(dir) {
		if p.name == name {
			return nil, NewError("AddPort").Node(n.name).Port(name).
				Cause(ErrDuplicatePort).Err()
		}
	}
	port := &Port{node: n, name: name, dir: dir}
	if dir == Input {
		n.inputs = append(n.inputs, port)
	} else {
		n.outputs = append(n.outputs, port)
	}
	return port, nil
}

// RemovePort isolates the port and removes it from the owning sequence.
func (n *Node) RemovePort(port *Port) error {
	ports := n.portsFor(port.dir)
	found := false
	for _, p := range ports {
		if p == port {
			found = true
			break
		}
	}
	if !found || port.node != n {
		return NewError("RemovePort").Node(n.name).Port(port.name).
			Cause(ErrUnknownPort).Err()
	}
	port.Isolate()
	if port.dir == Input {
		n.inputs = removePort(n.inputs, port)
	} else {
		n.outputs = removePort(n.outputs, port)
	}
	return nil
}

// Input returns the input port with the given name.
func (n *Node) Input(name string) (*Port, error) {
	return n.portByName(name, Input)
}

// Output returns the output port with the given name.
func (n *Node) Output(name string) (*Port, error) {
	return n.portByName(name, Output)
}

// InputAt returns the input port at the given position.
func (n *Node) InputAt(i int) (*Port, error) {
	return n.portAt(i, Input)
}

// OutputAt returns the output port at the given position.
func (n *Node) OutputAt(i int) (*Port, error) {
	return n.portAt(i, Output)
}

// Inputs returns the input ports in declaration order.
func (n *Node) Inputs() []*Port {
	out := make([]*Port, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// Outputs returns the output ports in declaration order.
func (n *Node) Outputs() []*Port {
	out := make([]*Port, len(n.outputs))
	copy(out, n.outputs)
	return out
}

// NumInputs returns the number of input ports.
func (n *Node) NumInputs() int { return len(n.inputs) }

// NumOutputs returns the number of output ports.
func (n *Node) NumOutputs() int { return len(n.outputs) }

// Isolate disconnects every port owned by the node. Called before deletion or
// a change of containment scope.
func (n *Node) Isolate() {
	for _, p := range n.inputs {
		p.Isolate()
	}
	for _, p := range n.outputs {
		p.Isolate()
	}
}

func (n *Node) portsFor(dir Direction) []*Port {
	if dir == Input {
		return n.inputs
	}
	return n.outputs
}

func (n *Node) portByName(name string, dir Direction) (*Port, error) {
	for _, p := range n.portsFor(dir) {
		if p.name == name {
			return p, nil
		}
	}
	return nil, UnknownPortError("GetPort", n.name, name)
}

func (n *Node) portAt(i int, dir Direction) (*Port, error) {
	ports := n.portsFor(dir)
	if i < 0 || i >= len(ports) {
		return nil, NewError("GetPort").Node(n.name).Cause(ErrUnknownPort).Err()
	}
	return ports[i], nil
}

// Path returns the dot-separated containment path from the root down to this
// node.
func (n *Node) Path() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Path() + "." + n.name
}

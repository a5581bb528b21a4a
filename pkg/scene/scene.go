// Package scene implements a typed, hierarchical node graph: nodes connected
// by directional ports, grouped into nested containment scopes, indexed by a
// flat per-scene namespace, and created polymorphically through a registry of
// node type constructors.
//
// The model is single-threaded: callers mutating a scene from multiple
// goroutines must serialize access themselves.
package scene

import (
	"sort"

	"github.com/dd0wney/scenegraph/pkg/logging"
)

// Scene is the root containment group plus a flat name and identifier index
// over every descendant node. The flat index and the containment tree are
// kept consistent by every mutating operation.
type Scene struct {
	root     *Node
	byName   map[string]*Node
	byID     map[string]*Node
	registry *Registry
	log      logging.Logger
}

// New creates an empty scene backed by the process-wide type registry.
func New() *Scene {
	return NewWithRegistry(DefaultRegistry())
}

// NewWithRegistry creates an empty scene backed by the given registry.
func NewWithRegistry(reg *Registry) *Scene {
	return &Scene{
		root:     NewGroup("root"),
		byName:   make(map[string]*Node),
		byID:     make(map[string]*Node),
		registry: reg,
		log:      logging.With(logging.Component("scene")),
	}
}

// Root returns the scene's root group.
func (s *Scene) Root() *Node { return s.root }

// Registry returns the registry used for node construction.
func (s *Scene) Registry() *Registry { return s.registry }

// CreateNode constructs a node of the registered type under parent (the root
// when parent is nil), assigning a unique name derived from baseName, and
// records it in the flat index.
func (s *Scene) CreateNode(typeName, baseName string, parent *Node) (*Node, error) {
	ctor, err := s.registry.Resolve(typeName)
	if err != nil {
		return nil, err
	}

	if parent == nil {
		parent = s.root
	} else if !s.owns(parent) {
		return nil, UnknownNodeError("CreateNode", parent.name)
	}

	if err := checkName("CreateNode", baseName); err != nil {
		return nil, err
	}
	name := s.uniqueName(baseName)
	// The numeric suffix may push a near-limit base past the length cap.
	if err := checkName("CreateNode", name); err != nil {
		return nil, err
	}
	node := ctor(name)
	if node == nil || node.name != name {
		return nil, NewError("CreateNode").Type(typeName).Cause(ErrInvalidConstructor).Err()
	}
	node.typeName = typeName

	if err := parent.AddChild(node); err != nil {
		// The node must not be left in the flat index on a partial failure.
		return nil, err
	}
	s.index(node)

	s.log.Debug("node created",
		logging.NodeName(name),
		logging.TypeName(typeName),
		logging.ParentName(parent.name))
	return node, nil
}

// DeleteNode removes a node (and, for groups, its whole subtree) from its
// parent and the flat index, severing every connection it holds.
func (s *Scene) DeleteNode(node *Node) error {
	// The root is not deletable; it is the one node without a parent.
	if node == s.root || !s.owns(node) {
		return UnknownNodeError("DeleteNode", node.name)
	}
	if err := node.parent.RemoveChild(node); err != nil {
		return err
	}
	node.walk(func(n *Node) {
		n.Isolate()
		delete(s.byName, n.name)
		delete(s.byID, n.id)
	})

	s.log.Debug("node deleted", logging.NodeName(node.name))
	return nil
}

// Node returns the node registered under the given name.
func (s *Scene) Node(name string) (*Node, error) {
	node, exists := s.byName[name]
	if !exists {
		return nil, UnknownNodeError("GetNode", name)
	}
	return node, nil
}

// NodeByID returns the node with the given stable identifier.
func (s *Scene) NodeByID(id string) (*Node, error) {
	node, exists := s.byID[id]
	if !exists {
		return nil, UnknownNodeError("GetNode", id)
	}
	return node, nil
}

// Nodes returns every indexed node sorted by name, optionally restricted to
// one declared type. An empty typeFilter matches all nodes.
func (s *Scene) Nodes(typeFilter string) []*Node {
	out := make([]*Node, 0, len(s.byName))
	for _, n := range s.byName {
		if typeFilter == "" || n.typeName == typeFilter {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// NodeCount returns the number of indexed nodes.
func (s *Scene) NodeCount() int { return len(s.byName) }

// Stats summarizes the scene for reporting and metrics.
type Stats struct {
	Nodes       int
	Groups      int
	Connections int
	MaxDepth    int
}

// Stats walks the scene and returns summary counts. Each undirected
// connection is counted once.
func (s *Scene) Stats() Stats {
	var st Stats
	s.root.walk(func(n *Node) {
		if n == s.root {
			return
		}
		st.Nodes++
		if n.IsGroup() {
			st.Groups++
		}
		for _, p := range n.outputs {
			st.Connections += len(p.peers)
		}
		depth := 0
		for anc := n.parent; anc != nil; anc = anc.parent {
			depth++
		}
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
	})
	return st
}

// owns reports whether the node is the root or indexed by this scene.
func (s *Scene) owns(n *Node) bool {
	if n == s.root {
		return true
	}
	return s.byName[n.name] == n
}

// index records a node and, for groups, its whole subtree in the flat maps.
func (s *Scene) index(node *Node) {
	node.walk(func(n *Node) {
		s.byName[n.name] = n
		s.byID[n.id] = n
	})
}

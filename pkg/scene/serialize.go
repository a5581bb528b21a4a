package scene

import (
	"github.com/dd0wney/scenegraph/pkg/props"
)

// Document is the persisted form of a whole scene: a nested node payload tree
// plus a flat connection list. Connections reference nodes by name, which is
// globally unique within one scene.
type Document struct {
	Nodes       []*NodePayload `json:"nodes" yaml:"nodes" validate:"dive"`
	Connections []Connection   `json:"connections" yaml:"connections" validate:"dive"`
}

// NodePayload is the persisted form of a single node. Children is present
// only for group-typed nodes.
type NodePayload struct {
	ID         string              `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string              `json:"name" yaml:"name" validate:"required,max=100"`
	Type       string              `json:"type" yaml:"type" validate:"required,max=50"`
	Properties *props.EntryPayload `json:"properties,omitempty" yaml:"properties,omitempty"`
	Inputs     []string            `json:"inputs" yaml:"inputs" validate:"dive,required,max=100"`
	Outputs    []string            `json:"outputs" yaml:"outputs" validate:"dive,required,max=100"`
	Children   []*NodePayload      `json:"children,omitempty" yaml:"children,omitempty" validate:"dive"`
}

// Connection records one undirected link between an output port and an input
// port, emitted exactly once per link.
type Connection struct {
	SourceNode string `json:"source_node" yaml:"source_node" validate:"required"`
	SourcePort string `json:"source_port" yaml:"source_port" validate:"required"`
	TargetNode string `json:"target_node" yaml:"target_node" validate:"required"`
	TargetPort string `json:"target_port" yaml:"target_port" validate:"required"`
}

// Serialize produces the node's own payload: name, type, property snapshot
// and ordered port names. Connections and children are emitted at the scene
// level.
func (n *Node) Serialize() *NodePayload {
	payload := &NodePayload{
		ID:      n.id,
		Name:    n.name,
		Type:    n.typeName,
		Inputs:  make([]string, 0, len(n.inputs)),
		Outputs: make([]string, 0, len(n.outputs)),
	}
	if n.bag != nil && n.bag.Len() > 0 {
		payload.Properties = n.bag.Serialize()
	}
	for _, p := range n.inputs {
		payload.Inputs = append(payload.Inputs, p.name)
	}
	for _, p := range n.outputs {
		payload.Outputs = append(payload.Outputs, p.name)
	}
	return payload
}

// Serialize walks the containment tree depth-first and produces the scene
// document. Every undirected connection appears exactly once, emitted from
// its output side.
func (s *Scene) Serialize() *Document {
	doc := &Document{
		Nodes:       make([]*NodePayload, 0, len(s.root.childOrder)),
		Connections: make([]Connection, 0),
	}
	for _, child := range s.root.Children() {
		doc.Nodes = append(doc.Nodes, serializeTree(child))
	}
	s.root.walk(func(n *Node) {
		if n == s.root {
			return
		}
		for _, p := range n.outputs {
			for _, peer := range p.peers {
				doc.Connections = append(doc.Connections, Connection{
					SourceNode: n.name,
					SourcePort: p.name,
					TargetNode: peer.node.name,
					TargetPort: peer.name,
				})
			}
		}
	})
	return doc
}

func serializeTree(n *Node) *NodePayload {
	payload := n.Serialize()
	if n.IsGroup() {
		payload.Children = make([]*NodePayload, 0, len(n.childOrder))
		for _, child := range n.Children() {
			payload.Children = append(payload.Children, serializeTree(child))
		}
	}
	return payload
}

// Deserialize rebuilds a scene from a document using the process-wide
// registry.
func Deserialize(doc *Document) (*Scene, error) {
	return DeserializeWith(DefaultRegistry(), doc)
}

// DeserializeWith rebuilds a scene from a document in two passes: pass one
// recursively reconstructs every node, the containment tree and the flat
// index; pass two replays the connection list against the now-existing ports.
// Reconstruction is not atomic across the document — callers needing
// all-or-nothing semantics deserialize into a fresh scene and swap it in on
// success, which is what this function does for them.
func DeserializeWith(reg *Registry, doc *Document) (*Scene, error) {
	s := NewWithRegistry(reg)

	for _, payload := range doc.Nodes {
		if err := s.restoreNode(payload, s.root); err != nil {
			return nil, err
		}
	}

	for _, c := range doc.Connections {
		src, err := s.Node(c.SourceNode)
		if err != nil {
			return nil, err
		}
		tgt, err := s.Node(c.TargetNode)
		if err != nil {
			return nil, err
		}
		out, err := src.Output(c.SourcePort)
		if err != nil {
			return nil, err
		}
		in, err := tgt.Input(c.TargetPort)
		if err != nil {
			return nil, err
		}
		if err := out.Connect(in); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// restoreNode reconstructs one node beneath parent, then recurses into its
// children. Names must be globally unique across the document.
func (s *Scene) restoreNode(payload *NodePayload, parent *Node) error {
	ctor, err := s.registry.Resolve(payload.Type)
	if err != nil {
		return err
	}
	node := ctor(payload.Name)
	if node == nil || node.name != payload.Name {
		return NewError("Deserialize").Type(payload.Type).Cause(ErrInvalidConstructor).Err()
	}
	node.typeName = payload.Type
	if payload.ID != "" {
		node.id = payload.ID
	}

	if payload.Properties != nil {
		bag, err := props.Deserialize(payload.Properties)
		if err != nil {
			return NewError("Deserialize").Node(payload.Name).Cause(err).Err()
		}
		node.bag = bag
	}

	// Constructors may pre-declare ports; only restore the ones missing.
	for _, name := range payload.Inputs {
		if _, err := node.Input(name); err != nil {
			if _, err := node.AddInput(name); err != nil {
				return err
			}
		}
	}
	for _, name := range payload.Outputs {
		if _, err := node.Output(name); err != nil {
			if _, err := node.AddOutput(name); err != nil {
				return err
			}
		}
	}

	if _, exists := s.byName[node.name]; exists {
		return NewError("Deserialize").Node(node.name).Cause(ErrDuplicateChildName).Err()
	}
	if err := parent.AddChild(node); err != nil {
		return err
	}
	s.byName[node.name] = node
	s.byID[node.id] = node

	if len(payload.Children) > 0 && !node.IsGroup() {
		return NewError("Deserialize").Node(node.name).Cause(ErrNotAGroup).Err()
	}
	for _, child := range payload.Children {
		if err := s.restoreNode(child, node); err != nil {
			return err
		}
	}
	return nil
}

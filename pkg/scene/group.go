package scene

// Group operations. A group node defines a containment scope: connections are
// only valid between ports of nodes that share one direct parent, so any move
// across scopes severs a node's links first.

// AddChild records node as a direct child of this group. Re-adding a node
// whose parent is already this group is a no-op and leaves its connections
// intact. On success the node's ports are isolated, it is removed from any
// previous parent, and its parent reference is updated.
func (g *Node) AddChild(node *Node) error {
	if !g.IsGroup() {
		return NewError("AddChild").Node(g.name).Cause(ErrNotAGroup).Err()
	}
	if node.parent == g {
		return nil
	}
	// Parenting a node under itself or one of its descendants would cycle
	// the tree.
	for ancestor := g; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == node {
			return NewError("AddChild").Node(g.name).Cause(ErrSelfParenting).Err()
		}
	}
	if _, exists := g.children[node.name]; exists {
		return NewError("AddChild").Node(node.name).Cause(ErrDuplicateChildName).Err()
	}
	// Connections do not survive a change of containment scope.
	node.Isolate()
	if node.parent != nil {
		node.parent.detachChild(node)
	}
	g.children[node.name] = node
	g.childOrder = append(g.childOrder, node.name)
	node.parent = g
	return nil
}

// RemoveChild removes a direct child, isolating its ports and clearing its
// parent reference.
func (g *Node) RemoveChild(node *Node) error {
	if !g.IsGroup() {
		return NewError("RemoveChild").Node(g.name).Cause(ErrNotAGroup).Err()
	}
	if g.children[node.name] != node {
		return NewError("RemoveChild").Node(node.name).Cause(ErrUnknownChild).Err()
	}
	node.Isolate()
	g.detachChild(node)
	node.parent = nil
	return nil
}

// Child returns the direct child with the given name.
func (g *Node) Child(name string) (*Node, error) {
	if !g.IsGroup() {
		return nil, NewError("Child").Node(g.name).Cause(ErrNotAGroup).Err()
	}
	child, exists := g.children[name]
	if !exists {
		return nil, NewError("Child").Node(name).Cause(ErrUnknownChild).Err()
	}
	return child, nil
}

// Children returns the direct children in insertion order (not recursive).
func (g *Node) Children() []*Node {
	out := make([]*Node, 0, len(g.childOrder))
	for _, name := range g.childOrder {
		out = append(out, g.children[name])
	}
	return out
}

// NumChildren returns the number of direct children.
func (g *Node) NumChildren() int { return len(g.children) }

// detachChild unlinks node from the child collection without touching its
// ports or parent reference.
func (g *Node) detachChild(node *Node) {
	delete(g.children, node.name)
	for i, name := range g.childOrder {
		if name == node.name {
			g.childOrder = append(g.childOrder[:i], g.childOrder[i+1:]...)
			break
		}
	}
}

// walk visits the node and every descendant depth-first in insertion order.
func (n *Node) walk(visit func(*Node)) {
	visit(n)
	if n.IsGroup() {
		for _, name := range n.childOrder {
			n.children[name].walk(visit)
		}
	}
}

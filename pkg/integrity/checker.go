package integrity

import (
	"fmt"

	"github.com/dd0wney/scenegraph/pkg/scene"
)

// Checker walks a scene and collects invariant violations.
type Checker struct {
	scene *scene.Scene
}

// NewChecker creates a checker for the given scene.
func NewChecker(s *scene.Scene) *Checker {
	return &Checker{scene: s}
}

// Check runs every invariant check and returns the violations found, in
// traversal order. An empty result means the scene is structurally sound.
func (c *Checker) Check() []Violation {
	var violations []Violation

	reachable := make(map[string]*scene.Node)
	ids := make(map[string]*scene.Node)
	c.collect(c.scene.Root(), reachable, ids, &violations)

	// Every reachable node must be in the flat index, under its own name.
	for name, node := range reachable {
		indexed, err := c.scene.Node(name)
		if err != nil {
			violations = append(violations, Violation{
				Kind: IndexMissing, Node: name,
				Message: "reachable from the root but missing from the flat index",
			})
			continue
		}
		if indexed != node {
			violations = append(violations, Violation{
				Kind: IndexStale, Node: name,
				Message: "flat index resolves to a different node",
			})
		}
		if byID, err := c.scene.NodeByID(node.ID()); err != nil || byID != node {
			violations = append(violations, Violation{
				Kind: IDIndexMismatch, Node: name,
				Message: "identifier index disagrees with the containment tree",
			})
		}
	}

	// Every indexed node must be reachable from the root.
	for _, node := range c.scene.Nodes("") {
		if reachable[node.Name()] != node {
			violations = append(violations, Violation{
				Kind: IndexStale, Node: node.Name(),
				Message: "indexed but not reachable from the root",
			})
		}
	}

	for _, node := range c.scene.Nodes("") {
		violations = append(violations, c.checkPorts(node)...)
	}

	return violations
}

// collect walks the containment tree noting reachable nodes, duplicate
// identifiers and parent pointer disagreements.
func (c *Checker) collect(group *scene.Node, reachable map[string]*scene.Node, ids map[string]*scene.Node, out *[]Violation) {
	for _, child := range group.Children() {
		if child.Parent() != group {
			*out = append(*out, Violation{
				Kind: ParentMismatch, Node: child.Name(),
				Message: fmt.Sprintf("held by group %q but parent pointer disagrees", group.Name()),
			})
		}
		if prev, exists := ids[child.ID()]; exists {
			*out = append(*out, Violation{
				Kind: IDIndexMismatch, Node: child.Name(),
				Message: fmt.Sprintf("shares identifier with node %q", prev.Name()),
			})
		}
		ids[child.ID()] = child
		reachable[child.Name()] = child
		if child.IsGroup() {
			c.collect(child, reachable, ids, out)
		}
	}
}

// checkPorts validates every connection held by one node's ports.
func (c *Checker) checkPorts(node *scene.Node) []Violation {
	var violations []Violation

	ports := append(node.Inputs(), node.Outputs()...)
	for _, port := range ports {
		for _, peer := range port.Peers() {
			if peer.Node() == node {
				violations = append(violations, Violation{
					Kind: SelfLink, Node: node.Name(), Port: port.Name(),
					Message: "connected to a port on its own node",
				})
				continue
			}
			if peer.Direction() == port.Direction() {
				violations = append(violations, Violation{
					Kind: SameDirectionLink, Node: node.Name(), Port: port.Name(),
					Message: fmt.Sprintf("connected to %s port %q of node %q", peer.Direction(), peer.Name(), peer.Node().Name()),
				})
			}
			if peer.Node().Parent() != node.Parent() {
				violations = append(violations, Violation{
					Kind: CrossScopeLink, Node: node.Name(), Port: port.Name(),
					Message: fmt.Sprintf("connected to node %q under a different parent", peer.Node().Name()),
				})
			}
			if !portConnectedTo(peer, port) {
				violations = append(violations, Violation{
					Kind: AsymmetricLink, Node: node.Name(), Port: port.Name(),
					Message: fmt.Sprintf("peer %q of node %q does not link back", peer.Name(), peer.Node().Name()),
				})
			}
		}
	}
	return violations
}

func portConnectedTo(port, target *scene.Port) bool {
	for _, p := range port.Peers() {
		if p == target {
			return true
		}
	}
	return false
}

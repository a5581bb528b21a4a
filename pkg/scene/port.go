package scene

// Direction indicates whether a port accepts or emits connections.
type Direction uint8

const (
	Input Direction = iota
	Output
)

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// Port is a named, directional connection point owned by exactly one node.
// Connections are symmetric: connecting a to b records each port in the
// other's peer list. Ports only connect across nodes that share one direct
// parent, and only in opposing directions.
type Port struct {
	node  *Node
	name  string
	dir   Direction
	peers []*Port
}

// Name returns the port name.
func (p *Port) Name() string { return p.name }

// Node returns the owning node.
func (p *Port) Node() *Node { return p.node }

// Direction returns the port direction.
func (p *Port) Direction() Direction { return p.dir }

// Connect links this port to other. Connecting an already-connected pair is a
// no-op. The link is rejected when other is owned by the same node, has the
// same direction, or belongs to a node under a different parent.
func (p *Port) Connect(other *Port) error {
	if p.isConnectedTo(other) {
		return nil
	}
	if other.node == p.node {
		return NewError("Connect").Node(p.node.name).Port(p.name).
			Cause(ErrInvalidConnection).Err()
	}
	if other.dir == p.dir {
		return NewError("Connect").Node(p.node.name).Port(p.name).
			Cause(ErrInvalidConnection).Err()
	}
	if other.node.parent != p.node.parent {
		return NewError("Connect").Node(p.node.name).Port(p.name).
			Cause(ErrInvalidConnection).Err()
	}
	p.peers = append(p.peers, other)
	other.peers = append(other.peers, p)
	return nil
}

// Disconnect removes the symmetric link to other.
func (p *Port) Disconnect(other *Port) error {
	if !p.isConnectedTo(other) {
		return NewError("Disconnect").Node(p.node.name).Port(p.name).
			Cause(ErrNotConnected).Err()
	}
	p.peers = removePort(p.peers, other)
	other.peers = removePort(other.peers, p)
	return nil
}

// Isolate disconnects every current peer. Used before a node is reparented,
// deleted, or has the port removed.
func (p *Port) Isolate() {
	for i := len(p.peers) - 1; i >= 0; i-- {
		p.Disconnect(p.peers[i])
	}
}

// Peers returns the currently connected ports in connection order.
func (p *Port) Peers() []*Port {
	out := make([]*Port, len(p.peers))
	copy(out, p.peers)
	return out
}

// NumPeers returns the number of connected ports.
func (p *Port) NumPeers() int { return len(p.peers) }

func (p *Port) isConnectedTo(other *Port) bool {
	for _, peer := range p.peers {
		if peer == other {
			return true
		}
	}
	return false
}

func removePort(ports []*Port, target *Port) []*Port {
	for i, p := range ports {
		if p == target {
			return append(ports[:i], ports[i+1:]...)
		}
	}
	return ports
}

package scene

import (
	"errors"
	"testing"

	"github.com/dd0wney/scenegraph/pkg/props"
)

// buildSampleScene assembles a scene with nesting, ports, properties and a
// connection, used by the round-trip tests.
func buildSampleScene(t *testing.T) *Scene {
	t.Helper()
	s := New()

	g, err := s.CreateNode(TypeGroup, "stage", nil)
	if err != nil {
		t.Fatalf("CreateNode group failed: %v", err)
	}
	src, err := s.CreateNode(TypeNode, "source", g)
	if err != nil {
		t.Fatalf("CreateNode source failed: %v", err)
	}
	dst, err := s.CreateNode(TypeNode, "sink", g)
	if err != nil {
		t.Fatalf("CreateNode sink failed: %v", err)
	}

	src.Properties().Add(props.MustProperty("gain", props.TypeFloat, 1.0))
	src.Properties().Set("gain", 2.5)
	dst.Properties().Add(props.MustProperty("mode", props.TypeString, "linear", "linear", "nearest"))

	out, _ := src.AddOutput("out")
	in, _ := dst.AddInput("in")
	if err := out.Connect(in); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return s
}

func TestSceneSerialize(t *testing.T) {
	s := buildSampleScene(t)
	doc := s.Serialize()

	if len(doc.Nodes) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(doc.Nodes))
	}
	stage := doc.Nodes[0]
	if stage.Name != "stage" || stage.Type != TypeGroup {
		t.Errorf("unexpected top payload: %s/%s", stage.Name, stage.Type)
	}
	if len(stage.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(stage.Children))
	}

	if len(doc.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(doc.Connections))
	}
	c := doc.Connections[0]
	if c.SourceNode != "source" || c.SourcePort != "out" || c.TargetNode != "sink" || c.TargetPort != "in" {
		t.Errorf("unexpected connection: %+v", c)
	}
}

func TestSceneRoundTrip(t *testing.T) {
	orig := buildSampleScene(t)
	doc := orig.Serialize()

	restored, err := Deserialize(doc)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if restored.NodeCount() != orig.NodeCount() {
		t.Errorf("node count changed: %d -> %d", orig.NodeCount(), restored.NodeCount())
	}

	src, err := restored.Node("source")
	if err != nil {
		t.Fatalf("source not restored: %v", err)
	}
	if src.Parent().Name() != "stage" {
		t.Errorf("containment lost: parent is %q", src.Parent().Name())
	}

	origSrc, _ := orig.Node("source")
	if src.ID() != origSrc.ID() {
		t.Error("node identifier changed across the round trip")
	}

	prop, err := src.Properties().Property("gain")
	if err != nil {
		t.Fatalf("property not restored: %v", err)
	}
	if prop.Value() != 2.5 {
		t.Errorf("property value = %v, want 2.5", prop.Value())
	}

	out, err := src.Output("out")
	if err != nil {
		t.Fatalf("port not restored: %v", err)
	}
	if out.NumPeers() != 1 {
		t.Fatalf("connection not restored: %d peers", out.NumPeers())
	}
	if peer := out.Peers()[0]; peer.Node().Name() != "sink" || peer.Name() != "in" {
		t.Errorf("connection restored to wrong endpoint: %s.%s", peer.Node().Name(), peer.Name())
	}

	if restored.Stats() != orig.Stats() {
		t.Errorf("stats changed: %+v -> %+v", orig.Stats(), restored.Stats())
	}
}

func TestDeserializeWithCustomRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Shaped", func(name string) *Node {
		n := NewNode(name)
		n.AddInput("in")
		return n
	})

	doc := &Document{
		Nodes: []*NodePayload{{
			Name:   "n",
			Type:   "Shaped",
			Inputs: []string{"in", "extra"},
		}},
	}
	s, err := DeserializeWith(reg, doc)
	if err != nil {
		t.Fatalf("DeserializeWith failed: %v", err)
	}
	n, _ := s.Node("n")
	// The constructor pre-declares "in"; only "extra" is added on top.
	if n.NumInputs() != 2 {
		t.Errorf("expected 2 inputs, got %d", n.NumInputs())
	}
}

func TestDeserializeErrors(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		doc := &Document{Nodes: []*NodePayload{{Name: "n", Type: "Mystery"}}}
		if _, err := Deserialize(doc); !errors.Is(err, ErrUnknownType) {
			t.Errorf("expected ErrUnknownType, got %v", err)
		}
	})

	t.Run("duplicate names", func(t *testing.T) {
		doc := &Document{Nodes: []*NodePayload{
			{Name: "n", Type: TypeNode},
			{Name: "n", Type: TypeNode},
		}}
		if _, err := Deserialize(doc); !errors.Is(err, ErrDuplicateChildName) {
			t.Errorf("expected ErrDuplicateChildName, got %v", err)
		}
	})

	t.Run("children under plain node", func(t *testing.T) {
		doc := &Document{Nodes: []*NodePayload{{
			Name:     "n",
			Type:     TypeNode,
			Children: []*NodePayload{{Name: "c", Type: TypeNode}},
		}}}
		if _, err := Deserialize(doc); !errors.Is(err, ErrNotAGroup) {
			t.Errorf("expected ErrNotAGroup, got %v", err)
		}
	})

	t.Run("dangling connection", func(t *testing.T) {
		doc := &Document{
			Nodes: []*NodePayload{{Name: "n", Type: TypeNode, Outputs: []string{"out"}}},
			Connections: []Connection{{
				SourceNode: "n", SourcePort: "out",
				TargetNode: "ghost", TargetPort: "in",
			}},
		}
		if _, err := Deserialize(doc); !errors.Is(err, ErrUnknownNode) {
			t.Errorf("expected ErrUnknownNode, got %v", err)
		}
	})
}

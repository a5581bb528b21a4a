package persist

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/scenegraph/pkg/metrics"
	"github.com/dd0wney/scenegraph/pkg/scene"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()
	g, err := s.CreateNode(scene.TypeGroup, "stage", nil)
	require.NoError(t, err)
	src, err := s.CreateNode(scene.TypeNode, "source", g)
	require.NoError(t, err)
	dst, err := s.CreateNode(scene.TypeNode, "sink", g)
	require.NoError(t, err)

	out, err := src.AddOutput("out")
	require.NoError(t, err)
	in, err := dst.AddInput("in")
	require.NoError(t, err)
	require.NoError(t, out.Connect(in))
	return s
}

func TestSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	orig := testScene(t)

	require.NoError(t, Save(path, orig, Options{}))

	// The file on disk is plain indented JSON.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc scene.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Nodes, 1)
	assert.Len(t, doc.Connections, 1)

	restored, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, orig.Stats(), restored.Stats())

	src, err := restored.Node("source")
	require.NoError(t, err)
	assert.Equal(t, "stage", src.Parent().Name())
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	orig := testScene(t)

	require.NoError(t, Save(path, orig, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc scene.Document
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Len(t, doc.Nodes, 1)

	restored, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, orig.Stats(), restored.Stats())
}

func TestSaveLoadCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json.sz")
	orig := testScene(t)

	require.NoError(t, Save(path, orig, Options{}))

	// The .sz suffix triggers snappy on both sides.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := snappy.Decode(nil, data)
	require.NoError(t, err)
	var doc scene.Document
	require.NoError(t, json.Unmarshal(decoded, &doc))

	restored, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, orig.Stats(), restored.Stats())
}

func TestSaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, Save(path, testScene(t), Options{}))
	require.NoError(t, Save(path, scene.New(), Options{}))

	// No temporary files may survive a successful save.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "scene.json", entries[0].Name())

	restored, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, restored.NodeCount())
}

// A scene wired up outside CreateNode can carry names the document rules
// reject; Save must refuse to write it rather than produce an unloadable
// file.
func TestSaveRejectsInvalidNames(t *testing.T) {
	s := scene.New()
	require.NoError(t, s.Root().AddChild(scene.NewNode("my node")))

	path := filepath.Join(t.TempDir(), "scene.json")
	err := Save(path, s, Options{})
	assert.ErrorIs(t, err, scene.ErrStorage)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected save left a file behind")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), Options{})
	assert.ErrorIs(t, err, scene.ErrStorage)
}

func TestLoadMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path, Options{})
	assert.ErrorIs(t, err, scene.ErrStorage)
}

func TestLoadRejectsInvalidDocument(t *testing.T) {
	// Valid JSON, but the document fails validation: two nodes share a name.
	doc := scene.Document{Nodes: []*scene.NodePayload{
		{Name: "dup", Type: scene.TypeNode},
		{Name: "dup", Type: scene.TypeNode},
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path, Options{})
	assert.ErrorIs(t, err, scene.ErrStorage)
}

func TestLoadWithCustomRegistry(t *testing.T) {
	reg := scene.NewRegistry()
	require.NoError(t, reg.Register("Custom", func(name string) *scene.Node {
		return scene.NewNode(name)
	}))

	s := scene.NewWithRegistry(reg)
	_, err := s.CreateNode("Custom", "c", nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, Save(path, s, Options{}))

	// The default registry does not know the type.
	_, err = Load(path, Options{})
	assert.ErrorIs(t, err, scene.ErrUnknownType)

	restored, err := Load(path, Options{Registry: reg})
	require.NoError(t, err)
	n, err := restored.Node("c")
	require.NoError(t, err)
	assert.Equal(t, "Custom", n.TypeName())
}

func TestFormatResolution(t *testing.T) {
	cases := []struct {
		path   string
		format Format
		want   Format
	}{
		{"scene.json", FormatAuto, FormatJSON},
		{"scene.yaml", FormatAuto, FormatYAML},
		{"scene.yml", FormatAuto, FormatYAML},
		{"scene.yaml.sz", FormatAuto, FormatYAML},
		{"scene.sz", FormatAuto, FormatJSON},
		{"scene", FormatAuto, FormatJSON},
		{"scene.yaml", FormatJSON, FormatJSON},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, resolveFormat(tc.path, tc.format), "path %s", tc.path)
	}
}

func TestPersistMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	path := filepath.Join(t.TempDir(), "scene.json")

	require.NoError(t, Save(path, testScene(t), Options{Metrics: reg}))
	_, err := Load(path, Options{Metrics: reg})
	require.NoError(t, err)
	_, loadErr := Load(filepath.Join(t.TempDir(), "absent.json"), Options{Metrics: reg})
	require.Error(t, loadErr)
	// errors.Is still works through the metrics wrapper path.
	assert.True(t, errors.Is(loadErr, scene.ErrStorage))

	families, err := reg.Prometheus().Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "scenegraph_persist_operations_total" {
			found = true
		}
	}
	assert.True(t, found, "persist operation counter not registered")
}

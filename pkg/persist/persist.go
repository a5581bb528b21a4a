// Package persist reads and writes whole scenes as structured documents. The
// document format is JSON by default, YAML by file extension or option, with
// optional snappy compression for large scenes. Writes are atomic: the
// document goes to a temporary file first and is renamed into place.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/scenegraph/pkg/logging"
	"github.com/dd0wney/scenegraph/pkg/metrics"
	"github.com/dd0wney/scenegraph/pkg/scene"
	"github.com/dd0wney/scenegraph/pkg/validation"
)

const filePermissions = 0o644

// Format selects the document encoding.
type Format int

const (
	// FormatAuto selects the encoding from the file extension: .yaml and
	// .yml produce YAML, everything else JSON. A .sz suffix enables
	// snappy compression over the selected encoding.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// Options control how scenes are saved and loaded.
type Options struct {
	Format   Format
	Compress bool            // snappy-compress the encoded document
	Registry *scene.Registry // registry for reconstruction; defaults to the process-wide one
	Metrics  *metrics.Registry
}

// Save serializes the scene and writes it to path.
func Save(path string, s *scene.Scene, opts Options) (err error) {
	log := logging.With(logging.Component("persist"))
	timer := logging.StartTimer(log, "scene saved", logging.Path(path))
	start := time.Now()
	size := 0
	defer func() {
		if opts.Metrics != nil {
			opts.Metrics.RecordPersist("save", time.Since(start), size, err)
		}
		if err != nil {
			timer.EndError(err)
		} else {
			timer.End()
		}
	}()

	serStart := time.Now()
	doc := s.Serialize()
	if opts.Metrics != nil {
		opts.Metrics.RecordSerialize(time.Since(serStart))
	}
	// Validating before the write keeps save and load symmetric: a document
	// this function accepts is always loadable.
	if err := validation.ValidateDocument(doc); err != nil {
		return storageError("Save", path, err)
	}
	data, err := encode(doc, resolveFormat(path, opts.Format))
	if err != nil {
		return storageError("Save", path, err)
	}
	if opts.Compress || strings.HasSuffix(path, ".sz") {
		data = snappy.Encode(nil, data)
	}
	size = len(data)

	// Write to a temporary file first, then rename into place.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, filePermissions); err != nil {
		return storageError("Save", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return storageError("Save", path, err)
	}
	return nil
}

// Load reads, validates and deserializes a scene from path. Reconstruction
// happens in a fresh scene, so the caller's state is untouched on failure.
func Load(path string, opts Options) (s *scene.Scene, err error) {
	log := logging.With(logging.Component("persist"))
	timer := logging.StartTimer(log, "scene loaded", logging.Path(path))
	start := time.Now()
	size := 0
	defer func() {
		if opts.Metrics != nil {
			opts.Metrics.RecordPersist("load", time.Since(start), size, err)
		}
		if err != nil {
			timer.EndError(err)
		} else {
			timer.End()
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, storageError("Load", path, err)
	}
	size = len(data)

	if opts.Compress || strings.HasSuffix(path, ".sz") {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			return nil, storageError("Load", path, err)
		}
	}

	doc, err := decode(data, resolveFormat(path, opts.Format))
	if err != nil {
		return nil, storageError("Load", path, err)
	}
	if err := validation.ValidateDocument(doc); err != nil {
		return nil, storageError("Load", path, err)
	}

	reg := opts.Registry
	if reg == nil {
		reg = scene.DefaultRegistry()
	}
	deserStart := time.Now()
	s, err = scene.DeserializeWith(reg, doc)
	if err != nil {
		return nil, err
	}
	if opts.Metrics != nil {
		opts.Metrics.RecordDeserialize(time.Since(deserStart))
	}
	return s, nil
}

func encode(doc *scene.Document, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func decode(data []byte, format Format) (*scene.Document, error) {
	doc := &scene.Document{}
	if format == FormatYAML {
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// resolveFormat maps a path and explicit option to a concrete encoding.
func resolveFormat(path string, format Format) Format {
	if format != FormatAuto {
		return format
	}
	trimmed := strings.TrimSuffix(path, ".sz")
	if strings.HasSuffix(trimmed, ".yaml") || strings.HasSuffix(trimmed, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

func storageError(op, path string, cause error) error {
	return scene.NewError(op).Document().
		Cause(fmt.Errorf("%w: %s: %v", scene.ErrStorage, path, cause)).Err()
}

// Package metrics exposes prometheus instruments for scene and persistence
// operations. Each Registry wraps its own prometheus registry so tests and
// embedding applications stay isolated.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the library
type Registry struct {
	registry *prometheus.Registry

	// Scene metrics
	SceneNodesTotal       prometheus.Gauge
	SceneGroupsTotal      prometheus.Gauge
	SceneConnectionsTotal prometheus.Gauge
	SceneMaxDepth         prometheus.Gauge
	SceneOperationsTotal  *prometheus.CounterVec

	// Serialization metrics
	SerializeDuration   prometheus.Histogram
	DeserializeDuration prometheus.Histogram

	// Persistence metrics
	PersistOperationsTotal *prometheus.CounterVec
	PersistDuration        *prometheus.HistogramVec
	PersistFileSizeBytes   prometheus.Gauge
}

// NewRegistry creates a registry with all instruments registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.SceneNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scenegraph_scene_nodes_total",
			Help: "Total number of nodes in the scene",
		},
	)
	r.SceneGroupsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scenegraph_scene_groups_total",
			Help: "Total number of group nodes in the scene",
		},
	)
	r.SceneConnectionsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scenegraph_scene_connections_total",
			Help: "Total number of undirected connections in the scene",
		},
	)
	r.SceneMaxDepth = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scenegraph_scene_max_depth",
			Help: "Deepest containment nesting level in the scene",
		},
	)
	r.SceneOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenegraph_scene_operations_total",
			Help: "Total number of scene operations",
		},
		[]string{"operation", "status"},
	)

	r.SerializeDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scenegraph_serialize_duration_seconds",
			Help:    "Scene serialization duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)
	r.DeserializeDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scenegraph_deserialize_duration_seconds",
			Help:    "Scene deserialization duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)

	r.PersistOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenegraph_persist_operations_total",
			Help: "Total number of save/load operations",
		},
		[]string{"operation", "status"},
	)
	r.PersistDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scenegraph_persist_duration_seconds",
			Help:    "Save/load duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
		[]string{"operation"},
	)
	r.PersistFileSizeBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scenegraph_persist_file_size_bytes",
			Help: "Size of the most recently written or read scene file",
		},
	)

	return r
}

// Prometheus returns the underlying prometheus registry for exposition.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// RecordOperation records a scene mutation with its outcome.
func (r *Registry) RecordOperation(operation string, err error) {
	r.SceneOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordPersist records a save or load with its duration and outcome.
func (r *Registry) RecordPersist(operation string, duration time.Duration, size int, err error) {
	r.PersistOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
	r.PersistDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err == nil && size > 0 {
		r.PersistFileSizeBytes.Set(float64(size))
	}
}

// RecordSerialize records one serialization pass.
func (r *Registry) RecordSerialize(duration time.Duration) {
	r.SerializeDuration.Observe(duration.Seconds())
}

// RecordDeserialize records one deserialization pass.
func (r *Registry) RecordDeserialize(duration time.Duration) {
	r.DeserializeDuration.Observe(duration.Seconds())
}

// SceneStats is the subset of scene counters mirrored into gauges.
type SceneStats struct {
	Nodes       int
	Groups      int
	Connections int
	MaxDepth    int
}

// UpdateSceneMetrics mirrors scene counters into the gauges.
func (r *Registry) UpdateSceneMetrics(stats SceneStats) {
	r.SceneNodesTotal.Set(float64(stats.Nodes))
	r.SceneGroupsTotal.Set(float64(stats.Groups))
	r.SceneConnectionsTotal.Set(float64(stats.Connections))
	r.SceneMaxDepth.Set(float64(stats.MaxDepth))
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"genealogy3d/application/ports"
)

// Collector holds all Prometheus metrics for the viewer
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Scene metrics
	Rebuilds        prometheus.Counter
	RebuildDuration prometheus.Histogram
	SceneNodes      prometheus.Gauge
	SceneEdges      prometheus.Gauge

	// Interaction metrics
	HitResolutions     *prometheus.CounterVec
	HighlightEdges     prometheus.Histogram
	HighlightNeighbors prometheus.Histogram

	// Backend metrics
	BackendCalls    *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
}

var _ ports.Metrics = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so several
// instances can live in one process.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	rebuilds := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_rebuilds_total",
			Help:      "Total number of scene rebuilds",
		},
	)

	rebuildDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scene_rebuild_duration_seconds",
			Help:      "Scene rebuild duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	sceneNodes := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_nodes",
			Help:      "Number of nodes in the current scene",
		},
	)

	sceneEdges := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_edges",
			Help:      "Number of deduplicated edges in the current scene",
		},
	)

	hitResolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hit_resolutions_total",
			Help:      "Pointer hit resolutions by result kind",
		},
		[]string{"kind"},
	)

	highlightEdges := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "highlight_edges",
			Help:      "Edges shown by a connection highlight",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		},
	)

	highlightNeighbors := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "highlight_discovered",
			Help:      "Neighbors discovered by a connection highlight",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		},
	)

	backendCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_calls_total",
			Help:      "Total number of data backend calls",
		},
		[]string{"operation", "status"},
	)

	backendDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_call_duration_seconds",
			Help:      "Data backend call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	registry.MustRegister(
		rebuilds,
		rebuildDuration,
		sceneNodes,
		sceneEdges,
		hitResolutions,
		highlightEdges,
		highlightNeighbors,
		backendCalls,
		backendDuration,
	)

	return &Collector{
		registry:           registry,
		Rebuilds:           rebuilds,
		RebuildDuration:    rebuildDuration,
		SceneNodes:         sceneNodes,
		SceneEdges:         sceneEdges,
		HitResolutions:     hitResolutions,
		HighlightEdges:     highlightEdges,
		HighlightNeighbors: highlightNeighbors,
		BackendCalls:       backendCalls,
		BackendDuration:    backendDuration,
	}
}

// ObserveRebuild records one scene rebuild.
func (c *Collector) ObserveRebuild(d time.Duration, nodes, edges int) {
	c.Rebuilds.Inc()
	c.RebuildDuration.Observe(d.Seconds())
	c.SceneNodes.Set(float64(nodes))
	c.SceneEdges.Set(float64(edges))
}

// ObserveHit counts a pointer resolution.
func (c *Collector) ObserveHit(kind string) {
	c.HitResolutions.WithLabelValues(kind).Inc()
}

// ObserveHighlight records the size of a connection highlight.
func (c *Collector) ObserveHighlight(edges, discovered int) {
	c.HighlightEdges.Observe(float64(edges))
	c.HighlightNeighbors.Observe(float64(discovered))
}

// ObserveBackendCall records a data backend call and its outcome.
func (c *Collector) ObserveBackendCall(operation string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.BackendCalls.WithLabelValues(operation, status).Inc()
	c.BackendDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

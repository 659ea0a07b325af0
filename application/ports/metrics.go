package ports

import "time"

// Metrics records scene and backend activity.
type Metrics interface {
	ObserveRebuild(d time.Duration, nodes, edges int)
	ObserveHit(kind string)
	ObserveHighlight(edges, discovered int)
	ObserveBackendCall(operation string, d time.Duration, err error)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ObserveRebuild(time.Duration, int, int)          {}
func (NopMetrics) ObserveHit(string)                               {}
func (NopMetrics) ObserveHighlight(int, int)                       {}
func (NopMetrics) ObserveBackendCall(string, time.Duration, error) {}

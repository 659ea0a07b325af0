package scene

import (
	"time"

	"go.uber.org/zap"

	"genealogy3d/application/ports"
	"genealogy3d/domain/core/aggregates"
	"genealogy3d/domain/services"
	apperrors "genealogy3d/pkg/errors"
)

// Synchronizer rebuilds every drawable from the family graph. Nothing from
// a previous cycle survives a rebuild.
type Synchronizer struct {
	surface ports.Surface
	layout  services.LayoutConfig
	config  SceneConfig
	hitCtx  *HitContext
	logger  *zap.Logger
	metrics ports.Metrics

	primitives []ports.PrimitiveID
	builds     int
}

// NewSynchronizer creates a synchronizer drawing onto surface.
func NewSynchronizer(surface ports.Surface, layout services.LayoutConfig, config SceneConfig, logger *zap.Logger, metrics ports.Metrics) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Synchronizer{
		surface: surface,
		layout:  layout,
		config:  config,
		hitCtx:  NewHitContext(),
		logger:  logger,
		metrics: metrics,
	}
}

// Rebuild removes the previous cycle's primitives and builds nodes, edges,
// proxies and a fresh hit index for graph. An invalid graph is rejected
// before the surface is touched.
func (s *Synchronizer) Rebuild(graph *aggregates.FamilyGraph) (*Snapshot, error) {
	if graph == nil {
		return nil, apperrors.NewValidationError("graph cannot be nil")
	}
	if err := graph.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "rebuild scene")
	}

	start := time.Now()
	s.Clear()
	s.builds++

	persons := graph.Persons()
	positions := services.Layout(persons, s.layout)
	snap := newSnapshot(s.surface, s.builds, NewHitIndex(s.hitCtx))

	for _, p := range persons {
		pos := positions[p.ID]
		node := &VisualNode{
			PersonID: p.ID,
			Position: pos,
			Sphere: s.add(s.surface.AddSphere(ports.Sphere{
				Center: pos,
				Radius: s.config.NodeRadius,
				Color:  s.config.NodeColor,
				Label:  p.DisplayName(),
			})),
		}
		snap.Nodes = append(snap.Nodes, node)
		snap.nodeByID[p.ID] = node
		snap.Index.AddNode(p.ID, pos, s.config.NodeRadius)
	}

	for _, r := range graph.Relations() {
		key := r.Pair()
		if _, dup := snap.edgeByKey[key]; dup {
			continue
		}
		from, okFrom := snap.nodeByID[r.OwnerID]
		to, okTo := snap.nodeByID[r.TargetID]
		if !okFrom || !okTo {
			continue
		}
		edge := &VisualEdge{
			Key:      key,
			SourceID: r.OwnerID,
			TargetID: r.TargetID,
			Type:     r.Type,
			From:     from.Position,
			To:       to.Position,
			Visible:  true,
		}
		edge.Line = s.add(s.surface.AddLine(ports.Line{
			From:    edge.From,
			To:      edge.To,
			Color:   EdgeColor(r.Type),
			Opacity: s.config.EdgeOpacity,
			Visible: true,
		}))
		edge.Proxy = s.add(s.surface.AddProxy(ports.Proxy{
			From:   edge.From,
			To:     edge.To,
			Radius: s.config.EdgeProxyRadius,
		}))
		snap.Edges = append(snap.Edges, edge)
		snap.edgeByKey[key] = edge
		snap.Index.AddEdge(r.OwnerID, r.TargetID, r.Type, edge.From, edge.To, s.config.EdgeProxyRadius)
	}

	elapsed := time.Since(start)
	s.metrics.ObserveRebuild(elapsed, len(snap.Nodes), len(snap.Edges))
	s.logger.Debug("Scene rebuilt",
		zap.Int("build", s.builds),
		zap.Int("nodes", len(snap.Nodes)),
		zap.Int("edges", len(snap.Edges)),
		zap.Duration("elapsed", elapsed),
	)
	return snap, nil
}

// Clear removes every primitive created by the last rebuild.
func (s *Synchronizer) Clear() {
	for _, id := range s.primitives {
		s.surface.Remove(id)
	}
	s.primitives = s.primitives[:0]
}

// Primitives returns how many primitives the last rebuild left on the surface.
func (s *Synchronizer) Primitives() int {
	return len(s.primitives)
}

func (s *Synchronizer) add(id ports.PrimitiveID) ports.PrimitiveID {
	s.primitives = append(s.primitives, id)
	return id
}

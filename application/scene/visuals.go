package scene

import (
	"genealogy3d/application/ports"
	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/pkg/geom"
)

// SceneConfig holds the look of nodes and edges.
type SceneConfig struct {
	NodeRadius      float32 `koanf:"node_radius" validate:"gt=0"`
	NodeColor       uint32  `koanf:"node_color"`
	EdgeProxyRadius float32 `koanf:"edge_proxy_radius" validate:"gt=0"`
	EdgeOpacity     float32 `koanf:"edge_opacity" validate:"gte=0,lte=1"`
}

// DefaultSceneConfig returns the standard node and edge styling.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		NodeRadius:      0.6,
		NodeColor:       0x007bff,
		EdgeProxyRadius: 0.35,
		EdgeOpacity:     0.6,
	}
}

// EdgeColor returns the line color for a stored relation type.
func EdgeColor(t valueobjects.RelationType) uint32 {
	switch t {
	case valueobjects.RelationParent:
		return 0xff0000
	case valueobjects.RelationChild:
		return 0x00ff00
	case valueobjects.RelationSibling:
		return 0xffff00
	default:
		return 0x00ffff
	}
}

// VisualNode is the drawable projection of one person.
type VisualNode struct {
	PersonID valueobjects.PersonID
	Position geom.Vec3
	Sphere   ports.PrimitiveID
}

// VisualEdge is the drawable projection of one relationship, shared by
// both directed rows. Source, Target and Type come from the first row seen.
type VisualEdge struct {
	Key      valueobjects.PairKey
	SourceID valueobjects.PersonID
	TargetID valueobjects.PersonID
	Type     valueobjects.RelationType
	From     geom.Vec3
	To       geom.Vec3
	Line     ports.PrimitiveID
	Proxy    ports.PrimitiveID
	Visible  bool
}

// Midpoint is the center of the edge and its pick proxy.
func (e *VisualEdge) Midpoint() geom.Vec3 {
	return e.From.Lerp(e.To, 0.5)
}

// Snapshot is the result of one rebuild. It is discarded wholesale by the
// next rebuild.
type Snapshot struct {
	Version int
	Nodes   []*VisualNode
	Edges   []*VisualEdge
	Index   *HitIndex

	nodeByID  map[valueobjects.PersonID]*VisualNode
	edgeByKey map[valueobjects.PairKey]*VisualEdge
	surface   ports.Surface
}

func newSnapshot(surface ports.Surface, version int, index *HitIndex) *Snapshot {
	return &Snapshot{
		Version:   version,
		Index:     index,
		nodeByID:  make(map[valueobjects.PersonID]*VisualNode),
		edgeByKey: make(map[valueobjects.PairKey]*VisualEdge),
		surface:   surface,
	}
}

// Node returns the visual for a person.
func (s *Snapshot) Node(id valueobjects.PersonID) (*VisualNode, bool) {
	n, ok := s.nodeByID[id]
	return n, ok
}

// Edge returns the visual for an unordered pair.
func (s *Snapshot) Edge(a, b valueobjects.PersonID) (*VisualEdge, bool) {
	e, ok := s.edgeByKey[valueobjects.NewPairKey(a, b)]
	return e, ok
}

// ShowEdge makes the edge between a and b visible. It reports whether such
// an edge exists.
func (s *Snapshot) ShowEdge(a, b valueobjects.PersonID) bool {
	e, ok := s.Edge(a, b)
	if !ok {
		return false
	}
	s.setVisible(e, true)
	return true
}

// HideAllEdges hides every edge line.
func (s *Snapshot) HideAllEdges() {
	for _, e := range s.Edges {
		s.setVisible(e, false)
	}
}

// ShowAllEdges shows every edge line.
func (s *Snapshot) ShowAllEdges() {
	for _, e := range s.Edges {
		s.setVisible(e, true)
	}
}

// VisibleEdges returns the keys of the visible edges in build order.
func (s *Snapshot) VisibleEdges() []valueobjects.PairKey {
	var out []valueobjects.PairKey
	for _, e := range s.Edges {
		if e.Visible {
			out = append(out, e.Key)
		}
	}
	return out
}

func (s *Snapshot) setVisible(e *VisualEdge, visible bool) {
	if e.Visible == visible {
		return
	}
	e.Visible = visible
	if s.surface != nil {
		s.surface.SetVisible(e.Line, visible)
	}
}

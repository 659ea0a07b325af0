package scene

import (
	"sort"

	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/pkg/geom"
)

// HitKind classifies a pointer resolution.
type HitKind int

const (
	HitNone HitKind = iota
	HitNode
	HitEdge
)

func (k HitKind) String() string {
	switch k {
	case HitNode:
		return "node"
	case HitEdge:
		return "edge"
	default:
		return "none"
	}
}

// Hit is the entity under the pointer. PersonID is set for node hits;
// SourceID, TargetID and Type for edge hits.
type Hit struct {
	Kind     HitKind
	PersonID valueobjects.PersonID
	SourceID valueobjects.PersonID
	TargetID valueobjects.PersonID
	Type     valueobjects.RelationType
	Distance float32
}

// Same reports whether two hits point at the same entity.
func (h Hit) Same(o Hit) bool {
	if h.Kind != o.Kind {
		return false
	}
	switch h.Kind {
	case HitNode:
		return h.PersonID == o.PersonID
	case HitEdge:
		return valueobjects.NewPairKey(h.SourceID, h.TargetID) == valueobjects.NewPairKey(o.SourceID, o.TargetID)
	}
	return true
}

type nodeProxy struct {
	id     valueobjects.PersonID
	center geom.Vec3
	radius float32
}

type edgeProxy struct {
	source valueobjects.PersonID
	target valueobjects.PersonID
	typ    valueobjects.RelationType
	from   geom.Vec3
	to     geom.Vec3
	radius float32
}

type candidate struct {
	index int
	dist  float32
}

// HitContext is the pointer and ray scratch state for one scene. It is
// reused across resolutions and rebuilds of the same scene.
type HitContext struct {
	NDCX, NDCY float32
	Ray        geom.Ray
	hits       []candidate
}

// NewHitContext returns an empty context.
func NewHitContext() *HitContext {
	return &HitContext{}
}

// HitIndex holds the pickable proxies of one snapshot.
type HitIndex struct {
	ctx   *HitContext
	nodes []nodeProxy
	edges []edgeProxy
}

// NewHitIndex returns an empty index using ctx for scratch state. A nil ctx
// gets a private one.
func NewHitIndex(ctx *HitContext) *HitIndex {
	if ctx == nil {
		ctx = NewHitContext()
	}
	return &HitIndex{ctx: ctx}
}

// AddNode registers a sphere proxy for a person.
func (x *HitIndex) AddNode(id valueobjects.PersonID, center geom.Vec3, radius float32) {
	x.nodes = append(x.nodes, nodeProxy{id: id, center: center, radius: radius})
}

// AddEdge registers a capsule proxy along an edge.
func (x *HitIndex) AddEdge(source, target valueobjects.PersonID, t valueobjects.RelationType, from, to geom.Vec3, radius float32) {
	x.edges = append(x.edges, edgeProxy{source: source, target: target, typ: t, from: from, to: to, radius: radius})
}

// Len returns the node and edge proxy counts.
func (x *HitIndex) Len() (nodes, edges int) {
	return len(x.nodes), len(x.edges)
}

// Context exposes the scratch state of the last resolution.
func (x *HitIndex) Context() *HitContext {
	return x.ctx
}

// Resolve maps client coordinates to the entity under the pointer. The
// coordinates are normalized against the viewport rectangle. Node proxies
// win over edge proxies; within a kind the nearest along the ray wins.
func (x *HitIndex) Resolve(clientX, clientY float32, vp geom.Viewport, cam *geom.Camera) Hit {
	if x == nil || cam == nil || !vp.Contains(clientX, clientY) {
		return Hit{Kind: HitNone}
	}
	ndcX, ndcY, ok := vp.Normalize(clientX, clientY)
	if !ok {
		return Hit{Kind: HitNone}
	}
	return x.ResolveNDC(ndcX, ndcY, cam)
}

// ResolveNDC resolves already normalized device coordinates.
func (x *HitIndex) ResolveNDC(ndcX, ndcY float32, cam *geom.Camera) Hit {
	c := x.ctx
	c.NDCX, c.NDCY = ndcX, ndcY
	c.Ray = cam.RayFromNDC(ndcX, ndcY)

	c.hits = c.hits[:0]
	for i, n := range x.nodes {
		if d, ok := c.Ray.IntersectSphere(n.center, n.radius); ok {
			c.hits = append(c.hits, candidate{index: i, dist: d})
		}
	}
	if best, ok := nearest(c.hits); ok {
		n := x.nodes[best.index]
		return Hit{Kind: HitNode, PersonID: n.id, Distance: best.dist}
	}

	c.hits = c.hits[:0]
	for i, e := range x.edges {
		if d, ok := c.Ray.IntersectCapsule(e.from, e.to, e.radius); ok {
			c.hits = append(c.hits, candidate{index: i, dist: d})
		}
	}
	if best, ok := nearest(c.hits); ok {
		e := x.edges[best.index]
		return Hit{Kind: HitEdge, SourceID: e.source, TargetID: e.target, Type: e.typ, Distance: best.dist}
	}

	return Hit{Kind: HitNone}
}

// nearest sorts by distance, keeping build order for ties.
func nearest(hits []candidate) (candidate, bool) {
	if len(hits) == 0 {
		return candidate{}, false
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	return hits[0], true
}

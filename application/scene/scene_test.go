package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genealogy3d/domain/core/aggregates"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/domain/services"
	"genealogy3d/infrastructure/render/headless"
	apperrors "genealogy3d/pkg/errors"
	"genealogy3d/pkg/geom"
)

type pid = valueobjects.PersonID

// family builds A(0) with children B(1) and C(1), B and C siblings.
func family(t *testing.T) *aggregates.FamilyGraph {
	t.Helper()
	g := aggregates.NewFamilyGraph()
	for _, p := range []*entities.Person{
		{ID: "A", FirstName: "Ann", LastName: "Root", Generation: 0},
		{ID: "B", FirstName: "Bob", LastName: "Root", Generation: 1},
		{ID: "C", FirstName: "Cat", LastName: "Root", Generation: 1},
	} {
		require.NoError(t, g.AddPerson(p))
	}
	_, _, err := g.AddRelationPair("A", "B", valueobjects.RelationChild)
	require.NoError(t, err)
	_, _, err = g.AddRelationPair("A", "C", valueobjects.RelationChild)
	require.NoError(t, err)
	_, _, err = g.AddRelationPair("B", "C", valueobjects.RelationSibling)
	require.NoError(t, err)
	return g
}

func newSync(surface *headless.Surface) *Synchronizer {
	return NewSynchronizer(surface, services.DefaultLayoutConfig(), DefaultSceneConfig(), zap.NewNop(), nil)
}

func TestRebuildCreatesDeduplicatedVisuals(t *testing.T) {
	surface := headless.NewSurface(800, 600)
	sync := newSync(surface)

	snap, err := sync.Rebuild(family(t))
	require.NoError(t, err)

	assert.Len(t, snap.Nodes, 3)
	assert.Len(t, snap.Edges, 3, "one edge per unordered pair")
	assert.Len(t, surface.Primitives(headless.KindSphere), 3)
	assert.Len(t, surface.Primitives(headless.KindLine), 3)
	assert.Len(t, surface.Primitives(headless.KindProxy), 3)
	assert.Equal(t, 3, surface.VisibleLines())

	ab, ok := snap.Edge("B", "A")
	require.True(t, ok)
	assert.Equal(t, valueobjects.RelationChild, ab.Type, "first row wins")
	assert.Equal(t, pid("A"), ab.SourceID)

	lines := surface.Primitives(headless.KindLine)
	assert.Equal(t, uint32(0x00ff00), lines[0].Line.Color)
	assert.Equal(t, float32(0.6), lines[0].Line.Opacity)
}

func TestRebuildReplacesEverything(t *testing.T) {
	surface := headless.NewSurface(800, 600)
	sync := newSync(surface)
	g := family(t)

	first, err := sync.Rebuild(g)
	require.NoError(t, err)
	require.NoError(t, g.RemovePerson("C"))

	second, err := sync.Rebuild(g)
	require.NoError(t, err)

	assert.Equal(t, 2+1+1, surface.Len(), "2 spheres, 1 line, 1 proxy")
	assert.Equal(t, surface.Len(), sync.Primitives())
	assert.Greater(t, second.Version, first.Version)
	_, ok := second.Node("C")
	assert.False(t, ok)
}

func TestRebuildRejectsInvalidGraphWithoutTouchingSurface(t *testing.T) {
	surface := headless.NewSurface(800, 600)
	sync := newSync(surface)
	_, err := sync.Rebuild(family(t))
	require.NoError(t, err)
	before := surface.Len()

	_, err = sync.Rebuild(nil)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, before, surface.Len())
}

func TestClearRemovesAllPrimitives(t *testing.T) {
	surface := headless.NewSurface(800, 600)
	sync := newSync(surface)
	_, err := sync.Rebuild(family(t))
	require.NoError(t, err)

	sync.Clear()
	assert.Equal(t, 0, surface.Len())
}

func sceneCamera() *geom.Camera {
	cam := geom.NewCamera(geom.V3(0, 0, 50), 60, 0.1, 1000)
	cam.Aspect = 800.0 / 600.0
	return &cam
}

func TestResolveNodeEdgeAndNone(t *testing.T) {
	surface := headless.NewSurface(800, 600)
	snap, err := newSync(surface).Rebuild(family(t))
	require.NoError(t, err)
	cam := sceneCamera()
	surface.SetCamera(*cam)
	vp := surface.Viewport()

	b, _ := snap.Node("B")
	cx, cy, ok := surface.ProjectToClient(b.Position)
	require.True(t, ok)
	hit := snap.Index.Resolve(cx, cy, vp, cam)
	assert.Equal(t, HitNode, hit.Kind)
	assert.Equal(t, pid("B"), hit.PersonID)

	bc, _ := snap.Edge("B", "C")
	cx, cy, ok = surface.ProjectToClient(bc.Midpoint())
	require.True(t, ok)
	hit = snap.Index.Resolve(cx, cy, vp, cam)
	assert.Equal(t, HitEdge, hit.Kind)
	assert.Equal(t, valueobjects.RelationSibling, hit.Type)
	assert.Equal(t, valueobjects.NewPairKey("B", "C"), valueobjects.NewPairKey(hit.SourceID, hit.TargetID))

	hit = snap.Index.Resolve(2, 2, vp, cam)
	assert.Equal(t, HitNone, hit.Kind)
}

func TestResolveUsesViewportRectangle(t *testing.T) {
	surface := headless.NewSurface(800, 600)
	snap, err := newSync(surface).Rebuild(family(t))
	require.NoError(t, err)
	cam := sceneCamera()
	surface.SetCamera(*cam)

	a, _ := snap.Node("A")
	shifted := geom.Viewport{Left: 200, Top: 100, Width: 800, Height: 600}
	surface.SetViewport(shifted)
	cx, cy, ok := surface.ProjectToClient(a.Position)
	require.True(t, ok)

	hit := snap.Index.Resolve(cx, cy, shifted, cam)
	assert.Equal(t, pid("A"), hit.PersonID)

	// the same client point against a window-sized rectangle misses
	miss := snap.Index.Resolve(cx, cy, geom.Viewport{Width: 1000, Height: 700}, cam)
	assert.NotEqual(t, pid("A"), miss.PersonID)

	outside := snap.Index.Resolve(50, 50, shifted, cam)
	assert.Equal(t, HitNone, outside.Kind)
}

func TestNodeWinsOverEdge(t *testing.T) {
	idx := NewHitIndex(nil)
	idx.AddEdge("A", "B", valueobjects.RelationSpouse, geom.V3(-5, 0, 10), geom.V3(5, 0, 10), 0.35)
	idx.AddNode("C", geom.V3(0, 0, 0), 0.6)
	cam := sceneCamera()

	hit := idx.ResolveNDC(0, 0, cam)
	assert.Equal(t, HitNode, hit.Kind, "edge is nearer but nodes take priority")
	assert.Equal(t, pid("C"), hit.PersonID)
}

func TestNearestNodeWins(t *testing.T) {
	idx := NewHitIndex(nil)
	idx.AddNode("far", geom.V3(0, 0, -10), 0.6)
	idx.AddNode("near", geom.V3(0, 0, 10), 0.6)

	hit := idx.ResolveNDC(0, 0, sceneCamera())
	assert.Equal(t, pid("near"), hit.PersonID)
}

func TestHitContextIsPerIndex(t *testing.T) {
	ctxA, ctxB := NewHitContext(), NewHitContext()
	a, b := NewHitIndex(ctxA), NewHitIndex(ctxB)
	cam := sceneCamera()

	a.ResolveNDC(0.5, 0.5, cam)
	b.ResolveNDC(-0.25, 0, cam)

	assert.Equal(t, float32(0.5), ctxA.NDCX)
	assert.Equal(t, float32(-0.25), ctxB.NDCX)
}

// recorder implements EdgeVisibility over a fixed set of pairs.
type recorder struct {
	edges   map[valueobjects.PairKey]bool
	visible map[valueobjects.PairKey]bool
	hides   int
}

func newRecorder(pairs ...[2]pid) *recorder {
	r := &recorder{edges: map[valueobjects.PairKey]bool{}, visible: map[valueobjects.PairKey]bool{}}
	for _, p := range pairs {
		r.edges[valueobjects.NewPairKey(p[0], p[1])] = true
		r.visible[valueobjects.NewPairKey(p[0], p[1])] = true
	}
	return r
}

func (r *recorder) HideAllEdges() {
	r.hides++
	for k := range r.visible {
		r.visible[k] = false
	}
}

func (r *recorder) ShowEdge(a, b pid) bool {
	k := valueobjects.NewPairKey(a, b)
	if !r.edges[k] {
		return false
	}
	r.visible[k] = true
	return true
}

func (r *recorder) count() int {
	n := 0
	for _, v := range r.visible {
		if v {
			n++
		}
	}
	return n
}

type adjacency map[pid][]pid

func (a adjacency) Neighbors(id pid) []pid { return a[id] }

func TestHighlightIsolatedStart(t *testing.T) {
	rec := newRecorder([2]pid{"x", "y"})

	res := Highlight("lonely", adjacency{}, rec, DefaultMaxNeighbors)

	assert.Equal(t, 1, rec.hides)
	assert.Equal(t, 0, rec.count())
	assert.Empty(t, res.Discovered)
	assert.Empty(t, res.Shown)
}

func TestHighlightCapsDiscoveredAndDrainsQueue(t *testing.T) {
	adj := adjacency{}
	var pairs [][2]pid
	// hub with 15 direct neighbors
	for i := 0; i < 15; i++ {
		n := pid(string(rune('a' + i)))
		adj["hub"] = append(adj["hub"], n)
		adj[n] = append(adj[n], "hub")
		pairs = append(pairs, [2]pid{"hub", n})
	}
	rec := newRecorder(pairs...)

	res := Highlight("hub", adj, rec, DefaultMaxNeighbors)

	assert.Len(t, res.Discovered, 10)
	seen := map[pid]bool{}
	for _, id := range res.Discovered {
		assert.False(t, seen[id], "visited twice: %s", id)
		assert.NotEqual(t, pid("hub"), id)
		seen[id] = true
	}
	// every adjacency of the start was traversed
	assert.Equal(t, 15, rec.count())
}

func TestHighlightDedupsDuplicateAdjacency(t *testing.T) {
	adj := adjacency{
		"s": {"a", "a", "b", "a"},
		"a": {"s", "s", "b"},
		"b": {"s", "a"},
	}
	rec := newRecorder([2]pid{"s", "a"}, [2]pid{"s", "b"}, [2]pid{"a", "b"}, [2]pid{"x", "y"})

	res := Highlight("s", adj, rec, DefaultMaxNeighbors)

	assert.Equal(t, []pid{"a", "b"}, res.Discovered)
	assert.Len(t, res.Shown, 3)
	assert.False(t, rec.visible[valueobjects.NewPairKey("x", "y")])
}

func TestHighlightOnSnapshot(t *testing.T) {
	surface := headless.NewSurface(800, 600)
	g := family(t)
	require.NoError(t, g.AddPerson(&entities.Person{ID: "D", FirstName: "Dan", LastName: "Other", Generation: 0}))
	require.NoError(t, g.AddPerson(&entities.Person{ID: "E", FirstName: "Eve", LastName: "Other", Generation: 0}))
	_, _, err := g.AddRelationPair("D", "E", valueobjects.RelationSpouse)
	require.NoError(t, err)

	snap, err := newSync(surface).Rebuild(g)
	require.NoError(t, err)
	require.Equal(t, 4, surface.VisibleLines())

	res := Highlight("B", g, snap, DefaultMaxNeighbors)

	assert.ElementsMatch(t, []pid{"A", "C"}, res.Discovered)
	assert.Equal(t, 3, surface.VisibleLines())
	de, _ := snap.Edge("D", "E")
	assert.False(t, de.Visible)
}

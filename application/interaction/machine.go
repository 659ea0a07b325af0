// Package interaction owns the transient viewer state: hover, selection,
// freeze, camera focus animation and which edges are shown.
package interaction

import (
	"time"

	"go.uber.org/zap"

	"genealogy3d/application/ports"
	"genealogy3d/application/scene"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	apperrors "genealogy3d/pkg/errors"
	"genealogy3d/pkg/geom"
)

// State is the primary interaction state, derived from hover and selection.
type State int

const (
	StateIdle State = iota
	StateHovering
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateHovering:
		return "hovering"
	case StateSelected:
		return "selected"
	default:
		return "idle"
	}
}

// EdgeMode says which edge lines are shown.
type EdgeMode int

const (
	// EdgesAll shows every edge; a fresh scene starts here.
	EdgesAll EdgeMode = iota
	// EdgesHighlight shows the connection highlight of the selection.
	EdgesHighlight
	// EdgesHidden hides every edge; Reset leaves the scene here.
	EdgesHidden
)

func (m EdgeMode) String() string {
	switch m {
	case EdgesHighlight:
		return "highlight"
	case EdgesHidden:
		return "hidden"
	default:
		return "all"
	}
}

// Graph is what the machine reads from the family graph.
type Graph interface {
	scene.Adjacency
	Person(id valueobjects.PersonID) (*entities.Person, bool)
}

// Machine is the single interaction state of a viewer session. It is not
// safe for concurrent use.
type Machine struct {
	cfg          CameraConfig
	maxNeighbors int
	logger       *zap.Logger
	metrics      ports.Metrics

	camera   geom.Camera
	viewport geom.Viewport
	snapshot *scene.Snapshot
	graph    Graph

	hover     scene.Hit
	selected  valueobjects.PersonID
	frozen    bool
	anim      *focusAnimation
	edgeMode  EdgeMode
	highlight *scene.HighlightResult

	onSelect func(valueobjects.PersonID)
}

// NewMachine returns a machine in its reset state.
func NewMachine(cfg CameraConfig, maxNeighbors int, logger *zap.Logger, metrics ports.Metrics) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if maxNeighbors <= 0 {
		maxNeighbors = scene.DefaultMaxNeighbors
	}
	return &Machine{
		cfg:          cfg,
		maxNeighbors: maxNeighbors,
		logger:       logger,
		metrics:      metrics,
		camera:       cfg.Home(1),
		hover:        scene.Hit{Kind: scene.HitNone},
	}
}

// OnSelect sets the callback fired after every selection change to a person.
func (m *Machine) OnSelect(fn func(valueobjects.PersonID)) {
	m.onSelect = fn
}

// Bind switches the machine to a freshly rebuilt snapshot. Hover is
// cleared. The selection survives when its person still has a node, and its
// highlight is re-applied; otherwise the selection is dropped.
func (m *Machine) Bind(snap *scene.Snapshot, graph Graph) {
	m.snapshot = snap
	m.graph = graph
	m.hover = scene.Hit{Kind: scene.HitNone}
	m.highlight = nil

	if !m.selected.IsZero() {
		if _, ok := snap.Node(m.selected); !ok {
			m.logger.Debug("Selection dropped by rebuild", zap.String("personID", m.selected.String()))
			m.selected = ""
			if m.edgeMode == EdgesHighlight {
				m.edgeMode = EdgesAll
			}
		}
	}

	switch m.edgeMode {
	case EdgesHidden:
		snap.HideAllEdges()
	case EdgesHighlight:
		m.runHighlight()
	default:
		snap.ShowAllEdges()
	}
}

// Snapshot returns the bound snapshot, if any.
func (m *Machine) Snapshot() *scene.Snapshot {
	return m.snapshot
}

func (m *Machine) resolve(x, y float32) scene.Hit {
	if m.snapshot == nil {
		return scene.Hit{Kind: scene.HitNone}
	}
	hit := m.snapshot.Index.Resolve(x, y, m.viewport, &m.camera)
	m.metrics.ObserveHit(hit.Kind.String())
	return hit
}

// PointerMove updates the hover target. Frozen does not suppress it.
// It reports whether the hovered entity changed.
func (m *Machine) PointerMove(x, y float32) bool {
	hit := m.resolve(x, y)
	changed := !hit.Same(m.hover)
	m.hover = hit
	return changed
}

// Click selects the person under the pointer. Edge hits, misses and clicks
// while frozen leave the selection alone.
func (m *Machine) Click(x, y float32) scene.Hit {
	if m.frozen {
		return scene.Hit{Kind: scene.HitNone}
	}
	hit := m.resolve(x, y)
	if hit.Kind == scene.HitNode {
		m.selectPerson(hit.PersonID)
	}
	return hit
}

// Select selects a person chosen outside the scene, e.g. from search.
func (m *Machine) Select(id valueobjects.PersonID) error {
	if m.snapshot == nil {
		return apperrors.NewNotFoundError("person", id.String())
	}
	if _, ok := m.snapshot.Node(id); !ok {
		return apperrors.NewNotFoundError("person", id.String())
	}
	m.selectPerson(id)
	return nil
}

func (m *Machine) selectPerson(id valueobjects.PersonID) {
	m.selected = id
	m.edgeMode = EdgesHighlight
	m.runHighlight()

	node, _ := m.snapshot.Node(id)
	m.anim = &focusAnimation{
		position: node.Position.Add(geom.V3(0, 0, m.cfg.FocusDistance)),
		lookAt:   node.Position,
	}

	m.logger.Debug("Person selected",
		zap.String("personID", id.String()),
		zap.Int("highlighted", len(m.highlight.Shown)),
	)
	if m.onSelect != nil {
		m.onSelect(id)
	}
}

func (m *Machine) runHighlight() {
	res := scene.Highlight(m.selected, m.graph, m.snapshot, m.maxNeighbors)
	m.highlight = &res
	m.metrics.ObserveHighlight(len(res.Shown), len(res.Discovered))
}

// ToggleFreeze flips the frozen flag and returns the new value.
func (m *Machine) ToggleFreeze() bool {
	m.frozen = !m.frozen
	return m.frozen
}

// ZoomIn dollies toward the camera target. Refused while frozen.
func (m *Machine) ZoomIn() bool {
	return m.manipulate(func(c *geom.Camera) { c.Zoom(m.cfg.ZoomStep) })
}

// ZoomOut dollies away from the camera target. Refused while frozen.
func (m *Machine) ZoomOut() bool {
	return m.manipulate(func(c *geom.Camera) { c.Zoom(-m.cfg.ZoomStep) })
}

// Orbit rotates around the target by a pointer drag in pixels.
func (m *Machine) Orbit(dx, dy float32) bool {
	return m.manipulate(func(c *geom.Camera) {
		c.Orbit(-dx*m.cfg.OrbitSpeed, dy*m.cfg.OrbitSpeed)
	})
}

// Pan slides the view by a pointer drag in pixels.
func (m *Machine) Pan(dx, dy float32) bool {
	return m.manipulate(func(c *geom.Camera) {
		scale := c.Distance() * m.cfg.PanSpeed
		c.Pan(-dx*scale, dy*scale)
	})
}

// manipulate applies a user camera move unless frozen. A user move cancels
// any focus animation.
func (m *Machine) manipulate(fn func(*geom.Camera)) bool {
	if m.frozen {
		return false
	}
	m.anim = nil
	fn(&m.camera)
	return true
}

// Reset clears freeze, animation, selection, hover and every shown edge,
// and puts the camera back home.
func (m *Machine) Reset() {
	m.frozen = false
	m.anim = nil
	m.selected = ""
	m.hover = scene.Hit{Kind: scene.HitNone}
	m.highlight = nil
	m.edgeMode = EdgesHidden
	if m.snapshot != nil {
		m.snapshot.HideAllEdges()
	}
	m.camera = m.cfg.Home(m.camera.Aspect)
}

// Resize updates the viewport and projection aspect only.
func (m *Machine) Resize(vp geom.Viewport) {
	m.viewport = vp
	m.camera.Aspect = vp.Aspect()
}

// Tick advances the focus animation and reports whether it is still running.
func (m *Machine) Tick(dt time.Duration) bool {
	if m.anim == nil {
		return false
	}
	if m.anim.step(&m.camera, m.cfg.FocusRate, m.cfg.FocusEpsilon, dt) {
		m.anim = nil
		return false
	}
	return true
}

// State returns the primary state.
func (m *Machine) State() State {
	switch {
	case m.hover.Kind != scene.HitNone:
		return StateHovering
	case !m.selected.IsZero():
		return StateSelected
	default:
		return StateIdle
	}
}

// Frozen is the single source of truth for the freeze flag.
func (m *Machine) Frozen() bool { return m.frozen }

// Animating reports whether a focus animation is running.
func (m *Machine) Animating() bool { return m.anim != nil }

// AnimationTarget returns the focus position and look-at.
func (m *Machine) AnimationTarget() (position, lookAt geom.Vec3, ok bool) {
	if m.anim == nil {
		return geom.Vec3{}, geom.Vec3{}, false
	}
	return m.anim.position, m.anim.lookAt, true
}

// Selected returns the selected person.
func (m *Machine) Selected() (valueobjects.PersonID, bool) {
	return m.selected, !m.selected.IsZero()
}

// Hover returns the entity under the pointer.
func (m *Machine) Hover() scene.Hit { return m.hover }

// Camera returns a copy of the camera.
func (m *Machine) Camera() geom.Camera { return m.camera }

// Viewport returns the current viewport.
func (m *Machine) Viewport() geom.Viewport { return m.viewport }

// EdgeMode returns which edges are shown.
func (m *Machine) EdgeMode() EdgeMode { return m.edgeMode }

// LastHighlight returns the most recent connection highlight.
func (m *Machine) LastHighlight() (scene.HighlightResult, bool) {
	if m.highlight == nil {
		return scene.HighlightResult{}, false
	}
	return *m.highlight, true
}

// HoverLabel is the tooltip text: the person's name for nodes, the
// relation type for edges, empty otherwise.
func (m *Machine) HoverLabel() string {
	switch m.hover.Kind {
	case scene.HitNode:
		if m.graph != nil {
			if p, ok := m.graph.Person(m.hover.PersonID); ok {
				return p.DisplayName()
			}
		}
		return "Unknown"
	case scene.HitEdge:
		return m.hover.Type.String()
	}
	return ""
}

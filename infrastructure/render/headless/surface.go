// Package headless is a window-less render surface. It records every
// primitive in memory and is driven by a ticker instead of a display.
package headless

import (
	"sort"

	"genealogy3d/application/ports"
	"genealogy3d/pkg/geom"
	"genealogy3d/pkg/input"
)

// PrimitiveKind tags recorded primitives.
type PrimitiveKind int

const (
	KindSphere PrimitiveKind = iota
	KindLine
	KindProxy
)

// Primitive is one recorded drawable.
type Primitive struct {
	ID      ports.PrimitiveID
	Kind    PrimitiveKind
	Sphere  ports.Sphere
	Line    ports.Line
	Proxy   ports.Proxy
	Visible bool
}

// Surface records primitives instead of drawing them.
type Surface struct {
	prims    map[ports.PrimitiveID]*Primitive
	nextID   ports.PrimitiveID
	viewport geom.Viewport
	camera   geom.Camera
	overlay  string
	input    *input.Registry
	released bool
}

var _ ports.Surface = (*Surface)(nil)

// NewSurface returns a surface with a viewport at the window origin.
func NewSurface(width, height float32) *Surface {
	return &Surface{
		prims:    make(map[ports.PrimitiveID]*Primitive),
		viewport: geom.Viewport{Width: width, Height: height},
		input:    input.NewRegistry(),
	}
}

func (s *Surface) add(p *Primitive) ports.PrimitiveID {
	s.nextID++
	p.ID = s.nextID
	s.prims[p.ID] = p
	return p.ID
}

func (s *Surface) AddSphere(sp ports.Sphere) ports.PrimitiveID {
	return s.add(&Primitive{Kind: KindSphere, Sphere: sp, Visible: true})
}

func (s *Surface) AddLine(l ports.Line) ports.PrimitiveID {
	return s.add(&Primitive{Kind: KindLine, Line: l, Visible: l.Visible})
}

// AddProxy records the proxy as never visible.
func (s *Surface) AddProxy(p ports.Proxy) ports.PrimitiveID {
	return s.add(&Primitive{Kind: KindProxy, Proxy: p})
}

func (s *Surface) Remove(id ports.PrimitiveID) {
	delete(s.prims, id)
}

func (s *Surface) SetVisible(id ports.PrimitiveID, visible bool) {
	if p, ok := s.prims[id]; ok && p.Kind != KindProxy {
		p.Visible = visible
	}
}

func (s *Surface) SetCamera(cam geom.Camera) { s.camera = cam }

func (s *Surface) SetOverlay(text string) { s.overlay = text }

func (s *Surface) Viewport() geom.Viewport { return s.viewport }

func (s *Surface) Input() *input.Registry { return s.input }

// Release drops every primitive. The surface must not be used afterwards.
func (s *Surface) Release() error {
	s.prims = make(map[ports.PrimitiveID]*Primitive)
	s.released = true
	return nil
}

// SetViewport moves or resizes the viewport and dispatches a resize event.
func (s *Surface) SetViewport(vp geom.Viewport) {
	s.viewport = vp
	s.input.DispatchResize(input.ResizeEvent{Viewport: vp})
}

// Camera returns the last camera handed to the surface.
func (s *Surface) Camera() geom.Camera { return s.camera }

// Overlay returns the last overlay text.
func (s *Surface) Overlay() string { return s.overlay }

// Released reports whether Release was called.
func (s *Surface) Released() bool { return s.released }

// Len returns the number of live primitives.
func (s *Surface) Len() int { return len(s.prims) }

// Primitives returns live primitives of a kind, in creation order.
func (s *Surface) Primitives(kind PrimitiveKind) []*Primitive {
	var out []*Primitive
	for _, p := range s.prims {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// VisibleLines counts line primitives currently shown.
func (s *Surface) VisibleLines() int {
	n := 0
	for _, p := range s.prims {
		if p.Kind == KindLine && p.Visible {
			n++
		}
	}
	return n
}

// ProjectToClient maps a world point to client pixels using the current
// camera and viewport. Handy for driving pointer events in tests.
func (s *Surface) ProjectToClient(p geom.Vec3) (float32, float32, bool) {
	x, y, ok := s.camera.Project(p)
	if !ok {
		return 0, 0, false
	}
	cx, cy := s.viewport.ToClient(x, y)
	return cx, cy, true
}

package ports

import (
	"genealogy3d/pkg/geom"
	"genealogy3d/pkg/input"
)

// PrimitiveID is a surface-assigned handle for one drawable.
type PrimitiveID uint64

// Sphere is a node primitive.
type Sphere struct {
	Center geom.Vec3
	Radius float32
	Color  uint32
	Label  string
}

// Line is an edge primitive.
type Line struct {
	From    geom.Vec3
	To      geom.Vec3
	Color   uint32
	Opacity float32
	Visible bool
}

// Proxy is an invisible capsule used only for picking thin primitives.
// Surfaces keep it in their scene graph but never draw it.
type Proxy struct {
	From   geom.Vec3
	To     geom.Vec3
	Radius float32
}

// Surface is the rendering collaborator: it owns drawables, the viewport
// rectangle and the input listener registry.
type Surface interface {
	AddSphere(s Sphere) PrimitiveID
	AddLine(l Line) PrimitiveID
	AddProxy(p Proxy) PrimitiveID
	Remove(id PrimitiveID)
	SetVisible(id PrimitiveID, visible bool)
	SetCamera(cam geom.Camera)
	SetOverlay(text string)
	Viewport() geom.Viewport
	Input() *input.Registry
	Release() error
}

package input

import "github.com/chewxy/math32"

// DefaultDragDeadZone is the pointer travel in pixels before a press
// becomes a drag.
const DefaultDragDeadZone = 4

// Tracker turns polled pointer state into registry events: hover moves,
// clicks and drags. A press that travels less than the dead zone before
// release is a click.
type Tracker struct {
	reg      *Registry
	deadZone float32

	seen           bool
	down           bool
	dragging       bool
	button         MouseButton
	startX, startY float32
	lastX, lastY   float32
}

// NewTracker returns a tracker dispatching into reg.
func NewTracker(reg *Registry, deadZone float32) *Tracker {
	if deadZone < 0 {
		deadZone = DefaultDragDeadZone
	}
	return &Tracker{reg: reg, deadZone: deadZone}
}

// Pointer feeds one frame of pointer state.
func (t *Tracker) Pointer(x, y float32, pressed bool, button MouseButton) {
	moved := !t.seen || x != t.lastX || y != t.lastY
	t.seen = true

	switch {
	case pressed && !t.down:
		t.down = true
		t.button = button
		t.dragging = false
		t.startX, t.startY = x, y
		if moved {
			t.reg.DispatchPointerMove(PointerEvent{X: x, Y: y})
		}

	case !pressed && t.down:
		if !t.dragging && t.button == MouseButtonLeft {
			t.reg.DispatchClick(PointerEvent{X: x, Y: y})
		}
		t.down = false
		t.dragging = false

	case pressed && t.down:
		if !moved {
			break
		}
		if !t.dragging {
			dx, dy := x-t.startX, y-t.startY
			if math32.Sqrt(dx*dx+dy*dy) > t.deadZone {
				t.dragging = true
			}
		}
		if t.dragging {
			t.reg.DispatchDrag(DragEvent{DX: x - t.lastX, DY: y - t.lastY, Button: t.button})
		}

	default:
		if moved {
			t.reg.DispatchPointerMove(PointerEvent{X: x, Y: y})
		}
	}
	t.lastX, t.lastY = x, y
}

// Dragging reports whether the current press has become a drag.
func (t *Tracker) Dragging() bool { return t.dragging }

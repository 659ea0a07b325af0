// Package input is the listener registry a render surface dispatches
// pointer, keyboard and resize events through.
package input

import "genealogy3d/pkg/geom"

// EventType identifies a listener slot.
type EventType uint8

const (
	EventPointerMove EventType = iota
	EventClick
	EventDrag
	EventWheel
	EventKey
	EventResize
)

// MouseButton identifies the button held during a drag.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// PointerEvent carries client (window) coordinates.
type PointerEvent struct {
	X, Y float32
}

// DragEvent carries the pointer delta since the previous frame.
type DragEvent struct {
	DX, DY float32
	Button MouseButton
}

// WheelEvent carries the vertical scroll delta. Positive scrolls up.
type WheelEvent struct {
	Delta float32
}

// KeyEvent carries the typed character, e.g. "r" or "+".
type KeyEvent struct {
	Key string
}

// ResizeEvent carries the new viewport rectangle.
type ResizeEvent struct {
	Viewport geom.Viewport
}

type handler[T any] struct {
	id uint32
	fn func(T)
}

type handlers[T any] []handler[T]

func (s handlers[T]) remove(id uint32) handlers[T] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[T]{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (s handlers[T]) dispatch(ev T) {
	// listeners may remove themselves while running
	snapshot := make(handlers[T], len(s))
	copy(snapshot, s)
	for _, h := range snapshot {
		h.fn(ev)
	}
}

// Registry holds listeners per event type. It is not safe for concurrent
// use; surfaces dispatch from their frame loop.
type Registry struct {
	pointerMove handlers[PointerEvent]
	click       handlers[PointerEvent]
	drag        handlers[DragEvent]
	wheel       handlers[WheelEvent]
	key         handlers[KeyEvent]
	resize      handlers[ResizeEvent]
	nextID      uint32
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Handle removes a registered listener.
type Handle struct {
	id    uint32
	reg   *Registry
	event EventType
}

// Remove unregisters the listener. Calling it more than once is a no-op.
func (h Handle) Remove() {
	if h.reg == nil {
		return
	}
	r := h.reg
	switch h.event {
	case EventPointerMove:
		r.pointerMove = r.pointerMove.remove(h.id)
	case EventClick:
		r.click = r.click.remove(h.id)
	case EventDrag:
		r.drag = r.drag.remove(h.id)
	case EventWheel:
		r.wheel = r.wheel.remove(h.id)
	case EventKey:
		r.key = r.key.remove(h.id)
	case EventResize:
		r.resize = r.resize.remove(h.id)
	}
}

func (r *Registry) next(event EventType) Handle {
	r.nextID++
	return Handle{id: r.nextID, reg: r, event: event}
}

func (r *Registry) OnPointerMove(fn func(PointerEvent)) Handle {
	h := r.next(EventPointerMove)
	r.pointerMove = append(r.pointerMove, handler[PointerEvent]{id: h.id, fn: fn})
	return h
}

func (r *Registry) OnClick(fn func(PointerEvent)) Handle {
	h := r.next(EventClick)
	r.click = append(r.click, handler[PointerEvent]{id: h.id, fn: fn})
	return h
}

func (r *Registry) OnDrag(fn func(DragEvent)) Handle {
	h := r.next(EventDrag)
	r.drag = append(r.drag, handler[DragEvent]{id: h.id, fn: fn})
	return h
}

func (r *Registry) OnWheel(fn func(WheelEvent)) Handle {
	h := r.next(EventWheel)
	r.wheel = append(r.wheel, handler[WheelEvent]{id: h.id, fn: fn})
	return h
}

func (r *Registry) OnKey(fn func(KeyEvent)) Handle {
	h := r.next(EventKey)
	r.key = append(r.key, handler[KeyEvent]{id: h.id, fn: fn})
	return h
}

func (r *Registry) OnResize(fn func(ResizeEvent)) Handle {
	h := r.next(EventResize)
	r.resize = append(r.resize, handler[ResizeEvent]{id: h.id, fn: fn})
	return h
}

func (r *Registry) DispatchPointerMove(ev PointerEvent) { r.pointerMove.dispatch(ev) }
func (r *Registry) DispatchClick(ev PointerEvent)       { r.click.dispatch(ev) }
func (r *Registry) DispatchDrag(ev DragEvent)           { r.drag.dispatch(ev) }
func (r *Registry) DispatchWheel(ev WheelEvent)         { r.wheel.dispatch(ev) }
func (r *Registry) DispatchKey(ev KeyEvent)             { r.key.dispatch(ev) }
func (r *Registry) DispatchResize(ev ResizeEvent)       { r.resize.dispatch(ev) }

// Len returns the number of listeners currently attached.
func (r *Registry) Len() int {
	return len(r.pointerMove) + len(r.click) + len(r.drag) +
		len(r.wheel) + len(r.key) + len(r.resize)
}

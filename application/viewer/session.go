// Package viewer wires the family service, scene synchronizer and
// interaction machine to one render surface.
package viewer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"genealogy3d/application/commands"
	"genealogy3d/application/interaction"
	"genealogy3d/application/ports"
	"genealogy3d/application/scene"
	"genealogy3d/application/services"
	"genealogy3d/domain/core/entities"
	"genealogy3d/domain/core/valueobjects"
	"genealogy3d/domain/events"
	apperrors "genealogy3d/pkg/errors"
	"genealogy3d/pkg/input"
)

// Task is work handed to the session from another goroutine. It runs on
// the frame loop during Drain.
type Task func(ctx context.Context) error

const taskQueueSize = 16

// Session is the viewer facade exposed to UI collaborators. All methods
// except Enqueue must be called from the goroutine that owns the surface.
type Session struct {
	service *services.FamilyService
	sync    *scene.Synchronizer
	machine *interaction.Machine
	surface ports.Surface
	logger  *zap.Logger

	listeners   []input.Handle
	subscribers []func(events.DomainEvent)
	pending     []events.DomainEvent
	onSelect    func(*entities.Person)

	tasks  chan Task
	closed bool
}

// NewSession creates a session and registers it as the service's event
// publisher. Call Start to load the graph.
func NewSession(
	service *services.FamilyService,
	sync *scene.Synchronizer,
	machine *interaction.Machine,
	surface ports.Surface,
	logger *zap.Logger,
) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		service: service,
		sync:    sync,
		machine: machine,
		surface: surface,
		logger:  logger,
		tasks:   make(chan Task, taskQueueSize),
	}
	service.SetPublisher(s)
	machine.OnSelect(s.selected)
	machine.Resize(surface.Viewport())
	return s
}

// Start loads the graph from the backend and builds the first scene.
func (s *Session) Start(ctx context.Context) error {
	return s.Reload(ctx)
}

// Reload replaces the graph with the backend's current content and
// rebuilds the scene. On failure the previous scene stays in place.
func (s *Session) Reload(ctx context.Context) error {
	if s.closed {
		return apperrors.NewValidationError("session is closed")
	}
	if _, err := s.service.Load(ctx); err != nil {
		return err
	}
	return s.rebuild()
}

// Publish buffers domain events until the scene has been rebuilt for them.
func (s *Session) Publish(_ context.Context, evs []events.DomainEvent) error {
	s.pending = append(s.pending, evs...)
	return nil
}

// Subscribe registers a data-change listener called after each successful
// mutation, once the scene reflects it.
func (s *Session) Subscribe(fn func(events.DomainEvent)) {
	s.subscribers = append(s.subscribers, fn)
}

// OnSelect registers the callback fired when a person is selected.
func (s *Session) OnSelect(fn func(*entities.Person)) {
	s.onSelect = fn
}

// AddMember creates a person through the backend and rebuilds the scene.
func (s *Session) AddMember(ctx context.Context, cmd commands.AddMemberCommand) (*entities.Person, error) {
	p, err := s.service.AddMember(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return p, s.afterMutation()
}

// UpdatePerson patches a person through the backend and rebuilds the scene.
func (s *Session) UpdatePerson(ctx context.Context, cmd commands.UpdatePersonCommand) (*entities.Person, error) {
	p, err := s.service.UpdatePerson(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return p, s.afterMutation()
}

// DeletePerson removes a person through the backend and rebuilds the scene.
func (s *Session) DeletePerson(ctx context.Context, id valueobjects.PersonID) error {
	if err := s.service.DeletePerson(ctx, id); err != nil {
		return err
	}
	return s.afterMutation()
}

// Search matches persons by "first last", case-insensitively.
func (s *Session) Search(query string) []*entities.Person {
	return s.service.Search(query)
}

// SearchVisible reports whether the search box should be offered.
func (s *Session) SearchVisible() bool {
	return services.ShowSearch(s.service.Graph().Len())
}

// SelectPerson selects a person picked outside the scene.
func (s *Session) SelectPerson(id valueobjects.PersonID) error {
	return s.machine.Select(id)
}

// ZoomIn dollies the camera in. It reports false while frozen.
func (s *Session) ZoomIn() bool { return s.machine.ZoomIn() }

// ZoomOut dollies the camera out. It reports false while frozen.
func (s *Session) ZoomOut() bool { return s.machine.ZoomOut() }

// ToggleFreeze flips the freeze flag and returns the new value.
func (s *Session) ToggleFreeze() bool { return s.machine.ToggleFreeze() }

// Reset returns the view to its initial state.
func (s *Session) Reset() {
	s.machine.Reset()
	s.logger.Debug("View reset")
}

// Machine exposes interaction state to renderers.
func (s *Session) Machine() *interaction.Machine { return s.machine }

// Service exposes the family service.
func (s *Session) Service() *services.FamilyService { return s.service }

// Enqueue hands a task to the frame loop. It is safe for concurrent use and
// reports false when the queue is full.
func (s *Session) Enqueue(task Task) bool {
	select {
	case s.tasks <- task:
		return true
	default:
		s.logger.Warn("Session task queue full, dropping task")
		return false
	}
}

// Drain runs every queued task. Task errors are logged; the first one is
// returned.
func (s *Session) Drain(ctx context.Context) error {
	var first error
	for {
		select {
		case task := <-s.tasks:
			if err := task(ctx); err != nil {
				s.logger.Error("Session task failed", zap.Error(err))
				if first == nil {
					first = err
				}
			}
		default:
			return first
		}
	}
}

// Tick runs queued tasks, advances the focus animation and pushes camera
// and tooltip state to the surface.
func (s *Session) Tick(ctx context.Context, dt time.Duration) error {
	if s.closed {
		return nil
	}
	err := s.Drain(ctx)
	s.machine.Tick(dt)
	s.surface.SetCamera(s.machine.Camera())
	s.surface.SetOverlay(s.machine.HoverLabel())
	return err
}

// Close removes every listener, clears the scene and releases the surface.
// Further calls are no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.detach()
	s.sync.Clear()
	s.subscribers = nil
	s.pending = nil
	return s.surface.Release()
}

func (s *Session) afterMutation() error {
	if err := s.rebuild(); err != nil {
		return err
	}
	evs := s.pending
	s.pending = nil
	for _, ev := range evs {
		for _, fn := range s.subscribers {
			fn(ev)
		}
	}
	return nil
}

func (s *Session) rebuild() error {
	graph := s.service.Graph()
	snap, err := s.sync.Rebuild(graph)
	if err != nil {
		s.logger.Error("Scene rebuild failed", zap.Error(err))
		return err
	}
	s.machine.Bind(snap, graph)
	s.detach()
	s.attach()
	return nil
}

func (s *Session) attach() {
	reg := s.surface.Input()
	s.listeners = append(s.listeners,
		reg.OnPointerMove(func(ev input.PointerEvent) {
			s.machine.PointerMove(ev.X, ev.Y)
		}),
		reg.OnClick(func(ev input.PointerEvent) {
			s.machine.Click(ev.X, ev.Y)
		}),
		reg.OnDrag(func(ev input.DragEvent) {
			switch ev.Button {
			case input.MouseButtonLeft:
				s.machine.Orbit(ev.DX, ev.DY)
			default:
				s.machine.Pan(ev.DX, ev.DY)
			}
		}),
		reg.OnWheel(func(ev input.WheelEvent) {
			switch {
			case ev.Delta > 0:
				s.machine.ZoomIn()
			case ev.Delta < 0:
				s.machine.ZoomOut()
			}
		}),
		reg.OnKey(s.handleKey),
		reg.OnResize(func(ev input.ResizeEvent) {
			s.machine.Resize(ev.Viewport)
		}),
	)
}

func (s *Session) detach() {
	for _, h := range s.listeners {
		h.Remove()
	}
	s.listeners = s.listeners[:0]
}

func (s *Session) handleKey(ev input.KeyEvent) {
	switch ev.Key {
	case "r", "R":
		s.Reset()
	case "f", "F":
		s.ToggleFreeze()
	case "+", "=":
		s.ZoomIn()
	case "-", "_":
		s.ZoomOut()
	}
}

func (s *Session) selected(id valueobjects.PersonID) {
	if s.onSelect == nil {
		return
	}
	if p, ok := s.service.Graph().Person(id); ok {
		s.onSelect(p)
	}
}

// Package ebitenview draws the scene in a desktop window and forwards
// pointer, keyboard and resize input to the viewer.
package ebitenview

import (
	"errors"
	"image/color"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"genealogy3d/application/ports"
	"genealogy3d/pkg/geom"
	"genealogy3d/pkg/input"
)

// Config sizes the window.
type Config struct {
	Width  int
	Height int
	Title  string
	TPS    int
}

var background = color.RGBA{R: 0x10, G: 0x12, B: 0x18, A: 0xff}

type sphere struct {
	ports.Sphere
	visible bool
}

// Window is a render surface backed by an ebiten game loop.
type Window struct {
	cfg    Config
	logger *zap.Logger

	spheres map[ports.PrimitiveID]*sphere
	lines   map[ports.PrimitiveID]*ports.Line
	proxies map[ports.PrimitiveID]ports.Proxy
	nextID  ports.PrimitiveID

	camera   geom.Camera
	viewport geom.Viewport
	overlay  string

	input   *input.Registry
	tracker *input.Tracker
	chars   []rune

	step     func(dt time.Duration) error
	released bool
}

var _ ports.Surface = (*Window)(nil)

// NewWindow creates a window surface. Nothing is shown until Run.
func NewWindow(cfg Config, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	reg := input.NewRegistry()
	return &Window{
		cfg:      cfg,
		logger:   logger,
		spheres:  make(map[ports.PrimitiveID]*sphere),
		lines:    make(map[ports.PrimitiveID]*ports.Line),
		proxies:  make(map[ports.PrimitiveID]ports.Proxy),
		viewport: geom.Viewport{Width: float32(cfg.Width), Height: float32(cfg.Height)},
		camera:   geom.NewCamera(geom.V3(0, 0, 50), 60, 0.1, 1000),
		input:    reg,
		tracker:  input.NewTracker(reg, input.DefaultDragDeadZone),
	}
}

// Run opens the window and blocks until it closes or step fails. step runs
// once per tick after input is polled.
func (w *Window) Run(step func(dt time.Duration) error) error {
	w.step = step
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(w.cfg.Width, w.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.cfg.TPS)
	w.logger.Info("Opening viewer window",
		zap.Int("width", w.cfg.Width),
		zap.Int("height", w.cfg.Height),
	)
	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (w *Window) AddSphere(s ports.Sphere) ports.PrimitiveID {
	w.nextID++
	w.spheres[w.nextID] = &sphere{Sphere: s, visible: true}
	return w.nextID
}

func (w *Window) AddLine(l ports.Line) ports.PrimitiveID {
	w.nextID++
	w.lines[w.nextID] = &l
	return w.nextID
}

// AddProxy stores a pick proxy. Proxies are never drawn.
func (w *Window) AddProxy(p ports.Proxy) ports.PrimitiveID {
	w.nextID++
	w.proxies[w.nextID] = p
	return w.nextID
}

func (w *Window) Remove(id ports.PrimitiveID) {
	delete(w.spheres, id)
	delete(w.lines, id)
	delete(w.proxies, id)
}

func (w *Window) SetVisible(id ports.PrimitiveID, visible bool) {
	if s, ok := w.spheres[id]; ok {
		s.visible = visible
	}
	if l, ok := w.lines[id]; ok {
		l.Visible = visible
	}
}

func (w *Window) SetCamera(cam geom.Camera) { w.camera = cam }

func (w *Window) SetOverlay(text string) { w.overlay = text }

func (w *Window) Viewport() geom.Viewport { return w.viewport }

func (w *Window) Input() *input.Registry { return w.input }

// Release drops every primitive and ends the game loop on the next tick.
func (w *Window) Release() error {
	w.spheres = make(map[ports.PrimitiveID]*sphere)
	w.lines = make(map[ports.PrimitiveID]*ports.Line)
	w.proxies = make(map[ports.PrimitiveID]ports.Proxy)
	w.released = true
	return nil
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if w.released {
		return ebiten.Termination
	}
	w.pollInput()
	if w.step != nil {
		dt := time.Second / time.Duration(ebiten.TPS())
		if err := w.step(dt); err != nil {
			return err
		}
	}
	return nil
}

func (w *Window) pollInput() {
	mx, my := ebiten.CursorPosition()
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	button := input.MouseButtonLeft
	switch {
	case left:
	case right:
		button = input.MouseButtonRight
	case middle:
		button = input.MouseButtonMiddle
	}
	w.tracker.Pointer(float32(mx), float32(my), left || right || middle, button)

	if _, dy := ebiten.Wheel(); dy != 0 {
		w.input.DispatchWheel(input.WheelEvent{Delta: float32(dy)})
	}

	w.chars = ebiten.AppendInputChars(w.chars[:0])
	for _, r := range w.chars {
		w.input.DispatchKey(input.KeyEvent{Key: string(r)})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.input.DispatchKey(input.KeyEvent{Key: "r"})
	}
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	cam := w.camera
	vp := w.viewport

	for _, l := range w.lines {
		if !l.Visible {
			continue
		}
		x0, y0, ok0 := w.toClient(&cam, l.From)
		x1, y1, ok1 := w.toClient(&cam, l.To)
		if !ok0 || !ok1 {
			continue
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, rgba(l.Color, l.Opacity), true)
	}

	// far to near so closer nodes cover farther ones
	order := make([]*sphere, 0, len(w.spheres))
	for _, s := range w.spheres {
		if s.visible {
			order = append(order, s)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].Center.DistTo(cam.Position) > order[j].Center.DistTo(cam.Position)
	})
	for _, s := range order {
		cx, cy, ok := w.toClient(&cam, s.Center)
		if !ok {
			continue
		}
		r, ok := cam.ProjectRadius(s.Center, s.Radius)
		if !ok {
			continue
		}
		vector.DrawFilledCircle(screen, cx, cy, r*vp.Height/2, rgba(s.Color, 1), true)
	}

	if w.overlay != "" {
		mx, my := ebiten.CursorPosition()
		ebitenutil.DebugPrintAt(screen, w.overlay, mx+12, my+12)
	}
}

// Layout implements ebiten.Game. A size change is reported as a resize.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := geom.Viewport{Width: float32(outsideWidth), Height: float32(outsideHeight)}
	if vp != w.viewport {
		w.viewport = vp
		w.input.DispatchResize(input.ResizeEvent{Viewport: vp})
	}
	return outsideWidth, outsideHeight
}

func (w *Window) toClient(cam *geom.Camera, p geom.Vec3) (float32, float32, bool) {
	x, y, ok := cam.Project(p)
	if !ok {
		return 0, 0, false
	}
	cx, cy := w.viewport.ToClient(x, y)
	return cx, cy, true
}

func rgba(c uint32, opacity float32) color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(opacity * 255),
	}
}

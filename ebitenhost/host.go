// Package ebitenhost runs an orrery engine inside Ebitengine. It provides a
// Renderer that draws drawables as projected billboards and an InputSource
// that converts Ebitengine's polled input state into orrery events.
package ebitenhost

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/kamstrup/intmap"

	"github.com/phanxgames/orrery"
)

// Presentation toggle and float names understood by the host.
const (
	ToggleShake    = "shake"
	FloatJitter    = "jitterStrength"
	defaultCamName = "default"
)

// Marker is a Drawable rendered as a filled square centered on the node's
// world position, sized by its world scale and perspective.
type Marker struct {
	Color color.RGBA
	// Size is the world-space edge length at scale 1.
	Size float64

	model mgl64.Mat4
}

// NewMarker creates a marker with the given color and size.
func NewMarker(c color.RGBA, size float64) *Marker {
	return &Marker{Color: c, Size: size, model: mgl64.Ident4()}
}

// SetModelMatrix implements orrery.Drawable.
func (m *Marker) SetModelMatrix(mat mgl64.Mat4) { m.model = mat }

// ModelMatrix returns the last matrix pushed by the owning node.
func (m *Marker) ModelMatrix() mgl64.Mat4 { return m.model }

// projected is a marker resolved to screen space for one frame.
type projected struct {
	marker *Marker
	x, y   float64
	half   float64
	depth  float64
}

// Host implements orrery.Renderer and orrery.InputSource on top of Ebitengine.
type Host struct {
	width, height int
	title         string

	markers  []*Marker
	cameras  map[string]*orrery.Camera
	active   string
	toggles  map[string]bool
	floats   map[string]float64
	view     mgl64.Mat4
	proj     mgl64.Mat4
	clear    color.RGBA
	drawList []projected

	keys     *intmap.Map[int, orrery.Key]
	keyBuf   []ebiten.Key
	cursorX  int
	cursorY  int
	pending  []orrery.InputEvent
	screen   *ebiten.Image
	white    *ebiten.Image
	hud      func() string
	quitSent bool
}

// New creates a host for a window of the given size. The host starts with a
// single default camera at the origin so ActiveCamera is never nil.
func New(cfg orrery.WindowConfig) *Host {
	h := &Host{
		width:   cfg.Width,
		height:  cfg.Height,
		title:   cfg.Title,
		cameras: make(map[string]*orrery.Camera),
		toggles: make(map[string]bool),
		floats:  make(map[string]float64),
		view:    mgl64.Ident4(),
		proj:    mgl64.Ident4(),
		clear:   color.RGBA{A: 0xff},
		keys:    buildKeyTable(),
	}
	h.AddCamera(defaultCamName, orrery.NewCamera(mgl64.Vec3{}))
	h.active = defaultCamName
	return h
}

// SetHUD installs a callback whose text is printed in the top-left corner.
func (h *Host) SetHUD(fn func() string) { h.hud = fn }

// SetClearColor sets the background color.
func (h *Host) SetClearColor(c color.RGBA) { h.clear = c }

// --- orrery.Renderer ---

// Init implements orrery.Renderer and orrery.InputSource.
func (h *Host) Init() error {
	if h.width <= 0 || h.height <= 0 {
		return fmt.Errorf("ebitenhost: invalid window size %dx%d", h.width, h.height)
	}
	if h.white == nil {
		h.white = ebiten.NewImage(1, 1)
		h.white.Fill(color.White)
	}
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowClosingHandled(true)
	h.cursorX, h.cursorY = ebiten.CursorPosition()
	return nil
}

// Shutdown implements orrery.Renderer and orrery.InputSource.
func (h *Host) Shutdown() {
	clear(h.markers)
	h.markers = h.markers[:0]
	h.pending = h.pending[:0]
}

// AddDrawable implements orrery.Renderer. Drawables other than *Marker are
// accepted but not drawn.
func (h *Host) AddDrawable(d orrery.Drawable) {
	if m, ok := d.(*Marker); ok {
		h.markers = append(h.markers, m)
	}
}

// RemoveDrawable implements orrery.Renderer.
func (h *Host) RemoveDrawable(d orrery.Drawable) {
	m, ok := d.(*Marker)
	if !ok {
		return
	}
	if i := slices.Index(h.markers, m); i >= 0 {
		h.markers = slices.Delete(h.markers, i, i+1)
	}
}

// NumDrawables returns the number of markers being drawn.
func (h *Host) NumDrawables() int { return len(h.markers) }

// AddCamera implements orrery.Renderer.
func (h *Host) AddCamera(name string, cam *orrery.Camera) {
	h.cameras[name] = cam
}

// CameraByName implements orrery.Renderer.
func (h *Host) CameraByName(name string) (*orrery.Camera, bool) {
	c, ok := h.cameras[name]
	return c, ok
}

// SetActiveCamera implements orrery.Renderer.
func (h *Host) SetActiveCamera(name string) bool {
	if _, ok := h.cameras[name]; !ok {
		return false
	}
	h.active = name
	return true
}

// ActiveCamera implements orrery.Renderer.
func (h *Host) ActiveCamera() *orrery.Camera { return h.cameras[h.active] }

// UpdateUniforms implements orrery.Renderer. Only view and projection are kept;
// each marker carries its own model matrix.
func (h *Host) UpdateUniforms(_, view, proj mgl64.Mat4) {
	h.view = view
	h.proj = proj
}

// SetToggle implements orrery.Renderer.
func (h *Host) SetToggle(name string, on bool) { h.toggles[name] = on }

// SetFloat implements orrery.Renderer.
func (h *Host) SetFloat(name string, v float64) { h.floats[name] = v }

// Toggle returns a presentation toggle.
func (h *Host) Toggle(name string) bool { return h.toggles[name] }

// Float returns a presentation float.
func (h *Host) Float(name string) float64 { return h.floats[name] }

// Origin implements orrery.Renderer.
func (h *Host) Origin() mgl64.Vec3 { return mgl64.Vec3{} }

// Clear implements orrery.Renderer.
func (h *Host) Clear() {
	if h.screen != nil {
		h.screen.Fill(h.clear)
	}
}

// Render implements orrery.Renderer. Markers are drawn back to front.
func (h *Host) Render(_ float64, running bool) {
	h.project()
	if h.screen == nil || !running {
		return
	}
	var shakeX, shakeY float64
	if h.toggles[ToggleShake] {
		amp := 1 + h.floats[FloatJitter]
		shakeX = (rand.Float64() - 0.5) * amp
		shakeY = (rand.Float64() - 0.5) * amp
	}
	var op ebiten.DrawImageOptions
	for _, p := range h.drawList {
		op.GeoM.Reset()
		op.GeoM.Scale(2*p.half, 2*p.half)
		op.GeoM.Translate(p.x-p.half+shakeX, p.y-p.half+shakeY)
		op.ColorScale.Reset()
		op.ColorScale.ScaleWithColor(p.marker.Color)
		h.screen.DrawImage(h.white, &op)
	}
	if h.hud != nil {
		ebitenutil.DebugPrintAt(h.screen, h.hud(), 4, 4)
	}
}

// Swap implements orrery.Renderer. Ebitengine presents the frame itself.
func (h *Host) Swap() {}

// project resolves every marker to screen space and sorts far to near.
// Markers behind the camera or smaller than half a pixel are dropped.
func (h *Host) project() {
	h.drawList = h.drawList[:0]
	vp := h.proj.Mul4(h.view)
	w, hh := float64(h.width), float64(h.height)
	for _, m := range h.markers {
		clip := vp.Mul4(m.model).Mul4x1(mgl64.Vec4{0, 0, 0, 1})
		if clip.W() <= 0 {
			continue
		}
		scale := m.model.Col(0).Vec3().Len()
		half := m.Size * scale * h.proj.At(1, 1) / clip.W() * hh / 4
		if half < 0.5 {
			continue
		}
		ndcX, ndcY := clip.X()/clip.W(), clip.Y()/clip.W()
		h.drawList = append(h.drawList, projected{
			marker: m,
			x:      (ndcX + 1) / 2 * w,
			y:      (1 - ndcY) / 2 * hh,
			half:   math.Min(half, hh),
			depth:  clip.W(),
		})
	}
	slices.SortFunc(h.drawList, func(a, b projected) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
}

// --- orrery.InputSource ---

// PollEvents implements orrery.InputSource. It returns the events collected
// by the last Collect call.
func (h *Host) PollEvents(buf []orrery.InputEvent) []orrery.InputEvent {
	buf = append(buf, h.pending...)
	h.pending = h.pending[:0]
	return buf
}

var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	or orrery.MouseButton
}{
	{ebiten.MouseButtonLeft, orrery.MouseButtonLeft},
	{ebiten.MouseButtonMiddle, orrery.MouseButtonMiddle},
	{ebiten.MouseButtonRight, orrery.MouseButtonRight},
}

// Collect reads this tick's Ebitengine input state into the pending queue.
// Called once per tick before the engine steps.
func (h *Host) Collect() {
	if ebiten.IsWindowBeingClosed() && !h.quitSent {
		h.quitSent = true
		h.pending = append(h.pending, orrery.InputEvent{Kind: orrery.EventQuit})
	}

	h.keyBuf = inpututil.AppendJustPressedKeys(h.keyBuf[:0])
	for _, k := range h.keyBuf {
		h.pending = append(h.pending, orrery.InputEvent{Kind: orrery.EventKeyDown, Key: h.MapKey(k)})
	}
	h.keyBuf = inpututil.AppendJustReleasedKeys(h.keyBuf[:0])
	for _, k := range h.keyBuf {
		h.pending = append(h.pending, orrery.InputEvent{Kind: orrery.EventKeyUp, Key: h.MapKey(k)})
	}

	x, y := ebiten.CursorPosition()
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			h.pending = append(h.pending, orrery.InputEvent{
				Kind: orrery.EventMouseButtonDown, Button: b.or, X: x, Y: y,
			})
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			h.pending = append(h.pending, orrery.InputEvent{
				Kind: orrery.EventMouseButtonUp, Button: b.or, X: x, Y: y,
			})
		}
	}
	if x != h.cursorX || y != h.cursorY {
		h.pending = append(h.pending, orrery.InputEvent{
			Kind: orrery.EventMouseMotion,
			X:    x, Y: y,
			DX: x - h.cursorX, DY: y - h.cursorY,
		})
		h.cursorX, h.cursorY = x, y
	}
}

// MapKey converts an Ebitengine key to an orrery key code.
func (h *Host) MapKey(k ebiten.Key) orrery.Key {
	if v, ok := h.keys.Get(int(k)); ok {
		return v
	}
	return orrery.KeyUnknown
}

// buildKeyTable maps Ebitengine keys by name: letters to lowercase ASCII,
// DigitN to '0'..'9', plus the named control and arrow keys.
func buildKeyTable() *intmap.Map[int, orrery.Key] {
	named := map[string]orrery.Key{
		"Escape":     orrery.KeyEscape,
		"Space":      orrery.KeySpace,
		"Enter":      orrery.KeyEnter,
		"Tab":        orrery.KeyTab,
		"Backspace":  orrery.KeyBackspace,
		"Delete":     orrery.KeyDelete,
		"ArrowUp":    orrery.KeyUp,
		"ArrowDown":  orrery.KeyDown,
		"ArrowLeft":  orrery.KeyLeft,
		"ArrowRight": orrery.KeyRight,
	}
	table := intmap.New[int, orrery.Key](128)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		name := k.String()
		switch {
		case len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z':
			table.Put(int(k), orrery.Key(name[0]-'A'+'a'))
		case len(name) == 6 && name[:5] == "Digit":
			table.Put(int(k), orrery.Key(name[5]))
		default:
			if v, ok := named[name]; ok {
				table.Put(int(k), v)
			}
		}
	}
	return table
}

package orrery

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// fakeDrawable records the last model matrix pushed to it.
type fakeDrawable struct {
	model mgl64.Mat4
	sets  int
}

func (d *fakeDrawable) SetModelMatrix(m mgl64.Mat4) {
	d.model = m
	d.sets++
}

// fakeRenderer is an in-memory Renderer that records every call.
type fakeRenderer struct {
	initErr   error
	inits     int
	shutdowns int

	drawables []Drawable
	cameras   map[string]*Camera
	active    string

	toggles map[string]bool
	floats  map[string]float64

	view, proj mgl64.Mat4

	clears, renders, swaps int
	lastRunning            bool
}

func newFakeRenderer() *fakeRenderer {
	r := &fakeRenderer{
		cameras: make(map[string]*Camera),
		toggles: make(map[string]bool),
		floats:  make(map[string]float64),
	}
	r.AddCamera("default", NewCamera(mgl64.Vec3{0, 0, -5}))
	r.active = "default"
	return r
}

func (r *fakeRenderer) Init() error {
	r.inits++
	return r.initErr
}

func (r *fakeRenderer) Shutdown() { r.shutdowns++ }

func (r *fakeRenderer) AddDrawable(d Drawable) { r.drawables = append(r.drawables, d) }

func (r *fakeRenderer) RemoveDrawable(d Drawable) {
	r.drawables = removeFirst(r.drawables, d)
}

func (r *fakeRenderer) AddCamera(name string, c *Camera) { r.cameras[name] = c }

func (r *fakeRenderer) CameraByName(name string) (*Camera, bool) {
	c, ok := r.cameras[name]
	return c, ok
}

func (r *fakeRenderer) SetActiveCamera(name string) bool {
	if _, ok := r.cameras[name]; !ok {
		return false
	}
	r.active = name
	return true
}

func (r *fakeRenderer) ActiveCamera() *Camera { return r.cameras[r.active] }

func (r *fakeRenderer) UpdateUniforms(_, view, proj mgl64.Mat4) {
	r.view, r.proj = view, proj
}

func (r *fakeRenderer) SetToggle(name string, on bool)  { r.toggles[name] = on }
func (r *fakeRenderer) SetFloat(name string, v float64) { r.floats[name] = v }
func (r *fakeRenderer) Origin() mgl64.Vec3              { return mgl64.Vec3{} }
func (r *fakeRenderer) Clear()                          { r.clears++ }

func (r *fakeRenderer) Render(_ float64, running bool) {
	r.renders++
	r.lastRunning = running
}

func (r *fakeRenderer) Swap() { r.swaps++ }

// fakeInput hands out scripted batches of events, one batch per poll.
type fakeInput struct {
	initErr   error
	inits     int
	shutdowns int
	batches   [][]InputEvent
	polls     int
}

func (s *fakeInput) Init() error {
	s.inits++
	return s.initErr
}

func (s *fakeInput) Shutdown() { s.shutdowns++ }

func (s *fakeInput) PollEvents(buf []InputEvent) []InputEvent {
	s.polls++
	if len(s.batches) == 0 {
		return buf
	}
	buf = append(buf, s.batches[0]...)
	s.batches = s.batches[1:]
	return buf
}

// push queues a batch for the next poll.
func (s *fakeInput) push(evs ...InputEvent) {
	s.batches = append(s.batches, evs)
}

// fakeClock advances by a fixed step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

var errBackend = errors.New("backend unavailable")

// newTestEngine builds an initialized engine over fakes with a clock that
// advances 10ms per tick.
func newTestEngine() (*Engine, *fakeRenderer, *fakeInput) {
	r := newFakeRenderer()
	in := &fakeInput{}
	clock := &fakeClock{t: time.Unix(0, 0), step: 10 * time.Millisecond}
	e := New(DefaultConfig(), r, in, WithClock(clock.now))
	if err := e.Init(); err != nil {
		panic(err)
	}
	return e, r, in
}

func keyDown(k Key) InputEvent { return InputEvent{Kind: EventKeyDown, Key: k} }
func keyUp(k Key) InputEvent   { return InputEvent{Kind: EventKeyUp, Key: k} }

package orrery

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimKind selects what the per-frame progress argument of an AnimHandler means.
type AnimKind uint8

const (
	// AnimTimed handlers receive the frame's delta time in seconds.
	AnimTimed AnimKind = iota
	// AnimState handlers receive a caller-supplied interpolation value.
	AnimState
)

// AnimHandler is a per-frame callback driven by the AnimScheduler. Timed and
// state handlers share the enable/disable/reset contract; they differ only in
// the value passed to the callback.
type AnimHandler struct {
	// id is assigned by the owning scheduler at Register; zero when unowned.
	id      uint32
	owner   *AnimScheduler
	kind    AnimKind
	enabled bool

	elapsed float64 // AnimTimed
	interp  float64 // AnimState

	fn func(progress float64)

	// InterpSource, when set on a state handler, is called each frame to
	// refresh the interpolation value before fn runs.
	InterpSource func() float64
}

func newAnimHandler(kind AnimKind, fn func(float64)) *AnimHandler {
	return &AnimHandler{kind: kind, enabled: true, fn: fn}
}

// NewTimedAnim creates an enabled handler whose callback receives dt.
func NewTimedAnim(fn func(dt float64)) *AnimHandler {
	return newAnimHandler(AnimTimed, fn)
}

// NewStateAnim creates an enabled handler whose callback receives the current
// interpolation value (see SetInterp and InterpSource).
func NewStateAnim(fn func(interp float64)) *AnimHandler {
	return newAnimHandler(AnimState, fn)
}

// Kind reports whether the handler is timed or state driven.
func (h *AnimHandler) Kind() AnimKind { return h.kind }

// Enabled reports whether the handler runs on the next frame.
func (h *AnimHandler) Enabled() bool { return h.enabled }

// Enable resumes the handler.
func (h *AnimHandler) Enable() { h.enabled = true }

// Disable pauses the handler without unregistering it.
func (h *AnimHandler) Disable() { h.enabled = false }

// Reset zeroes the elapsed-time accumulator (timed) or interpolation value (state).
func (h *AnimHandler) Reset() {
	h.elapsed = 0
	h.interp = 0
}

// Elapsed returns the accumulated run time of a timed handler.
func (h *AnimHandler) Elapsed() float64 { return h.elapsed }

// Interp returns the interpolation value of a state handler.
func (h *AnimHandler) Interp() float64 { return h.interp }

// SetInterp sets the value passed to a state handler on its next run.
func (h *AnimHandler) SetInterp(v float64) { h.interp = v }

// run invokes the handler once for this frame.
func (h *AnimHandler) run(dt float64) {
	switch h.kind {
	case AnimState:
		if h.InterpSource != nil {
			h.interp = h.InterpSource()
		}
		h.fn(h.interp)
	default:
		h.elapsed += dt
		h.fn(dt)
	}
}

// --- Scheduler ---

// AnimScheduler runs every registered, enabled handler once per frame in
// registration order. Registration has set semantics by identity. A handler
// belongs to at most one scheduler at a time.
type AnimScheduler struct {
	members  *intmap.Map[uint32, *AnimHandler]
	handlers []*AnimHandler
	nextID   uint32

	buf   []*AnimHandler // reused snapshot for the outermost Update
	depth int
}

// NewAnimScheduler creates an empty scheduler.
func NewAnimScheduler() *AnimScheduler {
	return &AnimScheduler{members: intmap.New[uint32, *AnimHandler](16)}
}

// Register adds h. Returns false if h is nil or already registered. Panics if
// h is registered with a different scheduler.
func (s *AnimScheduler) Register(h *AnimHandler) bool {
	if h == nil {
		return false
	}
	if h.owner == s {
		return false
	}
	if h.owner != nil {
		panic("orrery: anim handler is registered with another scheduler")
	}
	s.nextID++
	h.id = s.nextID
	h.owner = s
	s.members.Put(h.id, h)
	s.handlers = append(s.handlers, h)
	return true
}

// Unregister removes h. Returns false if h was not registered.
func (s *AnimScheduler) Unregister(h *AnimHandler) bool {
	if !s.Has(h) {
		return false
	}
	s.members.Del(h.id)
	s.handlers = removeFirst(s.handlers, h)
	h.id, h.owner = 0, nil
	return true
}

// Has reports whether h is registered.
func (s *AnimScheduler) Has(h *AnimHandler) bool {
	if h == nil || h.owner != s {
		return false
	}
	got, ok := s.members.Get(h.id)
	return ok && got == h
}

// Len returns the number of registered handlers.
func (s *AnimScheduler) Len() int {
	return s.members.Len()
}

// Update runs each enabled handler once. Handlers unregistered by an earlier
// callback in the same frame are skipped; handlers registered during the frame
// start running next frame.
func (s *AnimScheduler) Update(dt float64) {
	var snap []*AnimHandler
	s.depth++
	if s.depth > 1 {
		snap = slices.Clone(s.handlers)
	} else {
		s.buf = append(s.buf[:0], s.handlers...)
		snap = s.buf
	}
	defer func() {
		s.depth--
		if s.depth == 0 {
			clear(s.buf)
		}
	}()
	for _, h := range snap {
		if !h.enabled || !s.Has(h) {
			continue
		}
		h.run(dt)
	}
}

// Clear unregisters every handler.
func (s *AnimScheduler) Clear() {
	for _, h := range s.handlers {
		h.id, h.owner = 0, nil
	}
	s.members.Clear()
	clear(s.handlers)
	s.handlers = s.handlers[:0]
}

// --- Tweens ---

// NewTween creates a timed handler that eases from -> to over duration seconds
// and passes each value to apply. The handler disables itself once finished.
func NewTween(from, to float64, duration float32, fn ease.TweenFunc, apply func(v float64)) *AnimHandler {
	tw := gween.New(float32(from), float32(to), duration, fn)
	var h *AnimHandler
	h = NewTimedAnim(func(dt float64) {
		v, done := tw.Update(float32(dt))
		apply(float64(v))
		if done {
			h.Disable()
		}
	})
	return h
}

// tweenVec3 animates the three components of a vector field of node through
// set. The handler stops early when node is destroyed.
func tweenVec3(node *Node, from, to mgl64.Vec3, duration float32, fn ease.TweenFunc, set func(mgl64.Vec3)) *AnimHandler {
	var tweens [3]*gween.Tween
	for i := range tweens {
		tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	var h *AnimHandler
	h = NewTimedAnim(func(dt float64) {
		if node.IsDisposed() {
			h.Disable()
			return
		}
		var v mgl64.Vec3
		allDone := true
		for i, tw := range tweens {
			val, done := tw.Update(float32(dt))
			v[i] = float64(val)
			if !done {
				allDone = false
			}
		}
		set(v)
		if allDone {
			h.Disable()
		}
	})
	return h
}

// TweenPosition creates a handler that moves node to the target position.
func TweenPosition(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *AnimHandler {
	return tweenVec3(node, node.pos, to, duration, fn, node.SetPosition)
}

// TweenRotation creates a handler that rotates node to the target Euler angles.
func TweenRotation(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *AnimHandler {
	return tweenVec3(node, node.rot, to, duration, fn, node.SetRotation)
}

// TweenScale creates a handler that scales node to the target scale.
func TweenScale(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *AnimHandler {
	return tweenVec3(node, node.scale, to, duration, fn, node.SetScale)
}

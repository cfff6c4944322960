package orrery

import "fmt"

// --- Listener types ---

// KeyListener wraps a key callback. The pointer is the listener's identity:
// registering the same pointer twice makes it fire twice, and unregistering
// removes one occurrence.
type KeyListener struct {
	fn func(pressed bool, ev InputEvent)
}

// NewKeyListener creates a key listener. pressed is true for key-down events.
func NewKeyListener(fn func(pressed bool, ev InputEvent)) *KeyListener {
	return &KeyListener{fn: fn}
}

// MouseButtonListener wraps a mouse button callback.
type MouseButtonListener struct {
	fn func(ev InputEvent)
}

// NewMouseButtonListener creates a mouse button listener.
func NewMouseButtonListener(fn func(ev InputEvent)) *MouseButtonListener {
	return &MouseButtonListener{fn: fn}
}

// MouseMotionListener wraps a mouse motion callback.
type MouseMotionListener struct {
	fn func(ev InputEvent)
}

// NewMouseMotionListener creates a mouse motion listener.
func NewMouseMotionListener(fn func(ev InputEvent)) *MouseMotionListener {
	return &MouseMotionListener{fn: fn}
}

// --- Registry ---

// Input holds the three listener collections and the held-state tables.
// Listeners run synchronously in registration order. Each event is dispatched
// over a snapshot, so listeners registered or unregistered during a dispatch
// pass take effect from the next pass.
type Input struct {
	keyListeners    []*KeyListener
	buttonListeners []*MouseButtonListener
	motionListeners []*MouseMotionListener

	keys    [MaxKeys]bool
	buttons [MaxMouseButtons]bool
}

// RegisterKeyInputListener appends l to the key listeners.
func (in *Input) RegisterKeyInputListener(l *KeyListener) {
	in.keyListeners = append(in.keyListeners, l)
}

// RegisterMouseButtonListener appends l to the mouse button listeners.
func (in *Input) RegisterMouseButtonListener(l *MouseButtonListener) {
	in.buttonListeners = append(in.buttonListeners, l)
}

// RegisterMouseMotionListener appends l to the mouse motion listeners.
func (in *Input) RegisterMouseMotionListener(l *MouseMotionListener) {
	in.motionListeners = append(in.motionListeners, l)
}

// UnregisterKeyInputListener removes the first occurrence of l. No-op if absent.
func (in *Input) UnregisterKeyInputListener(l *KeyListener) {
	in.keyListeners = removeFirst(in.keyListeners, l)
}

// UnregisterMouseButtonListener removes the first occurrence of l. No-op if absent.
func (in *Input) UnregisterMouseButtonListener(l *MouseButtonListener) {
	in.buttonListeners = removeFirst(in.buttonListeners, l)
}

// UnregisterMouseMotionListener removes the first occurrence of l. No-op if absent.
func (in *Input) UnregisterMouseMotionListener(l *MouseMotionListener) {
	in.motionListeners = removeFirst(in.motionListeners, l)
}

// ListenerCounts returns the number of key, mouse button and mouse motion listeners.
func (in *Input) ListenerCounts() (keys, buttons, motion int) {
	return len(in.keyListeners), len(in.buttonListeners), len(in.motionListeners)
}

// Clear drops every listener and resets held state.
func (in *Input) Clear() {
	clear(in.keyListeners)
	clear(in.buttonListeners)
	clear(in.motionListeners)
	in.keyListeners = in.keyListeners[:0]
	in.buttonListeners = in.buttonListeners[:0]
	in.motionListeners = in.motionListeners[:0]
	in.keys = [MaxKeys]bool{}
	in.buttons = [MaxMouseButtons]bool{}
}

// --- Held state ---

// IsKeyPressed reports whether key is currently held.
// Panics if key is outside [0, MaxKeys).
func (in *Input) IsKeyPressed(key Key) bool {
	if key >= MaxKeys {
		panic(fmt.Sprintf("orrery: key code %d out of range [0, %d)", key, MaxKeys))
	}
	return in.keys[key]
}

// IsMouseButtonPressed reports whether button is currently held.
// Panics if button is outside [0, MaxMouseButtons).
func (in *Input) IsMouseButtonPressed(button MouseButton) bool {
	if int(button) >= MaxMouseButtons {
		panic(fmt.Sprintf("orrery: mouse button %d out of range [0, %d)", button, MaxMouseButtons))
	}
	return in.buttons[button]
}

// --- Dispatch ---

// Dispatch updates held state for ev and invokes the matching listeners.
// Out-of-range codes are dispatched but not tracked. Quit events are ignored
// here; the engine handles them.
func (in *Input) Dispatch(ev InputEvent) {
	switch ev.Kind {
	case EventKeyDown, EventKeyUp:
		pressed := ev.Kind == EventKeyDown
		if ev.Key < MaxKeys {
			in.keys[ev.Key] = pressed
		}
		for _, l := range snapshot(in.keyListeners) {
			l.fn(pressed, ev)
		}
	case EventMouseButtonDown, EventMouseButtonUp:
		if int(ev.Button) < MaxMouseButtons {
			in.buttons[ev.Button] = ev.Kind == EventMouseButtonDown
		}
		for _, l := range snapshot(in.buttonListeners) {
			l.fn(ev)
		}
	case EventMouseMotion:
		for _, l := range snapshot(in.motionListeners) {
			l.fn(ev)
		}
	}
}

// --- Helpers ---

// snapshot copies s so callbacks can mutate the live slice while we iterate.
func snapshot[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// removeFirst removes the first element equal to v.
// Uses copy+zero to avoid retaining a dangling pointer in the backing array.
func removeFirst[T comparable](s []T, v T) []T {
	for i := range s {
		if s[i] == v {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

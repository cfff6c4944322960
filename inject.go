package orrery

// InjectKeyDown queues a synthetic key press. Injected events are delivered
// one per frame, after the events polled from the input source.
func (e *Engine) InjectKeyDown(key Key) {
	e.injectQueue = append(e.injectQueue, InputEvent{Kind: EventKeyDown, Key: key})
}

// InjectKeyUp queues a synthetic key release.
func (e *Engine) InjectKeyUp(key Key) {
	e.injectQueue = append(e.injectQueue, InputEvent{Kind: EventKeyUp, Key: key})
}

// InjectKeyTap queues a press followed by a release. Consumes two frames.
func (e *Engine) InjectKeyTap(key Key) {
	e.InjectKeyDown(key)
	e.InjectKeyUp(key)
}

// InjectMouseButton queues a synthetic mouse button press or release.
func (e *Engine) InjectMouseButton(button MouseButton, pressed bool) {
	kind := EventMouseButtonUp
	if pressed {
		kind = EventMouseButtonDown
	}
	e.injectQueue = append(e.injectQueue, InputEvent{Kind: kind, Button: button})
}

// InjectMouseMotion queues a synthetic cursor movement by (dx, dy) pixels.
func (e *Engine) InjectMouseMotion(dx, dy int) {
	e.injectQueue = append(e.injectQueue, InputEvent{Kind: EventMouseMotion, DX: dx, DY: dy})
}

// InjectDrag queues a full drag with button: press, frames-2 motion events
// splitting (dx, dy) evenly, and release. Minimum frames is 2.
func (e *Engine) InjectDrag(button MouseButton, dx, dy, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectMouseButton(button, true)
	steps := frames - 2
	sentX, sentY := 0, 0
	for i := 1; i <= steps; i++ {
		x := dx * i / steps
		y := dy * i / steps
		e.InjectMouseMotion(x-sentX, y-sentY)
		sentX, sentY = x, y
	}
	e.InjectMouseButton(button, false)
}

// InjectQuit queues a quit request.
func (e *Engine) InjectQuit() {
	e.injectQueue = append(e.injectQueue, InputEvent{Kind: EventQuit})
}

// PendingInjected returns the number of queued synthetic events.
func (e *Engine) PendingInjected() int {
	return len(e.injectQueue)
}

// drainInjected pops at most one injected event onto buf.
func (e *Engine) drainInjected(buf []InputEvent) []InputEvent {
	if len(e.injectQueue) == 0 {
		return buf
	}
	buf = append(buf, e.injectQueue[0])
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	return buf
}

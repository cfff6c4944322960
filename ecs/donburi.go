package ecs

import (
	"github.com/phanxgames/orrery"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InputEventType is the Donburi event type for orrery input events.
// Subscribe to this in your ECS systems to receive key, button and motion events.
var InputEventType = events.NewEventType[orrery.InputEvent]()

// Registrar is the subset of *orrery.Engine the bridge attaches to.
type Registrar interface {
	RegisterKeyInputListener(l *orrery.KeyListener)
	UnregisterKeyInputListener(l *orrery.KeyListener)
	RegisterMouseButtonListener(l *orrery.MouseButtonListener)
	UnregisterMouseButtonListener(l *orrery.MouseButtonListener)
	RegisterMouseMotionListener(l *orrery.MouseMotionListener)
	UnregisterMouseMotionListener(l *orrery.MouseMotionListener)
	RegisterAnim(h *orrery.AnimHandler) bool
	UnregisterAnim(h *orrery.AnimHandler) bool
}

// DonburiBridge publishes dispatched input into a Donburi world. Events are
// queued during the input phase and delivered to subscribers by a timed
// handler during the same frame's update phase.
type DonburiBridge struct {
	world donburi.World

	key    *orrery.KeyListener
	button *orrery.MouseButtonListener
	motion *orrery.MouseMotionListener
	flush  *orrery.AnimHandler
}

// NewDonburiBridge creates a bridge publishing to world.
func NewDonburiBridge(world donburi.World) *DonburiBridge {
	b := &DonburiBridge{world: world}
	b.key = orrery.NewKeyListener(func(_ bool, ev orrery.InputEvent) { b.Publish(ev) })
	b.button = orrery.NewMouseButtonListener(b.Publish)
	b.motion = orrery.NewMouseMotionListener(b.Publish)
	b.flush = orrery.NewTimedAnim(func(float64) { b.Flush() })
	return b
}

// Attach registers the bridge's listeners and flush handler with r.
func (b *DonburiBridge) Attach(r Registrar) {
	r.RegisterKeyInputListener(b.key)
	r.RegisterMouseButtonListener(b.button)
	r.RegisterMouseMotionListener(b.motion)
	r.RegisterAnim(b.flush)
}

// Detach removes everything Attach registered.
func (b *DonburiBridge) Detach(r Registrar) {
	r.UnregisterKeyInputListener(b.key)
	r.UnregisterMouseButtonListener(b.button)
	r.UnregisterMouseMotionListener(b.motion)
	r.UnregisterAnim(b.flush)
}

// Publish queues ev on the world.
func (b *DonburiBridge) Publish(ev orrery.InputEvent) {
	InputEventType.Publish(b.world, ev)
}

// Flush delivers queued events to subscribers.
func (b *DonburiBridge) Flush() {
	InputEventType.ProcessEvents(b.world)
}

package orrery

import (
	"slices"

	"go.uber.org/zap"
)

// Handle is a stable reference to a node in a World. The slot index is kept
// in the lower 32 bits and the slot generation in the upper 32 bits, so a
// handle to a destroyed node never resolves to whatever reuses its slot.
type Handle uint64

// NoHandle is the zero handle. It never resolves.
const NoHandle Handle = 0

func newHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

// Index extracts the arena slot index.
func (h Handle) Index() uint32 {
	return uint32(h & 0xFFFFFFFF)
}

// Generation extracts the slot generation. Zero means invalid.
func (h Handle) Generation() uint32 {
	return uint32(h >> 32)
}

type slot struct {
	node *Node
	gen  uint32
}

// World is the entity registry ("the scene"). It owns every node's lifetime,
// maps names to nodes, and keeps the insertion order used by Update.
type World struct {
	slots []slot
	free  []uint32
	names map[string]Handle
	order []Handle

	renderer Renderer
	log      *zap.Logger
	debug    bool

	updateBuf []Handle // reused snapshot of order for the outermost pass
	passDepth int
}

// NewWorld creates an empty world. r may be nil; when set, drawables of added
// nodes are registered with it and released on destruction.
func NewWorld(r Renderer) *World {
	return &World{
		names:    make(map[string]Handle),
		renderer: r,
		log:      zap.NewNop(),
	}
}

// Add registers n under name, takes ownership, and stamps the name on it.
// Returns false, leaving the registry unchanged, if the name is taken.
// Panics if n is nil, destroyed, or already registered.
func (w *World) Add(name string, n *Node) bool {
	if n == nil {
		panic("orrery: cannot add nil node")
	}
	if n.disposed {
		panic("orrery: cannot add destroyed node " + name)
	}
	if _, exists := w.names[name]; exists {
		return false
	}
	var h Handle
	switch {
	case n.world == nil:
		h = w.alloc(n)
		n.world = w
		n.handle = h
		if n.drawable != nil && w.renderer != nil {
			w.renderer.AddDrawable(n.drawable)
		}
	case n.world == w && !w.registered(n):
		// Re-adding a removed node keeps its handle and links.
		h = n.handle
	default:
		panic("orrery: node " + n.name + " is already registered")
	}

	n.name = name
	w.names[name] = h
	w.order = append(w.order, h)

	switch n.variant() {
	case NodeEnemy:
		n.resolveEnemyTarget()
	case NodeGoal:
		n.resolveGoalTarget()
	}
	w.log.Debug("entity added",
		zap.String("name", name),
		zap.Stringer("kind", n.kind),
		zap.Uint64("handle", uint64(h)))
	return true
}

// Remove unmaps name and drops it from the update order. The node itself is
// not destroyed. Returns false if no node has that name.
func (w *World) Remove(name string) bool {
	h, ok := w.names[name]
	if !ok {
		return false
	}
	delete(w.names, name)
	w.dropFromOrder(h)
	return true
}

// Get returns the node registered under name. Absence is a normal outcome:
// nodes may be destroyed between frames.
func (w *World) Get(name string) (*Node, bool) {
	h, ok := w.names[name]
	if !ok {
		return nil, false
	}
	return w.Resolve(h)
}

// Resolve returns the live node for h, or false if h is zero or stale.
func (w *World) Resolve(h Handle) (*Node, bool) {
	if h == NoHandle {
		return nil, false
	}
	idx := h.Index()
	if int(idx) >= len(w.slots) {
		return nil, false
	}
	s := w.slots[idx]
	if s.node == nil || s.gen != h.Generation() {
		return nil, false
	}
	return s.node, true
}

// Len returns the number of registered names.
func (w *World) Len() int {
	return len(w.names)
}

// Names returns registered names in update order.
func (w *World) Names() []string {
	out := make([]string, 0, len(w.order))
	for _, h := range w.order {
		if n, ok := w.Resolve(h); ok {
			out = append(out, n.name)
		}
	}
	return out
}

// Each calls fn for every registered node in update order, over a snapshot.
// Nodes destroyed or removed by fn are skipped; nodes added by fn are not visited.
func (w *World) Each(fn func(n *Node)) {
	snap := w.beginPass()
	defer w.endPass()
	for _, h := range snap {
		n, ok := w.Resolve(h)
		if !ok || !w.registered(n) {
			continue
		}
		fn(n)
	}
}

// Update runs every registered node's Update once, in insertion order, and
// stops at the first terminal outcome.
func (w *World) Update() Outcome {
	snap := w.beginPass()
	defer w.endPass()
	for _, h := range snap {
		n, ok := w.Resolve(h)
		if !ok || !w.registered(n) {
			continue
		}
		if out := n.Update(); out.Terminal() {
			return out
		}
	}
	return OutcomeContinue
}

// beginPass snapshots the update order. Only the outermost pass reuses
// updateBuf; a pass started from inside a callback gets its own copy.
func (w *World) beginPass() []Handle {
	w.passDepth++
	if w.passDepth > 1 {
		return slices.Clone(w.order)
	}
	w.updateBuf = append(w.updateBuf[:0], w.order...)
	return w.updateBuf
}

func (w *World) endPass() {
	w.passDepth--
}

// DestroyAll destroys every node still owned by the world.
func (w *World) DestroyAll() {
	for _, s := range w.slots {
		if s.node != nil {
			s.node.Destroy()
		}
	}
	w.order = w.order[:0]
	clear(w.names)
}

// --- Arena ---

func (w *World) alloc(n *Node) Handle {
	var idx uint32
	if k := len(w.free); k > 0 {
		idx = w.free[k-1]
		w.free = w.free[:k-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{})
	}
	s := &w.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.node = n
	return newHandle(idx, s.gen)
}

// release frees h's slot. The generation is bumped on the next alloc, so h
// is stale from now on.
func (w *World) release(h Handle) {
	if _, ok := w.Resolve(h); !ok {
		return
	}
	w.slots[h.Index()].node = nil
	w.free = append(w.free, h.Index())
}

// registered reports whether n is still mapped under its own name.
func (w *World) registered(n *Node) bool {
	h, ok := w.names[n.name]
	return ok && h == n.handle
}

// unregister removes n's name mapping only if it still points at n.
func (w *World) unregister(n *Node) {
	if w.registered(n) {
		w.Remove(n.name)
	} else {
		w.dropFromOrder(n.handle)
	}
}

func (w *World) dropFromOrder(h Handle) {
	for i, o := range w.order {
		if o == h {
			copy(w.order[i:], w.order[i+1:])
			w.order = w.order[:len(w.order)-1]
			return
		}
	}
}

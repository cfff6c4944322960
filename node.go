package orrery

import (
	"github.com/go-gl/mathgl/mgl64"
)

// defaultForward is the local axis every node faces before rotation.
var defaultForward = mgl64.Vec3{0, 0, 1}

// PlayerState is the per-node state of a NodePlayer.
type PlayerState struct {
	GoalCount  int
	GoalsToWin int
}

// EnemyState is the per-node state of a NodeEnemy.
type EnemyState struct {
	// Target is the registry name of the player to chase.
	Target string
	// Speed is the chase speed in world units per second.
	Speed float64
	// Radius is the contact distance that defeats the player.
	Radius float64

	target Handle
}

// GoalState is the per-node state of a NodeGoal.
type GoalState struct {
	// Target is the registry name of the player that can collect this goal.
	Target string
	// Radius is the contact distance that collects the goal.
	Radius float64

	target Handle
}

// Node is a positioned entity in a World. A single flat struct is used for
// every kind; the kind, fixed by the constructor, selects the behavior run by
// Update.
//
// Transform state is local to the parent. The world matrix is recomputed
// eagerly by every setter and pushed to the drawable, then propagated to all
// descendants.
type Node struct {
	name   string
	handle Handle
	world  *World

	kind NodeKind

	// Hierarchy (relational only; the World owns every node)
	parent   Handle
	children []Handle

	// Transform (local)
	pos     mgl64.Vec3
	vel     mgl64.Vec3
	rot     mgl64.Vec3 // Euler angles, radians
	scale   mgl64.Vec3
	forward mgl64.Vec3

	// Derived
	orient      mgl64.Vec3
	worldMatrix mgl64.Mat4

	// Written by the parent during propagation; not authoritative.
	localPos   mgl64.Vec3
	localRot   mgl64.Vec3
	localScale mgl64.Vec3

	physEnabled bool
	drawable    Drawable

	// Variant state; only the field matching the kind is non-nil.
	Player *PlayerState
	Enemy  *EnemyState
	Goal   *GoalState

	// UserData is free for scene code.
	UserData any

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node, d Drawable) {
	n.scale = mgl64.Vec3{1, 1, 1}
	n.forward = defaultForward
	n.orient = defaultForward
	n.drawable = d
	n.worldMatrix = n.localMatrix()
}

// NewEntity creates a plain node. d may be nil for an invisible node.
func NewEntity(d Drawable) *Node {
	n := &Node{kind: NodePlain}
	nodeDefaults(n, d)
	return n
}

// NewPlayer creates a player node that wins once goalsToWin goals are collected.
func NewPlayer(d Drawable, goalsToWin int) *Node {
	n := &Node{kind: NodePlayer, Player: &PlayerState{GoalsToWin: goalsToWin}}
	nodeDefaults(n, d)
	return n
}

// NewEnemy creates an enemy that chases the node registered as target.
func NewEnemy(d Drawable, target string) *Node {
	n := &Node{kind: NodeEnemy, Enemy: &EnemyState{
		Target: target,
		Speed:  DefaultEnemySpeed,
		Radius: DefaultEnemyRadius,
	}}
	nodeDefaults(n, d)
	return n
}

// NewGoal creates a goal collectable by the player registered as target.
func NewGoal(d Drawable, target string) *Node {
	n := &Node{kind: NodeGoal, Goal: &GoalState{
		Target: target,
		Radius: DefaultGoalRadius,
	}}
	nodeDefaults(n, d)
	return n
}

// Kind returns the variant chosen by the constructor.
func (n *Node) Kind() NodeKind { return n.kind }

// Name returns the registry name stamped by World.Add, or "" before that.
func (n *Node) Name() string {
	return n.name
}

// Handle returns the node's arena handle. Zero until the node is added to a World.
func (n *Node) Handle() Handle {
	return n.handle
}

// World returns the owning world, or nil.
func (n *Node) World() *World {
	return n.world
}

// Drawable returns the owned drawable, or nil.
func (n *Node) Drawable() Drawable {
	return n.drawable
}

// SetDrawable replaces the owned drawable. When the node is registered the old
// drawable is released to the renderer and the new one added.
func (n *Node) SetDrawable(d Drawable) {
	if n.world != nil && n.world.renderer != nil {
		if n.drawable != nil {
			n.world.renderer.RemoveDrawable(n.drawable)
		}
		if d != nil {
			n.world.renderer.AddDrawable(d)
		}
	}
	n.drawable = d
	if d != nil {
		d.SetModelMatrix(n.worldMatrix)
	}
}

// --- Tree manipulation ---

// Parent returns the parent node, if any.
func (n *Node) Parent() (*Node, bool) {
	if n.world == nil || n.parent == NoHandle {
		return nil, false
	}
	return n.world.Resolve(n.parent)
}

// AddChild links child under this node and recomputes the child's subtree.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, the nodes belong to different worlds, or child is
// an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("orrery: cannot add nil child")
	}
	if n.world != nil && n.world.debug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if n.world == nil || child.world != n.world {
		panic("orrery: parent and child must be registered in the same world")
	}
	if isAncestor(child, n) {
		panic("orrery: adding child would create a cycle")
	}
	if p, ok := child.Parent(); ok {
		p.removeChildHandle(child.handle)
	}
	child.parent = n.handle
	n.children = append(n.children, child.handle)
	n.propagateTo(child)
	if n.world.debug {
		n.world.debugCheckTreeDepth(child)
	}
}

// RemoveChild unlinks child from this node. The child becomes a root and is
// not destroyed. Panics if child's parent is not n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.world != n.world || child.parent != n.handle || n.handle == NoHandle {
		panic("orrery: child's parent is not this node")
	}
	n.removeChildHandle(child.handle)
	child.parent = NoHandle
	child.UpdateTransform()
}

// RemoveFromParent unlinks this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	p, ok := n.Parent()
	if !ok {
		n.parent = NoHandle
		return
	}
	p.RemoveChild(n)
}

// Children resolves and returns the live children in link order.
func (n *Node) Children() []*Node {
	if n.world == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, h := range n.children {
		if c, ok := n.world.Resolve(h); ok {
			out = append(out, c)
		}
	}
	return out
}

// NumChildren returns the number of child links.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// --- Destruction ---

// Destroy unregisters the node, detaches it from its parent, orphans its
// children (they are NOT reparented), and releases its drawable to the
// renderer. Destroying a node twice is a no-op.
func (n *Node) Destroy() {
	if n.disposed {
		return
	}
	if w := n.world; w != nil {
		w.unregister(n)
		if p, ok := n.Parent(); ok {
			p.removeChildHandle(n.handle)
		}
		for _, h := range n.children {
			if c, ok := w.Resolve(h); ok {
				c.parent = NoHandle
			}
		}
		if n.drawable != nil && w.renderer != nil {
			w.renderer.RemoveDrawable(n.drawable)
		}
		w.release(n.handle)
	}
	n.disposed = true
	n.world = nil
	n.parent = NoHandle
	n.children = nil
	n.drawable = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been destroyed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p, ok := node, true; ok; p, ok = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildHandle removes h from n.children without touching the child.
func (n *Node) removeChildHandle(h Handle) {
	for i, c := range n.children {
		if c == h {
			copy(n.children[i:], n.children[i+1:])
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

package orrery

import "github.com/go-gl/mathgl/mgl64"

// DefaultPhysicsTolerance is the per-component dead zone below which velocity
// is treated as zero.
const DefaultPhysicsTolerance = 0.01

// Physics integrates velocity into position for phys-enabled nodes. There are
// no forces and no collision resolution; each node integrates independently.
type Physics struct {
	Tolerance float64
}

// EnablePhys opts the node into integration and zeroes its velocity.
func (n *Node) EnablePhys() {
	n.physEnabled = true
	n.vel = mgl64.Vec3{}
}

// DisablePhys opts the node out of integration.
func (n *Node) DisablePhys() {
	n.physEnabled = false
}

// PhysEnabled reports whether the node participates in integration.
func (n *Node) PhysEnabled() bool {
	return n.physEnabled
}

// PhysUpdate advances one phys-enabled node by dt and recomputes its
// transform. Reports whether the node moved.
func (p Physics) PhysUpdate(n *Node, dt float64) bool {
	if !n.physEnabled || withinTolerance(n.vel, p.Tolerance) {
		return false
	}
	n.pos = n.pos.Add(n.vel.Mul(dt))
	n.UpdateTransform()
	return true
}

// Step integrates every registered node in w.
func (p Physics) Step(w *World, dt float64) {
	w.Each(func(n *Node) {
		p.PhysUpdate(n, dt)
	})
}

// withinTolerance reports whether every component of v is within eps of zero.
func withinTolerance(v mgl64.Vec3, eps float64) bool {
	return mgl64.Abs(v.X()) <= eps && mgl64.Abs(v.Y()) <= eps && mgl64.Abs(v.Z()) <= eps
}

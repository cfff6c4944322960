package orrery

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysUpdateMovesByVelocity(t *testing.T) {
	n := NewEntity(nil)
	n.EnablePhys()
	n.SetVelocity(mgl64.Vec3{2, 0, -4})

	require.True(t, Physics{Tolerance: DefaultPhysicsTolerance}.PhysUpdate(n, 0.5), "node should move")
	assertVecNear(t, "position", n.Position(), mgl64.Vec3{1, 0, -2})
	assertVecNear(t, "world position", n.WorldPosition(), mgl64.Vec3{1, 0, -2})
}

func TestPhysUpdateDeadZone(t *testing.T) {
	n := NewEntity(nil)
	n.EnablePhys()
	n.SetVelocity(mgl64.Vec3{0.001, -0.001, 0.001})

	assert.False(t, Physics{Tolerance: DefaultPhysicsTolerance}.PhysUpdate(n, 1),
		"velocity inside the dead zone should not move the node")
	assert.Equal(t, mgl64.Vec3{}, n.Position())
}

func TestPhysUpdateOneComponentOutsideDeadZone(t *testing.T) {
	n := NewEntity(nil)
	n.EnablePhys()
	n.SetVelocity(mgl64.Vec3{0.001, 0, 1})

	(Physics{Tolerance: DefaultPhysicsTolerance}).PhysUpdate(n, 1)
	assertVecNear(t, "position", n.Position(), mgl64.Vec3{0.001, 0, 1})
}

func TestPhysUpdateDisabled(t *testing.T) {
	n := NewEntity(nil)
	n.SetVelocity(mgl64.Vec3{5, 5, 5})
	assert.False(t, Physics{}.PhysUpdate(n, 1), "disabled node should not move")
}

func TestEnablePhysZeroesVelocity(t *testing.T) {
	n := NewEntity(nil)
	n.SetVelocity(mgl64.Vec3{1, 2, 3})
	n.EnablePhys()
	assert.Equal(t, mgl64.Vec3{}, n.Velocity())
	assert.True(t, n.PhysEnabled())
	n.DisablePhys()
	assert.False(t, n.PhysEnabled())
}

func TestPhysicsStepMovesChildren(t *testing.T) {
	w := NewWorld(nil)
	ns := addNodes(w, "parent", "child", "idle")
	ns[0].AddChild(ns[1])
	ns[1].SetPositionXYZ(0, 1, 0)
	ns[0].EnablePhys()
	ns[0].SetVelocity(mgl64.Vec3{10, 0, 0})

	Physics{Tolerance: DefaultPhysicsTolerance}.Step(w, 0.1)

	assertVecNear(t, "parent", ns[0].WorldPosition(), mgl64.Vec3{1, 0, 0})
	assertVecNear(t, "child", ns[1].WorldPosition(), mgl64.Vec3{1, 1, 0})
	assertVecNear(t, "idle", ns[2].WorldPosition(), mgl64.Vec3{})
}

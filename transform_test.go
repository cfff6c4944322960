package orrery

import (
	"math"
	"strconv"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-6

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	assert.InDelta(t, want, got, epsilon, name)
}

func assertVecNear(t *testing.T, name string, got, want mgl64.Vec3) {
	t.Helper()
	assert.True(t, got.ApproxEqualThreshold(want, epsilon), "%s = %v, want %v", name, got, want)
}

func TestComposeTRSIdentity(t *testing.T) {
	m := composeTRS(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	assert.True(t, m.ApproxEqualThreshold(mgl64.Ident4(), epsilon), "got %v, want identity", m)
}

func TestComposeTRSTranslation(t *testing.T) {
	m := composeTRS(mgl64.Vec3{3, -2, 7}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	assertVecNear(t, "translation", m.Col(3).Vec3(), mgl64.Vec3{3, -2, 7})
}

func TestComposeTRSOrder(t *testing.T) {
	// Scale first, then rotate 90 degrees about Y, then translate.
	m := composeTRS(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, math.Pi / 2, 0}, mgl64.Vec3{2, 2, 2})
	got := m.Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	// (1,0,0) scaled -> (2,0,0), rotated about Y -> (0,0,-2), translated -> (10,0,-2).
	assertVecNear(t, "point", got, mgl64.Vec3{10, 0, -2})
}

func TestEulerToQuatSingleAxis(t *testing.T) {
	q := EulerToQuat(mgl64.Vec3{0, 0, math.Pi / 2})
	assertVecNear(t, "z-rotated x axis", q.Rotate(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{0, 1, 0})

	q = EulerToQuat(mgl64.Vec3{math.Pi / 2, 0, 0})
	assertVecNear(t, "x-rotated y axis", q.Rotate(mgl64.Vec3{0, 1, 0}), mgl64.Vec3{0, 0, 1})
}

func TestEulerToQuatAppliesXThenYThenZ(t *testing.T) {
	e := mgl64.Vec3{0.3, -0.7, 1.1}
	want := mgl64.QuatRotate(e.Z(), mgl64.Vec3{0, 0, 1}).
		Mul(mgl64.QuatRotate(e.Y(), mgl64.Vec3{0, 1, 0})).
		Mul(mgl64.QuatRotate(e.X(), mgl64.Vec3{1, 0, 0}))
	got := EulerToQuat(e)
	assert.True(t, got.OrientationEqualThreshold(want, epsilon), "EulerToQuat = %v, want %v", got, want)
}

// --- World transform propagation ---

func TestChildWorldPosition(t *testing.T) {
	w := NewWorld(nil)
	ns := addNodes(w, "parent", "child")
	parent, child := ns[0], ns[1]
	parent.AddChild(child)
	child.SetPositionXYZ(0, 0, 1)

	parent.SetPositionXYZ(5, 0, 0)

	assertVecNear(t, "child world pos", child.WorldPosition(), mgl64.Vec3{5, 0, 1})
	assertVecNear(t, "cached local pos", child.LocalPosition(), mgl64.Vec3{5, 0, 1})
}

func TestChildInheritsRotationAndScale(t *testing.T) {
	w := NewWorld(nil)
	ns := addNodes(w, "parent", "child")
	parent, child := ns[0], ns[1]
	parent.AddChild(child)
	child.SetPositionXYZ(1, 0, 0)

	parent.SetScaleXYZ(3, 3, 3)
	parent.SetRotationXYZ(0, 0, math.Pi/2)

	assertVecNear(t, "child world pos", child.WorldPosition(), mgl64.Vec3{0, 3, 0})
	assertVecNear(t, "cached local rot", child.LocalRotation(), mgl64.Vec3{0, 0, math.Pi / 2})
	assertVecNear(t, "cached local scale", child.LocalScale(), mgl64.Vec3{3, 3, 3})
}

func TestDeepHierarchy(t *testing.T) {
	w := NewWorld(nil)
	ns := addNodes(w, "n0", "n1", "n2", "n3", "n4")
	for i := 1; i < len(ns); i++ {
		ns[i-1].AddChild(ns[i])
		ns[i].SetPositionXYZ(1, 0, 0)
	}
	ns[0].SetPositionXYZ(10, 0, 0)
	assertVecNear(t, "leaf world pos", ns[4].WorldPosition(), mgl64.Vec3{14, 0, 0})
}

func TestSettersPushToDrawable(t *testing.T) {
	w := NewWorld(nil)
	d := &fakeDrawable{}
	parent := NewEntity(nil)
	child := NewEntity(d)
	w.Add("parent", parent)
	w.Add("child", child)
	parent.AddChild(child)
	before := d.sets

	parent.SetPositionXYZ(2, 0, 0)

	assert.Equal(t, before+1, d.sets, "drawable updates")
	assert.Equal(t, child.WorldMatrix(), d.model, "drawable should hold the child's world matrix")
}

func TestSetVelocityLeavesTransform(t *testing.T) {
	n := NewEntity(nil)
	n.SetVelocity(mgl64.Vec3{1, 2, 3})
	assert.Equal(t, mgl64.Ident4(), n.WorldMatrix(), "SetVelocity should not recompute the transform")
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, n.Velocity())
}

func TestZeroScaleKeepsPosition(t *testing.T) {
	n := NewEntity(nil)
	n.SetPositionXYZ(4, 5, 6)
	n.SetScaleXYZ(0, 0, 0)
	assertVecNear(t, "world pos", n.WorldPosition(), mgl64.Vec3{4, 5, 6})
}

func TestPropagationHandsDownOrientation(t *testing.T) {
	w := NewWorld(nil)
	ns := addNodes(w, "parent", "child")
	parent, child := ns[0], ns[1]
	parent.AddChild(child)
	parent.SetRotationXYZ(0, math.Pi/2, 0)
	parent.Update()

	parent.SetPositionXYZ(1, 0, 0)

	assertVecNear(t, "child orientation", child.Orientation(), parent.Orientation())
}

func BenchmarkSetPositionSubtree(b *testing.B) {
	w := NewWorld(nil)
	root := NewEntity(nil)
	w.Add("root", root)
	for i := 0; i < 100; i++ {
		c := NewEntity(&fakeDrawable{})
		w.Add("c"+strconv.Itoa(i), c)
		root.AddChild(c)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		root.SetPositionXYZ(float64(i), 0, 0)
	}
}

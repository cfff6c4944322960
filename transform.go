package orrery

import "github.com/go-gl/mathgl/mgl64"

// EulerToQuat converts Euler angles (radians) to a quaternion. X is applied
// first, then Y, then Z, all about the fixed world axes.
func EulerToQuat(e mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(e.Z(), e.Y(), e.X(), mgl64.ZYX)
}

// composeTRS builds the local matrix. Composition order:
//
//	Scale -> Rotate -> Translate
//
// i.e. M = T * R * S applied to column vectors.
func composeTRS(pos, rot, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(pos.X(), pos.Y(), pos.Z())
	r := EulerToQuat(rot).Mat4()
	s := mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}

func (n *Node) localMatrix() mgl64.Mat4 {
	return composeTRS(n.pos, n.rot, n.scale)
}

// UpdateTransform recomputes this node's world matrix from its parent's
// current world matrix (identity at a root), pushes it to the drawable, and
// recursively recomputes every descendant.
func (n *Node) UpdateTransform() {
	parentWorld := mgl64.Ident4()
	if p, ok := n.Parent(); ok {
		parentWorld = p.worldMatrix
	}
	n.applyWorld(parentWorld)
}

// applyWorld sets worldMatrix = parentWorld * local and propagates downward.
func (n *Node) applyWorld(parentWorld mgl64.Mat4) {
	n.worldMatrix = parentWorld.Mul4(n.localMatrix())
	if n.drawable != nil {
		n.drawable.SetModelMatrix(n.worldMatrix)
	}
	if n.world == nil {
		return
	}
	for _, h := range n.children {
		if child, ok := n.world.Resolve(h); ok {
			n.propagateTo(child)
		}
	}
}

// propagateTo refreshes the child's cached parent-relative fields, hands down
// n's orientation, and recomputes the child's world matrix from n's freshly
// computed one. The child's own Update overwrites the orientation again.
func (n *Node) propagateTo(child *Node) {
	child.localPos = n.worldMatrix.Mul4x1(child.pos.Vec4(1)).Vec3()
	child.localRot = n.rot
	child.localScale = n.scale
	child.orient = n.orient
	child.applyWorld(n.worldMatrix)
}

// --- Transform property setters ---

// SetPosition sets the node's local position and recomputes its subtree.
func (n *Node) SetPosition(p mgl64.Vec3) {
	n.pos = p
	n.UpdateTransform()
}

// SetPositionXYZ is SetPosition with scalar components.
func (n *Node) SetPositionXYZ(x, y, z float64) {
	n.SetPosition(mgl64.Vec3{x, y, z})
}

// SetRotation sets the node's Euler rotation (radians) and recomputes its subtree.
func (n *Node) SetRotation(r mgl64.Vec3) {
	n.rot = r
	n.UpdateTransform()
}

// SetRotationXYZ is SetRotation with scalar components.
func (n *Node) SetRotationXYZ(x, y, z float64) {
	n.SetRotation(mgl64.Vec3{x, y, z})
}

// SetScale sets the node's scale and recomputes its subtree. A zero scale
// hides the drawable while keeping the node in the scene.
func (n *Node) SetScale(s mgl64.Vec3) {
	n.scale = s
	n.UpdateTransform()
}

// SetScaleXYZ is SetScale with scalar components.
func (n *Node) SetScaleXYZ(x, y, z float64) {
	n.SetScale(mgl64.Vec3{x, y, z})
}

// SetVelocity sets the velocity used by the physics integrator.
// It does not touch the transform.
func (n *Node) SetVelocity(v mgl64.Vec3) {
	n.vel = v
}

// --- Getters ---

// Position returns the local position.
func (n *Node) Position() mgl64.Vec3 { return n.pos }

// Velocity returns the current velocity.
func (n *Node) Velocity() mgl64.Vec3 { return n.vel }

// Rotation returns the local Euler rotation in radians.
func (n *Node) Rotation() mgl64.Vec3 { return n.rot }

// Quat returns the local rotation as a quaternion.
func (n *Node) Quat() mgl64.Quat { return EulerToQuat(n.rot) }

// Scale returns the local scale.
func (n *Node) Scale() mgl64.Vec3 { return n.scale }

// Forward returns the fixed local forward axis.
func (n *Node) Forward() mgl64.Vec3 { return n.forward }

// Orientation returns the orientation vector computed by the last Update.
func (n *Node) Orientation() mgl64.Vec3 { return n.orient }

// WorldMatrix returns the last computed world matrix.
func (n *Node) WorldMatrix() mgl64.Mat4 { return n.worldMatrix }

// WorldPosition returns the translation of the last computed world matrix.
func (n *Node) WorldPosition() mgl64.Vec3 { return n.worldMatrix.Col(3).Vec3() }

// LocalPosition returns the cached child origin in world space, written by the
// parent during propagation. Meaningless before the parent has propagated once.
func (n *Node) LocalPosition() mgl64.Vec3 { return n.localPos }

// LocalRotation returns the cached parent rotation written during propagation.
func (n *Node) LocalRotation() mgl64.Vec3 { return n.localRot }

// LocalScale returns the cached parent scale written during propagation.
func (n *Node) LocalScale() mgl64.Vec3 { return n.localScale }

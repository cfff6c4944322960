package orrery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera tuning constants.
const (
	// OrientLookAhead is how far ahead of the target an orientation-locked
	// camera looks, along the target's orientation.
	OrientLookAhead = 4.0
	// PhiEpsilon keeps phi inside the open interval (0, pi).
	PhiEpsilon = 0.001
)

// CameraTarget supplies the point a camera looks at and the orientation used
// by orientation-locked cameras. Either may be absent when the tracked entity
// is gone; the camera then holds its last pose.
type CameraTarget interface {
	TargetPosition() (mgl64.Vec3, bool)
	TargetOrientation() (mgl64.Vec3, bool)
}

// PointTarget is a fixed look-at point. Its orientation is the default forward axis.
type PointTarget mgl64.Vec3

// TargetPosition implements CameraTarget.
func (p PointTarget) TargetPosition() (mgl64.Vec3, bool) { return mgl64.Vec3(p), true }

// TargetOrientation implements CameraTarget.
func (p PointTarget) TargetOrientation() (mgl64.Vec3, bool) { return defaultForward, true }

// NodeTarget tracks registered nodes by name. The position comes from one
// node's world position and the orientation from another node's orientation
// vector (usually the same node). Names are re-resolved whenever the cached
// handle goes stale.
type NodeTarget struct {
	world      *World
	posName    string
	orientName string
	posH       Handle
	orientH    Handle
}

// TrackNode returns a target following the node registered as name.
func TrackNode(w *World, name string) *NodeTarget {
	return &NodeTarget{world: w, posName: name, orientName: name}
}

// TrackNodes returns a target that takes its position from posName and its
// orientation from orientName.
func TrackNodes(w *World, posName, orientName string) *NodeTarget {
	return &NodeTarget{world: w, posName: posName, orientName: orientName}
}

func (t *NodeTarget) resolve(h *Handle, name string) (*Node, bool) {
	if n, ok := t.world.Resolve(*h); ok {
		return n, true
	}
	n, ok := t.world.Get(name)
	if !ok {
		*h = NoHandle
		return nil, false
	}
	*h = n.handle
	return n, true
}

// TargetPosition implements CameraTarget.
func (t *NodeTarget) TargetPosition() (mgl64.Vec3, bool) {
	n, ok := t.resolve(&t.posH, t.posName)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return n.WorldPosition(), true
}

// TargetOrientation implements CameraTarget.
func (t *NodeTarget) TargetOrientation() (mgl64.Vec3, bool) {
	n, ok := t.resolve(&t.orientH, t.orientName)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return n.Orientation(), true
}

// zoomAnim holds an active distance tween.
type zoomAnim struct {
	tween *gween.Tween
}

// Camera is an orbit or orientation-locked viewpoint. Position and LookAt are
// derived by Recompute from the orbit angles, distance and target.
type Camera struct {
	Position mgl64.Vec3
	LookAt   mgl64.Vec3

	// Theta and Phi are the orbit angles in radians.
	Theta, Phi float64
	// Distance is the orbit radius. Orientation-locked cameras back off by its square root.
	Distance float64

	// CanLook allows mouse-drag orbiting.
	CanLook bool
	// OrientLocked derives the pose from the target's orientation instead of the orbit angles.
	OrientLocked bool

	// Projection parameters.
	FovY      float64 // radians
	Near, Far float64

	target          CameraTarget
	lookingAtTarget bool
	zoom            *zoomAnim
}

// NewCamera creates a free camera at pos with a 45 degree vertical field of view.
func NewCamera(pos mgl64.Vec3) *Camera {
	return &Camera{
		Position: pos,
		Distance: 1,
		FovY:     mgl64.DegToRad(45),
		Near:     0.1,
		Far:      100000,
	}
}

// SetTarget points the camera at t and enables target tracking.
func (c *Camera) SetTarget(t CameraTarget) {
	c.target = t
	c.lookingAtTarget = t != nil
}

// ClearTarget switches the camera to orbit-around-self mode.
func (c *Camera) ClearTarget() {
	c.target = nil
	c.lookingAtTarget = false
}

// Target returns the current target, or nil.
func (c *Camera) Target() CameraTarget { return c.target }

// LookingAtTarget reports whether target tracking is on.
func (c *Camera) LookingAtTarget() bool { return c.lookingAtTarget }

// HasLiveTarget reports whether the camera tracks a target that currently resolves.
func (c *Camera) HasLiveTarget() bool {
	if !c.lookingAtTarget || c.target == nil {
		return false
	}
	_, ok := c.target.TargetPosition()
	return ok
}

// Recompute derives Position and LookAt. With a target, LookAt is the target
// position (pushed ahead along the target orientation when OrientLocked) and
// Position either trails the target along its orientation or orbits LookAt.
// Without a target, Position stays put and LookAt is one unit along the orbit
// direction; the camera is a free-look camera, so Distance is ignored and
// Position is not rebuilt as LookAt + Distance*offset. Scenes that want an
// orbit around a fixed point should target a node placed there. Returns
// false, leaving the pose untouched, when the target does not resolve.
func (c *Camera) Recompute() bool {
	if !c.lookingAtTarget || c.target == nil {
		c.LookAt = c.Position.Add(sphericalToCartesian(c.Theta, c.Phi))
		return true
	}
	tgt, ok := c.target.TargetPosition()
	if !ok {
		return false
	}
	if !c.OrientLocked {
		c.LookAt = tgt
		c.Position = c.LookAt.Add(sphericalToCartesian(c.Theta, c.Phi).Mul(c.Distance))
		return true
	}
	orient, ok := c.target.TargetOrientation()
	if !ok {
		return false
	}
	c.LookAt = tgt.Add(orient.Mul(OrientLookAhead))
	c.Position = tgt.Sub(orient.Mul(math.Sqrt(c.Distance)))
	return true
}

// sphericalToCartesian returns the unit orbit offset for theta and phi.
func sphericalToCartesian(theta, phi float64) mgl64.Vec3 {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return mgl64.Vec3{st * sp, -cp, -ct * sp}
}

// Orbit adds dTheta and dPhi to the orbit angles, clamping phi to [PhiEpsilon, pi-PhiEpsilon].
func (c *Camera) Orbit(dTheta, dPhi float64) {
	c.Theta += dTheta
	c.Phi = mgl64.Clamp(c.Phi+dPhi, PhiEpsilon, math.Pi-PhiEpsilon)
}

// ViewMatrix returns the view matrix for the current pose, with +Y up.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.LookAt, worldUp)
}

// Projection returns the perspective projection for the given aspect ratio.
func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ZoomTo animates Distance to dist over duration seconds.
func (c *Camera) ZoomTo(dist float64, duration float32, easeFn ease.TweenFunc) {
	c.zoom = &zoomAnim{tween: gween.New(float32(c.Distance), float32(dist), duration, easeFn)}
}

// Zooming reports whether a ZoomTo animation is in progress.
func (c *Camera) Zooming() bool { return c.zoom != nil }

// Update advances any active zoom animation by dt seconds.
func (c *Camera) Update(dt float64) {
	if c.zoom == nil {
		return
	}
	val, done := c.zoom.tween.Update(float32(dt))
	c.Distance = float64(val)
	if done {
		c.zoom = nil
	}
}

// --- Mouse orbit ---

// Orbit drag sensitivity.
const (
	OrbitRadiansPerPixel = 0.005
	ZoomPerPixel         = 0.05
)

// CameraSource exposes the active camera and held mouse buttons. *Engine
// implements it.
type CameraSource interface {
	ActiveCamera() *Camera
	IsMouseButtonPressed(button MouseButton) bool
}

// OrbitController turns mouse drags into orbit changes of the active camera.
// Right-drag changes distance, left-drag changes theta and phi. It only acts
// while the active camera has a live target and CanLook is set.
type OrbitController struct {
	// Sensitivity is the orbit change in radians per dragged pixel.
	Sensitivity float64
	// ZoomSensitivity is the distance change per dragged pixel.
	ZoomSensitivity float64

	src      CameraSource
	listener *MouseMotionListener
}

// NewOrbitController creates a controller reading cameras and buttons from src.
func NewOrbitController(src CameraSource) *OrbitController {
	oc := &OrbitController{
		Sensitivity:     OrbitRadiansPerPixel,
		ZoomSensitivity: ZoomPerPixel,
		src:             src,
	}
	oc.listener = NewMouseMotionListener(oc.handle)
	return oc
}

// Listener returns the mouse-motion listener to register with the engine.
func (oc *OrbitController) Listener() *MouseMotionListener { return oc.listener }

func (oc *OrbitController) handle(ev InputEvent) {
	cam := oc.src.ActiveCamera()
	if cam == nil || !cam.CanLook || !cam.HasLiveTarget() {
		return
	}
	if oc.src.IsMouseButtonPressed(MouseButtonRight) {
		cam.Distance += float64(ev.DY) * oc.ZoomSensitivity
	}
	if oc.src.IsMouseButtonPressed(MouseButtonLeft) {
		cam.Orbit(float64(ev.DX)*oc.Sensitivity, float64(ev.DY)*oc.Sensitivity)
	}
}

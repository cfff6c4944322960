package orrery

import "github.com/go-gl/mathgl/mgl64"

// Drawable is a renderable handle owned by exactly one Node. The node pushes
// its world matrix every time its transform is recomputed.
type Drawable interface {
	SetModelMatrix(m mgl64.Mat4)
}

// Renderer is the rendering backend the engine drives. It owns every camera
// added to it and draws every drawable added to it.
type Renderer interface {
	// Init prepares the backend. Called once from Engine.Init.
	Init() error
	// Shutdown releases backend resources. Called once from Engine.Shutdown.
	Shutdown()

	AddDrawable(d Drawable)
	RemoveDrawable(d Drawable)

	AddCamera(name string, cam *Camera)
	CameraByName(name string) (*Camera, bool)
	// SetActiveCamera reports false if no camera has that name.
	SetActiveCamera(name string) bool
	ActiveCamera() *Camera

	UpdateUniforms(model, view, proj mgl64.Mat4)

	// Named presentation effects (e.g. "shake", "jitterStrength").
	SetToggle(name string, on bool)
	SetFloat(name string, v float64)

	// Origin is the world-space origin used as a default camera target.
	Origin() mgl64.Vec3

	Clear()
	Render(dt float64, running bool)
	Swap()
}

// InputSource is the windowing backend. PollEvents appends every event queued
// since the previous call to buf and returns it; it never waits for new events.
type InputSource interface {
	Init() error
	Shutdown()
	PollEvents(buf []InputEvent) []InputEvent
}

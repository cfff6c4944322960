package orrery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxDeltaTime caps a single simulation step, in seconds.
const DefaultMaxDeltaTime = 0.05

// EngineState is the lifecycle state of an Engine.
type EngineState uint8

const (
	StateUninitialized EngineState = iota // New returned, Init not yet succeeded
	StateInitialized                      // backends ready, loop not started
	StateRunning                          // loop active
	StateStopped                          // terminal
)

func (s EngineState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("EngineState(%d)", uint8(s))
	}
}

var (
	// ErrInitialized is returned by Init when the engine has already left
	// the uninitialized state.
	ErrInitialized = errors.New("orrery: engine already initialized")
	// ErrNotInitialized is returned by Start when Init has not succeeded.
	ErrNotInitialized = errors.New("orrery: engine not initialized")
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock replaces the monotonic clock used for delta time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine is the explicit engine context: it owns the world, the listener
// registry, the animation scheduler and the two backends, and drives them
// through the input, update and output phases of each frame. All methods
// must be called from a single goroutine.
type Engine struct {
	cfg      Config
	renderer Renderer
	source   InputSource

	world   *World
	input   Input
	anims   *AnimScheduler
	physics Physics

	state       EngineState
	initialized bool
	shutdown    bool
	outcome     Outcome

	now      func() time.Time
	lastTick time.Time
	dt       float64
	frame    uint64

	events      []InputEvent
	injectQueue []InputEvent
	script      *ScriptRunner

	log     *zap.Logger
	session uuid.UUID

	debug bool
	stats debugStats
	fps   fpsCounter
}

// New creates an engine for the given backends. cfg is used as-is; callers
// loading YAML should go through LoadConfig or ParseConfig, which validate.
func New(cfg Config, r Renderer, src InputSource, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		renderer: r,
		source:   src,
		world:    NewWorld(r),
		anims:    NewAnimScheduler(),
		physics:  Physics{Tolerance: cfg.Physics.Tolerance},
		now:      time.Now,
		log:      zap.NewNop(),
		session:  uuid.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(zap.String("session", e.session.String()))
	e.world.log = e.log
	e.SetDebugMode(cfg.Debug)
	return e
}

// --- Lifecycle ---

// Init prepares the input source and then the renderer. On failure the
// engine stays uninitialized and Run must not be called.
func (e *Engine) Init() error {
	if e.state != StateUninitialized || e.shutdown {
		return ErrInitialized
	}
	if err := e.source.Init(); err != nil {
		return fmt.Errorf("failed to init input source: %w", err)
	}
	if err := e.renderer.Init(); err != nil {
		e.source.Shutdown()
		return fmt.Errorf("failed to init renderer: %w", err)
	}
	e.initialized = true
	e.state = StateInitialized
	e.log.Info("engine initialized")
	return nil
}

// Start moves an initialized engine to Running and resets the frame clock.
// Hosts that own the loop call Start once and then Step/GenerateOutputs
// every frame.
func (e *Engine) Start() error {
	if e.state != StateInitialized {
		return ErrNotInitialized
	}
	e.state = StateRunning
	e.lastTick = e.now()
	e.log.Info("engine running")
	return nil
}

// Run starts the loop and blocks until the engine stops: a quit event, Stop,
// a terminal outcome or ctx cancellation. Cancellation is checked between
// phases. Run shuts the engine down before returning the final outcome.
func (e *Engine) Run(ctx context.Context) Outcome {
	if err := e.Start(); err != nil {
		e.log.Error("cannot run engine", zap.Error(err), zap.Stringer("state", e.state))
		return e.outcome
	}
	for e.state == StateRunning {
		if ctx.Err() != nil {
			e.log.Info("run cancelled", zap.Error(ctx.Err()))
			e.Stop()
			break
		}
		if !e.Step() {
			break
		}
		if ctx.Err() != nil {
			continue
		}
		e.GenerateOutputs()
	}
	e.Shutdown()
	return e.outcome
}

// Step runs the input and update phases of one frame. Returns false when the
// engine is no longer running, in which case the output phase must be skipped.
func (e *Engine) Step() bool {
	if e.state != StateRunning {
		return false
	}
	e.ProcessInput()
	if e.state != StateRunning {
		return false
	}
	if out := e.Update(); out.Terminal() {
		e.finish(out)
		return false
	}
	// A handler or behavior may have stopped the engine during Update.
	return e.state == StateRunning
}

// Stop requests a cooperative stop. Event processing halts after the current
// event and the rest of the frame is skipped.
func (e *Engine) Stop() {
	if e.state == StateRunning || e.state == StateInitialized {
		e.state = StateStopped
		e.log.Debug("stop requested")
	}
}

// Shutdown stops the loop and releases listeners, animation handlers,
// entities and both backends. Calling it again is a no-op.
func (e *Engine) Shutdown() {
	if e.shutdown {
		return
	}
	e.shutdown = true
	e.state = StateStopped
	e.script = nil
	e.injectQueue = e.injectQueue[:0]
	e.input.Clear()
	e.anims.Clear()
	e.world.DestroyAll()
	if e.initialized {
		e.renderer.Shutdown()
		e.source.Shutdown()
	}
	e.log.Info("engine shut down",
		zap.Stringer("outcome", e.outcome),
		zap.Uint64("frames", e.frame))
	_ = e.log.Sync()
}

// finish records a terminal outcome and stops the loop.
func (e *Engine) finish(out Outcome) {
	e.outcome = out
	e.log.Info("simulation ended",
		zap.Stringer("outcome", out),
		zap.Uint64("frame", e.frame))
	e.Stop()
}

// --- Phases ---

// ProcessInput drains the input source and the injection queue and
// dispatches every event in arrival order. A quit event, or a listener
// calling Stop, halts processing after the current event.
func (e *Engine) ProcessInput() {
	if e.script != nil {
		e.script.step(e)
	}
	e.events = e.source.PollEvents(e.events[:0])
	e.events = e.drainInjected(e.events)
	for _, ev := range e.events {
		if e.state != StateRunning {
			break
		}
		e.handleEvent(ev)
	}
	clear(e.events)
}

func (e *Engine) handleEvent(ev InputEvent) {
	if ev.Kind == EventQuit {
		e.log.Info("quit requested")
		e.Stop()
		return
	}
	e.input.Dispatch(ev)
}

// Update advances the frame clock and runs entity behaviors, animation
// handlers and physics, in that order. A terminal entity outcome skips the
// remaining work for this frame.
func (e *Engine) Update() Outcome {
	now := e.now()
	e.dt = clampDelta(now.Sub(e.lastTick).Seconds(), e.cfg.Loop.MaxDeltaTime)
	e.lastTick = now
	e.frame++

	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}
	if out := e.world.Update(); out.Terminal() {
		return out
	}
	if e.debug {
		e.stats.entityTime = time.Since(t0)
		t0 = time.Now()
	}
	e.anims.Update(e.dt)
	if e.debug {
		e.stats.animTime = time.Since(t0)
		t0 = time.Now()
	}
	e.physics.Step(e.world, e.dt)
	if e.debug {
		e.stats.physTime = time.Since(t0)
	}
	if cam := e.renderer.ActiveCamera(); cam != nil {
		cam.Update(e.dt)
	}
	e.fps.tick(e.dt)
	return OutcomeContinue
}

// GenerateOutputs recomputes the active camera, pushes its matrices and
// presents the frame.
func (e *Engine) GenerateOutputs() {
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}
	if cam := e.renderer.ActiveCamera(); cam != nil {
		cam.Recompute()
		e.renderer.UpdateUniforms(mgl64.Ident4(), cam.ViewMatrix(), cam.Projection(e.aspect()))
	}
	e.renderer.Clear()
	e.renderer.Render(e.dt, e.state == StateRunning)
	e.renderer.Swap()
	if e.debug {
		e.stats.outputTime = time.Since(t0)
		e.debugLog()
	}
}

func (e *Engine) aspect() float64 {
	if e.cfg.Window.Height <= 0 {
		return 1
	}
	return float64(e.cfg.Window.Width) / float64(e.cfg.Window.Height)
}

// clampDelta bounds a raw frame delta to [0, maxDelta].
func clampDelta(raw, maxDelta float64) float64 {
	switch {
	case raw < 0:
		return 0
	case raw > maxDelta:
		return maxDelta
	default:
		return raw
	}
}

// --- Accessors ---

// State returns the lifecycle state.
func (e *Engine) State() EngineState { return e.state }

// Outcome returns the terminal outcome, or OutcomeContinue.
func (e *Engine) Outcome() Outcome { return e.outcome }

// DeltaTime returns the clamped step of the last Update, in seconds.
func (e *Engine) DeltaTime() float64 { return e.dt }

// Frame returns the number of Update calls so far.
func (e *Engine) Frame() uint64 { return e.frame }

// FPS returns the update rate averaged over the last second.
func (e *Engine) FPS() float64 { return e.fps.rate }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Session returns the id attached to every log line of this engine.
func (e *Engine) Session() uuid.UUID { return e.session }

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger { return e.log }

// World returns the entity registry.
func (e *Engine) World() *World { return e.world }

// Renderer returns the rendering backend.
func (e *Engine) Renderer() Renderer { return e.renderer }

// Input returns the listener registry.
func (e *Engine) Input() *Input { return &e.input }

// Anims returns the animation scheduler.
func (e *Engine) Anims() *AnimScheduler { return e.anims }

// Physics returns the integrator settings.
func (e *Engine) Physics() Physics { return e.physics }

// ActiveCamera returns the renderer's active camera.
func (e *Engine) ActiveCamera() *Camera { return e.renderer.ActiveCamera() }

// --- Entities ---

// AddGameObject registers n under name. Returns false if the name is taken.
func (e *Engine) AddGameObject(name string, n *Node) bool { return e.world.Add(name, n) }

// RemoveGameObject unmaps name without destroying the node. Returns false if absent.
func (e *Engine) RemoveGameObject(name string) bool { return e.world.Remove(name) }

// GetGameObject looks up a node by name.
func (e *Engine) GetGameObject(name string) (*Node, bool) { return e.world.Get(name) }

// NewPlayer creates a player using the configured goal threshold.
func (e *Engine) NewPlayer(d Drawable) *Node {
	return NewPlayer(d, e.cfg.Gameplay.GoalsToWin)
}

// NewEnemy creates an enemy chasing target with the configured speed and radius.
func (e *Engine) NewEnemy(d Drawable, target string) *Node {
	n := NewEnemy(d, target)
	n.Enemy.Speed = e.cfg.Gameplay.EnemySpeed
	n.Enemy.Radius = e.cfg.Gameplay.EnemyRadius
	return n
}

// NewGoal creates a goal for target with the configured radius.
func (e *Engine) NewGoal(d Drawable, target string) *Node {
	n := NewGoal(d, target)
	n.Goal.Radius = e.cfg.Gameplay.GoalRadius
	return n
}

// NewCamera creates a camera using the configured projection.
func (e *Engine) NewCamera(pos mgl64.Vec3) *Camera {
	c := NewCamera(pos)
	c.FovY = mgl64.DegToRad(e.cfg.Camera.FovDegrees)
	c.Near = e.cfg.Camera.Near
	c.Far = e.cfg.Camera.Far
	return c
}

// NewOrbitController creates a mouse orbit controller for the active camera
// using the configured sensitivities. Register its Listener to enable it.
func (e *Engine) NewOrbitController() *OrbitController {
	oc := NewOrbitController(e)
	oc.Sensitivity = e.cfg.Camera.OrbitSensitivity
	oc.ZoomSensitivity = e.cfg.Camera.ZoomSensitivity
	return oc
}

// --- Listeners ---

// RegisterKeyInputListener appends l to the key listeners.
func (e *Engine) RegisterKeyInputListener(l *KeyListener) { e.input.RegisterKeyInputListener(l) }

// UnregisterKeyInputListener removes the first occurrence of l.
func (e *Engine) UnregisterKeyInputListener(l *KeyListener) { e.input.UnregisterKeyInputListener(l) }

// RegisterMouseButtonListener appends l to the mouse button listeners.
func (e *Engine) RegisterMouseButtonListener(l *MouseButtonListener) {
	e.input.RegisterMouseButtonListener(l)
}

// UnregisterMouseButtonListener removes the first occurrence of l.
func (e *Engine) UnregisterMouseButtonListener(l *MouseButtonListener) {
	e.input.UnregisterMouseButtonListener(l)
}

// RegisterMouseMotionListener appends l to the mouse motion listeners.
func (e *Engine) RegisterMouseMotionListener(l *MouseMotionListener) {
	e.input.RegisterMouseMotionListener(l)
}

// UnregisterMouseMotionListener removes the first occurrence of l.
func (e *Engine) UnregisterMouseMotionListener(l *MouseMotionListener) {
	e.input.UnregisterMouseMotionListener(l)
}

// IsKeyPressed reports whether key is held. Panics if key >= MaxKeys.
func (e *Engine) IsKeyPressed(key Key) bool { return e.input.IsKeyPressed(key) }

// IsMouseButtonPressed reports whether button is held. Panics if button >= MaxMouseButtons.
func (e *Engine) IsMouseButtonPressed(button MouseButton) bool {
	return e.input.IsMouseButtonPressed(button)
}

// --- Animation ---

// RegisterAnim adds h to the scheduler. Returns false if already registered.
func (e *Engine) RegisterAnim(h *AnimHandler) bool { return e.anims.Register(h) }

// UnregisterAnim removes h from the scheduler. Returns false if absent.
func (e *Engine) UnregisterAnim(h *AnimHandler) bool { return e.anims.Unregister(h) }

// Package orrery is a small real-time simulation kernel for interactive 3D
// scenes.
//
// Orrery owns a hierarchy of positioned entities, advances them once per
// frame through input, update and output phases, and drives per-entity
// behavior (chasing, collecting, winning and losing) through a closed set of
// node kinds. Rendering and windowing are supplied by the caller through the
// [Renderer] and [InputSource] interfaces; the ebitenhost package provides an
// Ebitengine-backed implementation of both.
//
// # Quick start
//
//	cfg := orrery.DefaultConfig()
//	engine := orrery.New(cfg, renderer, input)
//	if err := engine.Init(); err != nil {
//		log.Fatal(err)
//	}
//	ship := engine.NewPlayer(shipMesh)
//	engine.AddGameObject("ship", ship)
//	engine.AddGameObject("hunter", engine.NewEnemy(ringMesh, "ship"))
//	outcome := engine.Run(context.Background())
//	os.Exit(outcome.ExitCode())
//
// Hosts that own the frame loop (such as Ebitengine) call [Engine.Start]
// once and then [Engine.Step] and [Engine.GenerateOutputs] every frame.
//
// # Entities
//
// Every entity is a [Node] registered in the engine's [World] under a unique
// name. Nodes are referenced internally by generation-checked [Handle]
// values, so a destroyed node never resolves again:
//
//	parent.AddChild(child)       // child inherits parent's world matrix
//	child.SetPosition(mgl64.Vec3{0, 0, 1})
//	child.Destroy()              // children of child become roots
//
// World matrices are composed as parentWorld * T * R * S and pushed to the
// node's [Drawable] whenever a transform setter runs.
//
// # Behavior and outcomes
//
// [NewPlayer], [NewEnemy] and [NewGoal] create nodes whose Update chases the
// player, collects goals, and reports [OutcomeWin] or [OutcomeDefeat]. A
// terminal outcome stops the loop; [Engine.Run] shuts down in order and
// returns it.
//
// # Input
//
// Register [KeyListener], [MouseButtonListener] and [MouseMotionListener]
// values with the engine. Listeners run in registration order; changes to
// the listener set during dispatch apply from the next event.
// [Engine.IsKeyPressed] and [Engine.IsMouseButtonPressed] report held state.
//
// # Animation
//
// [NewTimedAnim] handlers receive the frame delta; [NewStateAnim] handlers
// receive an interpolation value. [TweenPosition], [TweenRotation] and
// [TweenScale] build eased tweens on top of gween.
//
// # Cameras
//
// A [Camera] orbits a [CameraTarget] or trails it along its orientation
// when OrientLocked is set. [OrbitController] maps mouse drags to orbit
// changes.
package orrery

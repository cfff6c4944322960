// stargazer flies a small ship through a field of planets. Collect the three
// goal rings before the hunter rings catch you.
//
// Controls: W/S thrust, A/D yaw, R/F pitch, SPACE stop, 1/2 switch camera,
// drag with the left mouse button to orbit and the right to zoom, ESC quits.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/orrery"
	"github.com/phanxgames/orrery/ebitenhost"
)

const (
	thrust    = 10.0
	turnStep  = 0.25
	goalSpin  = math.Pi / 2 // rad/s
	maxSpeed  = 1000.0
	jitterMax = 10.0
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	scriptPath := flag.String("script", "", "YAML input script to replay")
	debug := flag.Bool("debug", false, "log per-frame stats")
	flag.Parse()

	cfg := orrery.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = orrery.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg.Debug = cfg.Debug || *debug
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}

	logger, err := orrery.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}

	host := ebitenhost.New(cfg.Window)
	host.SetClearColor(color.RGBA{R: 4, G: 4, B: 12, A: 255})
	engine := orrery.New(cfg, host, host, orrery.WithLogger(logger))
	if err := engine.Init(); err != nil {
		logger.Error("init failed", zap.Error(err))
		engine.Shutdown()
		os.Exit(2)
	}

	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			logger.Fatal("read script", zap.Error(err))
		}
		runner, err := orrery.LoadScript(data)
		if err != nil {
			logger.Fatal("load script", zap.Error(err))
		}
		engine.SetScript(runner)
	}

	setupCameras(engine)
	setupScene(engine)
	setupControls(engine, host)
	host.SetHUD(func() string { return hud(engine) })

	outcome, err := ebitenhost.Run(engine, host)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(2)
	}
	logger.Info("game over", zap.Stringer("outcome", outcome))
	os.Exit(outcome.ExitCode())
}

func setupCameras(e *orrery.Engine) {
	r := e.Renderer()

	mainCam := e.NewCamera(mgl64.Vec3{-1, 0, 0})
	mainCam.Theta = math.Pi / 2.8
	mainCam.Phi = 0.02
	mainCam.Distance = 5
	mainCam.CanLook = true
	mainCam.SetTarget(orrery.PointTarget(r.Origin()))
	mainCam.Recompute()
	r.AddCamera("main", mainCam)
	r.SetActiveCamera("main")

	front := e.NewCamera(mgl64.Vec3{0, 0, 1.05})
	front.Phi = math.Pi / 2
	front.Distance = 0.005
	front.SetTarget(orrery.PointTarget(r.Origin()))
	front.Recompute()
	r.AddCamera("ss_front", front)
}

func marker(r, g, b uint8, size float64) *ebitenhost.Marker {
	return ebitenhost.NewMarker(color.RGBA{R: r, G: g, B: b, A: 255}, size)
}

func setupScene(e *orrery.Engine) {
	w := e.World()

	ship := e.NewPlayer(marker(200, 200, 255, 1))
	e.AddGameObject("torus", ship)

	cone := orrery.NewEntity(marker(255, 160, 60, 0.5))
	e.AddGameObject("torus_cone", cone)
	ship.AddChild(cone)
	cone.SetRotationXYZ(mgl64.DegToRad(90), 0, 0)
	cone.SetPositionXYZ(0, 0, 1)

	cube := orrery.NewEntity(marker(230, 180, 230, 0.5))
	e.AddGameObject("torus_cube", cube)
	ship.AddChild(cube)
	cube.SetRotationXYZ(mgl64.DegToRad(90), 0, 0)
	cube.SetPositionXYZ(0, 0, -1)

	anchor := orrery.NewEntity(marker(230, 180, 230, 0.5))
	e.AddGameObject("torus_cam", anchor)
	ship.AddChild(anchor)
	anchor.SetPositionXYZ(0, 0, 3)
	anchor.SetScaleXYZ(0, 0, 0) // invisible

	ship.EnablePhys()

	// The cube spins faster the faster the ship goes, and the screen jitters.
	cubeAnim := orrery.NewStateAnim(func(interp float64) {
		e.Renderer().SetFloat(ebitenhost.FloatJitter, interp*jitterMax)
		rot := cube.Rotation()
		rot[1] += interp * goalSpin * e.DeltaTime()
		cube.SetRotation(rot)
	})
	cubeAnim.InterpSource = func() float64 {
		return mgl64.Clamp(ship.Velocity().Len()/maxSpeed, 0, 1)
	}
	e.RegisterAnim(cubeAnim)

	if cam, ok := e.Renderer().CameraByName("main"); ok {
		cam.SetTarget(orrery.TrackNode(w, "torus"))
		cam.Distance = 4
		cam.Recompute()
	}
	if cam, ok := e.Renderer().CameraByName("ss_front"); ok {
		cam.SetTarget(orrery.TrackNodes(w, "torus_cam", "torus"))
		cam.OrientLocked = true
		cam.Distance = 0.001
		cam.Recompute()
	}

	for _, def := range []struct {
		name string
		pos  mgl64.Vec3
	}{
		{"enemy_1", mgl64.Vec3{600, 400, -1200}},
		{"enemy_2", mgl64.Vec3{400, -400, -700}},
	} {
		enemy := e.NewEnemy(marker(192, 3, 3, 1), "torus")
		e.AddGameObject(def.name, enemy)
		enemy.SetPosition(def.pos)
		enemy.SetScaleXYZ(2, 2, 2)
		enemy.EnablePhys()
	}

	for _, def := range []struct {
		name string
		pos  mgl64.Vec3
	}{
		{"goal_1", mgl64.Vec3{600, 0, 0}},
		{"goal_2", mgl64.Vec3{400, -400, -700}},
		{"goal_3", mgl64.Vec3{600, 400, -1200}},
	} {
		goal := e.NewGoal(marker(40, 220, 90, 1), "torus")
		e.AddGameObject(def.name, goal)
		goal.SetPosition(def.pos)
		spin := orrery.NewTimedAnim(func(dt float64) {
			if goal.IsDisposed() {
				return
			}
			rot := goal.Rotation()
			rot[2] += goalSpin * dt
			goal.SetRotation(rot)
		})
		e.RegisterAnim(spin)
		// Rings pop in when the game starts.
		goal.SetScaleXYZ(0, 0, 0)
		e.RegisterAnim(orrery.TweenScale(goal, mgl64.Vec3{2, 2, 2}, 1.5, ease.OutBack))
	}

	for _, def := range []struct {
		name  string
		c     [3]uint8
		scale float64
		pos   mgl64.Vec3
		rot   mgl64.Vec3
	}{
		{"scarlet", [3]uint8{200, 40, 30}, 16, mgl64.Vec3{600, 0, 0}, mgl64.Vec3{}},
		{"teal", [3]uint8{30, 170, 170}, 8, mgl64.Vec3{400, -400, -700}, mgl64.Vec3{}},
		{"star", [3]uint8{255, 240, 180}, 16, mgl64.Vec3{20000, 0, 0}, mgl64.Vec3{}},
		{"purple", [3]uint8{130, 60, 200}, 9, mgl64.Vec3{600, 400, -1200}, mgl64.Vec3{30, 10, 2}},
	} {
		planet := orrery.NewEntity(marker(def.c[0], def.c[1], def.c[2], 2))
		e.AddGameObject(def.name, planet)
		planet.SetPosition(def.pos)
		planet.SetRotation(def.rot)
		planet.SetScaleXYZ(def.scale, def.scale, def.scale)
	}
}

func setupControls(e *orrery.Engine, host *ebitenhost.Host) {
	e.RegisterKeyInputListener(orrery.NewKeyListener(func(pressed bool, ev orrery.InputEvent) {
		if ev.Key == orrery.KeyEscape && pressed {
			e.Stop()
		}
	}))

	e.RegisterMouseMotionListener(e.NewOrbitController().Listener())

	e.RegisterKeyInputListener(orrery.NewKeyListener(func(pressed bool, ev orrery.InputEvent) {
		ship, ok := e.GetGameObject("torus")
		if !ok {
			return
		}
		orientation := ship.Orientation()
		switch ev.Key {
		case orrery.KeyW, orrery.KeyS:
			host.SetToggle(ebitenhost.ToggleShake, pressed)
			if !pressed {
				return
			}
			dir := 1.0
			if ev.Key == orrery.KeyS {
				dir = -1
			}
			ship.SetVelocity(ship.Velocity().Add(orientation.Mul(thrust * dir)))
		case orrery.KeySpace:
			if pressed {
				ship.SetVelocity(mgl64.Vec3{})
			}
		case orrery.KeyA:
			if pressed {
				ship.SetRotation(ship.Rotation().Add(mgl64.Vec3{0, turnStep, 0}))
			}
		case orrery.KeyD:
			if pressed {
				ship.SetRotation(ship.Rotation().Add(mgl64.Vec3{0, -turnStep, 0}))
			}
		case orrery.KeyR:
			if pressed {
				ship.SetRotation(ship.Rotation().Add(mgl64.Vec3{-turnStep, 0, 0}))
			}
		case orrery.KeyF:
			if pressed {
				ship.SetRotation(ship.Rotation().Add(mgl64.Vec3{turnStep, 0, 0}))
			}
		}
	}))

	e.RegisterKeyInputListener(orrery.NewKeyListener(func(pressed bool, ev orrery.InputEvent) {
		if !pressed {
			return
		}
		switch ev.Key {
		case orrery.Key1:
			e.Renderer().SetActiveCamera("main")
		case orrery.Key2:
			e.Renderer().SetActiveCamera("ss_front")
		}
	}))
}

func hud(e *orrery.Engine) string {
	goals, speed := 0, 0.0
	if ship, ok := e.GetGameObject("torus"); ok {
		goals = ship.Player.GoalCount
		speed = ship.Velocity().Len()
	}
	return fmt.Sprintf("goals %d/%d  speed %.0f  fps %.0f",
		goals, e.Config().Gameplay.GoalsToWin, speed, e.FPS())
}

package orrery

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the engine configuration. Zero-valued sections in a YAML file
// keep the defaults from DefaultConfig.
type Config struct {
	Loop     LoopConfig     `yaml:"loop"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Camera   CameraConfig   `yaml:"camera"`
	Gameplay GameplayConfig `yaml:"gameplay"`
	Window   WindowConfig   `yaml:"window"`
	Log      LogConfig      `yaml:"log"`
	Debug    bool           `yaml:"debug"`
}

// LoopConfig tunes the frame loop.
type LoopConfig struct {
	// MaxDeltaTime caps the simulated step in seconds.
	MaxDeltaTime float64 `yaml:"max_delta_time"`
}

// PhysicsConfig tunes the integrator.
type PhysicsConfig struct {
	// Tolerance is the per-component velocity dead zone.
	Tolerance float64 `yaml:"tolerance"`
}

// CameraConfig tunes projection and mouse orbiting.
type CameraConfig struct {
	FovDegrees       float64 `yaml:"fov_degrees"`
	Near             float64 `yaml:"near"`
	Far              float64 `yaml:"far"`
	OrbitSensitivity float64 `yaml:"orbit_sensitivity"` // radians per pixel
	ZoomSensitivity  float64 `yaml:"zoom_sensitivity"`  // distance per pixel
}

// GameplayConfig holds the behavior constants of players, enemies and goals.
type GameplayConfig struct {
	GoalsToWin  int     `yaml:"goals_to_win"`
	EnemySpeed  float64 `yaml:"enemy_speed"`
	EnemyRadius float64 `yaml:"enemy_radius"`
	GoalRadius  float64 `yaml:"goal_radius"`
}

// WindowConfig is used by windowed backends.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// LogConfig selects the logger level and encoding ("console" or "json").
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Loop:    LoopConfig{MaxDeltaTime: DefaultMaxDeltaTime},
		Physics: PhysicsConfig{Tolerance: DefaultPhysicsTolerance},
		Camera: CameraConfig{
			FovDegrees:       45,
			Near:             0.1,
			Far:              100000,
			OrbitSensitivity: OrbitRadiansPerPixel,
			ZoomSensitivity:  ZoomPerPixel,
		},
		Gameplay: GameplayConfig{
			GoalsToWin:  DefaultGoalsToWin,
			EnemySpeed:  DefaultEnemySpeed,
			EnemyRadius: DefaultEnemyRadius,
			GoalRadius:  DefaultGoalRadius,
		},
		Window: WindowConfig{Width: 1280, Height: 720, Title: "orrery"},
		Log:    LogConfig{Level: "info", Encoding: "console"},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Loop.MaxDeltaTime <= 0:
		return errors.New("loop.max_delta_time must be positive")
	case c.Physics.Tolerance < 0:
		return errors.New("physics.tolerance must not be negative")
	case c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180:
		return errors.New("camera.fov_degrees must be in (0, 180)")
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return errors.New("camera.near must be positive and below camera.far")
	case c.Gameplay.GoalsToWin <= 0:
		return errors.New("gameplay.goals_to_win must be positive")
	case c.Gameplay.EnemySpeed < 0:
		return errors.New("gameplay.enemy_speed must not be negative")
	case c.Gameplay.EnemyRadius <= 0 || c.Gameplay.GoalRadius <= 0:
		return errors.New("gameplay radii must be positive")
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.New("window size must be positive")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Encoding != "console" && c.Log.Encoding != "json" {
		return fmt.Errorf("log.encoding %q must be console or json", c.Log.Encoding)
	}
	return nil
}

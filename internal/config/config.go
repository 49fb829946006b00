// Package config provides YAML-based simulation configuration loading,
// environment overrides, presets and the slider controls of the viewer.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/physics"
	"github.com/vovakirdan/wavesim/internal/runner"
)

// Config contains everything needed to build a simulation session.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	World     WorldConfig     `yaml:"world"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Ball      BallConfig      `yaml:"ball"`
	Launcher  LauncherConfig  `yaml:"launcher"`
	Controls  ControlsConfig  `yaml:"controls"`
}

// SchedulerConfig defines the fixed-step clock.
type SchedulerConfig struct {
	TickRate          float64 `yaml:"tick_rate"`           // Ticks per simulated second
	MaxComputeSeconds float64 `yaml:"max_compute_seconds"` // Compute budget per frame
	MaxCatchUpTicks   int     `yaml:"max_catch_up_ticks"`  // Backlog ceiling
	TimeScale         float64 `yaml:"time_scale"`
}

// WorldConfig defines the forces every body feels.
type WorldConfig struct {
	Gravity      core.Vec3 `yaml:"gravity"`
	AirDrag      float64   `yaml:"air_drag"`
	FrictionDrag float64   `yaml:"friction_drag"`
}

// Surface kinds.
const (
	SurfaceWave = "wave"
	SurfaceFlat = "flat"
)

// SurfaceConfig selects the collision surface.
type SurfaceConfig struct {
	Kind      string  `yaml:"kind"`       // "wave" or "flat"
	WaveSpeed float64 `yaml:"wave_speed"` // Phase units per scaled second
	Level     float64 `yaml:"level"`      // Height of the flat surface
}

// BallConfig is the template every spawned ball is built from.
type BallConfig struct {
	Radius                float64         `yaml:"radius"`
	MaxPushBackForce      float64         `yaml:"max_push_back_force"`
	BelowSurfacePushForce float64         `yaml:"below_surface_push_force"`
	PushCurve             []core.Keyframe `yaml:"push_curve"`
	FireSpeed             float64         `yaml:"fire_speed"`
	MaxBalls              int             `yaml:"max_balls"` // 0 = unlimited
}

// LauncherConfig places the interactive launcher.
type LauncherConfig struct {
	Origin    core.Vec3 `yaml:"origin"`
	Direction core.Vec3 `yaml:"direction"`
	Spread    float64   `yaml:"spread"` // Random jitter added to the direction
}

// ControlsConfig defines the slider ranges of the viewer.
type ControlsConfig struct {
	MaxAirDrag      float64 `yaml:"max_air_drag"`
	MaxFrictionDrag float64 `yaml:"max_friction_drag"`
	MaxWaveSpeed    float64 `yaml:"max_wave_speed"`
	Step            float64 `yaml:"step"` // Slider change per key press
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(c.RunnerConfig().Validate())
	add(core.RequireNonNegative("world.air_drag", c.World.AirDrag))
	add(core.RequireNonNegative("world.friction_drag", c.World.FrictionDrag))
	if !c.World.Gravity.IsFinite() {
		add(core.NewConfigError("world.gravity", c.World.Gravity, "must be finite"))
	}

	switch c.Surface.Kind {
	case SurfaceWave, SurfaceFlat:
	default:
		add(core.NewConfigError("surface.kind", c.Surface.Kind, `must be "wave" or "flat"`))
	}
	add(core.RequireNonNegative("surface.wave_speed", c.Surface.WaveSpeed))

	add(core.RequirePositive("ball.radius", c.Ball.Radius))
	add(core.RequireNonNegative("ball.max_push_back_force", c.Ball.MaxPushBackForce))
	add(core.RequireNonNegative("ball.below_surface_push_force", c.Ball.BelowSurfacePushForce))
	add(core.RequireNonNegative("ball.fire_speed", c.Ball.FireSpeed))
	if c.Ball.MaxBalls < 0 {
		add(core.NewConfigError("ball.max_balls", c.Ball.MaxBalls, "must not be negative"))
	}
	if _, err := c.Curve(); err != nil {
		add(err)
	}

	if !c.Launcher.Origin.IsFinite() {
		add(core.NewConfigError("launcher.origin", c.Launcher.Origin, "must be finite"))
	}
	if !c.Launcher.Direction.IsFinite() || c.Launcher.Direction.Len() == 0 {
		add(core.NewConfigError("launcher.direction", c.Launcher.Direction, "must be a finite non-zero vector"))
	}
	add(core.RequireNonNegative("launcher.spread", c.Launcher.Spread))

	add(core.RequirePositive("controls.max_air_drag", c.Controls.MaxAirDrag))
	add(core.RequirePositive("controls.max_friction_drag", c.Controls.MaxFrictionDrag))
	add(core.RequirePositive("controls.max_wave_speed", c.Controls.MaxWaveSpeed))
	if err := core.RequirePositive("controls.step", c.Controls.Step); err != nil || c.Controls.Step > 1 {
		add(core.NewConfigError("controls.step", c.Controls.Step, "must be in (0, 1]"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Curve builds the ball push-back curve.
func (c Config) Curve() (core.Curve, error) {
	curve, err := core.NewCurve(c.Ball.PushCurve...)
	if err != nil {
		return core.Curve{}, fmt.Errorf("ball.push_curve: %w", err)
	}
	return curve, nil
}

// RunnerConfig returns the scheduler settings.
func (c Config) RunnerConfig() runner.Config {
	return runner.Config{
		TickRate:          c.Scheduler.TickRate,
		MaxComputeSeconds: c.Scheduler.MaxComputeSeconds,
		MaxCatchUpTicks:   c.Scheduler.MaxCatchUpTicks,
		TimeScale:         c.Scheduler.TimeScale,
	}
}

// PhysicsConfig returns the world settings.
func (c Config) PhysicsConfig() physics.Config {
	return physics.Config{
		Gravity:      c.World.Gravity,
		AirDrag:      c.World.AirDrag,
		FrictionDrag: c.World.FrictionDrag,
	}
}

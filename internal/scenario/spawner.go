package scenario

import (
	"fmt"

	"github.com/vovakirdan/wavesim/internal/config"
	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/physics"
)

// Template is the ball blueprint the spawner stamps out.
type Template struct {
	Radius                float64
	MaxPushBackForce      float64
	BelowSurfacePushForce float64
	FireSpeed             float64
	Curve                 core.Curve
}

// TemplateFromConfig builds a Template from the ball section of cfg.
func TemplateFromConfig(cfg config.Config) (Template, error) {
	curve, err := cfg.Curve()
	if err != nil {
		return Template{}, err
	}
	return Template{
		Radius:                cfg.Ball.Radius,
		MaxPushBackForce:      cfg.Ball.MaxPushBackForce,
		BelowSurfacePushForce: cfg.Ball.BelowSurfacePushForce,
		FireSpeed:             cfg.Ball.FireSpeed,
		Curve:                 curve,
	}, nil
}

// Spawner creates balls from a template and hands them to its owner, which
// registers them with the simulator and later destroys them.
type Spawner struct {
	tmpl    Template
	add     func(*physics.Ball)
	spawned int
}

// NewSpawner creates a spawner. add receives every ball created.
func NewSpawner(tmpl Template, add func(*physics.Ball)) *Spawner {
	return &Spawner{tmpl: tmpl, add: add}
}

// Template returns the blueprint in use.
func (s *Spawner) Template() Template { return s.tmpl }

// Spawned returns how many balls this spawner has created.
func (s *Spawner) Spawned() int { return s.spawned }

// Fire creates a ball at origin moving along direction at the template's
// fire speed.
func (s *Spawner) Fire(origin, direction core.Vec3) (*physics.Ball, error) {
	dir := direction.Normalize()
	if dir == (core.Vec3{}) || !dir.IsFinite() {
		return nil, core.NewConfigError("direction", direction, "must be a finite non-zero vector")
	}
	return s.Launch(origin, dir.Scale(s.tmpl.FireSpeed))
}

// DropAt creates a ball at rest at (x, height, z).
func (s *Spawner) DropAt(x, z, height float64) (*physics.Ball, error) {
	return s.Launch(core.V3(x, height, z), core.Vec3{})
}

// Launch creates a ball with an explicit initial velocity.
func (s *Spawner) Launch(position, velocity core.Vec3) (*physics.Ball, error) {
	b, err := physics.NewBall(physics.BallConfig{
		ID:                    s.spawned + 1,
		Position:              position,
		Velocity:              velocity,
		Radius:                s.tmpl.Radius,
		PushCurve:             s.tmpl.Curve,
		MaxPushBackForce:      s.tmpl.MaxPushBackForce,
		BelowSurfacePushForce: s.tmpl.BelowSurfacePushForce,
	})
	if err != nil {
		return nil, fmt.Errorf("spawn ball: %w", err)
	}
	s.spawned++
	if s.add != nil {
		s.add(b)
	}
	return b, nil
}

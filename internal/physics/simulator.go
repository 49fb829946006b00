// Package physics implements the ball bodies and the registry that advances
// them through the two-phase fixed tick.
package physics

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/surface"
)

// Env is the read-only view of the world a body simulates against.
type Env interface {
	Gravity() core.Vec3
	AirDrag() float64
	FrictionDrag() float64
	Surface() surface.HeightField
	// Tick is the tick currently being simulated.
	Tick() core.Tick
}

// Body is anything the Simulator can advance.
//
// Bodies are compared by identity, so implementations must be pointer types.
type Body interface {
	// Attach hands the body the environment it will be simulated in.
	Attach(env Env)
	// ComputeForces accumulates forces for this tick without moving the body.
	ComputeForces() error
	// ApplyForces resolves collisions and integrates the accumulated forces.
	ApplyForces() error
	// Alive reports whether the body's backing object still exists.
	Alive() bool
}

// Config holds the world-wide physics constants.
type Config struct {
	Gravity      core.Vec3
	AirDrag      float64
	FrictionDrag float64
}

// DefaultConfig returns earth gravity and no drag.
func DefaultConfig() Config {
	return Config{
		Gravity: core.V3(0, -9.806, 0),
	}
}

// Simulator owns the active bodies and drives the two-phase tick.
// It is not safe for concurrent use; register and unregister between ticks.
type Simulator struct {
	cfg     Config
	surface surface.HeightField
	logger  *log.Logger

	bodies  []Body
	tick    core.Tick
	removed int
}

// NewSimulator creates a simulator over the given surface.
// A nil logger discards failure reports.
func NewSimulator(cfg Config, hf surface.HeightField, logger *log.Logger) (*Simulator, error) {
	if hf == nil {
		return nil, core.NewConfigError("surface", nil, "a height field is required")
	}
	if !cfg.Gravity.IsFinite() {
		return nil, core.NewConfigError("gravity", cfg.Gravity, "must be finite")
	}
	if err := core.RequireNonNegative("air_drag", cfg.AirDrag); err != nil {
		return nil, err
	}
	if err := core.RequireNonNegative("friction_drag", cfg.FrictionDrag); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Simulator{
		cfg:     cfg,
		surface: hf,
		logger:  logger,
	}, nil
}

// Gravity returns the gravity acceleration.
func (s *Simulator) Gravity() core.Vec3 { return s.cfg.Gravity }

// AirDrag returns the air drag coefficient.
func (s *Simulator) AirDrag() float64 { return s.cfg.AirDrag }

// FrictionDrag returns the surface friction coefficient.
func (s *Simulator) FrictionDrag() float64 { return s.cfg.FrictionDrag }

// Surface returns the collision surface.
func (s *Simulator) Surface() surface.HeightField { return s.surface }

// Tick returns the tick being simulated, or the last one completed.
func (s *Simulator) Tick() core.Tick { return s.tick }

// SetAirDrag changes the air drag coefficient.
func (s *Simulator) SetAirDrag(v float64) error {
	if err := core.RequireNonNegative("air_drag", v); err != nil {
		return err
	}
	s.cfg.AirDrag = v
	return nil
}

// SetFrictionDrag changes the surface friction coefficient.
func (s *Simulator) SetFrictionDrag(v float64) error {
	if err := core.RequireNonNegative("friction_drag", v); err != nil {
		return err
	}
	s.cfg.FrictionDrag = v
	return nil
}

// Register adds a body. Registering a body twice, or a body that is already
// dead, does nothing.
func (s *Simulator) Register(b Body) {
	if b == nil || !b.Alive() || s.Contains(b) {
		return
	}
	b.Attach(s)
	s.bodies = append(s.bodies, b)
}

// Unregister removes a body if present.
func (s *Simulator) Unregister(b Body) {
	if i := slices.Index(s.bodies, b); i >= 0 {
		s.bodies = slices.Delete(s.bodies, i, i+1)
	}
}

// Contains reports whether b is registered.
func (s *Simulator) Contains(b Body) bool {
	return slices.Contains(s.bodies, b)
}

// Len returns the number of registered bodies.
func (s *Simulator) Len() int {
	return len(s.bodies)
}

// Bodies returns a copy of the registered bodies in iteration order.
func (s *Simulator) Bodies() []Body {
	return slices.Clone(s.bodies)
}

// Removed returns how many bodies were dropped during ticks, whether they
// failed or died.
func (s *Simulator) Removed() int {
	return s.removed
}

// SimulateTick runs the compute pass over every body, then the apply pass.
// The passes never interleave, so every body computes against the state the
// world had before the tick. A body that is dead or fails in either pass is
// removed at once and skipped for the rest of the tick.
func (s *Simulator) SimulateTick(tick core.Tick) {
	s.tick = tick
	s.runPass(PhaseCompute)
	s.runPass(PhaseApply)
}

func (s *Simulator) runPass(phase Phase) {
	kept := s.bodies[:0]
	for _, b := range s.bodies {
		if err := s.invoke(b, phase); err != nil {
			s.removed++
			s.logger.Error("removing body from simulation",
				"body", b,
				"phase", phase,
				"tick", s.tick.Index,
				"error", err,
			)
			continue
		}
		kept = append(kept, b)
	}
	clear(s.bodies[len(kept):])
	s.bodies = kept
}

// invoke runs one phase on one body, turning a dead body, a returned error
// or a panic into a *BodyError.
func (s *Simulator) invoke(b Body, phase Phase) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &BodyError{Body: b, Phase: phase, Tick: s.tick.Index, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if !b.Alive() {
		return &BodyError{Body: b, Phase: phase, Tick: s.tick.Index, Err: ErrBodyInvalid}
	}

	switch phase {
	case PhaseCompute:
		err = b.ComputeForces()
	case PhaseApply:
		err = b.ApplyForces()
	}
	if err != nil {
		return &BodyError{Body: b, Phase: phase, Tick: s.tick.Index, Err: err}
	}
	return nil
}

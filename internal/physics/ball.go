package physics

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/vovakirdan/wavesim/internal/core"
)

// Default ball response tuning.
const (
	DefaultMaxPushBackForce      = 10.0
	DefaultBelowSurfacePushForce = 30.0
)

// BallConfig describes a ball at creation time.
type BallConfig struct {
	ID       int // Shown in logs and errors; zero means unnumbered
	Position core.Vec3
	Velocity core.Vec3
	Radius   float64

	// PushCurve maps normalized penetration to a push-back scale.
	PushCurve core.Curve
	// MaxPushBackForce is the push-back acceleration at full curve scale.
	MaxPushBackForce float64
	// BelowSurfacePushForce lifts balls that tunnelled under the surface.
	BelowSurfacePushForce float64
}

// Contact describes a resolved collision with the surface.
type Contact struct {
	Point       core.Vec3     // Surface point under the ball
	Normal      core.Vec3     // Surface normal at Point
	Penetration float64       // Normalized penetration depth
	PushScale   float64       // Curve output used for the response
	Time        time.Duration // Simulated time of the tick
}

// Ball is a point-mass sphere that rolls and bounces on the surface.
type Ball struct {
	id       int
	position core.Vec3
	velocity core.Vec3
	pending  core.Vec3 // velocity change accumulated for the current tick

	radius    float64
	curve     core.Curve
	maxPush   float64
	belowPush float64
	destroyed bool
	env       Env
	onContact func(Contact)
}

// NewBall validates cfg and creates a ball.
func NewBall(cfg BallConfig) (*Ball, error) {
	if err := core.RequirePositive("radius", cfg.Radius); err != nil {
		return nil, err
	}
	if !cfg.Position.IsFinite() {
		return nil, core.NewConfigError("position", cfg.Position, "must be finite")
	}
	if !cfg.Velocity.IsFinite() {
		return nil, core.NewConfigError("velocity", cfg.Velocity, "must be finite")
	}
	if cfg.PushCurve.IsZero() {
		return nil, core.NewConfigError("push_curve", nil, "a response curve is required")
	}
	if err := core.RequireNonNegative("max_push_back_force", cfg.MaxPushBackForce); err != nil {
		return nil, err
	}
	if err := core.RequireNonNegative("below_surface_push_force", cfg.BelowSurfacePushForce); err != nil {
		return nil, err
	}

	return &Ball{
		id:        cfg.ID,
		position:  cfg.Position,
		velocity:  cfg.Velocity,
		radius:    cfg.Radius,
		curve:     cfg.PushCurve,
		maxPush:   cfg.MaxPushBackForce,
		belowPush: cfg.BelowSurfacePushForce,
	}, nil
}

func (b *Ball) String() string {
	if b == nil {
		return "ball(nil)"
	}
	return fmt.Sprintf("ball#%d", b.id)
}

// Position returns the ball centre.
func (b *Ball) Position() core.Vec3 { return b.position }

// Velocity returns the current velocity.
func (b *Ball) Velocity() core.Vec3 { return b.velocity }

// Radius returns the ball radius.
func (b *Ball) Radius() float64 { return b.radius }

// OnContact installs a callback fired whenever a contact is resolved.
func (b *Ball) OnContact(fn func(Contact)) { b.onContact = fn }

// Destroy marks the ball's backing object as gone. The simulator drops it on
// the next pass.
func (b *Ball) Destroy() { b.destroyed = true }

// Alive implements Body.
func (b *Ball) Alive() bool { return b != nil && !b.destroyed }

// Attach implements Body.
func (b *Ball) Attach(env Env) { b.env = env }

// ComputeForces adds gravity for this tick.
func (b *Ball) ComputeForces() error {
	if err := b.check(); err != nil {
		return err
	}
	dt := b.env.Tick().Delta
	b.pending = b.pending.Add(b.env.Gravity().Scale(dt))
	return nil
}

// ApplyForces resolves surface contact, then integrates velocity and
// position and clears the accumulator.
func (b *Ball) ApplyForces() error {
	if err := b.check(); err != nil {
		return err
	}
	dt := b.env.Tick().Delta

	b.resolveCollision(dt)

	b.velocity = b.velocity.Add(b.pending)
	b.velocity = b.velocity.Div(1 + b.env.AirDrag()*dt)
	b.position = b.position.Add(b.velocity.Scale(dt))
	b.pending = core.Vec3{}
	return nil
}

func (b *Ball) check() error {
	if b.destroyed {
		return ErrBodyInvalid
	}
	if b.env == nil {
		return errNotAttached
	}
	return nil
}

// Snapshot is the plain state of a ball for reports and determinism checks.
type Snapshot struct {
	Position core.Vec3
	Velocity core.Vec3
	Radius   float64
}

// Snapshot captures the current state.
func (b *Ball) Snapshot() Snapshot {
	return Snapshot{Position: b.position, Velocity: b.velocity, Radius: b.radius}
}

// Hash returns a stable FNV-1a hash of the exact float bits.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, f := range []float64{
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		s.Radius,
	} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	return h.Sum64()
}

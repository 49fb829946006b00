package physics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/surface"
)

const testDt = 1.0 / 120

func testTick(i int64) core.Tick {
	return core.Tick{
		Index: i,
		Time:  time.Duration(i) * time.Second / 120,
		Delta: testDt,
	}
}

func newTestSim(t *testing.T, cfg Config, hf surface.HeightField) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg, hf, nil)
	if err != nil {
		t.Fatalf("NewSimulator() failed: %v", err)
	}
	return sim
}

func newTestBall(t *testing.T, cfg BallConfig) *Ball {
	t.Helper()
	if cfg.PushCurve.IsZero() {
		cfg.PushCurve = core.LinearCurve()
	}
	if cfg.Radius == 0 {
		cfg.Radius = 0.5
	}
	b, err := NewBall(cfg)
	if err != nil {
		t.Fatalf("NewBall() failed: %v", err)
	}
	return b
}

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestNewBallRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   BallConfig
		field string
	}{
		{"zero radius", BallConfig{Radius: 0, PushCurve: core.LinearCurve()}, "radius"},
		{"negative radius", BallConfig{Radius: -1, PushCurve: core.LinearCurve()}, "radius"},
		{"nan radius", BallConfig{Radius: math.NaN(), PushCurve: core.LinearCurve()}, "radius"},
		{"missing curve", BallConfig{Radius: 1}, "push_curve"},
		{"negative push", BallConfig{Radius: 1, PushCurve: core.LinearCurve(), MaxPushBackForce: -1}, "max_push_back_force"},
		{"infinite position", BallConfig{Radius: 1, PushCurve: core.LinearCurve(), Position: core.V3(math.Inf(1), 0, 0)}, "position"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBall(tc.cfg)
			if !errors.Is(err, core.ErrConfiguration) {
				t.Fatalf("NewBall() error = %v, expected configuration error", err)
			}
			var cfgErr *core.ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tc.field {
				t.Errorf("NewBall() error field = %v, expected %q", err, tc.field)
			}
		})
	}
}

func TestBallFreeFall(t *testing.T) {
	sim := newTestSim(t, DefaultConfig(), surface.Flat{})
	b := newTestBall(t, BallConfig{Position: core.V3(0, 10, 0)})
	sim.Register(b)

	sim.SimulateTick(testTick(0))

	expectedVY := -9.806 * testDt
	if !approx(b.Velocity().Y, expectedVY, 1e-12) {
		t.Errorf("velocity.y = %v, expected %v", b.Velocity().Y, expectedVY)
	}
	expectedY := 10 + expectedVY*testDt
	if !approx(b.Position().Y, expectedY, 1e-12) {
		t.Errorf("position.y = %v, expected %v", b.Position().Y, expectedY)
	}
	if b.pending != (core.Vec3{}) {
		t.Errorf("pending acceleration = %+v, expected zero after tick", b.pending)
	}
}

func TestBallAirDrag(t *testing.T) {
	cfg := Config{AirDrag: 6}
	sim := newTestSim(t, cfg, surface.Flat{})
	b := newTestBall(t, BallConfig{Position: core.V3(0, 10, 0), Velocity: core.V3(4, 0, 0)})
	sim.Register(b)

	sim.SimulateTick(testTick(0))

	expected := 4 / (1 + 6*testDt)
	if !approx(b.Velocity().X, expected, 1e-12) {
		t.Errorf("velocity.x = %v, expected %v", b.Velocity().X, expected)
	}
}

func TestBallFrictionOnlyAffectsTangent(t *testing.T) {
	cfg := Config{FrictionDrag: 5}
	sim := newTestSim(t, cfg, surface.Flat{})
	b := newTestBall(t, BallConfig{
		Position:         core.V3(1, 0.4, 1), // 20% penetration
		Velocity:         core.V3(2, -1, 0),
		MaxPushBackForce: 10,
	})
	sim.Register(b)

	sim.SimulateTick(testTick(0))

	scale := 0.2
	expectedX := 2 / (1 + 5*scale*testDt)
	expectedY := -1 + scale*10*testDt
	v := b.Velocity()
	if !approx(v.X, expectedX, 1e-9) {
		t.Errorf("velocity.x = %v, expected %v", v.X, expectedX)
	}
	if !approx(v.Y, expectedY, 1e-9) {
		t.Errorf("velocity.y = %v, expected %v", v.Y, expectedY)
	}
	if v.Z != 0 {
		t.Errorf("velocity.z = %v, expected 0", v.Z)
	}
}

func TestBallMovingAwayIsNotPushed(t *testing.T) {
	cfg := Config{FrictionDrag: 5}
	sim := newTestSim(t, cfg, surface.Flat{})
	b := newTestBall(t, BallConfig{
		Position:         core.V3(1, 0.4, 1),
		Velocity:         core.V3(2, 1, 0),
		MaxPushBackForce: 10,
	})
	contacts := 0
	b.OnContact(func(Contact) { contacts++ })
	sim.Register(b)

	sim.SimulateTick(testTick(0))

	if b.Velocity() != core.V3(2, 1, 0) {
		t.Errorf("velocity = %+v, expected unchanged (2, 1, 0)", b.Velocity())
	}
	if contacts != 0 {
		t.Errorf("contacts = %d, expected none while separating", contacts)
	}
}

func TestBallContactCallback(t *testing.T) {
	sim := newTestSim(t, Config{}, surface.Flat{Level: 1})
	b := newTestBall(t, BallConfig{
		Position:         core.V3(3, 1.25, 4),
		Velocity:         core.V3(0, -2, 0),
		MaxPushBackForce: 10,
	})

	var got []Contact
	b.OnContact(func(c Contact) { got = append(got, c) })
	sim.Register(b)

	sim.SimulateTick(testTick(7))

	if len(got) != 1 {
		t.Fatalf("contacts = %d, expected 1", len(got))
	}
	c := got[0]
	if c.Point != core.V3(3, 1, 4) {
		t.Errorf("contact point = %+v, expected (3, 1, 4)", c.Point)
	}
	if c.Normal != core.Up {
		t.Errorf("contact normal = %+v, expected up", c.Normal)
	}
	if !approx(c.Penetration, 0.5, 1e-12) {
		t.Errorf("contact penetration = %v, expected 0.5", c.Penetration)
	}
	if c.Time != testTick(7).Time {
		t.Errorf("contact time = %v, expected %v", c.Time, testTick(7).Time)
	}
}

func TestBallBelowSurfaceIsPushedUp(t *testing.T) {
	tests := []struct {
		name     string
		position core.Vec3
		velocity core.Vec3
	}{
		{"deep below, at rest", core.V3(5, -2, 5), core.Vec3{}},
		{"deep below, falling fast", core.V3(5, -2, 5), core.V3(0, -0.5, 0)},
		{"just below, inside plane", core.V3(5, -0.1, 5), core.Vec3{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sim := newTestSim(t, DefaultConfig(), surface.Flat{})
			b := newTestBall(t, BallConfig{
				Position:              tc.position,
				Velocity:              tc.velocity,
				Radius:                0.25,
				MaxPushBackForce:      10,
				BelowSurfacePushForce: DefaultBelowSurfacePushForce,
			})
			sim.Register(b)

			sim.SimulateTick(testTick(0))

			dv := b.Velocity().Y - tc.velocity.Y
			if dv <= 0 {
				t.Errorf("vertical velocity change = %v, expected > 0", dv)
			}
		})
	}
}

func TestBallSettlesOnFlatSurface(t *testing.T) {
	const radius = 0.5
	sim := newTestSim(t, Config{Gravity: core.V3(0, -9.806, 0), AirDrag: 1}, surface.Flat{})
	b := newTestBall(t, BallConfig{
		Position:              core.V3(5, 3, 5),
		Radius:                radius,
		MaxPushBackForce:      1000,
		BelowSurfacePushForce: DefaultBelowSurfacePushForce,
	})
	sim.Register(b)

	// Peak |v.y| over each simulated second.
	const seconds = 12
	var peaks [seconds]float64
	for i := int64(0); i < seconds*120; i++ {
		sim.SimulateTick(testTick(i))
		s := i / 120
		peaks[s] = math.Max(peaks[s], math.Abs(b.Velocity().Y))
	}

	if !approx(b.Position().Y, radius, 0.05) {
		t.Errorf("rest height = %v, expected about %v", b.Position().Y, radius)
	}
	if peaks[seconds-1] > 0.1 {
		t.Errorf("final |v.y| peak = %v, expected < 0.1", peaks[seconds-1])
	}
	// Once in contact the bounce envelope only shrinks.
	for s := 2; s < seconds; s++ {
		if peaks[s] > peaks[s-1]+1e-9 {
			t.Errorf("|v.y| peak grew from %v to %v in second %d", peaks[s-1], peaks[s], s)
		}
	}
	if b.Position().X != 5 || b.Position().Z != 5 {
		t.Errorf("ball drifted sideways to %+v", b.Position())
	}
}

func TestBallOnWaveIsDeterministic(t *testing.T) {
	run := func() uint64 {
		sim := newTestSim(t, Config{Gravity: core.V3(0, -9.806, 0), AirDrag: 0.5, FrictionDrag: 3}, surface.NewWave())
		b := newTestBall(t, BallConfig{
			Position:              core.V3(3, 2, 6),
			Velocity:              core.V3(1, 0, -0.5),
			Radius:                0.25,
			MaxPushBackForce:      DefaultMaxPushBackForce,
			BelowSurfacePushForce: DefaultBelowSurfacePushForce,
		})
		sim.Register(b)
		for i := int64(0); i < 600; i++ {
			sim.SimulateTick(testTick(i))
		}
		return b.Snapshot().Hash()
	}

	if a, b := run(), run(); a != b {
		t.Errorf("determinism failed: hashes differ %d vs %d", a, b)
	}
}

func TestDestroyedBallRefusesWork(t *testing.T) {
	sim := newTestSim(t, DefaultConfig(), surface.Flat{})
	b := newTestBall(t, BallConfig{Position: core.V3(0, 5, 0)})
	sim.Register(b)
	b.Destroy()

	if b.Alive() {
		t.Fatal("Alive() should be false after Destroy")
	}
	if err := b.ComputeForces(); !errors.Is(err, ErrBodyInvalid) {
		t.Errorf("ComputeForces() error = %v, expected ErrBodyInvalid", err)
	}

	var missing *Ball
	if missing.Alive() {
		t.Error("a nil ball reported Alive")
	}
}

func TestUnattachedBallErrors(t *testing.T) {
	b := newTestBall(t, BallConfig{})
	if err := b.ApplyForces(); err == nil {
		t.Error("ApplyForces() on an unattached ball should fail")
	}
}

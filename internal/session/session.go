// Package session assembles a running simulation from a config: the
// surface, the simulator, the fixed-step runner and the ball spawner. Front
// ends (the terminal viewer, the headless runner) drive it one rendered frame
// at a time.
package session

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wavesim/internal/config"
	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/physics"
	"github.com/vovakirdan/wavesim/internal/runner"
	"github.com/vovakirdan/wavesim/internal/scenario"
	"github.com/vovakirdan/wavesim/internal/surface"
)

// timeScaleStep is how far one key press moves the time scale slider. It is
// larger than the snap band around 1x so the slider can leave real time.
const timeScaleStep = 0.125

// Session owns one simulated world and its clocks. It is not safe for
// concurrent use.
type Session struct {
	cfg    config.Config
	clock  core.Clock
	logger *log.Logger

	wave    *surface.Wave // nil for a flat surface
	surface surface.HeightField
	sim     *physics.Simulator
	run     *runner.Runner
	spawner *scenario.Spawner

	balls    []*physics.Ball // live balls in spawn order
	contacts int64

	scenarioID string
	seed       int64
	rng        *rand.Rand

	sliders    config.Sliders
	waveSpeed  float64
	paused     bool
	savedScale float64

	lastFrame time.Time
	framed    bool
}

// New builds a session from cfg. The config is validated first; a nil clock
// uses the system clock and a nil logger discards output.
func New(cfg config.Config, clock core.Clock, logger *log.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		waveSpeed: cfg.Surface.WaveSpeed,
		sliders:   cfg.Controls.SlidersFor(cfg),
		rng:       rand.New(rand.NewSource(0)),
	}

	switch cfg.Surface.Kind {
	case config.SurfaceFlat:
		s.surface = surface.Flat{Level: cfg.Surface.Level}
	default:
		s.wave = surface.NewWave()
		s.surface = s.wave
	}

	sim, err := physics.NewSimulator(cfg.PhysicsConfig(), s.surface, logger.WithPrefix("physics"))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.sim = sim

	run, err := runner.New(cfg.RunnerConfig(), sim, clock, logger.WithPrefix("runner"))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.run = run
	run.OnPostTick("session.reap", s.reap)

	tmpl, err := scenario.TemplateFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.spawner = scenario.NewSpawner(tmpl, s.track)

	return s, nil
}

// Load clears the world and sets up the named scenario with seed.
func (s *Session) Load(scenarioID string, seed int64) error {
	sc, err := scenario.Create(scenarioID)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	s.clearBalls()
	if s.wave != nil {
		s.wave.Reset()
	}
	s.scenarioID = scenarioID
	s.seed = seed
	s.rng = rand.New(rand.NewSource(seed))

	if err := sc.Setup(s.spawner, s.rng); err != nil {
		return fmt.Errorf("session: scenario %s: %w", scenarioID, err)
	}
	s.logger.Info("scenario loaded", "scenario", scenarioID, "seed", seed, "balls", len(s.balls))
	return nil
}

// Reset reloads the current scenario with the same seed.
func (s *Session) Reset() error {
	if s.scenarioID == "" {
		s.clearBalls()
		return nil
	}
	return s.Load(s.scenarioID, s.seed)
}

// Frame processes one rendered frame at wall-clock instant now: it advances
// the wave phase by the scaled frame time, then runs the fixed ticks owed.
// It returns the number of ticks run.
func (s *Session) Frame(now time.Time) int {
	var delta time.Duration
	if s.framed && now.After(s.lastFrame) {
		delta = now.Sub(s.lastFrame)
	}
	if !s.framed || now.After(s.lastFrame) {
		s.lastFrame = now
	}
	s.framed = true

	if s.wave != nil {
		s.wave.AdvanceTime(delta.Seconds()*s.run.TimeScale(), s.waveSpeed)
	}
	return s.run.OnFrame(now)
}

// Advance runs Frame at the session clock's current time.
func (s *Session) Advance() int {
	return s.Frame(s.clock.Now())
}

// Spawn fires a ball from the launcher, with a little random spread.
func (s *Session) Spawn() (*physics.Ball, error) {
	l := s.cfg.Launcher
	jitter := core.V3(s.rng.Float64()-0.5, s.rng.Float64()-0.5, s.rng.Float64()-0.5).Scale(2 * l.Spread)
	return s.spawner.Fire(l.Origin, l.Direction.Normalize().Add(jitter))
}

// Spawner returns the spawner used for scenarios and the launcher.
func (s *Session) Spawner() *scenario.Spawner {
	return s.spawner
}

// RemoveOldest destroys the oldest live ball. It reports false when there
// is none.
func (s *Session) RemoveOldest() bool {
	if len(s.balls) == 0 {
		return false
	}
	b := s.balls[0]
	b.Destroy()
	s.sim.Unregister(b)
	s.balls = slices.Delete(s.balls, 0, 1)
	return true
}

// SetPaused freezes or resumes simulated time. The time scale in effect
// before pausing is restored on resume.
func (s *Session) SetPaused(paused bool) {
	if paused == s.paused {
		return
	}
	s.paused = paused
	if paused {
		s.savedScale = s.run.TimeScale()
		_ = s.run.SetTimeScale(0)
	} else {
		_ = s.run.SetTimeScale(s.savedScale)
	}
	s.logger.Debug("pause toggled", "paused", paused)
}

// Paused reports whether the session is paused.
func (s *Session) Paused() bool { return s.paused }

// SetTimeScale changes the simulation speed. While paused the value is kept
// for when the session resumes.
func (s *Session) SetTimeScale(scale float64) error {
	if err := core.RequireNonNegative("time_scale", scale); err != nil {
		return err
	}
	s.sliders.TimeScale = config.TimeScaleSlider(scale)
	if s.paused {
		s.savedScale = scale
		return nil
	}
	return s.run.SetTimeScale(scale)
}

// TimeScale returns the effective time scale (0 while paused).
func (s *Session) TimeScale() float64 { return s.run.TimeScale() }

// SetAirDrag changes the air drag coefficient.
func (s *Session) SetAirDrag(v float64) error {
	if err := s.sim.SetAirDrag(v); err != nil {
		return err
	}
	s.sliders.AirDrag = core.ClampF(v/s.cfg.Controls.MaxAirDrag, 0, 1)
	return nil
}

// SetFrictionDrag changes the surface friction coefficient.
func (s *Session) SetFrictionDrag(v float64) error {
	if err := s.sim.SetFrictionDrag(v); err != nil {
		return err
	}
	s.sliders.FrictionDrag = core.ClampF(v/s.cfg.Controls.MaxFrictionDrag, 0, 1)
	return nil
}

// SetWaveSpeed changes how fast the ripple phase travels.
func (s *Session) SetWaveSpeed(v float64) error {
	if err := core.RequireNonNegative("wave_speed", v); err != nil {
		return err
	}
	s.waveSpeed = v
	s.sliders.WaveSpeed = core.ClampF(v/s.cfg.Controls.MaxWaveSpeed, 0, 1)
	return nil
}

// Surface returns the collision surface for drawing.
func (s *Session) Surface() surface.HeightField { return s.surface }

// Runner exposes the scheduler, mainly for hooks and stats.
func (s *Session) Runner() *runner.Runner { return s.run }

// Simulator exposes the body registry.
func (s *Session) Simulator() *physics.Simulator { return s.sim }

// Config returns the config the session was built from.
func (s *Session) Config() config.Config { return s.cfg }

// Balls returns snapshots of the live balls in spawn order.
func (s *Session) Balls() []physics.Snapshot {
	out := make([]physics.Snapshot, len(s.balls))
	for i, b := range s.balls {
		out[i] = b.Snapshot()
	}
	return out
}

// Fingerprint hashes the state of every live ball. Two runs with the same
// inputs produce the same fingerprint.
func (s *Session) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, b := range s.balls {
		binary.LittleEndian.PutUint64(buf[:], b.Snapshot().Hash())
		h.Write(buf[:])
	}
	return h.Sum64()
}

// track registers a freshly spawned ball and enforces the ball limit.
func (s *Session) track(b *physics.Ball) {
	b.OnContact(func(physics.Contact) { s.contacts++ })
	s.sim.Register(b)
	s.balls = append(s.balls, b)
	if limit := s.cfg.Ball.MaxBalls; limit > 0 {
		for len(s.balls) > limit {
			s.RemoveOldest()
		}
	}
}

// reap forgets balls the simulator dropped after a failure.
func (s *Session) reap(core.Tick) error {
	if s.sim.Len() == len(s.balls) {
		return nil
	}
	s.balls = slices.DeleteFunc(s.balls, func(b *physics.Ball) bool {
		return !s.sim.Contains(b)
	})
	return nil
}

func (s *Session) clearBalls() {
	for _, b := range s.balls {
		b.Destroy()
		s.sim.Unregister(b)
	}
	s.balls = nil
}

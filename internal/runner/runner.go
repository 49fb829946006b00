// Package runner turns irregular frame callbacks into a whole number of
// fixed-length simulation ticks.
//
// Each frame the runner works out how many ticks the simulated clock is
// behind wall time (scaled by the time scale) and runs them until the frame's
// compute budget is used up. Ticks left over are carried into later frames.
// A backlog larger than MaxCatchUpTicks is dropped by folding it into the
// real-time offset, so a long stall never turns into a long busy loop.
package runner

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wavesim/internal/core"
)

// ErrStarted is returned when changing settings that are fixed once the
// first frame has been processed.
var ErrStarted = errors.New("runner: already started")

// Ticker advances the simulation by one fixed step.
type Ticker interface {
	SimulateTick(tick core.Tick)
}

// TickerFunc adapts a function to Ticker.
type TickerFunc func(core.Tick)

// SimulateTick calls f(tick).
func (f TickerFunc) SimulateTick(tick core.Tick) { f(tick) }

// Config holds the scheduling knobs.
type Config struct {
	TickRate          float64 // Ticks per simulated second
	MaxComputeSeconds float64 // Wall-clock compute budget per frame
	MaxCatchUpTicks   int     // Backlog ceiling; excess ticks are dropped
	TimeScale         float64 // Simulated seconds per wall-clock second
}

// DefaultConfig returns 120 Hz, a 20 ms budget, a two second backlog ceiling
// and real-time speed.
func DefaultConfig() Config {
	return Config{
		TickRate:          120,
		MaxComputeSeconds: 0.02,
		MaxCatchUpTicks:   240,
		TimeScale:         1,
	}
}

// Validate checks every knob.
func (c Config) Validate() error {
	if err := core.RequirePositive("tick_rate", c.TickRate); err != nil {
		return err
	}
	if tickDuration(c.TickRate) < time.Nanosecond {
		return core.NewConfigError("tick_rate", c.TickRate, "tick length is below one nanosecond")
	}
	if err := core.RequirePositive("max_compute_seconds", c.MaxComputeSeconds); err != nil {
		return err
	}
	if c.MaxCatchUpTicks <= 0 {
		return core.NewConfigError("max_catch_up_ticks", c.MaxCatchUpTicks, "must be a positive number")
	}
	if err := core.RequireNonNegative("time_scale", c.TimeScale); err != nil {
		return err
	}
	return nil
}

// Stats describes the scheduler's progress.
type Stats struct {
	Frames        int64
	Ticks         int64
	SimulatedTime time.Duration

	FrameTicks   int           // Ticks run by the last frame
	FrameCompute time.Duration // Wall time spent by the last frame
	Deferred     int64         // Ticks still owed after the last frame
	Dropped      int64         // Ticks discarded by the backlog ceiling
	HookErrors   int64
	TickPanics   int64
}

// Runner is the fixed-step scheduler. It is single-threaded: call OnFrame
// from one goroutine only.
type Runner struct {
	cfg    Config
	dt     time.Duration
	ticker Ticker
	clock  core.Clock
	logger *log.Logger

	pre  hookList
	post hookList

	started   bool
	start     time.Time
	prevFrame time.Time
	offset    time.Duration
	timeScale float64

	ticks     int64
	simulated time.Duration
	stats     Stats
}

// New creates a runner driving ticker. A nil clock uses the system clock and a
// nil logger discards reports.
func New(cfg Config, ticker Ticker, clock core.Clock, logger *log.Logger) (*Runner, error) {
	if ticker == nil {
		return nil, core.NewConfigError("ticker", nil, "a ticker is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = core.SystemClock{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Runner{
		cfg:       cfg,
		ticker:    ticker,
		clock:     clock,
		logger:    logger,
		timeScale: cfg.TimeScale,
	}
	r.dt = tickDuration(cfg.TickRate)
	return r, nil
}

func tickDuration(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / rate)
}

// Configure changes the tick rate and per-frame budget. It fails with
// ErrStarted once the first frame has been processed.
func (r *Runner) Configure(tickRate, maxComputeSeconds float64) error {
	if r.started {
		return ErrStarted
	}
	cfg := r.cfg
	cfg.TickRate = tickRate
	cfg.MaxComputeSeconds = maxComputeSeconds
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg = cfg
	r.dt = tickDuration(tickRate)
	return nil
}

// SetMaxCatchUpTicks changes the backlog ceiling.
func (r *Runner) SetMaxCatchUpTicks(n int) error {
	if n <= 0 {
		return core.NewConfigError("max_catch_up_ticks", n, "must be a positive number")
	}
	r.cfg.MaxCatchUpTicks = n
	return nil
}

// SetTimeScale changes how fast simulated time runs. Zero pauses. The new
// scale applies from the next frame on, without a jump in the tick count.
func (r *Runner) SetTimeScale(scale float64) error {
	if err := core.RequireNonNegative("time_scale", scale); err != nil {
		return err
	}
	r.timeScale = scale
	return nil
}

// TimeScale returns the current time scale.
func (r *Runner) TimeScale() float64 { return r.timeScale }

// DeltaTime returns the fixed tick length.
func (r *Runner) DeltaTime() time.Duration { return r.dt }

// TickRate returns the configured ticks per second.
func (r *Runner) TickRate() float64 { return r.cfg.TickRate }

// MaxCompute returns the per-frame compute budget.
func (r *Runner) MaxCompute() time.Duration {
	return time.Duration(r.cfg.MaxComputeSeconds * float64(time.Second))
}

// TickCount returns the number of ticks run since start.
func (r *Runner) TickCount() int64 { return r.ticks }

// SimulatedTime returns TickCount() * DeltaTime().
func (r *Runner) SimulatedTime() time.Duration { return r.simulated }

// Started reports whether the clock has been anchored.
func (r *Runner) Started() bool { return r.started }

// Stats returns a copy of the current statistics.
func (r *Runner) Stats() Stats {
	s := r.stats
	s.Ticks = r.ticks
	s.SimulatedTime = r.simulated
	return s
}

// Start anchors the simulated clock at now. OnFrame calls it on first use.
func (r *Runner) Start(now time.Time) error {
	if r.started {
		return ErrStarted
	}
	r.started = true
	r.start = now
	r.prevFrame = now
	r.logger.Debug("runner started", "tick_rate", r.cfg.TickRate, "dt", r.dt)
	return nil
}

// Advance runs OnFrame with the current clock time.
func (r *Runner) Advance() int {
	return r.OnFrame(r.clock.Now())
}

// OnFrame runs the ticks owed at wall-clock instant now and returns how many
// ran. It never panics because of a ticker or hook.
func (r *Runner) OnFrame(now time.Time) int {
	if !r.started {
		_ = r.Start(now)
	}
	entered := r.clock.Now()
	deadline := entered.Add(r.MaxCompute())

	var elapsed time.Duration
	if now.After(r.prevFrame) {
		elapsed = now.Sub(r.prevFrame)
		r.prevFrame = now
	}

	// Scale compensation: wall time that should not count as simulated time
	// (or extra time that should) moves the offset.
	r.offset -= time.Duration(float64(elapsed) * (1 - r.timeScale))

	current := now.Sub(r.start) + r.offset
	needed := int64(current/r.dt) - r.ticks

	if limit := int64(r.cfg.MaxCatchUpTicks); needed > limit {
		excess := needed - limit
		r.offset -= time.Duration(excess) * r.dt
		r.stats.Dropped += excess
		needed = limit
		r.logger.Warn("dropping simulation backlog", "ticks", excess, "tick", r.ticks)
	}

	ran := 0
	for int64(ran) < needed {
		if r.clock.Now().After(deadline) {
			break
		}
		r.runTick()
		ran++
	}

	r.stats.Frames++
	r.stats.FrameTicks = ran
	r.stats.FrameCompute = r.clock.Now().Sub(entered)
	r.stats.Deferred = max(needed-int64(ran), 0)
	if r.stats.Deferred > 0 {
		r.logger.Debug("frame budget exhausted", "ran", ran, "deferred", r.stats.Deferred)
	}
	return ran
}

// runTick runs one fixed step with its hooks and updates the clock.
func (r *Runner) runTick() {
	tick := core.Tick{
		Index: r.ticks,
		Time:  r.simulated,
		Delta: r.dt.Seconds(),
	}

	r.stats.HookErrors += int64(r.pre.fire(StagePreTick, tick, r.logger))
	r.simulate(tick)
	r.stats.HookErrors += int64(r.post.fire(StagePostTick, tick, r.logger))

	r.ticks++
	r.simulated = time.Duration(r.ticks) * r.dt
}

func (r *Runner) simulate(tick core.Tick) {
	defer func() {
		if v := recover(); v != nil {
			r.stats.TickPanics++
			r.logger.Error("simulation tick panicked", "tick", tick.Index, "error", fmt.Errorf("panic: %v", v))
		}
	}()
	r.ticker.SimulateTick(tick)
}

// Lag returns how far simulated time trails the scaled wall clock at now,
// including ticks owed but not yet run.
func (r *Runner) Lag(now time.Time) time.Duration {
	if !r.started {
		return 0
	}
	since := max(now.Sub(r.prevFrame), 0)
	scaled := r.prevFrame.Sub(r.start) + r.offset + time.Duration(float64(since)*r.timeScale)
	return max(scaled-r.simulated, 0)
}

package runner

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wavesim/internal/core"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// countingTicker records tick indices and can make each tick cost wall time.
type countingTicker struct {
	clock   *core.ManualClock
	cost    time.Duration
	indices []int64
}

func (c *countingTicker) SimulateTick(tick core.Tick) {
	c.indices = append(c.indices, tick.Index)
	if c.cost > 0 {
		c.clock.Advance(c.cost)
	}
}

func newTestRunner(t *testing.T, cfg Config) (*Runner, *core.ManualClock, *countingTicker) {
	t.Helper()
	clock := core.NewManualClock(t0)
	ticker := &countingTicker{clock: clock}
	r, err := New(cfg, ticker, clock, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	r.OnFrame(clock.Now())
	return r, clock, ticker
}

func frame(r *Runner, clock *core.ManualClock, d time.Duration) int {
	return r.OnFrame(clock.Advance(d))
}

func checkClock(t *testing.T, r *Runner) {
	t.Helper()
	if r.SimulatedTime() != time.Duration(r.TickCount())*r.DeltaTime() {
		t.Fatalf("simulated time %v != %d ticks * %v", r.SimulatedTime(), r.TickCount(), r.DeltaTime())
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"negative tick rate", func(c *Config) { c.TickRate = -60 }},
		{"nan tick rate", func(c *Config) { c.TickRate = math.NaN() }},
		{"sub-nanosecond tick", func(c *Config) { c.TickRate = 3e9 }},
		{"zero budget", func(c *Config) { c.MaxComputeSeconds = 0 }},
		{"zero catch-up", func(c *Config) { c.MaxCatchUpTicks = 0 }},
		{"negative time scale", func(c *Config) { c.TimeScale = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := New(cfg, TickerFunc(func(core.Tick) {}), nil, nil)
			if !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("New() error = %v, expected configuration error", err)
			}
		})
	}

	if _, err := New(DefaultConfig(), nil, nil, nil); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("New(nil ticker) error = %v, expected configuration error", err)
	}
}

func TestConfigure(t *testing.T) {
	clock := core.NewManualClock(t0)
	r, err := New(DefaultConfig(), TickerFunc(func(core.Tick) {}), clock, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := r.Configure(0, 0.02); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Configure(0, 0.02) error = %v, expected configuration error", err)
	}
	if err := r.Configure(3e9, 0.02); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Configure(3e9, 0.02) error = %v, expected configuration error", err)
	}
	if err := r.Configure(60, -1); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Configure(60, -1) error = %v, expected configuration error", err)
	}
	if err := r.Configure(60, 0.01); err != nil {
		t.Fatalf("Configure(60, 0.01) failed: %v", err)
	}
	if r.DeltaTime() != time.Second/60 {
		t.Errorf("DeltaTime() = %v, expected %v", r.DeltaTime(), time.Second/60)
	}
	if r.MaxCompute() != 10*time.Millisecond {
		t.Errorf("MaxCompute() = %v, expected 10ms", r.MaxCompute())
	}

	r.OnFrame(clock.Now())
	if err := r.Configure(120, 0.02); !errors.Is(err, ErrStarted) {
		t.Errorf("Configure() after start error = %v, expected ErrStarted", err)
	}
	if err := r.Start(clock.Now()); !errors.Is(err, ErrStarted) {
		t.Errorf("Start() twice error = %v, expected ErrStarted", err)
	}
}

func TestSetTimeScaleValidation(t *testing.T) {
	r, _, _ := newTestRunner(t, DefaultConfig())

	for _, v := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		if err := r.SetTimeScale(v); !errors.Is(err, core.ErrConfiguration) {
			t.Errorf("SetTimeScale(%v) error = %v, expected configuration error", v, err)
		}
	}
	if r.TimeScale() != 1 {
		t.Errorf("TimeScale() = %v, failed setters should not change it", r.TimeScale())
	}
	if err := r.SetMaxCatchUpTicks(0); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("SetMaxCatchUpTicks(0) error = %v, expected configuration error", err)
	}
}

func TestSimulatedTimeTracksWallClock(t *testing.T) {
	r, clock, ticker := newTestRunner(t, DefaultConfig())
	steps := []time.Duration{
		7 * time.Millisecond,
		16 * time.Millisecond,
		33 * time.Millisecond,
		50 * time.Millisecond,
		3 * time.Millisecond,
		16*time.Millisecond + 700*time.Microsecond,
	}

	for i := 0; i < 200; i++ {
		frame(r, clock, steps[i%len(steps)])
		checkClock(t, r)

		elapsed := clock.Now().Sub(t0)
		lag := elapsed - r.SimulatedTime()
		if lag < 0 || lag >= r.DeltaTime() {
			t.Fatalf("frame %d: elapsed %v, simulated %v, lag outside one tick", i, elapsed, r.SimulatedTime())
		}
		if r.Lag(clock.Now()) != lag {
			t.Fatalf("frame %d: Lag() = %v, expected %v", i, r.Lag(clock.Now()), lag)
		}
	}

	for i, idx := range ticker.indices {
		if idx != int64(i) {
			t.Fatalf("tick %d had index %d", i, idx)
		}
	}
	if got := int64(math.Round(r.SimulatedTime().Seconds() * r.TickRate())); got != r.TickCount() {
		t.Errorf("round(simulated/dt) = %d, TickCount() = %d", got, r.TickCount())
	}
}

func TestBudgetLimitsTicksPerFrame(t *testing.T) {
	r, clock, ticker := newTestRunner(t, DefaultConfig())
	ticker.cost = 5 * time.Millisecond

	ran := frame(r, clock, time.Second)

	// Checks happen at 0, 5, 10, 15 and 20 ms; the one at 25 ms stops the frame.
	if ran != 5 {
		t.Errorf("ran %d ticks, expected 5", ran)
	}
	stats := r.Stats()
	if stats.FrameCompute > r.MaxCompute()+ticker.cost {
		t.Errorf("frame took %v, more than one tick over the %v budget", stats.FrameCompute, r.MaxCompute())
	}
	if stats.Deferred != 115 {
		t.Errorf("Deferred = %d, expected 115", stats.Deferred)
	}
	checkClock(t, r)
}

func TestDeferredTicksCatchUpLater(t *testing.T) {
	r, clock, ticker := newTestRunner(t, DefaultConfig())
	ticker.cost = 5 * time.Millisecond
	frame(r, clock, time.Second)

	ticker.cost = 0
	ran := r.OnFrame(clock.Now())

	expected := int64(clock.Now().Sub(t0) / r.DeltaTime())
	if r.TickCount() != expected {
		t.Errorf("TickCount() = %d after catch-up frame (ran %d), expected %d", r.TickCount(), ran, expected)
	}
	if r.Stats().Deferred != 0 || r.Stats().Dropped != 0 {
		t.Errorf("stats = %+v, expected nothing deferred or dropped", r.Stats())
	}
}

func TestBacklogBeyondCeilingIsDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCatchUpTicks = 10
	r, clock, _ := newTestRunner(t, cfg)

	if ran := frame(r, clock, time.Second); ran != 10 {
		t.Errorf("ran %d ticks after a 1s stall, expected the ceiling of 10", ran)
	}
	if r.Stats().Dropped != 110 {
		t.Errorf("Dropped = %d, expected 110", r.Stats().Dropped)
	}

	// The dropped backlog is gone for good: the next frame only runs its own share.
	if ran := frame(r, clock, 50*time.Millisecond); ran != 6 {
		t.Errorf("ran %d ticks on a 50ms frame, expected 6", ran)
	}
	if r.Stats().Dropped != 110 {
		t.Errorf("Dropped = %d, expected still 110", r.Stats().Dropped)
	}
	checkClock(t, r)
}

func TestPauseAndResumeDoNotJump(t *testing.T) {
	r, clock, _ := newTestRunner(t, DefaultConfig())

	frame(r, clock, 500*time.Millisecond)
	if r.TickCount() != 60 {
		t.Fatalf("TickCount() = %d, expected 60", r.TickCount())
	}

	if err := r.SetTimeScale(0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if ran := frame(r, clock, 250*time.Millisecond); ran != 0 {
			t.Fatalf("ran %d ticks while paused", ran)
		}
	}

	if err := r.SetTimeScale(1); err != nil {
		t.Fatal(err)
	}
	if ran := frame(r, clock, 16*time.Millisecond); ran > 2 {
		t.Errorf("ran %d ticks right after resume, expected at most 2", ran)
	}
	frame(r, clock, 484*time.Millisecond)

	// 1.5s of wall time minus 1s paused.
	if r.TickCount() != 120 {
		t.Errorf("TickCount() = %d, expected 120", r.TickCount())
	}
	checkClock(t, r)
}

func TestTimeScale(t *testing.T) {
	tests := []struct {
		name     string
		scale    float64
		expected int64
	}{
		{"double speed", 2, 120},
		{"half speed", 0.5, 30},
		{"real time", 1, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, clock, _ := newTestRunner(t, DefaultConfig())
			if err := r.SetTimeScale(tc.scale); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 5; i++ {
				frame(r, clock, 100*time.Millisecond)
			}
			if r.TickCount() != tc.expected {
				t.Errorf("TickCount() = %d after 0.5s at x%v, expected %d", r.TickCount(), tc.scale, tc.expected)
			}
		})
	}
}

func TestBackwardsFrameTimeRunsNothing(t *testing.T) {
	r, clock, _ := newTestRunner(t, DefaultConfig())
	frame(r, clock, 100*time.Millisecond)

	if ran := r.OnFrame(t0.Add(50 * time.Millisecond)); ran != 0 {
		t.Errorf("ran %d ticks for a frame in the past", ran)
	}
	r.OnFrame(t0.Add(200 * time.Millisecond))
	if r.TickCount() != 24 {
		t.Errorf("TickCount() = %d, expected 24", r.TickCount())
	}
}

func TestTickerPanicIsContained(t *testing.T) {
	var logBuf bytes.Buffer
	clock := core.NewManualClock(t0)
	r, err := New(DefaultConfig(), TickerFunc(func(core.Tick) { panic("bad tick") }), clock, log.New(&logBuf))
	if err != nil {
		t.Fatal(err)
	}
	r.OnFrame(clock.Now())

	if ran := frame(r, clock, 25*time.Millisecond); ran != 3 {
		t.Errorf("ran %d ticks, expected 3", ran)
	}
	if r.Stats().TickPanics != 3 {
		t.Errorf("TickPanics = %d, expected 3", r.Stats().TickPanics)
	}
	if !strings.Contains(logBuf.String(), "simulation tick panicked") {
		t.Errorf("panic was not logged: %q", logBuf.String())
	}
}

func TestAdvanceUsesClock(t *testing.T) {
	r, clock, _ := newTestRunner(t, DefaultConfig())
	clock.Advance(100 * time.Millisecond)

	if ran := r.Advance(); ran != 12 {
		t.Errorf("Advance() ran %d ticks, expected 12", ran)
	}
}

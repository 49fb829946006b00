package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wavesim/internal/config"
	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/physics"
	"github.com/vovakirdan/wavesim/internal/runner"
	"github.com/vovakirdan/wavesim/internal/scenario"
	"github.com/vovakirdan/wavesim/internal/session"
)

var (
	flagFrames      int
	flagHeadlessFPS int
	flagJitter      time.Duration
	flagHeadlessLog string
	flagTrace       bool
	flagShowBalls   bool
)

var headlessCmd = &cobra.Command{
	Use:   "headless [scenario]",
	Short: "Run without a terminal and print a summary",
	Long: `Run a scenario for a fixed number of frames on a simulated clock and
print a summary. The same seed, config and frame pacing always give the same
fingerprint.

Examples:
  wavesim headless
  wavesim headless rain --frames 1200 --seed 7
  wavesim headless spray --jitter 5ms --balls
  wavesim headless tunnel --trace --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHeadlessCmd,
}

func init() {
	headlessCmd.Flags().IntVar(&flagFrames, "frames", 600, "Number of frames to render")
	headlessCmd.Flags().IntVar(&flagHeadlessFPS, "fps", 60, "Simulated render frames per second")
	headlessCmd.Flags().DurationVar(&flagJitter, "jitter", 0, "Random frame time jitter, e.g. 4ms")
	headlessCmd.Flags().StringVar(&flagHeadlessLog, "log-level", "warn", "Log level: debug, info, warn, error")
	headlessCmd.Flags().BoolVar(&flagTrace, "trace", false, "Log every tick at debug level")
	headlessCmd.Flags().BoolVar(&flagShowBalls, "balls", false, "Print the final state of every ball")
}

// headlessOptions controls one headless run.
type headlessOptions struct {
	Scenario string
	Seed     int64
	Frames   int
	FPS      int
	Jitter   time.Duration
	Trace    bool
}

// headlessReport is the outcome of a headless run.
type headlessReport struct {
	Options     headlessOptions
	Status      session.Status
	Balls       []physics.Snapshot
	Fingerprint uint64
	WallTime    time.Duration
	Hooks       []string
}

func runHeadlessCmd(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(os.Stderr, flagHeadlessLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := headlessOptions{
		Scenario: "drop",
		Seed:     flagSeed,
		Frames:   flagFrames,
		FPS:      flagHeadlessFPS,
		Jitter:   flagJitter,
		Trace:    flagTrace,
	}
	if len(args) > 0 {
		opts.Scenario = args[0]
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	rep, err := runHeadless(cfg, opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, rep, flagShowBalls)
}

// runHeadless renders opts.Frames frames on a manual clock.
func runHeadless(cfg config.Config, opts headlessOptions, logger *log.Logger) (headlessReport, error) {
	if !scenario.Exists(opts.Scenario) {
		return headlessReport{}, fmt.Errorf("unknown scenario %q", opts.Scenario)
	}
	if opts.Frames <= 0 || opts.FPS <= 0 {
		return headlessReport{}, fmt.Errorf("frames and fps must be positive")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := core.NewManualClock(start)
	sess, err := session.New(cfg, clock, logger)
	if err != nil {
		return headlessReport{}, err
	}
	if err := sess.Load(opts.Scenario, opts.Seed); err != nil {
		return headlessReport{}, err
	}

	if opts.Trace {
		sess.Runner().OnPostTick("trace", func(tick core.Tick) error {
			balls := sess.Balls()
			if len(balls) == 0 {
				logger.Debug("tick", "tick", tick.Index, "balls", 0)
				return nil
			}
			b := balls[0]
			logger.Debug("tick", "tick", tick.Index, "balls", len(balls),
				"y", b.Position.Y, "vy", b.Velocity.Y)
			return nil
		})
	}

	// Frame pacing gets its own stream so jitter does not change the scenario.
	pacing := rand.New(rand.NewSource(opts.Seed))
	interval := time.Second / time.Duration(opts.FPS)

	sess.Frame(clock.Now())
	for range opts.Frames {
		step := interval
		if opts.Jitter > 0 {
			step += time.Duration((pacing.Float64()*2 - 1) * float64(opts.Jitter))
			step = max(step, time.Millisecond)
		}
		sess.Frame(clock.Advance(step))
	}

	return headlessReport{
		Options:     opts,
		Status:      sess.Status(),
		Balls:       sess.Balls(),
		Fingerprint: sess.Fingerprint(),
		WallTime:    clock.Now().Sub(start),
		Hooks:       append(sess.Runner().Hooks(runner.StagePreTick), sess.Runner().Hooks(runner.StagePostTick)...),
	}, nil
}

func printReport(w io.Writer, rep headlessReport, showBalls bool) {
	st := rep.Status
	r := st.Runner

	summary := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("metric", "value").
		Row("scenario", st.Scenario).
		Row("seed", fmt.Sprintf("%d", st.Seed)).
		Row("frames", fmt.Sprintf("%d", r.Frames)).
		Row("wall time", rep.WallTime.String()).
		Row("ticks", fmt.Sprintf("%d", r.Ticks)).
		Row("simulated", r.SimulatedTime.String()).
		Row("deferred", fmt.Sprintf("%d", r.Deferred)).
		Row("dropped", fmt.Sprintf("%d", r.Dropped)).
		Row("lag", st.Lag.String()).
		Row("hooks", strings.Join(rep.Hooks, ", ")).
		Row("hook errors", fmt.Sprintf("%d", r.HookErrors)).
		Row("balls", fmt.Sprintf("%d live, %d fired, %d removed", st.Balls, st.Spawned, st.Removed)).
		Row("contacts", fmt.Sprintf("%d", st.Contacts)).
		Row("surface", st.Equation).
		Row("fingerprint", fmt.Sprintf("%016x", rep.Fingerprint))
	fmt.Fprintln(w, summary.String())

	if !showBalls || len(rep.Balls) == 0 {
		return
	}
	balls := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "x", "y", "z", "vx", "vy", "vz")
	for i, b := range rep.Balls {
		balls.Row(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", b.Position.X),
			fmt.Sprintf("%.3f", b.Position.Y),
			fmt.Sprintf("%.3f", b.Position.Z),
			fmt.Sprintf("%.3f", b.Velocity.X),
			fmt.Sprintf("%.3f", b.Velocity.Y),
			fmt.Sprintf("%.3f", b.Velocity.Z),
		)
	}
	fmt.Fprintln(w, balls.String())
}

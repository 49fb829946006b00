package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/platform/tui"
	"github.com/vovakirdan/wavesim/internal/scenario"
	"github.com/vovakirdan/wavesim/internal/session"
)

var (
	flagLogFile  string
	flagLogLevel string
	flagFPS      int
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Open the terminal viewer",
	Long: `Open the viewer on a scenario. Without a scenario a picker is shown.

Controls:
  Space      - Fire a ball from the launcher
  X          - Remove the oldest ball
  a/A f/F    - Air drag / friction up and down
  w/W t/T    - Wave speed / time scale up and down
  P/Esc      - Pause
  R          - Reload the scenario
  Ctrl+S     - Save a screenshot to ~/.wavesim/screenshots
  ?          - Show all keys
  Q/Ctrl+C   - Quit

Examples:
  wavesim run
  wavesim run spray --seed 42
  wavesim run rain --preset stormy --log-file wavesim.log`,
	Args: cobra.MaximumNArgs(1),
	Run:  runViewer,
}

func init() {
	runCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard)")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	runCmd.Flags().IntVar(&flagFPS, "fps", 60, "Render frames per second")
}

func runViewer(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Logs must not reach the alt screen.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		FrameFPS: flagFPS,
		Seed:     flagSeed,
	}
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	scenarioID := ""
	if len(args) > 0 {
		scenarioID = args[0]
		if !scenario.Exists(scenarioID) {
			fmt.Fprintf(os.Stderr, "Error: unknown scenario %q\n", scenarioID)
			fmt.Fprintln(os.Stderr, "Run 'wavesim scenarios' to see available scenarios.")
			os.Exit(1)
		}
	} else {
		scenarioID, rt, err = tui.RunMenu(rt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if scenarioID == "" {
			return
		}
	}

	sess, err := session.New(cfg, nil, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := sess.Load(scenarioID, rt.Seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("viewer starting", "scenario", scenarioID, "seed", rt.Seed, "preset", flagPreset,
		"tick_rate", cfg.Scheduler.TickRate, "fps", rt.FrameFPS)
	if err := tui.Run(sess, rt, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", err)
		os.Exit(1)
	}
}

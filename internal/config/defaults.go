package config

import (
	_ "embed"

	"github.com/vovakirdan/wavesim/internal/core"
)

//go:embed defaults/wavesim.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches the embedded YAML
// and is used when that cannot be parsed.
func Default() Config {
	return Config{
		Scheduler: SchedulerConfig{
			TickRate:          120,
			MaxComputeSeconds: 0.02,
			MaxCatchUpTicks:   240,
			TimeScale:         1,
		},
		World: WorldConfig{
			Gravity: core.V3(0, -9.806, 0),
		},
		Surface: SurfaceConfig{
			Kind: SurfaceWave,
		},
		Ball: BallConfig{
			Radius:                0.25,
			MaxPushBackForce:      10,
			BelowSurfacePushForce: 30,
			FireSpeed:             5,
			MaxBalls:              64,
			PushCurve: []core.Keyframe{
				{T: 0, V: 0},
				{T: 0.5, V: 0.8},
				{T: 1, V: 1},
			},
		},
		Launcher: LauncherConfig{
			Origin:    core.V3(5, 4, -2),
			Direction: core.V3(0, -0.4, 1),
			Spread:    0.15,
		},
		Controls: ControlsConfig{
			MaxAirDrag:      100,
			MaxFrictionDrag: 100,
			MaxWaveSpeed:    100,
			Step:            0.01,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}

package config

import (
	"math"

	"github.com/vovakirdan/wavesim/internal/core"
)

// Time scale slider layout: [0, 1] maps to the same scale, (1, 2] sweeps
// from 1x to MaxTimeScale, and anything within TimeScaleSnap of 1 sticks
// to real time.
const (
	TimeScaleSliderMax = 2.0
	MaxTimeScale       = 20.0
	TimeScaleSnap      = 0.1
)

// Sliders holds the normalized positions of the viewer's knobs.
type Sliders struct {
	AirDrag      float64 // [0, 1]
	FrictionDrag float64 // [0, 1]
	WaveSpeed    float64 // [0, 1]
	TimeScale    float64 // [0, 2]
}

// AirDrag maps a normalized slider value to an air drag coefficient.
func (c ControlsConfig) AirDrag(v float64) float64 {
	return c.MaxAirDrag * core.ClampF(v, 0, 1)
}

// FrictionDrag maps a normalized slider value to a friction coefficient.
func (c ControlsConfig) FrictionDrag(v float64) float64 {
	return c.MaxFrictionDrag * core.ClampF(v, 0, 1)
}

// WaveSpeed maps a normalized slider value to a wave propagation speed.
func (c ControlsConfig) WaveSpeed(v float64) float64 {
	return c.MaxWaveSpeed * core.ClampF(v, 0, 1)
}

// TimeScale maps a slider position in [0, 2] to a time scale. It also returns
// the slider position after snapping.
func (c ControlsConfig) TimeScale(v float64) (scale, slider float64) {
	v = core.ClampF(v, 0, TimeScaleSliderMax)
	if math.Abs(1-v) < TimeScaleSnap {
		v = 1
	}
	if v > 1 {
		return core.Lerp(1, MaxTimeScale, v-1), v
	}
	return v, v
}

// SlidersFor returns the slider positions that reproduce cfg's knobs.
func (c ControlsConfig) SlidersFor(cfg Config) Sliders {
	return Sliders{
		AirDrag:      core.ClampF(core.InverseLerp(0, c.MaxAirDrag, cfg.World.AirDrag), 0, 1),
		FrictionDrag: core.ClampF(core.InverseLerp(0, c.MaxFrictionDrag, cfg.World.FrictionDrag), 0, 1),
		WaveSpeed:    core.ClampF(core.InverseLerp(0, c.MaxWaveSpeed, cfg.Surface.WaveSpeed), 0, 1),
		TimeScale:    TimeScaleSlider(cfg.Scheduler.TimeScale),
	}
}

// TimeScaleSlider is the inverse of TimeScale for scales up to MaxTimeScale.
func TimeScaleSlider(scale float64) float64 {
	if scale <= 1 {
		return math.Max(scale, 0)
	}
	return 1 + core.ClampF(core.InverseLerp(1, MaxTimeScale, scale), 0, 1)
}

package surface

import (
	"fmt"
	"math"

	"github.com/vovakirdan/wavesim/internal/core"
)

// Wave centre and shape constants. These must stay identical to the shape
// drawn by the viewer.
const (
	WaveCenterX     = 5.0
	WaveCenterZ     = 5.0
	rippleAmplitude = 0.3
	rippleFrequency = 3.0
	swellAmplitude  = 0.5
)

// Wave is the travelling ripple surface
//
//	y = 0.3*sin(phase + 3*sqrt((x-5)^2 + (z-5)^2)) + 0.5*cos(x+z)
//
// The phase is only changed through AdvanceTime by the render driver.
type Wave struct {
	phase float64
}

// NewWave creates a wave with zero phase.
func NewWave() *Wave {
	return &Wave{}
}

// HeightAt evaluates the wave at (x, z) for the current phase.
func (w *Wave) HeightAt(x, z float64) float64 {
	return waveHeight(w.phase, x, z)
}

// NormalAt returns the unit surface normal at (x, z).
func (w *Wave) NormalAt(x, z float64) core.Vec3 {
	phase := w.phase
	return FiniteDifferenceNormal(func(x, z float64) float64 {
		return waveHeight(phase, x, z)
	}, x, z)
}

// AdvanceTime moves the ripple phase by speed * deltaSeconds. Called once per
// rendered frame, independent of the fixed simulation tick.
func (w *Wave) AdvanceTime(deltaSeconds, propagationSpeed float64) {
	w.phase += propagationSpeed * deltaSeconds
}

// Phase returns the accumulated ripple phase.
func (w *Wave) Phase() float64 {
	return w.phase
}

// Reset puts the phase back to zero.
func (w *Wave) Reset() {
	w.phase = 0
}

// Equation renders the surface formula with the current phase.
func (w *Wave) Equation() string {
	if math.Abs(w.phase) < 0.01 {
		return "Y = 0.3*SIN(3*SQRT((X-5)^2+(Z-5)^2)) + 0.5*COS(X+Z)"
	}
	return fmt.Sprintf("Y = 0.3*SIN(%.2f+3*SQRT((X-5)^2+(Z-5)^2)) + 0.5*COS(X+Z)", w.phase)
}

// HeightRange returns the lowest and highest values the wave can take.
func HeightRange() (lo, hi float64) {
	return -(rippleAmplitude + swellAmplitude), rippleAmplitude + swellAmplitude
}

func waveHeight(phase, x, z float64) float64 {
	dx := x - WaveCenterX
	dz := z - WaveCenterZ
	ripple := rippleAmplitude * math.Sin(phase+rippleFrequency*math.Sqrt(dx*dx+dz*dz))
	swell := swellAmplitude * math.Cos(x+z)
	return ripple + swell
}

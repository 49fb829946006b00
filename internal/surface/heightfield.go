// Package surface provides the analytic height fields balls collide with.
//
// The physics core only ever sees the read-only HeightField interface. The
// wave phase is owned by the render driver, which advances it once per
// rendered frame; physics ticks sample whatever phase is current. The
// collision surface always matches the surface on screen, and the outcome of
// a run depends on the render frame rate.
package surface

import (
	"github.com/vovakirdan/wavesim/internal/core"
)

// NormalDelta is the finite-difference step used for surface normals.
const NormalDelta = 1e-3

// HeightField maps a planar (x, z) coordinate to surface height and normal.
type HeightField interface {
	HeightAt(x, z float64) float64
	NormalAt(x, z float64) core.Vec3
}

// FiniteDifferenceNormal estimates the unit normal of height at (x, z) with
// central differences of step NormalDelta.
func FiniteDifferenceNormal(height func(x, z float64) float64, x, z float64) core.Vec3 {
	const d = NormalDelta
	fx := height(x+d, z) - height(x-d, z)
	fz := height(x, z+d) - height(x, z-d)
	return core.V3(-fx, 2*d, -fz).Normalize()
}

// Flat is a horizontal surface at a fixed level.
type Flat struct {
	Level float64
}

// HeightAt returns the flat level everywhere.
func (f Flat) HeightAt(_, _ float64) float64 {
	return f.Level
}

// NormalAt returns straight up.
func (f Flat) NormalAt(_, _ float64) core.Vec3 {
	return core.Up
}

// Func adapts a plain height function to a HeightField.
type Func func(x, z float64) float64

// HeightAt calls the function.
func (f Func) HeightAt(x, z float64) float64 {
	return f(x, z)
}

// NormalAt differentiates the function numerically.
func (f Func) NormalAt(x, z float64) core.Vec3 {
	return FiniteDifferenceNormal(f, x, z)
}

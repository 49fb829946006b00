package surface

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/wavesim/internal/core"
)

func TestWaveHeightMatchesFormula(t *testing.T) {
	w := NewWave()
	w.AdvanceTime(0.5, 2) // phase = 1

	tests := []struct {
		name string
		x, z float64
	}{
		{"centre", 5, 5},
		{"origin", 0, 0},
		{"off axis", 7.25, 3.5},
		{"negative", -2, -9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := math.Sqrt(math.Pow(tc.x-5, 2) + math.Pow(tc.z-5, 2))
			expected := 0.3*math.Sin(1+3*r) + 0.5*math.Cos(tc.x+tc.z)
			got := w.HeightAt(tc.x, tc.z)
			if math.Abs(got-expected) > 1e-12 {
				t.Errorf("HeightAt(%v, %v) = %v, expected %v", tc.x, tc.z, got, expected)
			}
		})
	}
}

func TestWaveHeightAtCentre(t *testing.T) {
	w := NewWave()
	// sin(0) = 0, cos(10)
	expected := 0.5 * math.Cos(10)
	if got := w.HeightAt(5, 5); math.Abs(got-expected) > 1e-12 {
		t.Errorf("HeightAt(5, 5) = %v, expected %v", got, expected)
	}
}

func TestWaveNormalIsUnitAndUpward(t *testing.T) {
	w := NewWave()
	for _, p := range [][2]float64{{0, 0}, {5, 5}, {2.3, 8.1}, {9.9, 0.4}} {
		n := w.NormalAt(p[0], p[1])
		if math.Abs(n.Len()-1) > 1e-12 {
			t.Errorf("NormalAt(%v) length = %v, expected 1", p, n.Len())
		}
		if n.Y <= 0 {
			t.Errorf("NormalAt(%v) = %+v, expected positive Y", p, n)
		}
	}
}

func TestWaveNormalMatchesGradient(t *testing.T) {
	w := NewWave()
	x, z := 3.0, 6.0

	// Analytic gradient of the wave at zero phase.
	r := math.Hypot(x-5, z-5)
	dr := 0.3 * math.Cos(3*r) * 3 / r
	dx := dr*(x-5) - 0.5*math.Sin(x+z)
	dz := dr*(z-5) - 0.5*math.Sin(x+z)
	expected := core.V3(-dx, 1, -dz).Normalize()

	got := w.NormalAt(x, z)
	if got.Sub(expected).Len() > 1e-5 {
		t.Errorf("NormalAt(%v, %v) = %+v, expected %+v", x, z, got, expected)
	}
}

func TestWaveAdvanceTime(t *testing.T) {
	w := NewWave()
	w.AdvanceTime(1.0/60, 30)
	w.AdvanceTime(1.0/60, 30)

	if math.Abs(w.Phase()-1) > 1e-12 {
		t.Errorf("Phase() = %v, expected 1", w.Phase())
	}

	before := w.HeightAt(4, 4)
	w.AdvanceTime(1, 0)
	if w.HeightAt(4, 4) != before {
		t.Error("zero propagation speed should not move the surface")
	}

	w.Reset()
	if w.Phase() != 0 {
		t.Errorf("Reset() left phase %v", w.Phase())
	}
}

func TestWaveEquation(t *testing.T) {
	w := NewWave()
	if !strings.Contains(w.Equation(), "SIN(3*SQRT") {
		t.Errorf("Equation() at zero phase = %q, expected phase omitted", w.Equation())
	}

	w.AdvanceTime(1, 1.5)
	if !strings.Contains(w.Equation(), "SIN(1.50+") {
		t.Errorf("Equation() = %q, expected phase 1.50", w.Equation())
	}
}

func TestFlatSurface(t *testing.T) {
	f := Flat{Level: 2}
	if f.HeightAt(-100, 42) != 2 {
		t.Errorf("HeightAt = %v, expected 2", f.HeightAt(-100, 42))
	}
	if f.NormalAt(1, 1) != core.Up {
		t.Errorf("NormalAt = %+v, expected up", f.NormalAt(1, 1))
	}
}

func TestFuncSurfaceSlope(t *testing.T) {
	// Plane rising along x at 45 degrees.
	slope := Func(func(x, _ float64) float64 { return x })
	n := slope.NormalAt(3, 3)

	expected := core.V3(-1, 1, 0).Normalize()
	if n.Sub(expected).Len() > 1e-9 {
		t.Errorf("NormalAt = %+v, expected %+v", n, expected)
	}
}

func TestHeightRangeBoundsWave(t *testing.T) {
	lo, hi := HeightRange()
	w := NewWave()
	for x := -5.0; x <= 15; x += 0.37 {
		for z := -5.0; z <= 15; z += 0.41 {
			h := w.HeightAt(x, z)
			if h < lo || h > hi {
				t.Fatalf("HeightAt(%v, %v) = %v outside [%v, %v]", x, z, h, lo, hi)
			}
		}
	}
}

package scenario

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/surface"
)

func init() {
	Register("drop", func() Scenario { return drop{} })
	Register("rain", func() Scenario { return rain{Rows: 5, Cols: 5} })
	Register("spray", func() Scenario { return spray{Count: 12} })
	Register("tunnel", func() Scenario { return tunnel{Speed: 40} })
	Register("empty", func() Scenario { return empty{} })
}

// drop releases one ball above the wave centre.
type drop struct{}

func (drop) ID() string          { return "drop" }
func (drop) Title() string       { return "Drop" }
func (drop) Description() string { return "one ball released from rest above the ripple centre" }

func (drop) Setup(sp *Spawner, _ *rand.Rand) error {
	_, err := sp.DropAt(surface.WaveCenterX, surface.WaveCenterZ, 3)
	return err
}

// rain drops a grid of balls from random heights.
type rain struct {
	Rows, Cols int
}

func (rain) ID() string          { return "rain" }
func (rain) Title() string       { return "Rain" }
func (rain) Description() string { return "a grid of balls falling from random heights" }

func (r rain) Setup(sp *Spawner, rng *rand.Rand) error {
	const lo, hi = 1.0, 9.0
	for i := range r.Rows {
		for j := range r.Cols {
			x := core.Lerp(lo, hi, (float64(j)+0.5)/float64(r.Cols))
			z := core.Lerp(lo, hi, (float64(i)+0.5)/float64(r.Rows))
			h := 2 + 2*rng.Float64()
			if _, err := sp.DropAt(x, z, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// spray fires a fan of balls across the surface.
type spray struct {
	Count int
}

func (spray) ID() string          { return "spray" }
func (spray) Title() string       { return "Spray" }
func (spray) Description() string { return "a fan of balls fired across the surface from one edge" }

func (s spray) Setup(sp *Spawner, rng *rand.Rand) error {
	origin := core.V3(surface.WaveCenterX, 2, -1)
	for i := range s.Count {
		angle := core.Lerp(-math.Pi/4, math.Pi/4, float64(i)/float64(max(s.Count-1, 1)))
		angle += (rng.Float64() - 0.5) * 0.1
		dir := core.V3(math.Sin(angle), 0.2, math.Cos(angle))
		if _, err := sp.Fire(origin, dir); err != nil {
			return err
		}
	}
	return nil
}

// tunnel fires a ball straight down fast enough to skip the collision plane.
type tunnel struct {
	Speed float64
}

func (tunnel) ID() string    { return "tunnel" }
func (tunnel) Title() string { return "Tunnel" }
func (tunnel) Description() string {
	return "a fast ball fired straight down to exercise the below-surface push"
}

func (t tunnel) Setup(sp *Spawner, _ *rand.Rand) error {
	_, err := sp.Launch(core.V3(3, 6, 7), core.V3(0, -t.Speed, 0))
	return err
}

// empty starts with no balls; use the launcher.
type empty struct{}

func (empty) ID() string                        { return "empty" }
func (empty) Title() string                     { return "Empty" }
func (empty) Description() string               { return "no balls, fire your own with the launcher" }
func (empty) Setup(*Spawner, *rand.Rand) error { return nil }

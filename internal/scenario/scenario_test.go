package scenario

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/wavesim/internal/config"
	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/physics"
	"github.com/vovakirdan/wavesim/internal/surface"
)

func newTestSpawner(t *testing.T) (*Spawner, *[]*physics.Ball) {
	t.Helper()
	tmpl, err := TemplateFromConfig(config.Default())
	if err != nil {
		t.Fatalf("TemplateFromConfig() failed: %v", err)
	}
	var balls []*physics.Ball
	return NewSpawner(tmpl, func(b *physics.Ball) { balls = append(balls, b) }), &balls
}

func TestBuiltinsAreRegistered(t *testing.T) {
	for _, id := range []string{"drop", "empty", "rain", "spray", "tunnel"} {
		if !Exists(id) {
			t.Errorf("scenario %q is not registered", id)
		}
	}

	list := List()
	ids := make([]string, len(list))
	for i, info := range list {
		ids[i] = info.ID
		if info.Title == "" || info.Description == "" {
			t.Errorf("scenario %q is missing metadata: %+v", info.ID, info)
		}
	}
	if !slices.IsSorted(ids) {
		t.Errorf("List() not sorted: %v", ids)
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("volcano"); err == nil {
		t.Error("Create(volcano) should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering an existing ID should panic")
		}
	}()
	Register("drop", func() Scenario { return drop{} })
}

func TestScenarioBallCounts(t *testing.T) {
	tests := []struct {
		id       string
		expected int
	}{
		{"drop", 1},
		{"rain", 25},
		{"spray", 12},
		{"tunnel", 1},
		{"empty", 0},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			sc, err := Create(tc.id)
			if err != nil {
				t.Fatal(err)
			}
			sp, balls := newTestSpawner(t)
			if err := sc.Setup(sp, rand.New(rand.NewSource(1))); err != nil {
				t.Fatalf("Setup() failed: %v", err)
			}
			if len(*balls) != tc.expected || sp.Spawned() != tc.expected {
				t.Errorf("spawned %d balls (counter %d), expected %d", len(*balls), sp.Spawned(), tc.expected)
			}
		})
	}
}

func TestRainIsSeeded(t *testing.T) {
	heights := func(seed int64) []float64 {
		sp, balls := newTestSpawner(t)
		sc, _ := Create("rain")
		if err := sc.Setup(sp, rand.New(rand.NewSource(seed))); err != nil {
			t.Fatal(err)
		}
		var out []float64
		for _, b := range *balls {
			out = append(out, b.Position().Y)
		}
		return out
	}

	a, b, c := heights(7), heights(7), heights(8)
	if !slices.Equal(a, b) {
		t.Error("same seed produced different heights")
	}
	if slices.Equal(a, c) {
		t.Error("different seeds produced identical heights")
	}
	for _, h := range a {
		if h < 2 || h > 4 {
			t.Errorf("rain height %v outside [2, 4]", h)
		}
	}
}

func TestSpawnerFire(t *testing.T) {
	sp, balls := newTestSpawner(t)

	b, err := sp.Fire(core.V3(1, 2, 3), core.V3(0, 0, 10))
	if err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if b.Position() != core.V3(1, 2, 3) {
		t.Errorf("position = %+v", b.Position())
	}
	if b.Velocity() != core.V3(0, 0, 5) {
		t.Errorf("velocity = %+v, expected fire speed 5 along +Z", b.Velocity())
	}
	if b.Radius() != 0.25 {
		t.Errorf("radius = %v, expected template radius", b.Radius())
	}
	if len(*balls) != 1 || (*balls)[0] != b {
		t.Error("fired ball was not handed to the owner")
	}

	if _, err := sp.Fire(core.Vec3{}, core.Vec3{}); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Fire() with zero direction error = %v, expected configuration error", err)
	}
}

func TestSpawnerDropAt(t *testing.T) {
	sp, _ := newTestSpawner(t)
	b, err := sp.DropAt(2, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	if b.Position() != core.V3(2, 4, 8) || b.Velocity() != (core.Vec3{}) {
		t.Errorf("DropAt() ball = %+v", b.Snapshot())
	}
}

func TestSpawnerNumbersBalls(t *testing.T) {
	sp, balls := newTestSpawner(t)
	for range 3 {
		if _, err := sp.DropAt(1, 1, 2); err != nil {
			t.Fatal(err)
		}
	}
	for i, b := range *balls {
		if want := fmt.Sprintf("ball#%d", i+1); b.String() != want {
			t.Errorf("ball %d is %q, expected %q", i, b.String(), want)
		}
	}
}

func TestSpawnerRejectsBadTemplate(t *testing.T) {
	called := false
	sp := NewSpawner(Template{Radius: 0, Curve: core.LinearCurve()}, func(*physics.Ball) { called = true })

	if _, err := sp.DropAt(0, 0, 1); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("DropAt() error = %v, expected configuration error", err)
	}
	if called || sp.Spawned() != 0 {
		t.Error("a failed spawn must not reach the owner")
	}
}

func TestTunnelBallRecovers(t *testing.T) {
	sp, balls := newTestSpawner(t)
	sc, _ := Create("tunnel")
	if err := sc.Setup(sp, rand.New(rand.NewSource(1))); err != nil {
		t.Fatal(err)
	}

	wave := surface.NewWave()
	sim, err := physics.NewSimulator(physics.DefaultConfig(), wave, nil)
	if err != nil {
		t.Fatal(err)
	}
	b := (*balls)[0]
	sim.Register(b)

	wentBelow, cameBack := false, false
	for i := int64(0); i < 720; i++ {
		sim.SimulateTick(core.Tick{Index: i, Time: time.Duration(i) * time.Second / 120, Delta: 1.0 / 120})
		p := b.Position()
		rel := p.Y - wave.HeightAt(p.X, p.Z)
		if rel < 0 {
			wentBelow = true
		} else if wentBelow {
			cameBack = true
			break
		}
		if math.IsNaN(rel) {
			t.Fatal("ball state became NaN")
		}
	}

	if !wentBelow {
		t.Fatal("tunnel ball never passed below the surface")
	}
	if !cameBack {
		t.Error("tunnel ball was not pushed back above the surface within 6s")
	}
}

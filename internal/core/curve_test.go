package core

import (
	"errors"
	"math"
	"testing"
)

func TestNewCurveValidation(t *testing.T) {
	tests := []struct {
		name string
		keys []Keyframe
	}{
		{"no keys", nil},
		{"t out of range", []Keyframe{{0, 0}, {1.5, 1}}},
		{"v out of range", []Keyframe{{0, -0.1}, {1, 1}}},
		{"decreasing", []Keyframe{{0, 0}, {0.5, 0.9}, {1, 0.4}}},
		{"nan", []Keyframe{{math.NaN(), 0}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCurve(tc.keys...); !errors.Is(err, ErrConfiguration) {
				t.Errorf("NewCurve() error = %v, expected configuration error", err)
			}
		})
	}
}

func TestCurveEvaluate(t *testing.T) {
	// Keys given out of order on purpose.
	c, err := NewCurve(Keyframe{1, 1}, Keyframe{0, 0}, Keyframe{0.5, 0.8})
	if err != nil {
		t.Fatalf("NewCurve() failed: %v", err)
	}

	tests := []struct {
		t, expected float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.4},
		{0.5, 0.8},
		{0.75, 0.9},
		{1, 1},
		{2, 1},
	}

	for _, tc := range tests {
		if got := c.Evaluate(tc.t); math.Abs(got-tc.expected) > 1e-12 {
			t.Errorf("Evaluate(%v) = %v, expected %v", tc.t, got, tc.expected)
		}
	}
}

func TestCurveIsMonotonic(t *testing.T) {
	c := MustCurve(Keyframe{0.1, 0.2}, Keyframe{0.4, 0.2}, Keyframe{0.6, 0.7}, Keyframe{0.9, 1})

	prev := c.Evaluate(0)
	for i := 1; i <= 1000; i++ {
		v := c.Evaluate(float64(i) / 1000)
		if v < prev {
			t.Fatalf("Evaluate decreased at t=%v: %v < %v", float64(i)/1000, v, prev)
		}
		if v < 0 || v > 1 {
			t.Fatalf("Evaluate(%v) = %v, outside [0, 1]", float64(i)/1000, v)
		}
		prev = v
	}
	if c.Evaluate(0) != 0.2 || c.Evaluate(1) != 1 {
		t.Errorf("ends = %v, %v; expected held first and last values", c.Evaluate(0), c.Evaluate(1))
	}
}

func TestCurveZeroValue(t *testing.T) {
	var c Curve
	if !c.IsZero() {
		t.Error("zero Curve should report IsZero")
	}
	if c.Evaluate(0.5) != 0 {
		t.Errorf("zero Curve Evaluate = %v, expected 0", c.Evaluate(0.5))
	}

	lin := LinearCurve()
	keys := lin.Keys()
	keys[0].V = 1 // must not leak into the curve
	if lin.Evaluate(0) != 0 {
		t.Error("Keys() returned the curve's own storage")
	}
}

func TestMustCurvePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCurve with no keys should panic")
		}
	}()
	MustCurve()
}

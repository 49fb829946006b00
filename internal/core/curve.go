package core

import (
	"fmt"
	"sort"
)

// Keyframe is one control point of a Curve.
type Keyframe struct {
	T float64 `yaml:"t"` // Input in [0, 1]
	V float64 `yaml:"v"` // Output in [0, 1]
}

// Curve is a monotonic piecewise-linear mapping from [0, 1] to [0, 1].
// Inputs outside the domain are clamped; before the first key the first
// value holds, after the last key the last value holds.
type Curve struct {
	keys []Keyframe
}

// NewCurve validates and sorts the keys. At least one key is required, every
// key must lie in the unit square, and values must not decrease as T grows.
func NewCurve(keys ...Keyframe) (Curve, error) {
	if len(keys) == 0 {
		return Curve{}, NewConfigError("curve", 0, "needs at least one keyframe")
	}

	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })

	for i, k := range sorted {
		if !isFinite(k.T) || k.T < 0 || k.T > 1 {
			return Curve{}, NewConfigError(fmt.Sprintf("curve[%d].t", i), k.T, "must be in [0, 1]")
		}
		if !isFinite(k.V) || k.V < 0 || k.V > 1 {
			return Curve{}, NewConfigError(fmt.Sprintf("curve[%d].v", i), k.V, "must be in [0, 1]")
		}
		if i > 0 && k.V < sorted[i-1].V {
			return Curve{}, NewConfigError(fmt.Sprintf("curve[%d].v", i), k.V, "curve must be monotonic")
		}
	}

	return Curve{keys: sorted}, nil
}

// MustCurve is NewCurve for static tables; it panics on invalid keys.
func MustCurve(keys ...Keyframe) Curve {
	c, err := NewCurve(keys...)
	if err != nil {
		panic(err)
	}
	return c
}

// LinearCurve maps t to t.
func LinearCurve() Curve {
	return MustCurve(Keyframe{0, 0}, Keyframe{1, 1})
}

// IsZero reports whether the curve has no keys (the zero value).
func (c Curve) IsZero() bool {
	return len(c.keys) == 0
}

// Keys returns a copy of the control points.
func (c Curve) Keys() []Keyframe {
	out := make([]Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

// Evaluate returns the curve value at t.
func (c Curve) Evaluate(t float64) float64 {
	if len(c.keys) == 0 {
		return 0
	}
	t = ClampF(t, 0, 1)

	first, last := c.keys[0], c.keys[len(c.keys)-1]
	if t <= first.T {
		return first.V
	}
	if t >= last.T {
		return last.V
	}

	// First key strictly past t; keys[i-1].T <= t < keys[i].T.
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].T > t })
	a, b := c.keys[i-1], c.keys[i]
	span := b.T - a.T
	if span == 0 {
		return b.V
	}
	return Lerp(a.V, b.V, (t-a.T)/span)
}

package physics

import (
	"errors"
	"math"

	"github.com/vovakirdan/wavesim/internal/core"
)

var errNotAttached = errors.New("physics: body is not attached to a simulator")

// resolveCollision handles contact with the surface under the ball. It must
// run before pending is folded into velocity.
//
// The surface is approximated by the tangent plane at the point directly
// below the ball. The ball only gets pushed while it moves toward that
// plane, which keeps rolling smooth at the cost of some bounce accuracy.
func (b *Ball) resolveCollision(dt float64) {
	hf := b.env.Surface()
	surfaceY := hf.HeightAt(b.position.X, b.position.Z)
	normal := hf.NormalAt(b.position.X, b.position.Z)
	point := core.V3(b.position.X, surfaceY, b.position.Z)

	plane := core.PlaneFromPoint(normal, point)
	distance := plane.SignedDistance(b.position)

	penetration := b.radius - math.Abs(distance)
	normalized := penetration / b.radius
	movingToward := plane.Normal.Dot(b.velocity) < 0

	if penetration > 0 && movingToward {
		scale := b.curve.Evaluate(normalized)
		b.pending = b.pending.Add(plane.Normal.Scale(scale * b.maxPush * dt))

		// Friction only slows the motion along the surface.
		normalPart, tangentPart := b.velocity.Decompose(plane.Normal)
		tangentPart = tangentPart.Div(1 + b.env.FrictionDrag()*scale*dt)
		b.velocity = normalPart.Add(tangentPart)

		if b.onContact != nil {
			b.onContact(Contact{
				Point:       point,
				Normal:      plane.Normal,
				Penetration: normalized,
				PushScale:   scale,
				Time:        b.env.Tick().Time,
			})
		}
	}

	// A fast ball can pass the thin plane within one tick; lift it back.
	if b.position.Y-surfaceY < 0 {
		b.pending = b.pending.Add(core.V3(0, b.belowPush, 0).Scale(dt))
	}
}

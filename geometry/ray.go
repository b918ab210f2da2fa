package geometry

import "math"

// Ray is a world-space ray: a point travelling along a unit direction.
// InvDirection is precomputed once so traversal can avoid per-node
// divisions; per §3 of the data model, zero components are replaced with
// +Inf so that the slab test in Box.IntersectRay stays sign-independent of the original
// (zero) direction component.
type Ray struct {
	Origin       Point
	Direction    Vector
	InvDirection Vector
}

// NewRay builds a ray from an origin and a (not necessarily normalized)
// direction, normalizing the direction and precomputing InvDirection.
func NewRay(origin Point, direction Vector) Ray {
	d := direction.Normalize()
	return Ray{
		Origin:       origin,
		Direction:    d,
		InvDirection: Vector{invOrInf(d.X), invOrInf(d.Y), invOrInf(d.Z)},
	}
}

func invOrInf(c float32) float32 {
	if c == 0 {
		return float32(math.Inf(1))
	}
	return 1 / c
}

// AdvanceBy returns a new ray, starting at the point t units along this
// ray's direction, keeping the same direction.
func (r Ray) AdvanceBy(t float32) Ray {
	return Ray{Origin: r.PointAt(t), Direction: r.Direction, InvDirection: r.InvDirection}
}

// PointAt evaluates the ray's position at parameter t.
func (r Ray) PointAt(t float32) Point {
	return r.Origin.Add(r.Direction.Scale(t))
}

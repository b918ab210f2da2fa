package geometry

import "math"

// Box is a world-space axis-aligned bounding box. The zero value is not a
// valid empty box; use EmptyBox.
type Box struct {
	Min, Max Point
}

// EmptyBox returns the box satisfying Box.IsEmpty: Min = +Inf, Max = -Inf
// componentwise, so that it unions correctly with any real box or point.
func EmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: Point{inf, inf, inf},
		Max: Point{-inf, -inf, -inf},
	}
}

// NewBox builds a box from two corners, taking the componentwise min/max so
// the result always satisfies the Min <= Max invariant.
func NewBox(a, b Point) Box {
	return Box{Min: Min(a, b), Max: Max(a, b)}
}

// IsEmpty reports whether the box contains no points, i.e. some component
// of Min exceeds the corresponding component of Max.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns Max - Min componentwise.
func (b Box) Size() Vector { return b.Max.Sub(b.Min) }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return PointFromVector(b.Min.AsVector().Add(b.Max.AsVector()).Scale(0.5))
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{Min: Min(b.Min, o.Min), Max: Max(b.Max, o.Max)}
}

// ExtendPoint returns the smallest box containing b and p.
func (b Box) ExtendPoint(p Point) Box {
	return Box{Min: Min(b.Min, p), Max: Max(b.Max, p)}
}

// Contains reports whether p lies within the box (inclusive of the faces).
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// SurfaceArea returns the box's surface area, used by the SAH builder cost
// model. An empty or degenerate box has zero area.
func (b Box) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return 0
	}
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

// BoxFromPoints computes the bounding box of a non-empty slice of points.
// The second return is false for an empty slice, mirroring the Rust
// original's Option<WorldBox>.
func BoxFromPoints(points []Point) (Box, bool) {
	if len(points) == 0 {
		return Box{}, false
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.ExtendPoint(p)
	}
	return b, true
}

// Clamp returns p with each component clamped to within the box.
func (b Box) Clamp(p Point) Point {
	clamp := func(v, lo, hi float32) float32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return Point{
		X: clamp(p.X, b.Min.X, b.Max.X),
		Y: clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// IntersectRay returns the ray parameters at which it enters and exits the
// box (min_t <= max_t iff the ray hits). NaNs produced when the ray runs
// parallel to and within a slab are treated as +-Inf so the corresponding
// axis imposes no constraint, matching §4.4's slab test.
func (b Box) IntersectRay(r Ray) (float32, float32) {
	tLow := componentMulNaNToNegInf(b.Min.Sub(r.Origin), r.InvDirection)
	tHigh := componentMulNaNToPosInf(b.Max.Sub(r.Origin), r.InvDirection)

	min1, max1 := orderedMinMax(tLow.X, tHigh.X)
	min2, max2 := orderedMinMax(tLow.Y, tHigh.Y)
	min3, max3 := orderedMinMax(tLow.Z, tHigh.Z)

	minT := fastMax(min1, fastMax(min2, min3))
	maxT := fastMin(max1, fastMin(max2, max3))
	return minT, maxT
}

func componentMulNaNToNegInf(d, invDir Vector) Vector {
	return Vector{
		X: nanTo(d.X*invDir.X, float32(math.Inf(-1))),
		Y: nanTo(d.Y*invDir.Y, float32(math.Inf(-1))),
		Z: nanTo(d.Z*invDir.Z, float32(math.Inf(-1))),
	}
}

func componentMulNaNToPosInf(d, invDir Vector) Vector {
	return Vector{
		X: nanTo(d.X*invDir.X, float32(math.Inf(1))),
		Y: nanTo(d.Y*invDir.Y, float32(math.Inf(1))),
		Z: nanTo(d.Z*invDir.Z, float32(math.Inf(1))),
	}
}

func nanTo(v, replacement float32) float32 {
	if v != v { // NaN
		return replacement
	}
	return v
}

func orderedMinMax(a, b float32) (float32, float32) {
	if a <= b {
		return a, b
	}
	return b, a
}

// fastMin and fastMax disregard a NaN first operand and pass a NaN second
// operand through (neither slab test input nor the t1/t2 values can be NaN
// at this point, per nanTo above; these mirror the reduction the
// compressed, SIMD box test uses).
func fastMin(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fastMax(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

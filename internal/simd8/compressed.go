package simd8

import "math"

// maxU16 is the quantization ceiling; decode divides by this value.
const maxU16 = 65535

// RoundMode selects how a value in [0,1] is mapped onto the discrete u16
// range during compression, per §4.1's encoding contract.
type RoundMode int

const (
	RoundNearest RoundMode = iota
	RoundFloor
	RoundCeil
)

func (m RoundMode) apply(v float32) float32 {
	switch m {
	case RoundFloor:
		return float32(math.Floor(float64(v)))
	case RoundCeil:
		return float32(math.Ceil(float64(v)))
	default:
		return float32(math.Round(float64(v)))
	}
}

// UnitInterval8 packs 8 values in [0,1], each quantized to a u16.
type UnitInterval8 U16x8

// EncodeUnitInterval8 quantizes 8 values already expressed relative to an
// enclosing range (i.e. r = (p - E.min) / E.size, caller-computed) using the
// given rounding mode. Inputs must lie in [-eps, 1+eps]; they are clamped to
// [0,1] before quantization, per §4.1. Masked-out lanes must be passed as 0
// by the caller so they encode to the enclosing minimum (the leaf-padding
// sentinel).
func EncodeUnitInterval8(r F32x8, mode RoundMode) UnitInterval8 {
	var u UnitInterval8
	for i, v := range r {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		u[i] = uint16(mode.apply(v * maxU16))
	}
	return u
}

// Decode returns the 8 lanes as floats in [0,1].
func (u UnitInterval8) Decode() F32x8 {
	var r F32x8
	for i, v := range u {
		r[i] = float32(v) / maxU16
	}
	return r
}

// IsZero reports, per lane, whether the stored value is the exact-zero
// sentinel used by leaf padding (§3: "is_zero marks the exact-zero lane").
func (u UnitInterval8) IsZero() Mask8 {
	var m Mask8
	for i, v := range u {
		m[i] = v == 0
	}
	return m
}

// EnclosingBox is the (min, size) frame of reference every compressed type
// is quantized against. Size must be strictly positive in every component.
type EnclosingBox struct {
	Min, Size [3]float32
}

// RelativePoint8 packs 8 points (x,y,z), each axis quantized independently.
type RelativePoint8 struct {
	X, Y, Z UnitInterval8
}

// EncodeRelativePoint8 compresses 8 world points relative to e, quantizing
// with mode.
func EncodeRelativePoint8(xs, ys, zs F32x8, e EnclosingBox, mode RoundMode) RelativePoint8 {
	return RelativePoint8{
		X: EncodeUnitInterval8(relativeCoord(xs, e.Min[0], e.Size[0]), mode),
		Y: EncodeUnitInterval8(relativeCoord(ys, e.Min[1], e.Size[1]), mode),
		Z: EncodeUnitInterval8(relativeCoord(zs, e.Min[2], e.Size[2]), mode),
	}
}

func relativeCoord(vs F32x8, min, size float32) F32x8 {
	var r F32x8
	for i, v := range vs {
		r[i] = (v - min) / size
	}
	return r
}

// Decode returns the 8 world-space (x,y,z) packs, undoing relativeCoord via
// a fused-multiply-add-shaped expression: min + decode(u)*size.
func (p RelativePoint8) Decode(e EnclosingBox) (xs, ys, zs F32x8) {
	dx, dy, dz := p.X.Decode(), p.Y.Decode(), p.Z.Decode()
	for i := range xs {
		xs[i] = e.Min[0] + dx[i]*e.Size[0]
		ys[i] = e.Min[1] + dy[i]*e.Size[1]
		zs[i] = e.Min[2] + dz[i]*e.Size[2]
	}
	return xs, ys, zs
}

// RelativeBox8 packs 8 boxes' min and max corners. Compression is
// conservative: Min is quantized with floor, Max with ceil, so that
// decode(compress(b)) always contains b (§4.1's box-compression property).
type RelativeBox8 struct {
	Min, Max RelativePoint8
}

// EncodeRelativeBox8Conservative compresses 8 boxes (minXs,minYs,minZs) /
// (maxXs,maxYs,maxZs) relative to e, using floor for Min and ceil for Max.
func EncodeRelativeBox8Conservative(minXs, minYs, minZs, maxXs, maxYs, maxZs F32x8, e EnclosingBox) RelativeBox8 {
	return RelativeBox8{
		Min: EncodeRelativePoint8(minXs, minYs, minZs, e, RoundFloor),
		Max: EncodeRelativePoint8(maxXs, maxYs, maxZs, e, RoundCeil),
	}
}

// Decode returns the 8 boxes' min and max corners in world space.
func (b RelativeBox8) Decode(e EnclosingBox) (minXs, minYs, minZs, maxXs, maxYs, maxZs F32x8) {
	minXs, minYs, minZs = b.Min.Decode(e)
	maxXs, maxYs, maxZs = b.Max.Decode(e)
	return
}

// RelativeTriangle8 packs 8 triangles' three vertices, quantized to nearest.
type RelativeTriangle8 struct {
	V0, V1, V2 RelativePoint8
}

// EncodeRelativeTriangle8 compresses 8 triangles' vertex positions relative
// to e, quantizing each coordinate to the nearest representable value.
func EncodeRelativeTriangle8(
	v0x, v0y, v0z,
	v1x, v1y, v1z,
	v2x, v2y, v2z F32x8,
	e EnclosingBox,
) RelativeTriangle8 {
	return RelativeTriangle8{
		V0: EncodeRelativePoint8(v0x, v0y, v0z, e, RoundNearest),
		V1: EncodeRelativePoint8(v1x, v1y, v1z, e, RoundNearest),
		V2: EncodeRelativePoint8(v2x, v2y, v2z, e, RoundNearest),
	}
}

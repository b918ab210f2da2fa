// Package simd8 provides fixed 8-lane SIMD pack types used throughout the
// BVH hot path: compressed geometry, node links, and ray/box/triangle
// intersection all operate on exactly 8 lanes regardless of the host's
// native vector width. Bulk, alignment-free numeric work (tile accumulation)
// instead uses github.com/ajroetker/go-highway/hwy, whose width follows the
// host; that tradeoff is intentional, see DESIGN.md.
//
// Functions on the traversal hot path that benefit from a CPU-specific
// implementation are assigned through function variables set up in init(),
// mirroring the dispatch-table pattern used for the numeric kernels this
// package is modeled on: a portable Go implementation is the default, and an
// architecture-specific file (loaded later in the build, by filename) can
// override the variable with a faster implementation gated on a runtime CPU
// feature probe.
package simd8

// Lanes is the fixed pack width used by every compressed geometry and BVH
// type. It is a named constant, not an inferred array length, so call sites
// document the invariant instead of hardcoding 8.
const Lanes = 8

// F32x8 holds 8 independent float32 lanes.
type F32x8 [Lanes]float32

// U16x8 holds 8 independent uint16 lanes (the storage type for UnitInterval8).
type U16x8 [Lanes]uint16

// U32x8 holds 8 independent uint32 lanes.
type U32x8 [Lanes]uint32

// Mask8 holds one boolean per lane.
type Mask8 [Lanes]bool

// SplatF32x8 returns a pack with every lane set to v.
func SplatF32x8(v float32) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = v
	}
	return r
}

// Add returns the lanewise sum of a and b.
func (a F32x8) Add(b F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

// Sub returns the lanewise difference a - b.
func (a F32x8) Sub(b F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return r
}

// Mul returns the lanewise product of a and b.
func (a F32x8) Mul(b F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = a[i] * b[i]
	}
	return r
}

// reduceMaxFn and reduceMinFn are the dispatch points for the pairwise
// cross-axis t1/t2 reduction on the traversal hot path (spec §4.4): given
// three lanewise packs (one per box axis), return their lanewise max or min.
// The portable implementation below is always correct; an AVX2-specific
// override may replace these in init() on amd64 hosts that have the feature.
var (
	reduceMaxFn = reduceMax3Portable
	reduceMinFn = reduceMin3Portable
)

// ReduceMax3 returns the lanewise maximum of three packs.
func ReduceMax3(a, b, c F32x8) F32x8 { return reduceMaxFn(a, b, c) }

// ReduceMin3 returns the lanewise minimum of three packs.
func ReduceMin3(a, b, c F32x8) F32x8 { return reduceMinFn(a, b, c) }

func reduceMax3Portable(a, b, c F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = fastMax(a[i], fastMax(b[i], c[i]))
	}
	return r
}

func reduceMin3Portable(a, b, c F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = fastMin(a[i], fastMin(b[i], c[i]))
	}
	return r
}

// fastMin and fastMax ignore a NaN first operand (the other operand is
// returned) but pass a NaN second operand through, matching the Rust
// original's simba fast_min/fast_max used on the slab-test reduction. The
// traversal replaces NaN lanes with infinities before reducing.
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

// LessEqual returns a mask of a[i] <= b[i].
func (a F32x8) LessEqual(b F32x8) Mask8 {
	var m Mask8
	for i := range m {
		m[i] = a[i] <= b[i]
	}
	return m
}

// GreaterEqual returns a mask of a[i] >= b[i].
func (a F32x8) GreaterEqual(b F32x8) Mask8 {
	var m Mask8
	for i := range m {
		m[i] = a[i] >= b[i]
	}
	return m
}

// Select returns, lanewise, a[i] where m[i] is true and b[i] otherwise.
func (m Mask8) Select(a, b F32x8) F32x8 {
	var r F32x8
	for i := range r {
		if m[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// And returns the lanewise logical AND of two masks.
func (m Mask8) And(o Mask8) Mask8 {
	var r Mask8
	for i := range r {
		r[i] = m[i] && o[i]
	}
	return r
}

// Any reports whether at least one lane is true.
func (m Mask8) Any() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// Bits packs the mask into the low 8 bits of a uint8, lane i at bit i. This
// is the "8-bit bitmask" §9 Design Notes requires traversal mask arithmetic
// to be reducible to, regardless of host vector width.
func (m Mask8) Bits() uint8 {
	var bits uint8
	for i, v := range m {
		if v {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

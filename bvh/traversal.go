package bvh

import (
	"math"

	"github.com/nanoray/pathtrace/geometry"
	"github.com/nanoray/pathtrace/internal/simd8"
)

// Intersect finds the nearest hit of ray against bvh, using stack as
// scratch space (reused across calls by the caller). It is infallible: a
// malformed BVH is a build-time bug, not a runtime error (§4.4, §7).
func Intersect(bvh *BVH, ray geometry.Ray, stack *Stack) (geometry.HitRecord, bool) {
	stack.Reset()

	best := hitState{t: float32(math.Inf(1))}

	if bvh.Root == Null {
		return geometry.HitRecord{}, false
	}

	stack.push(stackEntry{link: bvh.Root, enclosing: bvh.BoundingBox, tNear: float32(math.Inf(-1))})

	for {
		entry, ok := stack.pop()
		if !ok {
			break
		}
		if entry.tNear > best.t {
			continue
		}

		switch {
		case entry.link.IsNull():
			continue
		case entry.link.IsInner():
			visitInner(bvh, entry, ray, &best, stack)
		case entry.link.IsLeaf():
			visitLeaf(bvh, entry, ray, &best)
		}
	}

	if math.IsInf(float64(best.t), 1) {
		return geometry.HitRecord{}, false
	}
	return assembleHit(bvh, ray, best), true
}

// hitState accumulates the closest-so-far intersection across the
// traversal loop.
type hitState struct {
	t           float32
	u, v        float32
	geomNormal  geometry.Vector
	triangleIdx TriangleIdx
	found       bool
}

func visitInner(bvh *BVH, entry stackEntry, ray geometry.Ray, best *hitState, stack *Stack) {
	_, index, _ := entry.link.Decode()
	node := bvh.InnerNodes.Get(InnerNodeIdx(index))
	e := enclosingBox(entry.enclosing)

	minXs, minYs, minZs, maxXs, maxYs, maxZs := node.ChildBounds.Decode(e)

	originX := simd8.SplatF32x8(ray.Origin.X)
	originY := simd8.SplatF32x8(ray.Origin.Y)
	originZ := simd8.SplatF32x8(ray.Origin.Z)
	invX := simd8.SplatF32x8(ray.InvDirection.X)
	invY := simd8.SplatF32x8(ray.InvDirection.Y)
	invZ := simd8.SplatF32x8(ray.InvDirection.Z)

	tLowX := nanToInf(minXs.Sub(originX).Mul(invX), math.Inf(-1))
	tLowY := nanToInf(minYs.Sub(originY).Mul(invY), math.Inf(-1))
	tLowZ := nanToInf(minZs.Sub(originZ).Mul(invZ), math.Inf(-1))
	tHighX := nanToInf(maxXs.Sub(originX).Mul(invX), math.Inf(1))
	tHighY := nanToInf(maxYs.Sub(originY).Mul(invY), math.Inf(1))
	tHighZ := nanToInf(maxZs.Sub(originZ).Mul(invZ), math.Inf(1))

	minX, maxX := orderedMinMax8(tLowX, tHighX)
	minY, maxY := orderedMinMax8(tLowY, tHighY)
	minZ, maxZ := orderedMinMax8(tLowZ, tHighZ)

	t1 := simd8.ReduceMax3(minX, minY, minZ)
	t2 := simd8.ReduceMin3(maxX, maxY, maxZ)

	bestSplat := simd8.SplatF32x8(best.t)
	zero := simd8.SplatF32x8(0)
	t1Clamped := zero.LessEqual(t1).Select(t1, zero)
	t2Clamped := t2.LessEqual(bestSplat).Select(t2, bestSplat)

	hitMask := t1Clamped.LessEqual(t2Clamped)

	// Collect hitting lanes sorted by descending t1. Leaf children are
	// intersected right away; inner children are pushed in that order so the
	// closest one is popped first (§4.4 step 4).
	type hitChild struct {
		lane int
		t1   float32
	}
	var hits []hitChild
	for lane := 0; lane < simd8.Lanes; lane++ {
		if hitMask[lane] {
			hits = append(hits, hitChild{lane: lane, t1: t1Clamped[lane]})
		}
	}
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			if hits[j].t1 > hits[i].t1 {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
	}

	for _, h := range hits {
		link := node.ChildLinks[h.lane]
		if link == Null {
			continue
		}
		childBox := geometry.Box{
			Min: geometry.NewPoint(minXs[h.lane], minYs[h.lane], minZs[h.lane]),
			Max: geometry.NewPoint(maxXs[h.lane], maxYs[h.lane], maxZs[h.lane]),
		}
		child := stackEntry{link: link, enclosing: childBox, tNear: t1Clamped[h.lane]}
		if link.IsLeaf() {
			visitLeaf(bvh, child, ray, best)
			continue
		}
		stack.push(child)
	}
}

func visitLeaf(bvh *BVH, entry stackEntry, ray geometry.Ray, best *hitState) {
	_, first, count := entry.link.Decode()
	e := enclosingBox(entry.enclosing)

	for p := 0; p < count; p++ {
		packIdx := TrianglePackIdx(first) + TrianglePackIdx(p)
		pack := bvh.TrianglePacks.Get(packIdx)
		v0x, v0y, v0z := pack.V0.Decode(e)
		v1x, v1y, v1z := pack.V1.Decode(e)
		v2x, v2y, v2z := pack.V2.Decode(e)

		for lane := 0; lane < simd8.Lanes; lane++ {
			v0 := geometry.NewPoint(v0x[lane], v0y[lane], v0z[lane])
			v1 := geometry.NewPoint(v1x[lane], v1y[lane], v1z[lane])
			v2 := geometry.NewPoint(v2x[lane], v2y[lane], v2z[lane])

			e1 := v1.Sub(v0)
			e2 := v2.Sub(v0)
			h := ray.Direction.Cross(e2)
			det := e1.Dot(h)
			if det == 0 {
				continue
			}
			invDet := 1 / det

			s := ray.Origin.Sub(v0)
			u := invDet * s.Dot(h)
			if u < 0 || u > 1 {
				continue
			}

			q := s.Cross(e1)
			v := invDet * ray.Direction.Dot(q)
			if v < 0 || u+v > 1 {
				continue
			}

			t := invDet * e2.Dot(q)
			if t < 0 || t > best.t {
				continue
			}

			triIdx := TriangleIdx(uint32(packIdx)*simd8.Lanes + uint32(lane))

			best.t = t
			best.u = u
			best.v = v
			best.geomNormal = e1.Cross(e2)
			best.triangleIdx = triIdx
			best.found = true
		}
	}
}

func assembleHit(bvh *BVH, ray geometry.Ray, best hitState) geometry.HitRecord {
	shading := bvh.TriangleShading.Get(best.triangleIdx)
	bc := geometry.BarycentricCoordinates{U: best.u, V: best.v}

	var normal geometry.Vector
	if shading.FlatShading {
		normal = best.geomNormal.Normalize()
	} else {
		n0 := bvh.VertexShading.Get(shading.VertexIndices[0]).Normal
		n1 := bvh.VertexShading.Get(shading.VertexIndices[1]).Normal
		n2 := bvh.VertexShading.Get(shading.VertexIndices[2]).Normal
		normal = bc.InterpolateVector(n0, n1, n2).Normalize()
	}

	t0 := bvh.VertexShading.Get(shading.VertexIndices[0]).TextureCoords
	t1 := bvh.VertexShading.Get(shading.VertexIndices[1]).TextureCoords
	t2 := bvh.VertexShading.Get(shading.VertexIndices[2]).TextureCoords
	texCoords := bc.InterpolateTexture(t0, t1, t2)

	return geometry.HitRecord{
		T:             best.t,
		Point:         ray.PointAt(best.t),
		UnitNormal:    normal,
		Material:      uint32(shading.Material),
		TextureCoords: texCoords,
	}
}

// nanToInf replaces NaN lanes (produced when a ray is parallel to and on a
// slab) with +-Inf, per §4.4.
func nanToInf(v simd8.F32x8, replacement float64) simd8.F32x8 {
	r := float32(replacement)
	var out simd8.F32x8
	for i, x := range v {
		if x != x {
			out[i] = r
		} else {
			out[i] = x
		}
	}
	return out
}

// orderedMinMax8 returns, lanewise, (min(a,b), max(a,b)).
func orderedMinMax8(a, b simd8.F32x8) (simd8.F32x8, simd8.F32x8) {
	var lo, hi simd8.F32x8
	for i := range a {
		if a[i] <= b[i] {
			lo[i], hi[i] = a[i], b[i]
		} else {
			lo[i], hi[i] = b[i], a[i]
		}
	}
	return lo, hi
}

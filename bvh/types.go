// Package bvh implements the compressed, SIMD-vectorized triangle Bounding
// Volume Hierarchy: quantized geometry packed 8-wide, a SAH-guided top-down
// builder, and a stack-based traversal that exploits pack-level masking.
package bvh

import (
	"github.com/nanoray/pathtrace/geometry"
	"github.com/nanoray/pathtrace/internal/arena"
	"github.com/nanoray/pathtrace/internal/simd8"
)

// InnerNodeIdx, TrianglePackIdx, TriangleIdx and VertexIdx are typed
// integer handles into the BVH's arenas (§9 Design Notes: "Use typed
// integer handles... store children inside their parent node").
type (
	InnerNodeIdx   uint32
	TrianglePackIdx uint32
	TriangleIdx    uint32
	VertexIdx      uint32
)

// InnerNode holds up to 8 children in one SIMD pack: their (conservatively
// compressed) bounding boxes and their links.
type InnerNode struct {
	ChildBounds simd8.RelativeBox8
	ChildLinks  [simd8.Lanes]NodeLink
}

// MaterialID identifies a surface material; this module treats it as an
// opaque handle since shading itself is out of scope (§1 Non-goals).
type MaterialID uint32

// TriangleShadingData records the per-triangle data needed to assemble a
// HitRecord after traversal: which vertices to interpolate, whether to fall
// back to flat (geometric-normal) shading, and the material.
type TriangleShadingData struct {
	VertexIndices [3]VertexIdx
	FlatShading   bool
	Material      MaterialID
}

// VertexShadingData is the per-vertex data referenced by TriangleShadingData.
type VertexShadingData struct {
	Normal        geometry.Vector
	TextureCoords geometry.TexturePoint
}

// BVH is a read-only, built-once spatial index over a fixed set of
// triangles. Every non-null NodeLink in InnerNodes resolves to a valid
// arena index (§3 invariant); callers must not mutate a BVH after Build
// returns, so a single instance may be shared read-only across render
// workers.
type BVH struct {
	BoundingBox     geometry.Box
	Root            NodeLink
	InnerNodes      *arena.Arena[InnerNodeIdx, InnerNode]
	TrianglePacks   *arena.Arena[TrianglePackIdx, simd8.RelativeTriangle8]
	TriangleShading *arena.Arena[TriangleIdx, TriangleShadingData]
	VertexShading   *arena.Arena[VertexIdx, VertexShadingData]
}

// enclosingBox converts a geometry.Box to the simd8 package's plain-array
// representation used by the compressed-geometry encode/decode functions.
// An axis on which b has zero extent (a planar mesh) gets size 1, keeping
// Size strictly positive: every coordinate on that axis equals Min, so it
// encodes to relative 0 and decodes back to Min exactly.
func enclosingBox(b geometry.Box) simd8.EnclosingBox {
	size := b.Size()
	sz := [3]float32{size.X, size.Y, size.Z}
	for i := range sz {
		if sz[i] == 0 {
			sz[i] = 1
		}
	}
	return simd8.EnclosingBox{
		Min:  [3]float32{b.Min.X, b.Min.Y, b.Min.Z},
		Size: sz,
	}
}

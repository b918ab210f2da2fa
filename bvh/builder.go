package bvh

import (
	"math"
	"sort"

	"github.com/nanoray/pathtrace/geometry"
	"github.com/nanoray/pathtrace/internal/arena"
	"github.com/nanoray/pathtrace/internal/simd8"
)

// leafTriangleLimit is 7*8: the most triangles a single leaf can reference
// (MaxCount packs of Lanes triangles each), per §4.3.
const leafTriangleLimit = MaxCount * simd8.Lanes

// innerFanout is the BVH's fixed child fan-out (matches simd8.Lanes: one
// child bounding box per SIMD lane).
const innerFanout = simd8.Lanes

// Build constructs a BVH from an owned triangle list and vertex list. It is
// infallible on well-formed input (non-empty vertex list, valid indices);
// malformed input is a caller bug (§4.3, §7).
//
// triangles is reordered in place during construction (the builder's
// "mutable triangle list").
func Build(triangles []TriangleRef, vertices []VertexData) *BVH {
	b := &builder{
		vertices:        vertices,
		innerNodes:      arena.New[InnerNodeIdx, InnerNode](0),
		trianglePacks:   arena.New[TrianglePackIdx, simd8.RelativeTriangle8](0),
		triangleShading: arena.New[TriangleIdx, TriangleShadingData](0),
		vertexShading:   arena.New[VertexIdx, VertexShadingData](len(vertices)),
	}
	for _, v := range vertices {
		b.vertexShading.Push(VertexShadingData{Normal: v.Normal, TextureCoords: v.TexCoord})
	}

	box, ok := boundingBoxOf(triangles, vertices)
	if !ok {
		box = geometry.EmptyBox()
	}

	root := b.buildNode(triangles, box)

	return &BVH{
		BoundingBox:     box,
		Root:            root,
		InnerNodes:      b.innerNodes,
		TrianglePacks:   b.trianglePacks,
		TriangleShading: b.triangleShading,
		VertexShading:   b.vertexShading,
	}
}

type builder struct {
	vertices        []VertexData
	innerNodes      *arena.Arena[InnerNodeIdx, InnerNode]
	trianglePacks   *arena.Arena[TrianglePackIdx, simd8.RelativeTriangle8]
	triangleShading *arena.Arena[TriangleIdx, TriangleShadingData]
	vertexShading   *arena.Arena[VertexIdx, VertexShadingData]
}

func boundingBoxOf(triangles []TriangleRef, vertices []VertexData) (geometry.Box, bool) {
	box := geometry.EmptyBox()
	any := false
	for _, tr := range triangles {
		for _, vi := range [3]VertexIdx{tr.V0, tr.V1, tr.V2} {
			box = box.ExtendPoint(vertices[vi].Position)
			any = true
		}
	}
	return box, any
}

// buildNode recursively builds a node for triangles, whose geometry lies
// within (is assumed contained by) enclosingBox, and returns the NodeLink
// referencing it.
func (b *builder) buildNode(triangles []TriangleRef, enclosing geometry.Box) NodeLink {
	if len(triangles) == 0 {
		return Null
	}
	if len(triangles) <= leafTriangleLimit {
		return b.buildLeaf(triangles, enclosing)
	}
	return b.buildInner(triangles, enclosing)
}

// buildLeaf packs triangles (at most leafTriangleLimit of them) into
// ceil(n/8) RelativeTriangle8 packs, padding the final pack's tail lanes
// with the enclosing box's minimum (the is_zero sentinel), per §4.3.
func (b *builder) buildLeaf(triangles []TriangleRef, enclosing geometry.Box) NodeLink {
	packetCount := (len(triangles) + simd8.Lanes - 1) / simd8.Lanes
	e := enclosingBox(enclosing)
	firstPack := TrianglePackIdx(b.trianglePacks.Len())

	for p := 0; p < packetCount; p++ {
		var v0x, v0y, v0z, v1x, v1y, v1z, v2x, v2y, v2z simd8.F32x8
		for lane := 0; lane < simd8.Lanes; lane++ {
			idx := p*simd8.Lanes + lane
			var tri TriangleRef
			var shading TriangleShadingData
			if idx < len(triangles) {
				tri = triangles[idx]
				shading = b.shadingFor(tri)
				p0, p1, p2 := b.vertices[tri.V0].Position, b.vertices[tri.V1].Position, b.vertices[tri.V2].Position
				v0x[lane], v0y[lane], v0z[lane] = p0.X, p0.Y, p0.Z
				v1x[lane], v1y[lane], v1z[lane] = p1.X, p1.Y, p1.Z
				v2x[lane], v2y[lane], v2z[lane] = p2.X, p2.Y, p2.Z
			} else {
				// Padding lane: clamp to the enclosing box's minimum so it
				// decodes to the is_zero sentinel (§3 invariant).
				v0x[lane], v0y[lane], v0z[lane] = enclosing.Min.X, enclosing.Min.Y, enclosing.Min.Z
				v1x[lane], v1y[lane], v1z[lane] = enclosing.Min.X, enclosing.Min.Y, enclosing.Min.Z
				v2x[lane], v2y[lane], v2z[lane] = enclosing.Min.X, enclosing.Min.Y, enclosing.Min.Z
				shading = TriangleShadingData{}
			}
			b.triangleShading.Push(shading)
		}
		pack := simd8.EncodeRelativeTriangle8(v0x, v0y, v0z, v1x, v1y, v1z, v2x, v2y, v2z, e)
		b.trianglePacks.Push(pack)
	}

	return NewLeafLink(uint32(firstPack), packetCount)
}

func (b *builder) shadingFor(tri TriangleRef) TriangleShadingData {
	n0 := b.vertices[tri.V0].Normal
	n1 := b.vertices[tri.V1].Normal
	n2 := b.vertices[tri.V2].Normal
	flat := n0.IsZero() || n1.IsZero() || n2.IsZero()
	return TriangleShadingData{
		VertexIndices: [3]VertexIdx{tri.V0, tri.V1, tri.V2},
		FlatShading:   flat,
	}
}

// group is one SAH-binning cluster: a set of triangles (identified, during
// merging, purely by a union-find parent pointer) with a cached bounding
// box and triangle count.
type group struct {
	box    geometry.Box
	count  int
	parent int
}

func (b *builder) buildInner(triangles []TriangleRef, enclosing geometry.Box) NodeLink {
	bins := binTriangles(triangles, b.vertices, enclosing)

	groups := make([]*group, 0, len(bins))
	for _, bn := range bins {
		if bn.count == 0 {
			continue
		}
		g := &group{box: bn.box, count: bn.count}
		g.parent = len(groups)
		groups = append(groups, g)
	}

	mergeGroups(groups)

	return b.partitionAndRecurse(triangles, bins, groups, enclosing)
}

// partitionAndRecurse assigns each triangle to its bin's root group, sorts
// the triangle slice in place by root group (stable, so order within a
// group is preserved — §4.3's determinism requirement), then recurses into
// each of up to 8 resulting contiguous ranges.
func (b *builder) partitionAndRecurse(triangles []TriangleRef, bins []bin, groups []*group, enclosing geometry.Box) NodeLink {
	root := func(g int) int {
		for groups[g].parent != g {
			g = groups[g].parent
		}
		return g
	}

	binOf := make(map[int]int, len(bins)) // bin index -> group index, built alongside bins
	gi := 0
	for i, bn := range bins {
		if bn.count == 0 {
			continue
		}
		binOf[i] = gi
		gi++
	}

	type keyed struct {
		tri  TriangleRef
		root int
	}
	keyedTris := make([]keyed, len(triangles))
	for i, tri := range triangles {
		bi := binIndexForTriangle(tri, b.vertices, enclosing, binGridDims(len(triangles)))
		g := binOf[bi]
		keyedTris[i] = keyed{tri: tri, root: root(g)}
	}

	sort.SliceStable(keyedTris, func(i, j int) bool { return keyedTris[i].root < keyedTris[j].root })
	for i, k := range keyedTris {
		triangles[i] = k.tri
	}

	// Collect contiguous ranges by root group, in ascending root order (at
	// most 8 after merging).
	type childRange struct {
		root       int
		start, end int
	}
	var ranges []childRange
	for i := 0; i < len(keyedTris); {
		j := i + 1
		for j < len(keyedTris) && keyedTris[j].root == keyedTris[i].root {
			j++
		}
		ranges = append(ranges, childRange{root: keyedTris[i].root, start: i, end: j})
		i = j
	}

	e := enclosingBox(enclosing)
	var minXs, minYs, minZs, maxXs, maxYs, maxZs simd8.F32x8
	childBoxes := make([]geometry.Box, innerFanout)
	for lane := 0; lane < innerFanout; lane++ {
		if lane < len(ranges) {
			childBox, _ := boundingBoxOf(triangles[ranges[lane].start:ranges[lane].end], b.vertices)
			childBoxes[lane] = childBox
			minXs[lane], minYs[lane], minZs[lane] = childBox.Min.X, childBox.Min.Y, childBox.Min.Z
			maxXs[lane], maxYs[lane], maxZs[lane] = childBox.Max.X, childBox.Max.Y, childBox.Max.Z
		} else {
			minXs[lane], minYs[lane], minZs[lane] = enclosing.Min.X, enclosing.Min.Y, enclosing.Min.Z
			maxXs[lane], maxYs[lane], maxZs[lane] = enclosing.Min.X, enclosing.Min.Y, enclosing.Min.Z
		}
	}
	compressed := simd8.EncodeRelativeBox8Conservative(minXs, minYs, minZs, maxXs, maxYs, maxZs, e)
	dMinX, dMinY, dMinZ, dMaxX, dMaxY, dMaxZ := compressed.Decode(e)

	node := InnerNode{ChildBounds: compressed}
	for lane := 0; lane < innerFanout; lane++ {
		if lane >= len(ranges) {
			node.ChildLinks[lane] = Null
			continue
		}
		decompressedBox := geometry.Box{
			Min: geometry.NewPoint(dMinX[lane], dMinY[lane], dMinZ[lane]),
			Max: geometry.NewPoint(dMaxX[lane], dMaxY[lane], dMaxZ[lane]),
		}
		childTriangles := triangles[ranges[lane].start:ranges[lane].end]
		node.ChildLinks[lane] = b.buildNode(childTriangles, decompressedBox)
	}

	idx := b.innerNodes.Push(node)
	return NewInnerLink(uint32(idx))
}

// binIndexForTriangle mirrors binTriangles' own bin-assignment so the
// partition step can look a triangle's bin back up after merging without
// recomputing the whole grid. dims is the grid's per-axis bin count.
func binIndexForTriangle(tri TriangleRef, vertices []VertexData, enclosing geometry.Box, dims int) int {
	centroid := triangleCentroid(tri, vertices)
	size := enclosing.Size()
	bx := binAxis(centroid.X, enclosing.Min.X, size.X, dims)
	by := binAxis(centroid.Y, enclosing.Min.Y, size.Y, dims)
	bz := binAxis(centroid.Z, enclosing.Min.Z, size.Z, dims)
	return (bx*dims+by)*dims + bz
}

func triangleCentroid(tri TriangleRef, vertices []VertexData) geometry.Point {
	p0, p1, p2 := vertices[tri.V0].Position, vertices[tri.V1].Position, vertices[tri.V2].Position
	return geometry.NewPoint(
		(p0.X+p1.X+p2.X)/3,
		(p0.Y+p1.Y+p2.Y)/3,
		(p0.Z+p1.Z+p2.Z)/3,
	)
}

func binAxis(v, min, size float32, dims int) int {
	if size <= 0 {
		return 0
	}
	r := (v - min) / size
	idx := int(r * float32(dims))
	if idx < 0 {
		idx = 0
	}
	if idx >= dims {
		idx = dims - 1
	}
	return idx
}

// binGridDims picks the per-axis bin count: B = clamp(n/64, 128, 1024)
// target bins total, laid out as an approximately cube-root grid (§4.3.1-2).
func binGridDims(n int) int {
	target := n / 64
	if target < 128 {
		target = 128
	}
	if target > 1024 {
		target = 1024
	}
	dims := int(math.Ceil(math.Cbrt(float64(target))))
	if dims < 1 {
		dims = 1
	}
	return dims
}

type bin struct {
	box   geometry.Box
	count int
}

// binTriangles assigns each triangle to a bin by centroid, on an
// axis-aligned grid over enclosing with binGridDims(len(triangles)) bins
// per axis (§4.3 step 2).
func binTriangles(triangles []TriangleRef, vertices []VertexData, enclosing geometry.Box) []bin {
	dims := binGridDims(len(triangles))
	bins := make([]bin, dims*dims*dims)
	for i := range bins {
		bins[i].box = geometry.EmptyBox()
	}
	for _, tri := range triangles {
		bi := binIndexForTriangle(tri, vertices, enclosing, dims)
		p0, p1, p2 := vertices[tri.V0].Position, vertices[tri.V1].Position, vertices[tri.V2].Position
		bins[bi].box = bins[bi].box.ExtendPoint(p0).ExtendPoint(p1).ExtendPoint(p2)
		bins[bi].count++
	}
	return bins
}

// groupCost is the SAH cost model of §4.3 step 4: surface_area(box) times
// the cheaper of a leaf or an inner-subtree cost estimate for count
// triangles.
func groupCost(box geometry.Box, count int) float32 {
	packetCount := (count + simd8.Lanes - 1) / simd8.Lanes
	var leafCost float32
	if packetCount <= MaxCount {
		leafCost = 0.75 * float32(packetCount)
	} else {
		leafCost = float32(math.Inf(1))
	}

	var innerTreeCost float32
	if packetCount <= 1 {
		innerTreeCost = 0.75 * float32(packetCount)
	} else {
		depth := math.Floor(math.Log(float64(packetCount)) / math.Log(8))
		innerTreeCost = float32(1.0*depth + 0.75*math.Ceil(float64(packetCount)/math.Pow(8, depth)))
	}

	return box.SurfaceArea() * fastMinF32(leafCost, innerTreeCost)
}

func fastMinF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// mergeGroups performs the greedy disjoint-set merge of §4.3 step 4,
// mutating each group's parent pointer in place. It returns the number of
// surviving (root) groups.
func mergeGroups(groups []*group) int {
	active := make([]int, 0, len(groups))
	for i := range groups {
		active = append(active, i)
	}

	find := func(i int) int {
		for groups[i].parent != i {
			i = groups[i].parent
		}
		return i
	}

	for {
		if len(active) <= 2 {
			break
		}

		bestImprovement := float32(math.Inf(-1))
		bestI, bestJ := -1, -1
		for ai := 0; ai < len(active); ai++ {
			gi := active[ai]
			for aj := ai + 1; aj < len(active); aj++ {
				gj := active[aj]
				unionBox := groups[gi].box.Union(groups[gj].box)
				unionCount := groups[gi].count + groups[gj].count
				improvement := groupCost(groups[gi].box, groups[gi].count) +
					groupCost(groups[gj].box, groups[gj].count) -
					groupCost(unionBox, unionCount)
				if improvement > bestImprovement {
					bestImprovement = improvement
					bestI, bestJ = ai, aj
				}
			}
		}

		if bestI < 0 {
			break
		}
		if !(len(active) > innerFanout || bestImprovement > 0) {
			break
		}

		gi, gj := active[bestI], active[bestJ]
		groups[gi].box = groups[gi].box.Union(groups[gj].box)
		groups[gi].count += groups[gj].count
		groups[gj].parent = gi

		// Remove aj from active (order doesn't matter beyond determinism of
		// the merge, which is governed by bestI/bestJ selection order).
		active = append(active[:bestJ], active[bestJ+1:]...)
	}

	roots := map[int]bool{}
	for _, a := range active {
		roots[find(a)] = true
	}
	return len(roots)
}

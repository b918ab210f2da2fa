package bvh

import (
	"reflect"
	"testing"

	"github.com/nanoray/pathtrace/geometry"
)

func singleTriangleMesh() ([]TriangleRef, []VertexData) {
	vertices := []VertexData{
		{Position: geometry.NewPoint(-2, -2, 0), Normal: geometry.NewVector(0, 0, 1)},
		{Position: geometry.NewPoint(2, -2, 0), Normal: geometry.NewVector(0, 0, 1)},
		{Position: geometry.NewPoint(0, 2, 0), Normal: geometry.NewVector(0, 0, 1)},
	}
	triangles := []TriangleRef{{V0: 0, V1: 1, V2: 2}}
	return triangles, vertices
}

func TestBuildSingleTriangleIsLeaf(t *testing.T) {
	triangles, vertices := singleTriangleMesh()
	b := Build(triangles, vertices)

	if !b.Root.IsLeaf() {
		t.Fatalf("Root = %v, want a leaf link", b.Root)
	}
	_, _, count := b.Root.Decode()
	if count != 1 {
		t.Errorf("leaf packet count = %d, want 1", count)
	}
}

func TestBuildEmptyMesh(t *testing.T) {
	b := Build(nil, nil)
	if b.Root != Null {
		t.Errorf("Root of empty mesh = %v, want Null", b.Root)
	}
}

// TestBuildLeafPaddingIntegrity covers §8/§10's "leaf padding integrity"
// scenario: a 9-triangle mesh yields one leaf with packet_count=2 (9 real +
// 7 padding triangles), and every padding lane's relative points are all
// is_zero.
func TestBuildLeafPaddingIntegrity(t *testing.T) {
	const n = 9
	vertices := make([]VertexData, 0, n*3)
	triangles := make([]TriangleRef, 0, n)
	for i := 0; i < n; i++ {
		base := VertexIdx(len(vertices))
		off := float32(i) * 10
		vertices = append(vertices,
			VertexData{Position: geometry.NewPoint(off, 0, 0), Normal: geometry.NewVector(0, 0, 1)},
			VertexData{Position: geometry.NewPoint(off+1, 0, 0), Normal: geometry.NewVector(0, 0, 1)},
			VertexData{Position: geometry.NewPoint(off, 1, 0), Normal: geometry.NewVector(0, 0, 1)},
		)
		triangles = append(triangles, TriangleRef{V0: base, V1: base + 1, V2: base + 2})
	}

	b := Build(triangles, vertices)
	if !b.Root.IsLeaf() {
		t.Fatalf("Root = %v, want a leaf link", b.Root)
	}
	_, first, count := b.Root.Decode()
	if count != 2 {
		t.Fatalf("packet_count = %d, want 2", count)
	}

	// The second pack holds triangles 8 (real, lane 0) and 7 padding lanes.
	secondPack := b.TrianglePacks.Get(TrianglePackIdx(first) + 1)
	for lane := 1; lane < 8; lane++ {
		if !secondPack.V0.X.IsZero()[lane] || !secondPack.V0.Y.IsZero()[lane] || !secondPack.V0.Z.IsZero()[lane] {
			t.Errorf("padding lane %d: V0 not all-zero", lane)
		}
		if !secondPack.V1.X.IsZero()[lane] || !secondPack.V2.X.IsZero()[lane] {
			t.Errorf("padding lane %d: V1/V2.X not zero", lane)
		}
	}
}

// TestBuildDeterministic covers §8 scenario 6: building the same mesh twice
// yields byte-identical arenas.
func TestBuildDeterministic(t *testing.T) {
	const n = 200
	vertices := make([]VertexData, 0, n*3)
	triangles1 := make([]TriangleRef, 0, n)
	for i := 0; i < n; i++ {
		base := VertexIdx(len(vertices))
		off := float32(i)
		vertices = append(vertices,
			VertexData{Position: geometry.NewPoint(off, 0, 0), Normal: geometry.NewVector(0, 0, 1)},
			VertexData{Position: geometry.NewPoint(off+0.5, 0, 0), Normal: geometry.NewVector(0, 0, 1)},
			VertexData{Position: geometry.NewPoint(off, 0.5, 0), Normal: geometry.NewVector(0, 0, 1)},
		)
		triangles1 = append(triangles1, TriangleRef{V0: base, V1: base + 1, V2: base + 2})
	}
	triangles2 := append([]TriangleRef(nil), triangles1...)

	b1 := Build(triangles1, vertices)
	b2 := Build(triangles2, vertices)

	if !reflect.DeepEqual(b1.InnerNodes.Slice(), b2.InnerNodes.Slice()) {
		t.Error("InnerNodes arenas differ between two builds of the same mesh")
	}
	if !reflect.DeepEqual(b1.TrianglePacks.Slice(), b2.TrianglePacks.Slice()) {
		t.Error("TrianglePacks arenas differ between two builds of the same mesh")
	}
	if !reflect.DeepEqual(b1.TriangleShading.Slice(), b2.TriangleShading.Slice()) {
		t.Error("TriangleShading arenas differ between two builds of the same mesh")
	}
}

func TestGroupCostPrefersLeafWhenSmall(t *testing.T) {
	box := geometry.NewBox(geometry.NewPoint(0, 0, 0), geometry.NewPoint(1, 1, 1))
	small := groupCost(box, 8)
	large := groupCost(box, 400)
	if small >= large {
		t.Errorf("groupCost(8) = %v should be less than groupCost(400) = %v", small, large)
	}
}

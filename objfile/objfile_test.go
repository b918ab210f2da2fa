package objfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nanoray/pathtrace/geometry"
)

func TestParseSimpleTriangle(t *testing.T) {
	src := `
# a comment
v -1.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
vn 0.0 0.0 1.0
f 1//1 2//1 3//1
`
	triangles, vertices, err := parse(strings.NewReader(src), "test.obj", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(triangles) != 1 {
		t.Fatalf("len(triangles) = %d, want 1", len(triangles))
	}
	if len(vertices) != 3 {
		t.Fatalf("len(vertices) = %d, want 3", len(vertices))
	}
	if vertices[0].Position.X != -1 {
		t.Errorf("vertices[0].Position.X = %v, want -1", vertices[0].Position.X)
	}
	if vertices[0].Normal.Z != 1 {
		t.Errorf("vertices[0].Normal.Z = %v, want 1", vertices[0].Normal.Z)
	}
}

func TestParseMissingNormalsAndTexCoordsDefault(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	_, vertices, err := parse(strings.NewReader(src), "test.obj", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i, v := range vertices {
		if !v.Normal.IsZero() {
			t.Errorf("vertex %d: Normal = %v, want zero (flat-shading marker)", i, v.Normal)
		}
		if v.TexCoord != (geometry.TexturePoint{}) {
			t.Errorf("vertex %d: TexCoord = %v, want zero value", i, v.TexCoord)
		}
	}
}

func TestParseQuadIsTriangleFanned(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	triangles, _, err := parse(strings.NewReader(src), "test.obj", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(triangles) != 2 {
		t.Fatalf("len(triangles) = %d, want 2 (fan of a quad)", len(triangles))
	}
}

func TestParseSkipsUnsupportedDirectivesWithDiagnostic(t *testing.T) {
	src := `
o MyObject
v 0 0 0
v 1 0 0
v 0 1 0
usemtl Material
f 1 2 3
`
	var diag bytes.Buffer
	triangles, _, err := parse(strings.NewReader(src), "test.obj", &diag)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(triangles) != 1 {
		t.Fatalf("len(triangles) = %d, want 1", len(triangles))
	}
	if !strings.Contains(diag.String(), "usemtl") {
		t.Errorf("diagnostic output = %q, want a mention of the skipped usemtl directive", diag.String())
	}
}

func TestParseDegenerateFaceSkipped(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
f 1 2
`
	triangles, _, err := parse(strings.NewReader(src), "test.obj", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(triangles) != 0 {
		t.Fatalf("len(triangles) = %d, want 0", len(triangles))
	}
}

func TestParseMalformedVertexIsParseError(t *testing.T) {
	src := "v not_a_number 0 0\n"
	_, _, err := parse(strings.NewReader(src), "test.obj", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	objErr, ok := err.(*ObjOpenError)
	if !ok {
		t.Fatalf("error type = %T, want *ObjOpenError", err)
	}
	if objErr.Kind != ParseError {
		t.Errorf("Kind = %v, want ParseError", objErr.Kind)
	}
}

func TestParseNegativeFaceIndicesAreRelative(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	triangles, vertices, err := parse(strings.NewReader(src), "test.obj", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(triangles) != 1 {
		t.Fatalf("len(triangles) = %d, want 1", len(triangles))
	}
	if len(vertices) != 3 {
		t.Fatalf("len(vertices) = %d, want 3", len(vertices))
	}
	if vertices[0].Position != (geometry.NewPoint(0, 0, 0)) {
		t.Errorf("vertices[0].Position = %v, want (0,0,0) (v -3 -> first vertex)", vertices[0].Position)
	}
	if vertices[2].Position != (geometry.NewPoint(0, 1, 0)) {
		t.Errorf("vertices[2].Position = %v, want (0,1,0) (v -1 -> last vertex)", vertices[2].Position)
	}
}

func TestParseOutOfRangeNegativeFaceIndexIsParseError(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
f -5 1 2
`
	_, _, err := parse(strings.NewReader(src), "test.obj", nil)
	if err == nil {
		t.Fatal("expected an error, not a panic, for a negative index with nothing behind it")
	}
	objErr, ok := err.(*ObjOpenError)
	if !ok {
		t.Fatalf("error type = %T, want *ObjOpenError", err)
	}
	if objErr.Kind != ParseError {
		t.Errorf("Kind = %v, want ParseError", objErr.Kind)
	}
}

func TestLoadMissingFileIsIoError(t *testing.T) {
	_, _, err := Load("/nonexistent/path/does-not-exist.obj", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	objErr, ok := err.(*ObjOpenError)
	if !ok {
		t.Fatalf("error type = %T, want *ObjOpenError", err)
	}
	if objErr.Kind != IoError {
		t.Errorf("Kind = %v, want IoError", objErr.Kind)
	}
}

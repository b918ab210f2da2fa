// Package objfile implements the external scene-ingestion collaborator
// named in §6: an OBJ reader producing triangle and vertex lists for
// bvh.Build. Only triangle primitives are consumed; other primitives are
// skipped with a diagnostic. Missing texture coordinates default to the
// origin; missing normals default to zero (marking flat shading).
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nanoray/pathtrace/bvh"
	"github.com/nanoray/pathtrace/geometry"
)

// ErrorKind tags why Load failed, per §4.3's
// "{IoError | ParseError}" contract.
type ErrorKind int

const (
	IoError ErrorKind = iota
	ParseError
)

func (k ErrorKind) String() string {
	switch k {
	case IoError:
		return "io"
	case ParseError:
		return "parse"
	default:
		return "unknown"
	}
}

// ObjOpenError is the tagged error Load returns on failure.
type ObjOpenError struct {
	Kind ErrorKind
	Path string
	Line int // 1-based; 0 if not applicable (e.g. IoError)
	Err  error
}

func (e *ObjOpenError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("objfile: %s: %s:%d: %v", e.Kind, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("objfile: %s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ObjOpenError) Unwrap() error { return e.Err }

// Load parses a Wavefront OBJ file at path into a triangle and vertex list
// suitable for bvh.Build. Faces with more than 3 vertices are triangle-fanned
// from their first vertex; faces with fewer than 3 are skipped with a
// diagnostic written to diag (nil is allowed — diagnostics are then
// discarded).
func Load(path string, diag io.Writer) ([]bvh.TriangleRef, []bvh.VertexData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &ObjOpenError{Kind: IoError, Path: path, Err: err}
	}
	defer f.Close()

	return parse(f, path, diag)
}

type rawFaceVertex struct {
	position int // 1-based OBJ index into positions; 0 = unset
	texCoord int
	normal   int
}

func parse(r io.Reader, path string, diag io.Writer) ([]bvh.TriangleRef, []bvh.VertexData, error) {
	var positions []geometry.Point
	var texCoords []geometry.TexturePoint
	var normals []geometry.Vector

	// vertexKey dedups OBJ (v/vt/vn) index triples into a single
	// bvh.VertexData, since the BVH's vertex arena is flat and shared by
	// index rather than keyed per-face like OBJ's.
	type vertexKey struct{ p, t, n int }
	vertexIndex := make(map[vertexKey]bvh.VertexIdx)
	var vertices []bvh.VertexData
	var triangles []bvh.TriangleRef

	resolveVertex := func(fv rawFaceVertex) (bvh.VertexIdx, error) {
		// Wavefront OBJ allows negative face-vertex indices, relative to the
		// end of the corresponding list as it stands at this point in the
		// file (e.g. -1 is the most recently defined v/vt/vn). Resolve them
		// to 1-based positive indices before any bounds check runs, so no
		// reference reaches a negative slice index. An out-of-range position
		// index (0, too large, or a negative index with nothing behind it)
		// is rejected with a ParseError; an out-of-range texcoord or normal
		// index is ignored and that attribute keeps its zero default.
		fv.position = resolveRelativeIndex(fv.position, len(positions))
		fv.texCoord = resolveRelativeIndex(fv.texCoord, len(texCoords))
		fv.normal = resolveRelativeIndex(fv.normal, len(normals))

		if fv.position <= 0 || fv.position > len(positions) {
			return 0, fmt.Errorf("face references out-of-range vertex %d", fv.position)
		}
		key := vertexKey{p: fv.position, t: fv.texCoord, n: fv.normal}
		if idx, ok := vertexIndex[key]; ok {
			return idx, nil
		}

		vd := bvh.VertexData{Position: positions[fv.position-1]}
		if fv.texCoord > 0 && fv.texCoord <= len(texCoords) {
			vd.TexCoord = texCoords[fv.texCoord-1]
		}
		if fv.normal > 0 && fv.normal <= len(normals) {
			vd.Normal = normals[fv.normal-1]
		}

		idx := bvh.VertexIdx(len(vertices))
		vertices = append(vertices, vd)
		vertexIndex[key] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		directive := fields[0]
		args := fields[1:]

		switch directive {
		case "v":
			p, err := parsePoint(args)
			if err != nil {
				return nil, nil, &ObjOpenError{Kind: ParseError, Path: path, Line: lineNo, Err: err}
			}
			positions = append(positions, p)
		case "vt":
			tc, err := parseTexCoord(args)
			if err != nil {
				return nil, nil, &ObjOpenError{Kind: ParseError, Path: path, Line: lineNo, Err: err}
			}
			texCoords = append(texCoords, tc)
		case "vn":
			n, err := parsePoint(args)
			if err != nil {
				return nil, nil, &ObjOpenError{Kind: ParseError, Path: path, Line: lineNo, Err: err}
			}
			normals = append(normals, n.AsVector())
		case "f":
			faceVerts := make([]rawFaceVertex, 0, len(args))
			for _, a := range args {
				fv, err := parseFaceVertex(a)
				if err != nil {
					return nil, nil, &ObjOpenError{Kind: ParseError, Path: path, Line: lineNo, Err: err}
				}
				faceVerts = append(faceVerts, fv)
			}
			if len(faceVerts) < 3 {
				diagf(diag, "%s:%d: skipping degenerate face with %d vertices\n", path, lineNo, len(faceVerts))
				continue
			}
			v0, err := resolveVertex(faceVerts[0])
			if err != nil {
				return nil, nil, &ObjOpenError{Kind: ParseError, Path: path, Line: lineNo, Err: err}
			}
			for i := 1; i+1 < len(faceVerts); i++ {
				v1, err := resolveVertex(faceVerts[i])
				if err != nil {
					return nil, nil, &ObjOpenError{Kind: ParseError, Path: path, Line: lineNo, Err: err}
				}
				v2, err := resolveVertex(faceVerts[i+1])
				if err != nil {
					return nil, nil, &ObjOpenError{Kind: ParseError, Path: path, Line: lineNo, Err: err}
				}
				triangles = append(triangles, bvh.TriangleRef{V0: v0, V1: v1, V2: v2})
			}
		default:
			// Other primitives/directives (o, g, s, mtllib, usemtl, l, p, ...)
			// are skipped with a diagnostic per §6.
			diagf(diag, "%s:%d: skipping unsupported directive %q\n", path, lineNo, directive)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, &ObjOpenError{Kind: IoError, Path: path, Err: err}
	}

	return triangles, vertices, nil
}

// resolveRelativeIndex converts a 1-based OBJ index to its absolute,
// positive 1-based form. A negative idx counts backward from the current
// length of the referenced list (-1 is the last element); zero and
// positive indices pass through unchanged, including out-of-range ones,
// which the caller bounds-checks (a ParseError for positions; texcoords
// and normals out of range are ignored).
func resolveRelativeIndex(idx, count int) int {
	if idx < 0 {
		return count + idx + 1
	}
	return idx
}

func diagf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format, args...)
}

func parsePoint(args []string) (geometry.Point, error) {
	if len(args) < 3 {
		return geometry.Point{}, fmt.Errorf("expected 3 components, got %d", len(args))
	}
	x, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return geometry.Point{}, err
	}
	z, err := strconv.ParseFloat(args[2], 32)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.NewPoint(float32(x), float32(y), float32(z)), nil
}

func parseTexCoord(args []string) (geometry.TexturePoint, error) {
	if len(args) < 2 {
		return geometry.TexturePoint{}, fmt.Errorf("expected at least 2 components, got %d", len(args))
	}
	u, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return geometry.TexturePoint{}, err
	}
	v, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return geometry.TexturePoint{}, err
	}
	return geometry.NewTexturePoint(float32(u), float32(v), 0), nil
}

// parseFaceVertex parses one "f" directive component: v, v/vt, v//vn, or
// v/vt/vn.
func parseFaceVertex(s string) (rawFaceVertex, error) {
	parts := strings.Split(s, "/")
	var fv rawFaceVertex
	var err error

	fv.position, err = strconv.Atoi(parts[0])
	if err != nil {
		return fv, fmt.Errorf("invalid vertex index %q: %w", parts[0], err)
	}

	if len(parts) > 1 && parts[1] != "" {
		fv.texCoord, err = strconv.Atoi(parts[1])
		if err != nil {
			return fv, fmt.Errorf("invalid texcoord index %q: %w", parts[1], err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		fv.normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return fv, fmt.Errorf("invalid normal index %q: %w", parts[2], err)
		}
	}
	return fv, nil
}

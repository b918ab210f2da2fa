package bvh

import "github.com/nanoray/pathtrace/geometry"

// TriangleRef indexes three vertices in a VertexData slice. This is the
// builder's input representation: a mutable triangle list the builder
// reorders in place during binning (§4.3).
type TriangleRef struct {
	V0, V1, V2 VertexIdx
}

// VertexData is one vertex's position, texture coordinate, and shading
// normal, as produced by an external collaborator (e.g. package objfile). A
// zero-length Normal marks a vertex whose triangles should be flat-shaded
// (§4.3).
type VertexData struct {
	Position geometry.Point
	TexCoord geometry.TexturePoint
	Normal   geometry.Vector
}

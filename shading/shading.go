// Package shading implements the single per-sample integrator extension
// point the design notes call out: "the integrator is a placeholder
// returning a shaded dot product; a real path tracer ... is not specified."
// This module returns geometric hit information shaded by a dot product
// only, consistent with the Non-goal "no photometric integrator beyond
// returning geometric hit information".
package shading

import "github.com/nanoray/pathtrace/geometry"

// Color is a linear RGB sample, unclamped (clamping to bytes happens in
// render/accumulate.go once samples are averaged).
type Color struct {
	R, G, B float32
}

func (c Color) Scale(s float32) Color { return Color{c.R * s, c.G * s, c.B * s} }
func (c Color) Add(o Color) Color     { return Color{c.R + o.R, c.G + o.G, c.B + o.B} }

// Shade computes the placeholder integrator's output for a single ray
// sample: max(0, dot(hit.UnitNormal, -ray.Direction)), replicated across
// RGB. It is the sole extension point named for a future real integrator
// (Russian roulette, BRDFs, light sampling — all out of scope here).
func Shade(hit geometry.HitRecord, ray geometry.Ray) Color {
	facing := hit.UnitNormal.Dot(ray.Direction.Neg())
	if facing < 0 {
		facing = 0
	}
	return Color{R: facing, G: facing, B: facing}
}

// Miss is the sample value for a ray that hit nothing: black.
func Miss() Color { return Color{} }

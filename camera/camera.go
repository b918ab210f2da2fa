// Package camera implements the thin-lens, depth-of-field ray-sampling
// oracle §1 treats as an out-of-scope external collaborator, supplemented
// here per SPEC_FULL.md §7 so the module is runnable end-to-end.
package camera

import (
	"math/rand"

	"github.com/nanoray/pathtrace/geometry"
)

// Camera is an immutable thin-lens camera. Direction vectors are always
// mutually perpendicular and normalized.
type Camera struct {
	center  geometry.Point
	forward geometry.Vector
	up      geometry.Vector
	right   geometry.Vector

	resolution       geometry.ScreenSize
	focusDistance    float32
	pixelScale       float32 // world units per pixel
	filmOriginOffset geometry.Vector
	lensRadius       float32
}

// New builds a Camera and precomputes its film/lens geometry. forward and
// up must be nonzero and not parallel.
func New(
	center geometry.Point,
	forward, up geometry.Vector,
	resolution geometry.ScreenSize,
	filmWidth, focalLength float32,
	fNumber, focusDistance float32,
) Camera {
	if forward.IsZero() {
		panic("camera: forward must be nonzero")
	}
	forward = forward.Normalize()
	if up.IsZero() {
		panic("camera: up must be nonzero")
	}
	right := forward.Cross(up).Normalize()
	if right.IsZero() {
		panic("camera: up and forward must be linearly independent")
	}
	up = right.Cross(forward).Normalize()

	if resolution.Width == 0 || resolution.Height == 0 {
		panic("camera: resolution components must be positive")
	}
	if filmWidth <= 0 || focalLength <= 0 || fNumber <= 0 || focusDistance <= 0 {
		panic("camera: filmWidth, focalLength, fNumber and focusDistance must be positive")
	}

	pixelScale := filmWidth / float32(resolution.Width)
	filmOriginU := float32(resolution.Width) * pixelScale / 2
	filmOriginV := float32(resolution.Height) * pixelScale / 2
	filmOriginOffset := forward.Scale(focalLength).Add(up.Scale(filmOriginV)).Sub(right.Scale(filmOriginU))

	lensRadius := focalLength / (2 * fNumber)

	return Camera{
		center:           center,
		forward:          forward,
		up:               up,
		right:            right,
		resolution:       resolution,
		focusDistance:    focusDistance,
		pixelScale:       pixelScale,
		filmOriginOffset: filmOriginOffset,
		lensRadius:       lensRadius,
	}
}

// Resolution returns the camera's configured image size.
func (c Camera) Resolution() geometry.ScreenSize { return c.resolution }

// SampleRay samples a new world-space ray for the image pixel (px, py),
// jittering within the pixel footprint and across the lens aperture for
// depth of field.
func (c Camera) SampleRay(px, py float32, rng *rand.Rand) geometry.Ray {
	filmU := px + (rng.Float32() - 0.5)
	filmV := py + (rng.Float32() - 0.5)

	filmPointOffset := c.filmOriginOffset.
		Sub(c.up.Scale(filmV * c.pixelScale)).
		Add(c.right.Scale(filmU * c.pixelScale))

	focusScale := c.focusDistance / filmPointOffset.Dot(c.forward)
	focusVector := filmPointOffset.Scale(focusScale)

	lu, lv := sampleUnitDisc(rng)
	lensVector := c.right.Scale(c.lensRadius * lu).Add(c.up.Scale(c.lensRadius * lv))

	return geometry.NewRay(
		c.center.Add(lensVector),
		focusVector.Sub(lensVector),
	)
}

// sampleUnitDisc draws a uniform point within the unit disc via rejection
// sampling, the standard substitute for rand_distr::UnitDisc.
func sampleUnitDisc(rng *rand.Rand) (float32, float32) {
	for {
		x := rng.Float32()*2 - 1
		y := rng.Float32()*2 - 1
		if x*x+y*y <= 1 {
			return x, y
		}
	}
}

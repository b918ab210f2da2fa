package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/nanoray/pathtrace/geometry"
)

func axisAlignedCamera() Camera {
	return New(
		geometry.NewPoint(0, 0, 0),
		geometry.NewVector(0, 0, -1),
		geometry.NewVector(0, 1, 0),
		geometry.ScreenSize{Width: 100, Height: 100},
		36, 50,
		8, 10,
	)
}

// TestSampleRayCenterPixelMatchesForward covers SPEC_FULL.md §10's camera
// property: the center pixel's direction has a dot product with forward
// within 1e-3 of 1, when the lens is pinhole-like (tiny aperture keeps the
// jitter bounded).
func TestSampleRayCenterPixelMatchesForward(t *testing.T) {
	c := New(
		geometry.NewPoint(0, 0, 0),
		geometry.NewVector(0, 0, -1),
		geometry.NewVector(0, 1, 0),
		geometry.ScreenSize{Width: 101, Height: 101},
		36, 50,
		64, 10, // large f-number -> tiny lens radius, near-pinhole
	)
	rng := rand.New(rand.NewSource(1))

	ray := c.SampleRay(50, 50, rng)
	want := geometry.NewVector(0, 0, -1)

	dot := ray.Direction.Dot(want)
	if math.Abs(float64(dot-1)) > 1e-3 {
		t.Errorf("center-pixel direction = %v, dot with forward = %v, want ~1", ray.Direction, dot)
	}
}

func TestNewPanicsOnDegenerateAxes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for parallel forward/up")
		}
	}()
	New(
		geometry.NewPoint(0, 0, 0),
		geometry.NewVector(0, 0, 1),
		geometry.NewVector(0, 0, 1), // parallel to forward
		geometry.ScreenSize{Width: 10, Height: 10},
		36, 50, 8, 10,
	)
}

func TestResolution(t *testing.T) {
	c := axisAlignedCamera()
	r := c.Resolution()
	if r.Width != 100 || r.Height != 100 {
		t.Errorf("Resolution() = %+v, want 100x100", r)
	}
}

func TestSampleUnitDiscStaysWithinUnitRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		x, y := sampleUnitDisc(rng)
		if x*x+y*y > 1.0001 {
			t.Fatalf("sample (%v,%v) outside unit disc", x, y)
		}
	}
}

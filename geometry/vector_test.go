package geometry

import (
	"math"
	"testing"
)

func TestVectorNormalize(t *testing.T) {
	v := NewVector(3, 4, 0).Normalize()
	if math.Abs(float64(v.Length()-1)) > 1e-6 {
		t.Errorf("Length = %v, want 1", v.Length())
	}

	zero := Vector{}.Normalize()
	if !zero.IsZero() {
		t.Errorf("Normalize of the zero vector = %v, want the zero vector", zero)
	}
}

func TestVectorIsZero(t *testing.T) {
	if !(Vector{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if (Vector{X: 0, Y: 0.001, Z: 0}).IsZero() {
		t.Error("non-zero vector reported IsZero")
	}
}

func TestVectorCrossAndDot(t *testing.T) {
	x := NewVector(1, 0, 0)
	y := NewVector(0, 1, 0)
	z := x.Cross(y)
	if z != NewVector(0, 0, 1) {
		t.Errorf("x cross y = %v, want (0,0,1)", z)
	}
	if got := x.Dot(y); got != 0 {
		t.Errorf("x dot y = %v, want 0", got)
	}
	if got := x.Dot(x); got != 1 {
		t.Errorf("x dot x = %v, want 1", got)
	}
}

func TestBarycentricInterpolation(t *testing.T) {
	a := NewVector(0, 0, 0)
	b := NewVector(3, 0, 0)
	c := NewVector(0, 3, 0)

	bc := BarycentricCoordinates{U: 0, V: 0}
	if got := bc.InterpolateVector(a, b, c); got != a {
		t.Errorf("InterpolateVector at (0,0) = %v, want vertex A = %v", got, a)
	}

	bc = BarycentricCoordinates{U: 1, V: 0}
	if got := bc.InterpolateVector(a, b, c); got != b {
		t.Errorf("InterpolateVector at (1,0) = %v, want vertex B = %v", got, b)
	}

	centroid := BarycentricCoordinates{U: 1.0 / 3, V: 1.0 / 3}.InterpolateVector(a, b, c)
	want := NewVector(1, 1, 0)
	if math.Abs(float64(centroid.X-want.X)) > 1e-5 || math.Abs(float64(centroid.Y-want.Y)) > 1e-5 {
		t.Errorf("centroid = %v, want approximately %v", centroid, want)
	}
}

func TestMinMaxPoint(t *testing.T) {
	a := NewPoint(1, -2, 3)
	b := NewPoint(-5, 4, 0)
	if got := Min(a, b); got != NewPoint(-5, -2, 0) {
		t.Errorf("Min = %v, want (-5,-2,0)", got)
	}
	if got := Max(a, b); got != NewPoint(1, 4, 3) {
		t.Errorf("Max = %v, want (1,4,3)", got)
	}
}

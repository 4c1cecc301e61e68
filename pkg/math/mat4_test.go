package math

import (
	gomath "math"
	"testing"
)

func almostEqual(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}

func TestIdentityMul(t *testing.T) {
	m := Translate(1, 2, 3)
	got := Identity().Mul(m)
	if got != m {
		t.Errorf("Identity().Mul(m) = %v, want %v", got, m)
	}
}

func TestTranslatePoint(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{2, 3, 4}
	if got != want {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
}

func TestScaleUniform(t *testing.T) {
	m := Scale(2)
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Scale(2).TransformPoint = %v, want %v", got, want)
	}
}

func TestRotateYHalfTurn(t *testing.T) {
	m := RotateY(gomath.Pi)
	got := m.TransformPoint(Vec3{0, 0, -1})
	if !almostEqual(got.X, 0) || !almostEqual(got.Y, 0) || !almostEqual(got.Z, 1) {
		t.Errorf("RotateY(pi) of (0,0,-1) = %v, want (0,0,1)", got)
	}
}

func TestTRSOrder(t *testing.T) {
	// A point on the model's -Z nose, yawed half a turn then moved up,
	// must end at +Z relative to the new origin.
	m := TRS(Vec3{0, 1, 0}, Vec3{0, gomath.Pi, 0}, 1)
	got := m.TransformPoint(Vec3{0, 0, -1})
	if !almostEqual(got.X, 0) || !almostEqual(got.Y, 1) || !almostEqual(got.Z, 1) {
		t.Errorf("TRS transform = %v, want (0,1,1)", got)
	}
}

func TestPerspectiveFrustum(t *testing.T) {
	fov := float32(gomath.Pi / 2)
	m := Perspective(fov, 1, 0.1, 100)
	// tan(fov/2) = 1 so m[0] and m[5] must both be 1.
	if !almostEqual(m[0], 1) || !almostEqual(m[5], 1) {
		t.Errorf("Perspective focal terms = %v, %v, want 1, 1", m[0], m[5])
	}
}

package tracking

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearview/fitmirror/internal/pose"
)

func shouldersOnly(lx, ly, lz, rx, ry, rz float32) *pose.Pose {
	p := &pose.Pose{}
	p.Landmarks[pose.LeftShoulder] = pose.Landmark{X: lx, Y: ly, Z: lz, Visibility: 1}
	p.Landmarks[pose.RightShoulder] = pose.Landmark{X: rx, Y: ry, Z: rz, Visibility: 1}
	return p
}

func noNaN(t *testing.T, tr Transform) {
	t.Helper()
	for _, v := range []float32{
		tr.Position.X, tr.Position.Y, tr.Position.Z,
		tr.Rotation.X, tr.Rotation.Y, tr.Rotation.Z,
		tr.Scale,
	} {
		require.False(t, gomath.IsNaN(float64(v)), "transform contains NaN: %+v", tr)
		require.False(t, gomath.IsInf(float64(v), 0), "transform contains Inf: %+v", tr)
	}
}

func TestMapSymmetricFrontalPose(t *testing.T) {
	cal := DefaultCalibration()
	m := NewMapper(cal)

	p := shouldersOnly(0.4, 0.5, 0, 0.6, 0.5, 0)
	tr := m.Map(p)
	noNaN(t, tr)

	assert.InDelta(t, 0, float64(tr.Rotation.Z), 1e-6, "level shoulders give zero roll")
	assert.InDelta(t, float64(BaseYaw), float64(tr.Rotation.Y), 1e-6, "no depth asymmetry gives base yaw")
	assert.Zero(t, tr.Rotation.X, "no nose gives zero pitch")

	wantScale := float32(0.2) * cal.ScaleMultiplier
	if wantScale > cal.MaxScale {
		wantScale = cal.MaxScale
	}
	assert.InDelta(t, float64(wantScale), float64(tr.Scale), 1e-4)

	// Centered shoulders land at the calibrated offsets.
	assert.InDelta(t, float64(cal.HorizontalOffset), float64(tr.Position.X), 1e-5)
	assert.InDelta(t, float64(cal.VerticalOffset), float64(tr.Position.Y), 1e-5)
}

func TestMapMissingShoulderGivesDefault(t *testing.T) {
	cal := DefaultCalibration()
	m := NewMapper(cal)

	p := &pose.Pose{}
	p.Landmarks[pose.LeftShoulder] = pose.Landmark{X: 0.4, Y: 0.5, Visibility: 1}
	// Right shoulder left at zero visibility.

	tr := m.Map(p)
	noNaN(t, tr)
	assert.Equal(t, cal.DefaultTransform(), tr)
}

func TestMapNilPoseGivesDefault(t *testing.T) {
	cal := DefaultCalibration()
	m := NewMapper(cal)

	tr := m.Map(nil)
	noNaN(t, tr)
	assert.Equal(t, cal.DefaultTransform(), tr)
}

// Scale stays inside [MinScale, MaxScale] for any shoulder width.
func TestMapScaleClamped(t *testing.T) {
	cal := DefaultCalibration()
	m := NewMapper(cal)

	widths := []struct{ lx, rx float32 }{
		{0.5, 0.5},     // zero width
		{0.499, 0.501}, // sliver
		{0.4, 0.6},     // normal
		{0.0, 1.0},     // full frame
		{-10, 10},      // absurd
	}

	for _, w := range widths {
		tr := m.Map(shouldersOnly(w.lx, 0.5, 0, w.rx, 0.5, 0))
		noNaN(t, tr)
		assert.GreaterOrEqual(t, tr.Scale, cal.MinScale, "width %v", w)
		assert.LessOrEqual(t, tr.Scale, cal.MaxScale, "width %v", w)
	}
}

func TestMapVerticalSignFlip(t *testing.T) {
	cal := DefaultCalibration()
	m := NewMapper(cal)

	// Shoulders in the upper image half must land in the upper world
	// half: image y grows downward, world y grows upward.
	high := m.Map(shouldersOnly(0.4, 0.2, 0, 0.6, 0.2, 0))
	low := m.Map(shouldersOnly(0.4, 0.8, 0, 0.6, 0.8, 0))
	assert.Greater(t, high.Position.Y, low.Position.Y)
}

func TestMapShoulderTiltGivesRoll(t *testing.T) {
	m := NewMapper(DefaultCalibration())

	// Right shoulder lower in the image than the left.
	tr := m.Map(shouldersOnly(0.4, 0.45, 0, 0.6, 0.55, 0))
	assert.Negative(t, tr.Rotation.Z)

	tr = m.Map(shouldersOnly(0.4, 0.55, 0, 0.6, 0.45, 0))
	assert.Positive(t, tr.Rotation.Z)
}

func TestMapDepthAsymmetryGivesYaw(t *testing.T) {
	m := NewMapper(DefaultCalibration())

	// Right shoulder closer to the camera than the left.
	turned := m.Map(shouldersOnly(0.4, 0.5, 0.1, 0.6, 0.5, -0.1))
	assert.Less(t, turned.Rotation.Y, BaseYaw)

	turned = m.Map(shouldersOnly(0.4, 0.5, -0.1, 0.6, 0.5, 0.1))
	assert.Greater(t, turned.Rotation.Y, BaseYaw)
}

func TestMapHipBlendStabilizesAnchor(t *testing.T) {
	m := NewMapper(DefaultCalibration())

	noHips := shouldersOnly(0.4, 0.4, 0, 0.6, 0.4, 0)
	withHips := shouldersOnly(0.4, 0.4, 0, 0.6, 0.4, 0)
	withHips.Landmarks[pose.LeftHip] = pose.Landmark{X: 0.45, Y: 0.8, Visibility: 1}
	withHips.Landmarks[pose.RightHip] = pose.Landmark{X: 0.55, Y: 0.8, Visibility: 1}

	a := m.Map(noHips)
	b := m.Map(withHips)

	// Hips sit lower in the image, so the blended anchor drops.
	assert.Less(t, b.Position.Y, a.Position.Y)
}

func TestMapNoseDrivesDepthAndPitch(t *testing.T) {
	m := NewMapper(DefaultCalibration())

	base := shouldersOnly(0.4, 0.5, 0.2, 0.6, 0.5, 0.2)
	withNose := shouldersOnly(0.4, 0.5, 0.2, 0.6, 0.5, 0.2)
	withNose.Landmarks[pose.Nose] = pose.Landmark{X: 0.5, Y: 0.3, Z: -0.2, Visibility: 1}

	a := m.Map(base)
	b := m.Map(withNose)

	assert.NotEqual(t, a.Position.Z, b.Position.Z, "nose depth must feed the depth average")
	assert.NotEqual(t, a.Rotation.X, b.Rotation.X, "nose offset must feed pitch")
}

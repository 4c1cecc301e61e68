package tracking

import (
	"github.com/wearview/fitmirror/internal/pose"
	"github.com/wearview/fitmirror/pkg/math"
)

// visibilityFloor is the per-landmark visibility below which a landmark is
// treated as missing by the mapper. Whole-pose quality gating is the
// estimator's job; this only guards individual reads.
const visibilityFloor = 0.2

// torsoBlend is how far the garment anchor slides from the shoulder
// midpoint toward the hip midpoint when hips are visible. Anchoring purely
// on shoulders jitters more under arm movement.
const torsoBlend = 0.3

// neutralNoseDrop is the nose-to-torso-center vertical offset, in
// normalized image space, of an upright subject. Deviations drive pitch.
const neutralNoseDrop = 0.25

// Mapper converts a pose sample into a raw (pre-smoothing) garment
// transform using shoulder, hip and nose geometry. Shoulder width is the
// primary size cue: it is the most visibility-robust upper-body
// measurement, and shoulder depth asymmetry is a cheap stand-in for body
// yaw without a full 3D solve.
type Mapper struct {
	cal Calibration
}

// NewMapper creates a mapper with the given calibration.
func NewMapper(cal Calibration) *Mapper {
	return &Mapper{cal: cal}
}

// Calibration returns the current calibration.
func (m *Mapper) Calibration() Calibration {
	return m.cal
}

// SetCalibration replaces the current calibration.
func (m *Mapper) SetCalibration(cal Calibration) {
	m.cal = cal
}

// Map converts the pose into a raw garment transform. A pose without both
// shoulders maps to the calibrated default transform; it never produces
// NaN or unbounded values.
func (m *Mapper) Map(p *pose.Pose) Transform {
	if !p.HasShoulders(visibilityFloor) {
		return m.cal.DefaultTransform()
	}

	left := p.Landmarks[pose.LeftShoulder]
	right := p.Landmarks[pose.RightShoulder]
	nose, hasNose := m.landmark(p, pose.Nose)

	anchor := m.anchor(p, left, right)

	return Transform{
		Position: m.position(anchor, left, right, nose, hasNose),
		Rotation: m.rotation(left, right, anchor, nose, hasNose),
		Scale:    m.scale(left, right),
	}
}

// landmark reads a landmark, reporting whether it is usable.
func (m *Mapper) landmark(p *pose.Pose, idx int) (pose.Landmark, bool) {
	lm, ok := p.At(idx)
	return lm, ok && lm.Visible(visibilityFloor)
}

// anchor is the torso point the garment hangs from: the shoulder midpoint,
// blended toward the hip midpoint when both hips are visible.
func (m *Mapper) anchor(p *pose.Pose, left, right pose.Landmark) math.Vec3 {
	shoulderMid := left.Position().Midpoint(right.Position())

	lHip, okL := m.landmark(p, pose.LeftHip)
	rHip, okR := m.landmark(p, pose.RightHip)
	if !okL || !okR {
		return shoulderMid
	}
	hipMid := lHip.Position().Midpoint(rHip.Position())
	return shoulderMid.Lerp(hipMid, torsoBlend)
}

// position maps the normalized anchor into world space. Image-space y
// grows downward, world-space y grows upward, hence the sign flip.
func (m *Mapper) position(anchor math.Vec3, left, right, nose pose.Landmark, hasNose bool) math.Vec3 {
	x := (anchor.X-0.5)*m.cal.HorizontalRange + m.cal.HorizontalOffset
	y := -(anchor.Y-0.5)*m.cal.VerticalRange + m.cal.VerticalOffset

	avgDepth := (left.Z + right.Z) * 0.5
	if hasNose {
		avgDepth = (avgDepth + nose.Z) * 0.5
	}
	z := m.cal.DepthOffset + avgDepth*m.cal.DepthMultiplier

	return math.Vec3{X: x, Y: y, Z: z}
}

// rotation derives Euler angles from shoulder geometry. Roll follows the
// shoulder line tilt, yaw follows shoulder depth asymmetry on top of the
// base half-turn, pitch follows the nose drop relative to the anchor.
func (m *Mapper) rotation(left, right pose.Landmark, anchor math.Vec3, nose pose.Landmark, hasNose bool) math.Vec3 {
	dx := right.X - left.X
	dy := right.Y - left.Y
	dz := right.Z - left.Z

	roll := -math.Atan2(dy, dx) * m.cal.RollGain

	shoulderWidth := left.Position().XY().Distance(right.Position().XY())
	var yaw float32
	if shoulderWidth > 0 {
		yaw = math.Atan2(dz, shoulderWidth) * m.cal.YawGain
	}

	var pitch float32
	if hasNose {
		drop := anchor.Y - nose.Y
		pitch = (neutralNoseDrop - drop) * m.cal.PitchGain
	}

	return math.Vec3{X: pitch, Y: BaseYaw + yaw, Z: roll}
}

// scale derives uniform garment scale from the image-plane shoulder width,
// clamped so it can never be degenerate or runaway.
func (m *Mapper) scale(left, right pose.Landmark) float32 {
	width := left.Position().XY().Distance(right.Position().XY())
	return math.Clamp(width*m.cal.ScaleMultiplier, m.cal.MinScale, m.cal.MaxScale)
}

package tracking

import (
	gomath "math"

	"github.com/wearview/fitmirror/pkg/math"
)

// BaseYaw is the garment's resting yaw. Garment models are authored facing
// -Z while the default camera sits at +Z, so the model starts half-turned
// toward the viewer. All rotation signs derive from this one convention.
const BaseYaw = float32(gomath.Pi)

// Calibration parameterizes the pose-to-transform mapping. Every constant
// that tunes garment placement lives here as a named field; the mapper has
// no inline magic numbers.
type Calibration struct {
	// ScaleMultiplier converts normalized shoulder width to garment scale.
	ScaleMultiplier float32
	// MinScale and MaxScale clamp the computed scale. MinScale must be
	// positive so the garment can never degenerate to invisible.
	MinScale float32
	MaxScale float32

	// HorizontalRange and VerticalRange map normalized image coordinates
	// to world units. Offsets shift the garment after mapping.
	HorizontalRange  float32
	VerticalRange    float32
	HorizontalOffset float32
	VerticalOffset   float32

	// DepthOffset and DepthMultiplier place the garment along the view
	// axis from landmark depth. The multiplier is negative: larger
	// landmark z means further from the camera.
	DepthOffset     float32
	DepthMultiplier float32

	// Rotation gains. Yaw is driven by shoulder depth asymmetry, roll by
	// shoulder tilt, pitch by the nose-to-torso vertical offset.
	YawGain   float32
	RollGain  float32
	PitchGain float32
}

// DefaultCalibration returns calibration values tuned for a standard
// upper-body garment at webcam distance.
func DefaultCalibration() Calibration {
	return Calibration{
		ScaleMultiplier:  7.5,
		MinScale:         0.6,
		MaxScale:         3.0,
		HorizontalRange:  8.0,
		VerticalRange:    6.0,
		HorizontalOffset: 0,
		VerticalOffset:   -0.4,
		DepthOffset:      0,
		DepthMultiplier:  -2.0,
		YawGain:          0.8,
		RollGain:         0.7,
		PitchGain:        0.3,
	}
}

// DefaultTransform returns the fallback transform used before tracking is
// acquired and when it is lost for good: centered, facing the camera, at
// the midpoint of the scale range.
func (c Calibration) DefaultTransform() Transform {
	return Transform{
		Position: math.Vec3{X: c.HorizontalOffset, Y: c.VerticalOffset, Z: c.DepthOffset},
		Rotation: math.Vec3{X: 0, Y: BaseYaw, Z: 0},
		Scale:    math.Clamp((c.MinScale+c.MaxScale)*0.5, c.MinScale, c.MaxScale),
	}
}

// Patch is a partial calibration update. Nil fields keep their current value.
type Patch struct {
	ScaleMultiplier  *float32
	MinScale         *float32
	MaxScale         *float32
	HorizontalRange  *float32
	VerticalRange    *float32
	HorizontalOffset *float32
	VerticalOffset   *float32
	DepthOffset      *float32
	DepthMultiplier  *float32
	YawGain          *float32
	RollGain         *float32
	PitchGain        *float32
}

// Apply merges the patch into the calibration.
func (c *Calibration) Apply(p Patch) {
	set := func(dst *float32, src *float32) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.ScaleMultiplier, p.ScaleMultiplier)
	set(&c.MinScale, p.MinScale)
	set(&c.MaxScale, p.MaxScale)
	set(&c.HorizontalRange, p.HorizontalRange)
	set(&c.VerticalRange, p.VerticalRange)
	set(&c.HorizontalOffset, p.HorizontalOffset)
	set(&c.VerticalOffset, p.VerticalOffset)
	set(&c.DepthOffset, p.DepthOffset)
	set(&c.DepthMultiplier, p.DepthMultiplier)
	set(&c.YawGain, p.YawGain)
	set(&c.RollGain, p.RollGain)
	set(&c.PitchGain, p.PitchGain)
}

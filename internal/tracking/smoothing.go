package tracking

import (
	"github.com/wearview/fitmirror/pkg/math"
)

// ChannelFilter smooths one scalar channel of the garment transform.
type ChannelFilter interface {
	// Update feeds one raw sample and returns the smoothed value.
	Update(raw float32) float32
	// Reset clears filter memory to the given resting value.
	Reset(value float32)
}

// EMAFilter is an exponential moving average. Alpha in (0,1]; higher is
// more responsive, lower is smoother.
type EMAFilter struct {
	alpha  float32
	value  float32
	primed bool
}

// NewEMAFilter creates an EMA filter with the given coefficient.
func NewEMAFilter(alpha float32) *EMAFilter {
	return &EMAFilter{alpha: math.Clamp(alpha, 0.01, 1)}
}

// Update feeds one raw sample.
func (f *EMAFilter) Update(raw float32) float32 {
	if !f.primed {
		f.value = raw
		f.primed = true
		return f.value
	}
	f.value += f.alpha * (raw - f.value)
	return f.value
}

// Reset clears the filter to the given resting value.
func (f *EMAFilter) Reset(value float32) {
	f.value = value
	f.primed = true
}

// KalmanFilter is a scalar Kalman filter with fixed process noise Q and
// measurement noise R. Higher fidelity than EMA at the cost of two tuning
// constants.
type KalmanFilter struct {
	q, r     float32
	estimate float32
	p        float32
	primed   bool
}

// NewKalmanFilter creates a scalar Kalman filter.
func NewKalmanFilter(q, r float32) *KalmanFilter {
	return &KalmanFilter{q: q, r: r, p: 1}
}

// Update feeds one measurement.
func (f *KalmanFilter) Update(raw float32) float32 {
	if !f.primed {
		f.estimate = raw
		f.p = 1
		f.primed = true
		return f.estimate
	}

	// Predict: estimate carries over, covariance grows by process noise.
	pPred := f.p + f.q

	// Update.
	k := pPred / (pPred + f.r)
	f.estimate += k * (raw - f.estimate)
	f.p = (1 - k) * pPred

	return f.estimate
}

// Reset clears the filter to the given resting value.
func (f *KalmanFilter) Reset(value float32) {
	f.estimate = value
	f.p = 1
	f.primed = true
}

// SmootherConfig selects and tunes the per-channel filters.
type SmootherConfig struct {
	// Mode is "ema" or "kalman". Unknown values fall back to EMA.
	Mode  string
	Alpha float32
	Q     float32
	R     float32
}

// TransformSmoother smooths all seven transform channels independently:
// position x/y/z, rotation x/y/z, and scale. There is no cross-channel
// coupling.
type TransformSmoother struct {
	pos   [3]ChannelFilter
	rot   [3]ChannelFilter
	scale ChannelFilter

	rest Transform
}

// NewTransformSmoother creates a smoother whose channels rest at the given
// transform after Reset.
func NewTransformSmoother(cfg SmootherConfig, rest Transform) *TransformSmoother {
	mk := func() ChannelFilter {
		if cfg.Mode == "kalman" {
			return NewKalmanFilter(cfg.Q, cfg.R)
		}
		return NewEMAFilter(cfg.Alpha)
	}

	s := &TransformSmoother{
		pos:   [3]ChannelFilter{mk(), mk(), mk()},
		rot:   [3]ChannelFilter{mk(), mk(), mk()},
		scale: mk(),
		rest:  rest,
	}
	s.Reset()
	return s
}

// Smooth feeds one raw transform through all channels.
func (s *TransformSmoother) Smooth(raw Transform) Transform {
	return Transform{
		Position: math.Vec3{
			X: s.pos[0].Update(raw.Position.X),
			Y: s.pos[1].Update(raw.Position.Y),
			Z: s.pos[2].Update(raw.Position.Z),
		},
		Rotation: math.Vec3{
			X: s.rot[0].Update(raw.Rotation.X),
			Y: s.rot[1].Update(raw.Rotation.Y),
			Z: s.rot[2].Update(raw.Rotation.Z),
		},
		Scale: s.scale.Update(raw.Scale),
	}
}

// Reset clears all channel memory back to the resting transform. Rotation
// rests at the base facing-camera orientation, not at zero.
func (s *TransformSmoother) Reset() {
	s.pos[0].Reset(s.rest.Position.X)
	s.pos[1].Reset(s.rest.Position.Y)
	s.pos[2].Reset(s.rest.Position.Z)
	s.rot[0].Reset(s.rest.Rotation.X)
	s.rot[1].Reset(s.rest.Rotation.Y)
	s.rot[2].Reset(s.rest.Rotation.Z)
	s.scale.Reset(s.rest.Scale)
}

// SetRest replaces the resting transform used by future resets.
func (s *TransformSmoother) SetRest(rest Transform) {
	s.rest = rest
}

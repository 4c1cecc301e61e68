// Package tracking converts body landmarks into a stable garment transform.
//
// The pipeline is: confidence gate -> pose-to-transform mapping -> per-channel
// smoothing, wrapped by a controller state machine that substitutes a default
// transform whenever tracking is weak or absent.
package tracking

import (
	"github.com/wearview/fitmirror/pkg/math"
)

// Transform is the rigid transform applied to the garment root every frame.
// Rotation is Euler angles in radians. Scale is uniform.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    float32
}

// Matrix returns the composed model matrix for this transform.
func (t Transform) Matrix() math.Mat4 {
	return math.TRS(t.Position, t.Rotation, t.Scale)
}

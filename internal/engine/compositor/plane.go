package compositor

import (
	gomath "math"
)

// PlaneSize returns the world-space width and height a plane must have to
// exactly fill the view frustum at the given distance from the camera.
// fovY is the vertical field of view in radians, aspect is width/height.
// Recomputed on every viewport resize so the camera backdrop never
// stretches or crops.
func PlaneSize(fovY, distance, aspect float32) (width, height float32) {
	height = 2 * float32(gomath.Tan(float64(fovY)/2)) * distance
	width = height * aspect
	return width, height
}

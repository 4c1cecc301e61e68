package compositor

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaneSizeFillsFrustum(t *testing.T) {
	fov := float32(gomath.Pi / 2) // tan(fov/2) = 1

	w, h := PlaneSize(fov, 10, 16.0/9.0)
	assert.InDelta(t, 20.0, h, 1e-4, "height must be 2*tan(fov/2)*distance")
	assert.InDelta(t, 20.0*16.0/9.0, w, 1e-3, "width must be height*aspect")
}

func TestPlaneSizeResizeInvariance(t *testing.T) {
	fov := float32(0.9)
	dist := float32(22)

	for _, aspect := range []float32{4.0 / 3.0, 16.0 / 9.0, 21.0 / 9.0, 1} {
		w, h := PlaneSize(fov, dist, aspect)

		wantH := 2 * float32(gomath.Tan(float64(fov)/2)) * dist
		assert.InDelta(t, wantH, h, 1e-4, "height is aspect-independent")
		assert.InDelta(t, wantH*aspect, w, 1e-3, "width tracks the new aspect")
	}
}

func TestPlaneSizeGrowsWithDistance(t *testing.T) {
	fov := float32(0.9)
	_, near := PlaneSize(fov, 5, 1)
	_, far := PlaneSize(fov, 50, 1)
	assert.Greater(t, far, near)
}

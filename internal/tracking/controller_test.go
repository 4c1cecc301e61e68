package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearview/fitmirror/internal/pose"
)

// fakeGarment records visibility and transform calls.
type fakeGarment struct {
	ready       bool
	visible     bool
	hiddenCount int
	transform   Transform
	setCount    int

	panicNextSet bool
}

func (g *fakeGarment) Ready() bool { return g.ready }

func (g *fakeGarment) SetVisible(visible bool) {
	if !visible {
		g.hiddenCount++
	}
	g.visible = visible
}

func (g *fakeGarment) SetTransform(t Transform) {
	if g.panicNextSet {
		g.panicNextSet = false
		panic("synthetic transform failure")
	}
	g.transform = t
	g.setCount++
}

func testControllerConfig() ControllerConfig {
	return ControllerConfig{
		ConfidenceThreshold: 0.5,
		FallbackHoldFrames:  5,
		Smoother:            SmootherConfig{Mode: "ema", Alpha: 0.3},
	}
}

func newTestController(g *fakeGarment) *Controller {
	return NewController(testControllerConfig(), DefaultCalibration(), g)
}

func trackablePose() *pose.Pose {
	return frontalPose()
}

func TestUpdateBeforeInitIsNoOp(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)

	c.Update(trackablePose())

	assert.Equal(t, StateUninitialized, c.Status().State)
	assert.Zero(t, g.setCount)
	assert.False(t, g.visible)
}

func TestWaitsForModel(t *testing.T) {
	g := &fakeGarment{ready: false}
	c := newTestController(g)
	c.Init(640, 480)

	c.Update(trackablePose())
	assert.Equal(t, StateWaitingForModel, c.Status().State)
	assert.Zero(t, g.setCount)

	// Model arrives; the very next update proceeds.
	g.ready = true
	c.Update(trackablePose())
	assert.Equal(t, StateTracking, c.Status().State)
	assert.True(t, g.visible)
}

// update(nil) before any successful tracking applies the default
// transform and shows the garment.
func TestFallbackBeforeAcquisition(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	c.Update(nil)

	st := c.Status()
	assert.Equal(t, StateNoPoseFallback, st.State)
	assert.True(t, st.HasShownGarment)
	assert.True(t, g.visible)
	assert.Equal(t, DefaultCalibration().DefaultTransform(), g.transform)
}

func TestTrackingAppliesMappedTransform(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	p := trackablePose()
	for i := 0; i < 100; i++ {
		c.Update(p)
	}

	st := c.Status()
	assert.True(t, st.IsTracking)
	assert.Equal(t, uint64(100), st.UpdateCount)
	assert.Greater(t, st.Confidence, float32(0.5))

	// After convergence the applied transform matches the raw mapping.
	want := NewMapper(DefaultCalibration()).Map(p)
	assert.InDelta(t, float64(want.Scale), float64(g.transform.Scale), 1e-3)
	assert.InDelta(t, float64(want.Position.Y), float64(g.transform.Position.Y), 1e-3)
}

// Once shown, intermittent pose loss must never hide the garment.
func TestNoVisibilityFlicker(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	c.Update(trackablePose())
	require.True(t, g.visible)

	for i := 0; i < 3; i++ {
		c.Update(nil)
	}
	c.Update(trackablePose())
	for i := 0; i < 50; i++ {
		c.Update(nil)
	}

	assert.True(t, g.visible)
	assert.Zero(t, g.hiddenCount, "garment must never be hidden by pose loss")
}

// After acquisition, a short dropout holds the last good transform.
func TestFallbackHoldsLastGoodTransform(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	for i := 0; i < 20; i++ {
		c.Update(trackablePose())
	}
	held := g.transform

	for i := 0; i < 3; i++ { // below FallbackHoldFrames
		c.Update(nil)
	}

	assert.Equal(t, held, g.transform, "short dropout must not move the garment")
	assert.Equal(t, StateNoPoseFallback, c.Status().State)
}

// A long dropout eases toward the default transform instead of popping.
func TestFallbackEasesTowardDefault(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	for i := 0; i < 20; i++ {
		c.Update(trackablePose())
	}
	tracked := g.transform

	for i := 0; i < 200; i++ {
		c.Update(nil)
	}

	def := DefaultCalibration().DefaultTransform()
	assert.NotEqual(t, tracked, g.transform)
	assert.InDelta(t, float64(def.Scale), float64(g.transform.Scale), 1e-2)
	assert.InDelta(t, float64(def.Position.X), float64(g.transform.Position.X), 1e-2)
}

func TestLowConfidenceIsRejected(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	// Dim shoulders turned away from the camera: visibility and
	// frontalness both score low.
	weak := &pose.Pose{}
	weak.Landmarks[pose.LeftShoulder] = pose.Landmark{X: 0.4, Y: 0.5, Z: 0.4, Visibility: 0.3}
	weak.Landmarks[pose.RightShoulder] = pose.Landmark{X: 0.6, Y: 0.5, Z: -0.4, Visibility: 0.3}

	c.Update(weak)

	st := c.Status()
	assert.False(t, st.IsTracking)
	assert.Equal(t, StateNoPoseFallback, st.State)
}

func TestForceShowAppliesDefault(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	for i := 0; i < 20; i++ {
		c.Update(trackablePose())
	}

	c.ForceShow()

	assert.True(t, g.visible)
	assert.Equal(t, DefaultCalibration().DefaultTransform(), g.transform)
}

// reset() followed by identical input matches a fresh instance exactly.
func TestResetMatchesFreshInstance(t *testing.T) {
	gUsed := &fakeGarment{ready: true}
	used := newTestController(gUsed)
	used.Init(640, 480)
	for i := 0; i < 50; i++ {
		used.Update(trackablePose())
	}
	used.Reset()

	gFresh := &fakeGarment{ready: true}
	fresh := newTestController(gFresh)
	fresh.Init(640, 480)

	p := trackablePose()
	for i := 0; i < 10; i++ {
		used.Update(p)
		fresh.Update(p)
		assert.Equal(t, gFresh.transform, gUsed.transform, "frame %d", i)
	}
	assert.Equal(t, fresh.Status().UpdateCount, used.Status().UpdateCount)
}

func TestDisposeStopsUpdates(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)
	c.Update(trackablePose())

	c.Dispose()
	assert.False(t, g.visible, "dispose hides the garment intentionally")

	before := g.setCount
	c.Update(trackablePose())
	c.ForceShow()
	assert.Equal(t, before, g.setCount)
	assert.Equal(t, StateDisposed, c.Status().State)
}

// A panic during transform application is contained and downgraded to a
// no-pose frame.
func TestUpdatePanicIsRecovered(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	g.panicNextSet = true
	assert.NotPanics(t, func() {
		c.Update(trackablePose())
	})

	assert.Equal(t, StateNoPoseFallback, c.Status().State)
	assert.True(t, g.visible, "recovery path still shows the garment")

	// The loop keeps working afterwards.
	c.Update(trackablePose())
	assert.True(t, c.Status().IsTracking)
}

func TestUpdateCalibrationTakesEffect(t *testing.T) {
	g := &fakeGarment{ready: true}
	c := newTestController(g)
	c.Init(640, 480)

	newMax := float32(1.0)
	c.UpdateCalibration(Patch{MaxScale: &newMax})

	for i := 0; i < 100; i++ {
		c.Update(trackablePose())
	}
	assert.InDelta(t, float64(newMax), float64(g.transform.Scale), 1e-3,
		"raw scale 1.5 must clamp to the new max")
}

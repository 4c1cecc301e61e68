package tracking

import (
	"go.uber.org/zap"

	"github.com/wearview/fitmirror/internal/logger"
	"github.com/wearview/fitmirror/internal/pose"
)

// State is the controller lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateWaitingForModel
	StateTracking
	StateNoPoseFallback
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWaitingForModel:
		return "waiting_for_model"
	case StateTracking:
		return "tracking"
	case StateNoPoseFallback:
		return "no_pose_fallback"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Garment is the controller's view of the 3D garment model. SetVisible
// affects all garment parts atomically.
type Garment interface {
	Ready() bool
	SetVisible(visible bool)
	SetTransform(t Transform)
}

// Status is a read-only diagnostics snapshot. It is derived state, not
// authoritative.
type Status struct {
	State           State
	IsTracking      bool
	HasShownGarment bool
	Confidence      float32
	UpdateCount     uint64
}

// ControllerConfig tunes the controller.
type ControllerConfig struct {
	// ConfidenceThreshold is the minimum pose confidence accepted for
	// tracking.
	ConfidenceThreshold float32
	// FallbackHoldFrames is how many poseless frames the last good
	// transform is held before easing toward the default transform.
	FallbackHoldFrames int
	// Smoother selects and tunes the per-channel filters.
	Smoother SmootherConfig
}

// Controller owns the garment transform. It gates pose samples by
// confidence, runs them through the mapper and smoother, and substitutes
// the calibrated default transform when tracking is weak or absent.
//
// Visibility is a function of controller state: once the garment has been
// shown it is never hidden by a tracking miss, only by Dispose.
//
// All methods must be called from the same goroutine as the render loop.
type Controller struct {
	cfg       ControllerConfig
	garment   Garment
	mapper    *Mapper
	smoother  *TransformSmoother
	estimator Estimator

	state        State
	viewportW    int
	viewportH    int
	current      Transform
	everTracked  bool
	shown        bool
	missedFrames int
	confidence   float32
	updateCount  uint64
}

// NewController creates a controller. It stays inert until Init is called.
func NewController(cfg ControllerConfig, cal Calibration, garment Garment) *Controller {
	c := &Controller{
		cfg:     cfg,
		garment: garment,
		mapper:  NewMapper(cal),
	}
	c.current = cal.DefaultTransform()
	c.smoother = NewTransformSmoother(cfg.Smoother, c.current)
	return c
}

// Init arms the controller for the given viewport. Updates before Init are
// no-ops.
func (c *Controller) Init(viewportWidth, viewportHeight int) {
	if c.state == StateDisposed {
		return
	}
	c.viewportW = viewportWidth
	c.viewportH = viewportHeight
	c.setState(StateWaitingForModel)
}

// Update processes one pose sample (nil means no pose was detected this
// frame). Safe to call in any state; a panic in transform math is treated
// as a detection miss for the frame, never propagated to the render loop.
func (c *Controller) Update(p *pose.Pose) {
	if c.state == StateUninitialized || c.state == StateDisposed {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pose update failed, treating as no pose",
				zap.Any("panic", r),
			)
			c.fallbackFrame()
		}
	}()

	if c.state == StateWaitingForModel {
		if !c.garment.Ready() {
			return
		}
		c.setState(StateNoPoseFallback)
	}

	c.updateCount++
	c.confidence = c.estimator.Score(p)

	if p != nil && c.confidence >= c.cfg.ConfidenceThreshold {
		c.trackedFrame(p)
	} else {
		c.fallbackFrame()
	}
}

// trackedFrame drives the transform from an accepted pose sample.
func (c *Controller) trackedFrame(p *pose.Pose) {
	raw := c.mapper.Map(p)
	c.current = c.smoother.Smooth(raw)
	c.missedFrames = 0
	c.everTracked = true
	c.setState(StateTracking)
	c.apply()
}

// fallbackFrame handles a frame without an acceptable pose. Before first
// acquisition the garment snaps to the default transform; afterwards the
// last good transform is held for a bounded number of frames and then
// eased toward the default through the smoother, so the handover never
// pops. Smoothing memory is never fed a rejected frame's raw values.
func (c *Controller) fallbackFrame() {
	c.setState(StateNoPoseFallback)

	if !c.everTracked {
		c.current = c.mapper.Calibration().DefaultTransform()
		c.smoother.Reset()
		c.apply()
		return
	}

	c.missedFrames++
	if c.missedFrames > c.cfg.FallbackHoldFrames {
		c.current = c.smoother.Smooth(c.mapper.Calibration().DefaultTransform())
	}
	c.apply()
}

// apply pushes the current transform and forced visibility to the garment.
func (c *Controller) apply() {
	c.garment.SetTransform(c.current)
	c.garment.SetVisible(true)
	c.shown = true
}

// ForceShow immediately applies the default transform and forces the
// garment visible, regardless of tracking state. Used when an external
// event (a material change, for example) requires the garment present.
func (c *Controller) ForceShow() {
	if c.state == StateUninitialized || c.state == StateDisposed {
		return
	}
	if c.state == StateWaitingForModel {
		if !c.garment.Ready() {
			return
		}
		c.setState(StateNoPoseFallback)
	}
	c.current = c.mapper.Calibration().DefaultTransform()
	c.smoother.Reset()
	c.apply()
}

// Reset clears smoothing memory and tracking flags without disposing. A
// reset controller behaves like a freshly initialized one.
func (c *Controller) Reset() {
	if c.state == StateUninitialized || c.state == StateDisposed {
		return
	}
	c.smoother.Reset()
	c.current = c.mapper.Calibration().DefaultTransform()
	c.everTracked = false
	c.shown = false
	c.missedFrames = 0
	c.confidence = 0
	c.updateCount = 0
	c.setState(StateWaitingForModel)
}

// Status returns a diagnostics snapshot.
func (c *Controller) Status() Status {
	return Status{
		State:           c.state,
		IsTracking:      c.state == StateTracking,
		HasShownGarment: c.shown,
		Confidence:      c.confidence,
		UpdateCount:     c.updateCount,
	}
}

// Transform returns the garment transform currently applied.
func (c *Controller) Transform() Transform {
	return c.current
}

// UpdateCalibration merges a partial calibration update and re-bases the
// smoother's resting transform on the new defaults.
func (c *Controller) UpdateCalibration(p Patch) {
	if c.state == StateDisposed {
		return
	}
	cal := c.mapper.Calibration()
	cal.Apply(p)
	c.mapper.SetCalibration(cal)
	c.smoother.SetRest(cal.DefaultTransform())
	logger.Debug("calibration updated",
		zap.Float32("scale_multiplier", cal.ScaleMultiplier),
		zap.Float32("min_scale", cal.MinScale),
		zap.Float32("max_scale", cal.MaxScale),
	)
}

// Dispose permanently stops the controller. Further updates are ignored
// and the garment is intentionally hidden.
func (c *Controller) Dispose() {
	if c.state == StateDisposed {
		return
	}
	c.smoother.Reset()
	c.garment.SetVisible(false)
	c.shown = false
	c.setState(StateDisposed)
}

func (c *Controller) setState(next State) {
	if c.state == next {
		return
	}
	logger.Debug("tracking state change",
		zap.Stringer("from", c.state),
		zap.Stringer("to", next),
	)
	c.state = next
}

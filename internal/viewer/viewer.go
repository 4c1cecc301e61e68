// Package viewer implements the main try-on render loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/wearview/fitmirror/internal/engine/compositor"
	"github.com/wearview/fitmirror/internal/engine/garment"
	"github.com/wearview/fitmirror/internal/engine/input"
	"github.com/wearview/fitmirror/internal/engine/material"
	"github.com/wearview/fitmirror/internal/engine/renderer"
	"github.com/wearview/fitmirror/internal/engine/video"
	"github.com/wearview/fitmirror/internal/engine/window"
	"github.com/wearview/fitmirror/internal/enhance"
	"github.com/wearview/fitmirror/internal/logger"
	"github.com/wearview/fitmirror/internal/pose"
	"github.com/wearview/fitmirror/internal/tracking"
	"github.com/wearview/fitmirror/pkg/math"
)

// Config holds viewer configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	TargetFPS  int
	FOVDegrees float32
}

// Deps are the externally constructed collaborators. Everything is passed
// in explicitly; the viewer owns no hidden globals.
type Deps struct {
	Poses     pose.Source
	Video     video.Source
	Materials material.Provider
	Enhancer  *enhance.Uploader // optional
}

// Viewer wires the tracking pipeline to the compositor and runs the
// frame loop.
type Viewer struct {
	config     Config
	running    bool
	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	compositor *compositor.Compositor
	model      *garment.Model
	controller *tracking.Controller
	deps       Deps
}

// New creates a viewer. The controller and garment model are created here
// so their lifecycle is owned by one composition point.
func New(cfg Config, trackCfg tracking.ControllerConfig, cal tracking.Calibration, deps Deps) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	v := &Viewer{
		config: cfg,
		deps:   deps,
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Width,
		Height: cfg.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	compCfg := compositor.DefaultConfig(v.renderer.Aspect())
	if cfg.FOVDegrees > 0 {
		compCfg.FOVY = math.DegToRad(cfg.FOVDegrees)
	}
	v.compositor, err = compositor.New(compCfg)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create compositor: %w", err)
	}

	v.model, err = garment.NewModel()
	if err != nil {
		v.compositor.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to create garment model: %w", err)
	}

	v.controller = tracking.NewController(trackCfg, cal, v.model)
	v.controller.Init(cfg.Width, cfg.Height)

	lightDir := math.Vec3{X: -0.3, Y: -0.7, Z: -0.6}.Normalize()
	v.compositor.AddLayer(compositor.OrderGarment, func(view, proj math.Mat4) {
		v.model.Draw(view, proj, v.deps.Materials.Active(), lightDir)
	})

	v.input = input.New()

	logger.Info("viewer initialized")
	return v, nil
}

// Model returns the garment model, for the asset loader to fill.
func (v *Viewer) Model() *garment.Model {
	return v.model
}

// Controller returns the tracking controller, for calibration tooling.
func (v *Viewer) Controller() *tracking.Controller {
	return v.controller
}

// Run starts the frame loop and blocks until quit.
func (v *Viewer) Run() error {
	v.running = true

	interval := time.Second / 30
	if v.config.TargetFPS > 0 {
		interval = time.Second / time.Duration(v.config.TargetFPS)
	}

	lastFrame := time.Now().Add(-interval)
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop", zap.Duration("frame_interval", interval))

	for v.running {
		// Self-throttle: sleep out the remainder of the frame interval.
		// A late frame runs immediately, never a negative sleep.
		if wait := interval - time.Since(lastFrame); wait > 0 {
			time.Sleep(wait)
		}
		lastFrame = time.Now()

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// Pose updates arrive at the feed's own cadence; a frame may
		// reuse a stale transform if nothing new came in.
		v.controller.Update(v.deps.Poses.Latest())

		v.renderer.Begin()
		frame, seq := v.deps.Video.Frame()
		v.compositor.Composite(frame, seq)
		v.window.SwapBuffers()

		if v.deps.Enhancer != nil {
			v.deps.Enhancer.Offer(frame)
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			status := v.controller.Status()
			logger.Debug("frame stats",
				zap.Int("fps", frameCount),
				zap.Stringer("state", status.State),
				zap.Float32("confidence", status.Confidence),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents processes window and key events.
func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(event.Width, event.Height)
			v.compositor.Resize(v.renderer.Aspect())
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F:
				v.controller.ForceShow()
			case sdl.SCANCODE_R:
				v.controller.Reset()
			}
		}
	}
}

// Close tears the viewer down in reverse construction order.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.controller != nil {
		v.controller.Dispose()
	}
	if v.model != nil {
		v.model.Dispose()
	}
	if v.compositor != nil {
		v.compositor.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

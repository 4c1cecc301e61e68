// Package main is the entry point for the FitMirror try-on viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wearview/fitmirror/internal/config"
	"github.com/wearview/fitmirror/internal/engine/garment"
	"github.com/wearview/fitmirror/internal/engine/material"
	"github.com/wearview/fitmirror/internal/engine/video"
	"github.com/wearview/fitmirror/internal/enhance"
	"github.com/wearview/fitmirror/internal/logger"
	"github.com/wearview/fitmirror/internal/pose"
	"github.com/wearview/fitmirror/internal/tracking"
	"github.com/wearview/fitmirror/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== FitMirror ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	poseFeed := pose.NewFeed(pose.FeedConfig{
		URL:            cfg.Feed.PoseURL,
		ConnectTimeout: cfg.Feed.ConnectTimeout,
		ReconnectDelay: cfg.Feed.ReconnectDelay,
	})
	defer poseFeed.Close()

	videoFeed := video.NewFeed(video.FeedConfig{
		URL:            cfg.Feed.VideoURL,
		ConnectTimeout: cfg.Feed.ConnectTimeout,
		ReconnectDelay: cfg.Feed.ReconnectDelay,
	})
	defer videoFeed.Close()

	var enhancer *enhance.Uploader
	if cfg.Enhance.Enabled {
		enhancer = enhance.New(enhance.Config{
			URL:           cfg.Enhance.URL,
			KeyframeEvery: cfg.Enhance.KeyframeEvery,
			JPEGQuality:   cfg.Enhance.JPEGQuality,
		})
		defer enhancer.Close()
	}

	v, err := viewer.New(
		viewer.Config{
			Title:      "FitMirror",
			Width:      cfg.Graphics.Width,
			Height:     cfg.Graphics.Height,
			Fullscreen: cfg.Graphics.Fullscreen,
			VSync:      cfg.Graphics.VSync,
			TargetFPS:  cfg.Graphics.TargetFPS,
			FOVDegrees: cfg.Graphics.FOVDegrees,
		},
		tracking.ControllerConfig{
			ConfidenceThreshold: cfg.Tracking.ConfidenceThreshold,
			FallbackHoldFrames:  cfg.Tracking.FallbackHoldFrames,
			Smoother: tracking.SmootherConfig{
				Mode:  cfg.Tracking.Smoothing,
				Alpha: cfg.Tracking.SmoothingAlpha,
				Q:     cfg.Tracking.KalmanQ,
				R:     cfg.Tracking.KalmanR,
			},
		},
		calibrationFromConfig(cfg.Calibration),
		viewer.Deps{
			Poses:     poseFeed,
			Video:     videoFeed,
			Materials: material.DefaultProvider(),
			Enhancer:  enhancer,
		},
	)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	// Until a real asset pipeline is attached, fill the model with the
	// built-in placeholder garment.
	v.Model().Load(garment.Placeholder())

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func calibrationFromConfig(c config.CalibrationConfig) tracking.Calibration {
	return tracking.Calibration{
		ScaleMultiplier:  c.ScaleMultiplier,
		MinScale:         c.MinScale,
		MaxScale:         c.MaxScale,
		HorizontalRange:  c.HorizontalRange,
		VerticalRange:    c.VerticalRange,
		HorizontalOffset: c.HorizontalOffset,
		VerticalOffset:   c.VerticalOffset,
		DepthOffset:      c.DepthOffset,
		DepthMultiplier:  c.DepthMultiplier,
		YawGain:          c.YawGain,
		RollGain:         c.RollGain,
		PitchGain:        c.PitchGain,
	}
}

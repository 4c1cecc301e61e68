// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Feed        FeedConfig        `yaml:"feed"`
	Tracking    TrackingConfig    `yaml:"tracking"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Enhance     EnhanceConfig     `yaml:"enhance"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	TargetFPS  int     `yaml:"target_fps"`
	FOVDegrees float32 `yaml:"fov_degrees"`
}

// FeedConfig holds capture front-end connection settings.
// The pose and video streams arrive over WebSocket from the capture client.
type FeedConfig struct {
	PoseURL        string        `yaml:"pose_url"`
	VideoURL       string        `yaml:"video_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// TrackingConfig holds pose tracking behaviour settings.
type TrackingConfig struct {
	// ConfidenceThreshold is the minimum pose confidence accepted for tracking.
	ConfidenceThreshold float32 `yaml:"confidence_threshold"`
	// Smoothing selects the per-channel filter: "ema" or "kalman".
	Smoothing string `yaml:"smoothing"`
	// SmoothingAlpha is the EMA coefficient in (0,1]. Higher is more responsive.
	SmoothingAlpha float32 `yaml:"smoothing_alpha"`
	// KalmanQ and KalmanR are process and measurement noise for kalman mode.
	KalmanQ float32 `yaml:"kalman_q"`
	KalmanR float32 `yaml:"kalman_r"`
	// FallbackHoldFrames is how many poseless frames the last good transform
	// is held before easing toward the default transform.
	FallbackHoldFrames int `yaml:"fallback_hold_frames"`
}

// CalibrationConfig holds the pose-to-garment mapping constants.
// These are starting values; the tracker can be re-calibrated at runtime.
type CalibrationConfig struct {
	ScaleMultiplier  float32 `yaml:"scale_multiplier"`
	MinScale         float32 `yaml:"min_scale"`
	MaxScale         float32 `yaml:"max_scale"`
	HorizontalRange  float32 `yaml:"horizontal_range"`
	VerticalRange    float32 `yaml:"vertical_range"`
	HorizontalOffset float32 `yaml:"horizontal_offset"`
	VerticalOffset   float32 `yaml:"vertical_offset"`
	DepthOffset      float32 `yaml:"depth_offset"`
	DepthMultiplier  float32 `yaml:"depth_multiplier"`
	YawGain          float32 `yaml:"yaw_gain"`
	RollGain         float32 `yaml:"roll_gain"`
	PitchGain        float32 `yaml:"pitch_gain"`
}

// EnhanceConfig holds optional AI enhancement backend settings.
type EnhanceConfig struct {
	Enabled       bool          `yaml:"enabled"`
	URL           string        `yaml:"url"`
	KeyframeEvery time.Duration `yaml:"keyframe_every"`
	JPEGQuality   int           `yaml:"jpeg_quality"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			TargetFPS:  30,
			FOVDegrees: 50,
		},
		Feed: FeedConfig{
			PoseURL:        "ws://127.0.0.1:8787/pose",
			VideoURL:       "ws://127.0.0.1:8787/video",
			ConnectTimeout: 5 * time.Second,
			ReconnectDelay: 2 * time.Second,
		},
		Tracking: TrackingConfig{
			ConfidenceThreshold: 0.5,
			Smoothing:           "ema",
			SmoothingAlpha:      0.3,
			KalmanQ:             0.001,
			KalmanR:             0.05,
			FallbackHoldFrames:  15,
		},
		Calibration: CalibrationConfig{
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
		},
		Enhance: EnhanceConfig{
			Enabled:       false,
			URL:           "ws://127.0.0.1:9901/enhance",
			KeyframeEvery: 2 * time.Second,
			JPEGQuality:   80,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagPoseURL    = flag.String("pose-url", "", "WebSocket URL of the pose landmark feed")
	flagVideoURL   = flag.String("video-url", "", "WebSocket URL of the camera frame feed")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagEnhance    = flag.Bool("enhance", false, "Enable the AI enhancement uploader")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPoseURL != "" {
		cfg.Feed.PoseURL = *flagPoseURL
	}
	if *flagVideoURL != "" {
		cfg.Feed.VideoURL = *flagVideoURL
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagEnhance {
		cfg.Enhance.Enabled = true
	}
}

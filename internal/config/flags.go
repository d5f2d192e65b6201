package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagModel      = flag.String("model", "", "Mesh file replacing the first configured model")
	flagLat        = flag.Float64("lat", 0, "Camera latitude (requires -lon)")
	flagLon        = flag.Float64("lon", 0, "Camera longitude (requires -lat)")
	flagZoom       = flag.Float64("zoom", -1, "Camera zoom level")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
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
	if *flagModel != "" {
		if len(cfg.Models) == 0 {
			cfg.Models = append(cfg.Models, Default().Models[0])
		}
		cfg.Models[0].Path = *flagModel
	}
	if *flagLat != 0 || *flagLon != 0 {
		cfg.Camera.Latitude = *flagLat
		cfg.Camera.Longitude = *flagLon
	}
	if *flagZoom >= 0 {
		cfg.Camera.Zoom = *flagZoom
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}

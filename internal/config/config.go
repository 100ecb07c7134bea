// Package config handles configuration loading and management.
package config

import "time"

// Config holds all settings for the terrain viewer.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewport ViewportConfig `yaml:"viewport"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Panner   PannerConfig   `yaml:"panner"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// ViewportConfig holds projection and zoom settings.
type ViewportConfig struct {
	BaseUnit     [3]float64    `yaml:"base_unit"` // pixels per world unit at zoom 1 (x, y, z)
	ZoomMin      float64       `yaml:"zoom_min"`
	ZoomMax      float64       `yaml:"zoom_max"`
	ZoomEndDelay time.Duration `yaml:"zoom_end_delay"`
	ZoomStep     float64       `yaml:"zoom_step"` // zoom change per wheel notch
}

// TerrainConfig holds height field and shading settings.
type TerrainConfig struct {
	File   string `yaml:"file"` // .isoh, .isoh.zst or .png; empty generates noise terrain
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   int64  `yaml:"seed"`

	Amplitude float64 `yaml:"amplitude"`

	// Light is the light versor. When zero, LightLongitude/LightLatitude are used
	// if set, otherwise the straight-down default applies.
	Light          [3]float64 `yaml:"light"`
	LightLongitude float64    `yaml:"light_longitude"`
	LightLatitude  float64    `yaml:"light_latitude"`

	RefreshDelayPerUnit time.Duration `yaml:"refresh_delay_per_unit"`
}

// PannerConfig holds edge-of-screen panning settings.
type PannerConfig struct {
	Margin       float64       `yaml:"margin"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DebugConfig holds development overlay settings.
type DebugConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CaptureDir string `yaml:"capture_dir"`
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
			FPSLimit:   0,
		},
		Viewport: ViewportConfig{
			BaseUnit:     [3]float64{80, 40, 40},
			ZoomMin:      0.5,
			ZoomMax:      2.0,
			ZoomEndDelay: 500 * time.Millisecond,
			ZoomStep:     0.1,
		},
		Terrain: TerrainConfig{
			Width:               64,
			Height:              64,
			Seed:                1,
			Amplitude:           4,
			RefreshDelayPerUnit: 20 * time.Millisecond,
		},
		Panner: PannerConfig{
			Margin:       100,
			PollInterval: 200 * time.Millisecond,
		},
		Debug: DebugConfig{
			Enabled:    false,
			CaptureDir: "captures",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

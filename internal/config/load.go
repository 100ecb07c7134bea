package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that would make the projection or zoom undefined.
func (c *Config) Validate() error {
	for i, u := range c.Viewport.BaseUnit {
		if u <= 0 {
			return fmt.Errorf("viewport.base_unit[%d] must be positive, got %v", i, u)
		}
	}
	if c.Viewport.ZoomMin <= 0 || c.Viewport.ZoomMax < c.Viewport.ZoomMin {
		return fmt.Errorf("invalid zoom range [%v, %v]", c.Viewport.ZoomMin, c.Viewport.ZoomMax)
	}
	if c.Panner.PollInterval <= 0 {
		return errors.New("panner.poll_interval must be positive")
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "IsoTerrain")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "IsoTerrain")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "isoterrain")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "isoterrain")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

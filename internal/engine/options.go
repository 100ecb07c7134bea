package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/config"
	"github.com/Faultbox/isoterrain/internal/engine/lighting"
	"github.com/Faultbox/isoterrain/internal/engine/terrain"
	"github.com/Faultbox/isoterrain/pkg/formats"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// OptionsFromConfig maps loaded configuration onto engine options.
func OptionsFromConfig(cfg *config.Config, log *zap.Logger) Options {
	v := cfg.Viewport
	return Options{
		BaseUnit:            math.V3(v.BaseUnit[0], v.BaseUnit[1], v.BaseUnit[2]),
		ZoomMin:             v.ZoomMin,
		ZoomMax:             v.ZoomMax,
		ZoomEndDelay:        v.ZoomEndDelay,
		Light:               LightVersor(cfg.Terrain),
		RefreshDelayPerUnit: cfg.Terrain.RefreshDelayPerUnit,
		PanMargin:           cfg.Panner.Margin,
		PanInterval:         cfg.Panner.PollInterval,
		Logger:              log,
	}
}

// LightVersor resolves the configured light: an explicit vector first,
// then sun angles, otherwise straight down.
func LightVersor(t config.TerrainConfig) math.Vec3 {
	if l := math.V3(t.Light[0], t.Light[1], t.Light[2]); l != (math.Vec3{}) {
		return l.Normalize()
	}
	if t.LightLongitude != 0 || t.LightLatitude != 0 {
		return lighting.SunDirection(t.LightLongitude, t.LightLatitude)
	}
	return lighting.DefaultVersor
}

// LoadTerrain reads the configured height field file, or generates noise
// terrain when no file is set.
func LoadTerrain(t config.TerrainConfig) (*terrain.HeightField, error) {
	if t.File == "" {
		return terrain.NewHeightField(terrain.GenerateNoise(terrain.NoiseOptions{
			Width:     t.Width,
			Height:    t.Height,
			Seed:      t.Seed,
			Amplitude: t.Amplitude,
			Step:      0.5,
		})), nil
	}

	cols, err := formats.LoadHeightColumns(t.File, t.Amplitude)
	if err != nil {
		return nil, fmt.Errorf("loading terrain %s: %w", filepath.Base(t.File), err)
	}
	return terrain.NewHeightField(cols), nil
}

// TerrainName is a short label for the configured terrain source.
func TerrainName(t config.TerrainConfig) string {
	if t.File == "" {
		return fmt.Sprintf("noise-%d", t.Seed)
	}
	name := filepath.Base(t.File)
	for _, ext := range []string{".zst", ".isoh", ".png"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

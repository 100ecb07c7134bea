package lighting

import (
	"image/color"
	"math"
	"testing"

	gomath "github.com/Faultbox/isoterrain/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     gomath.Vec3
	}{
		{"zenith", 0, 90, DefaultVersor},
		{"horizon north", 0, 0, gomath.V3(0, -1, 0)},
		{"horizon east", 90, 0, gomath.V3(-1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			if !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
			if math.Abs(got.Length()-1) > 1e-12 {
				t.Errorf("expected unit vector, length %v", got.Length())
			}
		})
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		name   string
		normal gomath.Vec3
		want   float64
	}{
		{"facing up under overhead light", gomath.V3(0, 0, 1), 0},
		{"facing down", gomath.V3(0, 0, -1), 1},
		{"vertical face", gomath.V3(1, 0, 0), 0.5},
		{"degenerate normal", gomath.Vec3{}, NeutralIntensity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intensity(tt.normal, DefaultVersor)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Intensity(%v) = %v, want %v", tt.normal, got, tt.want)
			}
		})
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		intensity float64
		want      uint8
	}{
		{0, 0},
		{0.5, 100},
		{1, 200},
		{1.5, 200},
		{-1, 0},
	}
	for _, tt := range tests {
		want := color.RGBA{R: tt.want, G: tt.want, B: tt.want, A: 255}
		if got := Shade(tt.intensity); got != want {
			t.Errorf("Shade(%v) = %v, want %v", tt.intensity, got, want)
		}
	}
}

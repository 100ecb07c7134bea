// Package lighting provides the flat-shading model for terrain faces.
package lighting

import (
	"image/color"
	"math"

	gomath "github.com/Faultbox/isoterrain/pkg/math"
)

// DefaultVersor is light shining straight down.
var DefaultVersor = gomath.V3(0, 0, -1)

// NeutralIntensity is used when a face normal is undefined.
const NeutralIntensity = 0.5

// MaxShade is the channel value of a fully lit face.
const MaxShade = 200

// SunDirection converts longitude/latitude angles in degrees to a light versor.
// Longitude rotates around the vertical axis starting from +Y, latitude is the
// elevation of the sun above the horizon. The result points from the sun
// towards the ground, so latitude 90 gives DefaultVersor.
func SunDirection(longitude, latitude float64) gomath.Vec3 {
	lonRad := longitude * math.Pi / 180.0
	latRad := latitude * math.Pi / 180.0

	// Spherical to Cartesian, Z up
	towards := gomath.Vec3{
		X: math.Cos(latRad) * math.Sin(lonRad),
		Y: math.Cos(latRad) * math.Cos(lonRad),
		Z: math.Sin(latRad),
	}
	return towards.Scale(-1).Normalize()
}

// Intensity returns how lit a face with the given normal is, in [0, 1].
// A normal facing against the light gives 0 and one facing with it gives 1.
// A zero normal gives NeutralIntensity.
func Intensity(normal, versor gomath.Vec3) float64 {
	cos, ok := normal.CosineSimilarity(versor)
	if !ok {
		return NeutralIntensity
	}
	return min(max((1+cos)/2, 0), 1)
}

// Shade returns the gray fill color for an intensity.
func Shade(intensity float64) color.RGBA {
	v := uint8(math.Round(min(max(intensity, 0), 1) * MaxShade))
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

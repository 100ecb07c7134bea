// Package render defines the drawing surface the engine paints on.
//
// Tiles are rasterized once into off-screen rasters and drawn many times
// through opaque handles, so a backend only needs polygon fills, texture
// creation and textured blits.
package render

import (
	"image/color"

	"github.com/Faultbox/isoterrain/pkg/math"
)

// Handle is a finished raster owned by a surface.
type Handle interface {
	// Size returns the pixel dimensions of the raster.
	Size() (w, h int)
	// Release frees backend resources. Drawing a released handle draws nothing.
	Release()
}

// Raster is an off-screen image being built.
type Raster interface {
	// FillPolygon fills the closed polygon through pts.
	FillPolygon(pts []math.Vec2, c color.RGBA)
	// StrokePolygon outlines the closed polygon through pts.
	StrokePolygon(pts []math.Vec2, c color.RGBA, width float64)
	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, c color.RGBA)
	// Finish freezes the raster into a drawable handle. The raster must not
	// be used afterwards.
	Finish() (Handle, error)
}

// Surface is the on-screen target.
type Surface interface {
	// NewRaster starts an off-screen raster of w×h pixels.
	NewRaster(w, h int) Raster
	// Draw blits h with its top-left corner at at, scaled by scale.
	Draw(h Handle, at math.Vec2, scale float64)
	// Clear fills the whole surface with c.
	Clear(c color.RGBA)
	// Size returns the surface extent in pixels.
	Size() math.Vec2
}

// Common colors.
var (
	Background = color.RGBA{R: 26, G: 26, B: 38, A: 255}
	Red        = color.RGBA{R: 255, A: 255}
	Green      = color.RGBA{G: 255, A: 255}
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

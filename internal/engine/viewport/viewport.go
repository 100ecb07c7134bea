// Package viewport projects world points onto the isometric screen.
package viewport

import (
	"github.com/Faultbox/isoterrain/pkg/math"
)

// DefaultBaseUnit is the pixel size of one world unit at zoom 1.
var DefaultBaseUnit = math.V3(80, 40, 40)

// Viewport holds the screen-side projection parameters.
type Viewport struct {
	// BaseUnit is the pixel length of one world unit per axis at zoom 1.
	BaseUnit math.Vec3
	// Unit is BaseUnit scaled by the current zoom.
	Unit math.Vec3

	// Origin is the screen point the observer projects to.
	Origin math.Vec2
	// Size is the viewport extent in pixels.
	Size math.Vec2

	zoom float64
}

// New creates a viewport at zoom 1.
func New(baseUnit math.Vec3) *Viewport {
	return &Viewport{
		BaseUnit: baseUnit,
		Unit:     baseUnit,
		zoom:     1,
	}
}

// Zoom returns the current zoom level.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// scale sets the zoom without clamping or notifications.
func (v *Viewport) scale(level float64) {
	v.zoom = level
	v.Unit = v.BaseUnit.Scale(level)
}

// Resize sets the viewport size and centers the origin.
func (v *Viewport) Resize(w, h float64) {
	v.Size = math.V2(w, h)
	v.Origin = math.V2(w/2, h/2)
}

// MeasureWorld returns the screen displacement of a world displacement.
func (v *Viewport) MeasureWorld(d math.Vec3) math.Vec2 {
	return math.Vec2{
		X: v.Unit.X / 2 * (d.X + d.Y),
		Y: v.Unit.Y/2*(d.X-d.Y) - v.Unit.Z*d.Z,
	}
}

// MeasureViewport returns the world displacement at height z that spans
// screen displacement p. It is the inverse of MeasureWorld for that z.
func (v *Viewport) MeasureViewport(p math.Vec2, z float64) math.Vec3 {
	a := p.X / v.Unit.X
	b := (p.Y + v.Unit.Z*z) / v.Unit.Y
	return math.Vec3{X: a + b, Y: a - b, Z: z}
}

// Contains reports whether p lies inside the viewport grown by margin on every side.
func (v *Viewport) Contains(p math.Vec2, margin float64) bool {
	return p.X >= -margin && p.X <= v.Size.X+margin &&
		p.Y >= -margin && p.Y <= v.Size.Y+margin
}

// Epsilon is the visibility margin for entities: the larger of the
// horizontal and vertical unit.
func (v *Viewport) Epsilon() float64 {
	return max(v.Unit.X, v.Unit.Y)
}

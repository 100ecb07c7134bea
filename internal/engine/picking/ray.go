// Package picking casts viewport points back into the world.
package picking

import (
	gomath "math"

	"github.com/Faultbox/isoterrain/pkg/math"
)

// Unprojector maps a screen point and an absolute elevation to a world point.
type Unprojector interface {
	ViewportToWorld(p math.Vec2, z float64) math.Vec3
}

// Ray is the set of world points that project to one viewport point.
// Under an orthographic projection every elevation has exactly one such point.
type Ray struct {
	Point math.Vec2
}

// NewRay creates a ray through screen point (x, y).
func NewRay(x, y float64) Ray {
	return Ray{Point: math.V2(x, y)}
}

// WorldPointAtZ returns the point of the ray at absolute elevation z.
func (r Ray) WorldPointAtZ(u Unprojector, z float64) math.Vec3 {
	return u.ViewportToWorld(r.Point, z)
}

// TileRect is an inclusive range of integer tile positions.
type TileRect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Empty reports whether the rect covers no tiles.
func (r TileRect) Empty() bool {
	return r.MaxX < r.MinX || r.MaxY < r.MinY
}

// Contains reports whether tile (x, y) lies in the rect.
func (r TileRect) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Intersect clips r to other.
func (r TileRect) Intersect(other TileRect) TileRect {
	return TileRect{
		MinX: max(r.MinX, other.MinX),
		MinY: max(r.MinY, other.MinY),
		MaxX: min(r.MaxX, other.MaxX),
		MaxY: min(r.MaxY, other.MaxY),
	}
}

// Cover returns the smallest tile rect holding every point the given rays
// hit at each of the elevations zs. Casting the four viewport corner rays
// at the lowest and highest terrain elevation bounds every tile that can
// appear on screen.
func Cover(rays []Ray, u Unprojector, zs ...float64) TileRect {
	if len(zs) == 0 {
		zs = []float64{0}
	}
	rect := TileRect{
		MinX: gomath.MaxInt, MinY: gomath.MaxInt,
		MaxX: gomath.MinInt, MaxY: gomath.MinInt,
	}
	for _, r := range rays {
		for _, z := range zs {
			p := r.WorldPointAtZ(u, z)
			rect.MinX = min(rect.MinX, int(gomath.Floor(p.X)))
			rect.MinY = min(rect.MinY, int(gomath.Floor(p.Y)))
			rect.MaxX = max(rect.MaxX, int(gomath.Ceil(p.X)))
			rect.MaxY = max(rect.MaxY, int(gomath.Ceil(p.Y)))
		}
	}
	return rect
}

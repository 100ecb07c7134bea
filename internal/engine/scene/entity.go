// Package scene holds the entities drawn each frame.
package scene

import (
	"time"

	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Entity is anything the engine updates and draws each frame.
type Entity interface {
	// Update advances the entity by dt.
	Update(dt time.Duration)
	// IsVisible recomputes the entity's screen placement and reports
	// whether it should be drawn this frame.
	IsVisible() bool
	// Render draws the entity.
	Render(s render.Surface)
}

// Depther is implemented by entities with a draw order. Lower depths draw first.
type Depther interface {
	Depth() float64
}

// Object is a static drawable placed at a world position.
type Object struct {
	// Position is the world point the handle's top-left corner is pinned to.
	Position math.Vec3
	Handle   render.Handle
	// Scale multiplies the handle's pixel size when drawn.
	Scale float64

	cam    *viewport.Camera
	screen math.Vec2
}

// NewObject creates an object drawn at scale 1.
func NewObject(cam *viewport.Camera, pos math.Vec3, h render.Handle) *Object {
	o := &Object{Position: pos, Handle: h, Scale: 1, cam: cam}
	o.screen = cam.WorldToViewport(pos)
	return o
}

// Update does nothing; objects are static.
func (o *Object) Update(time.Duration) {}

// IsVisible projects the object and checks it against the viewport grown by
// the camera epsilon.
func (o *Object) IsVisible() bool {
	return o.cam.Visible(o.Project())
}

// Project recomputes and returns the object's screen position.
func (o *Object) Project() math.Vec2 {
	o.screen = o.cam.WorldToViewport(o.Position)
	return o.screen
}

// Render draws the handle at the last projected position.
func (o *Object) Render(s render.Surface) {
	if o.Handle == nil {
		return
	}
	s.Draw(o.Handle, o.screen, o.Scale)
}

// ViewportPosition returns the screen point computed by the last IsVisible.
func (o *Object) ViewportPosition() math.Vec2 {
	return o.screen
}

// Depth orders objects by x+y+z.
func (o *Object) Depth() float64 {
	return o.Position.X + o.Position.Y + o.Position.Z
}

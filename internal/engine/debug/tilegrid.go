// Package debug provides debug visualization utilities.
package debug

import (
	"image/color"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/picking"
	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/terrain"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/internal/logger"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// GridColor is the default outline color.
var GridColor = color.RGBA{R: 128, G: 128, B: 128, A: 160}

// crossHalf is half the cross-hair arm length in pixels.
const crossHalf = 10

// Grid is an overlay entity outlining every on-screen tile at z=0, with a
// cross-hair on the viewport origin. It redraws only when the view changes.
type Grid struct {
	Color color.RGBA

	cam     *viewport.Camera
	surface render.Surface
	field   *terrain.HeightField

	handle render.Handle
	view   gridView
	tiles  int

	log *zap.Logger
}

type gridView struct {
	observer math.Vec3
	zoom     float64
	size     math.Vec2
}

// NewGrid creates a grid overlay drawn on s.
func NewGrid(cam *viewport.Camera, s render.Surface, log *zap.Logger) *Grid {
	return &Grid{
		Color:   GridColor,
		cam:     cam,
		surface: s,
		log:     logger.Or(log, "debug"),
	}
}

// SetField limits the grid to the tiles of hf. Nil outlines every tile on screen.
func (g *Grid) SetField(hf *terrain.HeightField) {
	g.field = hf
	g.view = gridView{}
}

// Rect returns the tiles the grid outlines.
func (g *Grid) Rect() picking.TileRect {
	b := g.cam.Bounds()
	rect := picking.Cover(b[:], g.cam, 0)
	if w, h := g.field.Width(), g.field.Height(); w > 0 && h > 0 {
		rect = rect.Intersect(picking.TileRect{MaxX: w - 1, MaxY: h - 1})
	}
	return rect
}

// Diamonds returns the screen outline of every tile in Rect.
func (g *Grid) Diamonds() [][]math.Vec2 {
	rect := g.Rect()
	if rect.Empty() {
		return nil
	}

	var out [][]math.Vec2
	for x := rect.MinX; x <= rect.MaxX; x++ {
		for y := rect.MinY; y <= rect.MaxY; y++ {
			fx, fy := float64(x), float64(y)
			out = append(out, []math.Vec2{
				g.cam.WorldToViewport(math.V3(fx-0.5, fy-0.5, 0)),
				g.cam.WorldToViewport(math.V3(fx+0.5, fy-0.5, 0)),
				g.cam.WorldToViewport(math.V3(fx+0.5, fy+0.5, 0)),
				g.cam.WorldToViewport(math.V3(fx-0.5, fy+0.5, 0)),
			})
		}
	}
	return out
}

// Tiles returns the number of outlines in the current raster.
func (g *Grid) Tiles() int {
	return g.tiles
}

// Update redraws the overlay when the observer, zoom or viewport size changed.
func (g *Grid) Update(time.Duration) {
	view := gridView{
		observer: g.cam.Observer(),
		zoom:     g.cam.Zoom(),
		size:     g.cam.Viewport.Size,
	}
	if view == g.view && g.handle != nil {
		return
	}
	if err := g.redraw(view.size); err != nil {
		g.log.Warn("debug grid redraw failed", zap.Error(err))
		return
	}
	g.view = view
}

func (g *Grid) redraw(size math.Vec2) error {
	r := g.surface.NewRaster(int(size.X), int(size.Y))

	diamonds := g.Diamonds()
	for _, d := range diamonds {
		r.StrokePolygon(d, g.Color, 1)
	}

	o := g.cam.Viewport.Origin
	r.FillRect(o.X-crossHalf, o.Y-0.5, 2*crossHalf, 1, render.White)
	r.FillRect(o.X-0.5, o.Y-crossHalf, 1, 2*crossHalf, render.White)

	h, err := r.Finish()
	if err != nil {
		return err
	}
	g.Release()
	g.handle = h
	g.tiles = len(diamonds)
	return nil
}

// IsVisible always reports true; the overlay covers the viewport.
func (g *Grid) IsVisible() bool {
	return true
}

// Render draws the overlay raster.
func (g *Grid) Render(s render.Surface) {
	if g.handle != nil {
		s.Draw(g.handle, math.Vec2{}, 1)
	}
}

// Depth places the overlay above every tile.
func (g *Grid) Depth() float64 {
	return gomath.Inf(1)
}

// Release frees the overlay raster.
func (g *Grid) Release() {
	if g.handle != nil {
		g.handle.Release()
		g.handle = nil
	}
}

package terrain

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Bounds returns the screen-space bounding box of the mesh relative to its
// projected anchor.
func Bounds(vp *viewport.Viewport, mesh *TileMesh) (lo, hi math.Vec2) {
	anchor := mesh.Anchor()
	for i, p := range mesh.Points() {
		q := vp.MeasureWorld(p.Sub(anchor))
		if i == 0 {
			lo, hi = q, q
			continue
		}
		lo = math.V2(min(lo.X, q.X), min(lo.Y, q.Y))
		hi = math.V2(max(hi.X, q.X), max(hi.Y, q.Y))
	}
	return lo, hi
}

// Rasterize draws the four faces of mesh into a new raster sized to the
// mesh's screen bounding box. With debug set, a red marker is drawn at the
// tile position and a green one at the raster origin.
func Rasterize(s render.Surface, vp *viewport.Viewport, mesh *TileMesh, debug bool) (*Visual, error) {
	lo, hi := Bounds(vp, mesh)
	w := int(gomath.Ceil(hi.X - lo.X))
	h := int(gomath.Ceil(hi.Y - lo.Y))

	anchor := mesh.Anchor()
	local := func(p math.Vec3) math.Vec2 {
		return vp.MeasureWorld(p.Sub(anchor)).Sub(lo).Round()
	}

	r := s.NewRaster(w, h)
	center := local(mesh.Center)
	for _, f := range mesh.Faces {
		r.FillPolygon([]math.Vec2{center, local(f.First), local(f.Second)}, f.Color)
	}

	if debug {
		ref := vp.MeasureWorld(mesh.Position.Sub(anchor)).Sub(lo)
		r.FillRect(ref.X-3, ref.Y-3, 6, 6, render.Red)
		r.FillRect(-3, -2, 6, 6, render.Green)
	}

	handle, err := r.Finish()
	if err != nil {
		return nil, fmt.Errorf("tile (%v, %v): %w", mesh.Position.X, mesh.Position.Y, err)
	}
	return newVisual(handle, w, h, lo), nil
}

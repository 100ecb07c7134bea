package terrain

import (
	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Placement is what a tile needs to be drawn.
type Placement struct {
	Visual *Visual
	// Offset is the world point at z=0 that projects to the raster's top-left corner.
	Offset math.Vec3
}

// Generator produces tile placements through the cache.
type Generator struct {
	Field   *HeightField
	Camera  *viewport.Camera
	Surface render.Surface
	Cache   *TileCache
	Builder *MeshBuilder
	Debug   bool

	log *zap.Logger
}

// NewGenerator creates a generator with an empty cache.
func NewGenerator(cam *viewport.Camera, s render.Surface, light math.Vec3, log *zap.Logger) *Generator {
	return &Generator{
		Camera:  cam,
		Surface: s,
		Cache:   NewTileCache(),
		Builder: NewMeshBuilder(light),
		log:     log,
	}
}

// Key returns the shape key of tile (x, y).
func (g *Generator) Key(x, y int) ShapeKey {
	return KeyOf(Sample(g.Field, x, y))
}

// Tile returns the placement of tile (x, y). The mesh is built and
// rasterized only when no tile with the same shape is cached. The returned
// visual carries a reference owned by the caller.
func (g *Generator) Tile(x, y int) (Placement, error) {
	key := g.Key(x, y)
	vis, haveVisual := g.Cache.Lookup(key)
	off, haveOffset := g.Cache.Offset(x, y)
	if haveVisual && haveOffset {
		return Placement{Visual: vis.retain(), Offset: off}, nil
	}

	vp := g.Camera.Viewport
	anchor := anchorOf(math.V3(float64(x), float64(y), g.Field.Get(x, y, 0)))

	if !haveVisual {
		mesh := g.Builder.Build(g.Field, x, y)
		v, err := Rasterize(g.Surface, vp, &mesh, g.Debug)
		if err != nil {
			return Placement{}, err
		}
		g.Cache.Store(key, v)
		vis = v
		g.log.Debug("tile shape cached",
			zap.Int("x", x), zap.Int("y", y),
			zap.Int("width", v.Width), zap.Int("height", v.Height),
			zap.Int("shapes", g.Cache.Len()))
	}

	if !haveOffset {
		origin := vp.MeasureWorld(anchor).Add(vis.BoundingOrigin)
		off = vp.MeasureViewport(origin, 0)
		g.Cache.SetOffset(x, y, off)
	}

	return Placement{Visual: vis.retain(), Offset: off}, nil
}

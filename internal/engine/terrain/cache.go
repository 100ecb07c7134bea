package terrain

import (
	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Visual is a rasterized tile shape shared by every tile with the same key.
// It is reference counted: the cache holds one reference and each tile
// showing it holds another. The handle is released with the last reference.
type Visual struct {
	Handle render.Handle
	// Width and Height are the raster size in pixels.
	Width, Height int
	// BoundingOrigin is the raster's top-left corner relative to the
	// projected mesh anchor.
	BoundingOrigin math.Vec2

	refs int
}

func newVisual(h render.Handle, w, hh int, origin math.Vec2) *Visual {
	return &Visual{Handle: h, Width: w, Height: hh, BoundingOrigin: origin, refs: 1}
}

func (v *Visual) retain() *Visual {
	if v != nil {
		v.refs++
	}
	return v
}

func (v *Visual) release() {
	if v == nil || v.refs <= 0 {
		return
	}
	v.refs--
	if v.refs == 0 && v.Handle != nil {
		v.Handle.Release()
	}
}

// Refs returns the number of live references.
func (v *Visual) Refs() int {
	return v.refs
}

// TileCache memoizes visuals by shape and placement offsets by position.
type TileCache struct {
	visuals map[ShapeKey]*Visual
	offsets map[[2]int]math.Vec3
}

// NewTileCache creates an empty cache.
func NewTileCache() *TileCache {
	return &TileCache{
		visuals: make(map[ShapeKey]*Visual),
		offsets: make(map[[2]int]math.Vec3),
	}
}

// Lookup returns the visual stored for key.
func (c *TileCache) Lookup(key ShapeKey) (*Visual, bool) {
	v, ok := c.visuals[key]
	return v, ok
}

// Store caches v under key, taking over the caller's reference.
func (c *TileCache) Store(key ShapeKey, v *Visual) {
	if old, ok := c.visuals[key]; ok && old != v {
		old.release()
	}
	c.visuals[key] = v
}

// Offset returns the placement offset of tile (x, y).
func (c *TileCache) Offset(x, y int) (math.Vec3, bool) {
	o, ok := c.offsets[[2]int{x, y}]
	return o, ok
}

// SetOffset stores the placement offset of tile (x, y).
func (c *TileCache) SetOffset(x, y int, o math.Vec3) {
	c.offsets[[2]int{x, y}] = o
}

// InvalidateAll drops every cached visual. Offsets are kept.
func (c *TileCache) InvalidateAll() {
	for _, v := range c.visuals {
		v.release()
	}
	clear(c.visuals)
}

// ResetOffsets drops every placement offset.
func (c *TileCache) ResetOffsets() {
	clear(c.offsets)
}

// Len returns the number of cached visuals.
func (c *TileCache) Len() int {
	return len(c.visuals)
}

// Offsets returns the number of cached placement offsets.
func (c *TileCache) Offsets() int {
	return len(c.offsets)
}

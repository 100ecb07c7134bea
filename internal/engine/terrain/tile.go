package terrain

import (
	"time"

	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/scene"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Tile is the scene entity of one terrain position. Its visual is shared
// with every tile of the same shape.
type Tile struct {
	*scene.Object

	X, Y int
	Z    float64

	visual   *Visual
	lastZoom float64
	refresh  *schedule.Task
	visible  bool

	owner *Terrain
}

func newTile(owner *Terrain, x, y int, z float64) *Tile {
	return &Tile{
		Object: scene.NewObject(owner.cam, math.Vec3{}, nil),
		X:      x,
		Y:      y,
		Z:      z,
		owner:  owner,
	}
}

// GridPosition returns the tile's grid position and elevation.
func (t *Tile) GridPosition() math.Vec3 {
	return math.V3(float64(t.X), float64(t.Y), t.Z)
}

// Update does nothing; tiles change only through zoom events.
func (t *Tile) Update(time.Duration) {}

// IsVisible tests the tile's grid position against the viewport, so tiles
// that were never rasterized can still be found on screen.
func (t *Tile) IsVisible() bool {
	cam := t.owner.cam
	t.visible = cam.Visible(cam.WorldToViewport(t.GridPosition()))
	if t.visible && t.visual != nil {
		t.Object.Project()
	}
	return t.visible
}

// Render draws the tile, materializing it first if it has no visual or
// its visual was computed at another zoom and no refresh is queued.
func (t *Tile) Render(s render.Surface) {
	if t.stale() {
		t.owner.refreshTile(t)
		t.Object.Project()
	}
	t.Object.Render(s)
}

// Depth orders tiles by grid position.
func (t *Tile) Depth() float64 {
	return float64(t.X+t.Y) + t.Z
}

// Visual returns the shared visual currently shown, if any.
func (t *Tile) Visual() *Visual {
	return t.visual
}

// RefreshPending reports whether a scheduled refresh is waiting.
func (t *Tile) RefreshPending() bool {
	return t.refresh.Pending()
}

func (t *Tile) stale() bool {
	if t.visual == nil {
		return true
	}
	cam := t.owner.cam
	return t.lastZoom != cam.Zoom() && !cam.Zooming() && !t.refresh.Pending()
}

// place swaps in a new placement computed at zoom.
func (t *Tile) place(p Placement, zoom float64) {
	t.visual.release()
	t.visual = p.Visual
	t.Object.Handle = p.Visual.Handle
	t.Object.Position = p.Offset
	t.Object.Scale = 1
	t.lastZoom = zoom
}

// onZoom approximates the new zoom by scaling the old raster.
func (t *Tile) onZoom(level float64) {
	if t.lastZoom > 0 {
		t.Object.Scale = level / t.lastZoom
	}
}

func (t *Tile) detach() {
	t.refresh.Cancel()
	t.refresh = nil
	t.visual.release()
	t.visual = nil
	t.Object.Handle = nil
}

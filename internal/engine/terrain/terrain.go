package terrain

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/event"
	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/scene"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/internal/logger"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Options configures a Terrain. Zero fields take defaults.
type Options struct {
	Light               math.Vec3
	RefreshDelayPerUnit time.Duration
	Logger              *zap.Logger
}

// Terrain owns the tile entities of a height field and keeps their
// visuals in step with the camera zoom.
type Terrain struct {
	cam   *viewport.Camera
	gen   *Generator
	sched *RefreshScheduler
	reg   *scene.Registry

	tiles scene.TileIndex[*Tile]
	order []*Tile
	subs  []event.ID

	log *zap.Logger
}

// New creates an empty terrain drawing on s and registering tiles in reg.
func New(cam *viewport.Camera, s render.Surface, queue *schedule.Queue, reg *scene.Registry, opts Options) *Terrain {
	log := logger.Or(opts.Logger, "terrain")
	gen := NewGenerator(cam, s, opts.Light, log)
	t := &Terrain{
		cam:   cam,
		gen:   gen,
		sched: NewRefreshScheduler(queue, gen.Cache, opts.RefreshDelayPerUnit, log),
		reg:   reg,
		log:   log,
	}

	bus := cam.Events()
	t.subs = append(t.subs,
		bus.OnZoomStart(t.onZoomStart),
		bus.OnZoom(t.onZoom),
		bus.OnZoomEnd(t.onZoomEnd),
	)
	return t
}

// Field returns the current height field.
func (t *Terrain) Field() *HeightField {
	return t.gen.Field
}

// SetField replaces the height field and rebuilds every tile.
func (t *Terrain) SetField(hf *HeightField) {
	t.gen.Field = hf
	t.SetActorTiles()
}

// SetActorTiles discards all tiles and creates one per height field sample.
// Tiles are rasterized lazily the first time they are drawn.
func (t *Terrain) SetActorTiles() {
	t.removeTiles()
	t.gen.Cache.ResetOffsets()

	t.gen.Field.Each(func(x, y int, z float64) {
		tile := newTile(t, x, y, z)
		t.tiles.SetTile(x, y, tile)
		t.order = append(t.order, tile)
		t.reg.Add(tile)
	})

	t.log.Info("terrain tiles created",
		zap.Int("width", t.gen.Field.Width()),
		zap.Int("height", t.gen.Field.Height()),
		zap.Int("tiles", len(t.order)))
}

// SetDebug toggles reference markers in tile rasters. Every tile is
// redrawn the next time it is visible.
func (t *Terrain) SetDebug(on bool) {
	if t.gen.Debug == on {
		return
	}
	t.gen.Debug = on
	t.sched.Cancel()
	for _, tile := range t.order {
		tile.lastZoom = 0
	}
}

// Tile returns the entity of tile (x, y).
func (t *Terrain) Tile(x, y int) (*Tile, bool) {
	return t.tiles.Tile(x, y)
}

// Len returns the number of tile entities.
func (t *Terrain) Len() int {
	return len(t.order)
}

// Generator returns the cache-through tile generator.
func (t *Terrain) Generator() *Generator {
	return t.gen
}

// Scheduler returns the refresh scheduler.
func (t *Terrain) Scheduler() *RefreshScheduler {
	return t.sched
}

// Close unsubscribes from zoom events and removes every tile.
func (t *Terrain) Close() {
	for _, id := range t.subs {
		t.cam.Events().Off(id)
	}
	t.subs = nil
	t.removeTiles()
}

func (t *Terrain) removeTiles() {
	if len(t.order) == 0 {
		return
	}
	t.sched.Cancel()
	owned := make(map[scene.Entity]struct{}, len(t.order))
	for _, tile := range t.order {
		tile.detach()
		owned[tile] = struct{}{}
	}
	t.reg.RemoveFunc(func(e scene.Entity) bool {
		_, ok := owned[e]
		return ok
	})
	t.tiles.RemoveTiles()
	t.order = nil
}

func (t *Terrain) refreshTile(tile *Tile) {
	tile.refresh = nil
	p, err := t.gen.Tile(tile.X, tile.Y)
	if err != nil {
		t.log.Warn("tile refresh failed", zap.Int("x", tile.X), zap.Int("y", tile.Y), zap.Error(err))
		return
	}
	tile.place(p, t.cam.Zoom())
}

func (t *Terrain) onZoomStart() {
	t.sched.Cancel()
	for _, tile := range t.order {
		tile.refresh = nil
	}
}

func (t *Terrain) onZoom(level float64) {
	for _, tile := range t.order {
		tile.onZoom(level)
	}
}

func (t *Terrain) onZoomEnd() {
	observer := t.cam.Observer()
	for _, tile := range t.order {
		if !tile.visible {
			continue
		}
		distance := observer.Distance(tile.GridPosition())
		tile.refresh = t.sched.Schedule(distance, func() { t.refreshTile(tile) })
	}
	t.log.Debug("refresh cycle scheduled", zap.Int("tiles", t.sched.Pending()))
}

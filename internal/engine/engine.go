// Package engine wires the isometric terrain renderer together: camera,
// zoom events, deferred tasks, terrain tiles, panning and debug overlays.
//
// The engine is single-threaded. Every call, including Tick, must come from
// the goroutine that owns the render surface.
package engine

import (
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/debug"
	"github.com/Faultbox/isoterrain/internal/engine/event"
	"github.com/Faultbox/isoterrain/internal/engine/pointer"
	"github.com/Faultbox/isoterrain/internal/engine/panner"
	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/scene"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/internal/engine/terrain"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/internal/logger"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Options configures an Engine. Zero fields take package defaults.
type Options struct {
	BaseUnit     math.Vec3
	ZoomMin      float64
	ZoomMax      float64
	ZoomEndDelay time.Duration

	Light               math.Vec3
	RefreshDelayPerUnit time.Duration

	PanMargin   float64
	PanInterval time.Duration

	// Clock drives deferred tasks. Nil uses the wall clock.
	Clock  schedule.Clock
	Logger *zap.Logger
}

// Engine is the renderer facade driven by a host loop.
type Engine struct {
	surface render.Surface
	queue   *schedule.Queue
	cam     *viewport.Camera
	reg     *scene.Registry
	terrain *terrain.Terrain
	pointer *pointer.Pointer
	panner  *panner.Panner
	grid    *debug.Grid
	debug   bool
	stats   scene.Stats

	log *zap.Logger
}

// New creates an engine drawing on s with an empty terrain. The viewport
// takes the surface size.
func New(s render.Surface, opts Options) *Engine {
	log := logger.Or(opts.Logger, "engine")

	clock := opts.Clock
	if clock == nil {
		clock = schedule.NewWallClock()
	}
	baseUnit := opts.BaseUnit
	if baseUnit == (math.Vec3{}) {
		baseUnit = viewport.DefaultBaseUnit
	}

	queue := schedule.NewQueue(clock)
	vp := viewport.New(baseUnit)
	size := s.Size()
	vp.Resize(size.X, size.Y)

	cam := viewport.NewCamera(vp, event.NewBus(), queue, viewport.CameraOptions{
		ZoomMin:      opts.ZoomMin,
		ZoomMax:      opts.ZoomMax,
		ZoomEndDelay: opts.ZoomEndDelay,
		Logger:       log.Named("camera"),
	})
	reg := scene.NewRegistry()
	ptr := &pointer.Pointer{}

	e := &Engine{
		surface: s,
		queue:   queue,
		cam:     cam,
		reg:     reg,
		pointer: ptr,
		terrain: terrain.New(cam, s, queue, reg, terrain.Options{
			Light:               opts.Light,
			RefreshDelayPerUnit: opts.RefreshDelayPerUnit,
			Logger:              log.Named("terrain"),
		}),
		panner: panner.New(cam, ptr, queue, panner.Options{
			Margin:   opts.PanMargin,
			Interval: opts.PanInterval,
			Logger:   log.Named("panner"),
		}),
		grid: debug.NewGrid(cam, s, log.Named("debug")),
		log:  log,
	}
	e.panner.Start()

	log.Info("engine created",
		zap.Float64("width", size.X), zap.Float64("height", size.Y),
		zap.Float64("zoom", cam.Zoom()))
	return e
}

// SetTerrain replaces the height field and rebuilds every tile. Nil
// clears the terrain and lifts the panning limits.
func (e *Engine) SetTerrain(hf *terrain.HeightField) {
	e.terrain.SetField(hf)
	e.panner.SetField(hf)
	e.grid.SetField(hf)
}

// Terrain returns the terrain actor.
func (e *Engine) Terrain() *terrain.Terrain {
	return e.terrain
}

// SetDebug toggles the tile grid overlay and tile reference markers.
func (e *Engine) SetDebug(on bool) {
	if e.debug == on {
		return
	}
	e.debug = on
	e.terrain.SetDebug(on)
	if on {
		e.reg.Add(e.grid)
	} else {
		e.reg.Remove(e.grid)
		e.grid.Release()
	}
	e.log.Info("debug mode", zap.Bool("enabled", on))
}

// Debug reports whether debug mode is on.
func (e *Engine) Debug() bool {
	return e.debug
}

// AddEntity registers an entity drawn from the next tick on.
func (e *Engine) AddEntity(ent scene.Entity) {
	e.reg.Add(ent)
}

// RemoveEntity unregisters an entity and reports whether it was found.
func (e *Engine) RemoveEntity(ent scene.Entity) bool {
	return e.reg.Remove(ent)
}

// Camera returns the camera shared by every component.
func (e *Engine) Camera() *viewport.Camera {
	return e.cam
}

// Observer returns the world point at the viewport origin.
func (e *Engine) Observer() math.Vec3 {
	return e.cam.Observer()
}

// SetObserver moves the observer.
func (e *Engine) SetObserver(p math.Vec3) {
	e.cam.SetObserver(p)
}

// Zoom returns the current zoom level.
func (e *Engine) Zoom() float64 {
	return e.cam.Zoom()
}

// SetZoom changes the zoom and returns the clamped level applied.
func (e *Engine) SetZoom(level float64) float64 {
	return e.cam.SetZoom(level)
}

// Events returns the zoom event bus.
func (e *Engine) Events() *event.Bus {
	return e.cam.Events()
}

// Queue returns the deferred task queue drained by Tick.
func (e *Engine) Queue() *schedule.Queue {
	return e.queue
}

// Resize updates the viewport after the surface changed size.
func (e *Engine) Resize(w, h float64) {
	e.cam.Viewport.Resize(w, h)
	e.log.Debug("viewport resized", zap.Float64("width", w), zap.Float64("height", h))
}

// PointerMoved records the pointer position used for edge panning.
func (e *Engine) PointerMoved(x, y float64) {
	e.pointer.Move(x, y)
}

// Pointer returns the pointer buffer, for event pumps that write it directly.
func (e *Engine) Pointer() *pointer.Pointer {
	return e.pointer
}

// Tick runs one frame: due tasks, entity updates, then drawing.
func (e *Engine) Tick(dt time.Duration) scene.Stats {
	e.queue.Drain()
	e.stats = e.reg.Update(dt)
	e.surface.Clear(render.Background)
	e.reg.Draw(e.surface)
	return e.stats
}

// Stats returns the entity counts of the last tick.
func (e *Engine) Stats() scene.Stats {
	return e.stats
}

// Close stops panning, removes the terrain, drops pending tasks and closes
// the surface if it can be closed.
func (e *Engine) Close() error {
	e.panner.Stop()
	e.terrain.Close()
	e.grid.Release()
	e.queue.Clear()

	var err error
	if c, ok := e.surface.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	e.log.Info("engine closed")
	return err
}

package terrain

import (
	"image/color"
	"time"

	"github.com/Faultbox/isoterrain/internal/engine/event"
	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/scene"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// recordingSurface counts rasters and draws without producing pixels.
type recordingSurface struct {
	rasters []*recordingRaster
	draws   []recordedDraw
	size    math.Vec2
}

type recordedDraw struct {
	handle *recordingHandle
	at     math.Vec2
	scale  float64
}

type recordingRaster struct {
	w, h  int
	fills []recordedFill
	rects int
}

type recordedFill struct {
	pts []math.Vec2
	c   color.RGBA
}

type recordingHandle struct {
	raster   *recordingRaster
	released bool
}

func (h *recordingHandle) Size() (int, int) { return h.raster.w, h.raster.h }
func (h *recordingHandle) Release()         { h.released = true }

func (r *recordingRaster) FillPolygon(pts []math.Vec2, c color.RGBA) {
	r.fills = append(r.fills, recordedFill{pts: append([]math.Vec2(nil), pts...), c: c})
}
func (r *recordingRaster) StrokePolygon([]math.Vec2, color.RGBA, float64) {}
func (r *recordingRaster) FillRect(x, y, w, h float64, c color.RGBA)     { r.rects++ }
func (r *recordingRaster) Finish() (render.Handle, error) {
	return &recordingHandle{raster: r}, nil
}

func (s *recordingSurface) NewRaster(w, h int) render.Raster {
	r := &recordingRaster{w: w, h: h}
	s.rasters = append(s.rasters, r)
	return r
}

func (s *recordingSurface) Draw(h render.Handle, at math.Vec2, scale float64) {
	s.draws = append(s.draws, recordedDraw{handle: h.(*recordingHandle), at: at, scale: scale})
}

func (s *recordingSurface) Clear(color.RGBA) {}
func (s *recordingSurface) Size() math.Vec2  { return s.size }

// testEnv wires a terrain the way the engine does, on a manual clock.
type testEnv struct {
	clock   *schedule.ManualClock
	queue   *schedule.Queue
	cam     *viewport.Camera
	reg     *scene.Registry
	surface *recordingSurface
	terrain *Terrain
}

func newTestEnv(cols [][]float64) *testEnv {
	clock := &schedule.ManualClock{}
	queue := schedule.NewQueue(clock)
	vp := viewport.New(viewport.DefaultBaseUnit)
	vp.Resize(800, 600)
	cam := viewport.NewCamera(vp, event.NewBus(), queue, viewport.CameraOptions{})
	reg := scene.NewRegistry()
	surface := &recordingSurface{size: math.V2(800, 600)}

	env := &testEnv{
		clock:   clock,
		queue:   queue,
		cam:     cam,
		reg:     reg,
		surface: surface,
		terrain: New(cam, surface, queue, reg, Options{}),
	}
	if cols != nil {
		env.terrain.SetField(NewHeightField(cols))
	}
	return env
}

// frame runs one engine tick without advancing the clock.
func (e *testEnv) frame() scene.Stats {
	e.queue.Drain()
	stats := e.reg.Update(16 * time.Millisecond)
	e.reg.Draw(e.surface)
	return stats
}

func (e *testEnv) advance(d time.Duration) {
	e.clock.Advance(d)
	e.queue.Drain()
}

// grid builds a w×h field with z = f(x, y).
func grid(w, h int, f func(x, y int) float64) [][]float64 {
	cols := make([][]float64, w)
	for x := range cols {
		cols[x] = make([]float64, h)
		for y := range cols[x] {
			cols[x][y] = f(x, y)
		}
	}
	return cols
}

func flat(w, h int) [][]float64 {
	return grid(w, h, func(int, int) float64 { return 0 })
}

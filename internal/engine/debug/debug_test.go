package debug

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/isoterrain/internal/engine/event"
	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/internal/engine/terrain"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/pkg/math"
)

type countingSurface struct {
	rasters []*countingRaster
	draws   int
}

type countingRaster struct {
	w, h    int
	strokes int
	rects   int
}

type countingHandle struct{ released bool }

func (h *countingHandle) Size() (int, int) { return 0, 0 }
func (h *countingHandle) Release()         { h.released = true }

func (r *countingRaster) FillPolygon([]math.Vec2, color.RGBA)            {}
func (r *countingRaster) StrokePolygon([]math.Vec2, color.RGBA, float64) { r.strokes++ }
func (r *countingRaster) FillRect(_, _, _, _ float64, _ color.RGBA)      { r.rects++ }
func (r *countingRaster) Finish() (render.Handle, error)                { return &countingHandle{}, nil }

func (s *countingSurface) NewRaster(w, h int) render.Raster {
	r := &countingRaster{w: w, h: h}
	s.rasters = append(s.rasters, r)
	return r
}
func (s *countingSurface) Draw(render.Handle, math.Vec2, float64) { s.draws++ }
func (s *countingSurface) Clear(color.RGBA)                       {}
func (s *countingSurface) Size() math.Vec2                        { return math.V2(800, 600) }

func newTestGrid() (*Grid, *viewport.Camera, *countingSurface) {
	vp := viewport.New(viewport.DefaultBaseUnit)
	vp.Resize(800, 600)
	cam := viewport.NewCamera(vp, event.NewBus(), schedule.NewQueue(&schedule.ManualClock{}), viewport.CameraOptions{})
	s := &countingSurface{}
	return NewGrid(cam, s, nil), cam, s
}

func TestGridClipsToField(t *testing.T) {
	g, cam, _ := newTestGrid()
	cam.SetObserver(math.V3(2, 2, 0))
	g.SetField(terrain.NewHeightField(terrain.GenerateNoise(terrain.NoiseOptions{Width: 5, Height: 5})))

	rect := g.Rect()
	if rect.MinX != 0 || rect.MinY != 0 || rect.MaxX != 4 || rect.MaxY != 4 {
		t.Errorf("rect = %+v, want the whole 5x5 field", rect)
	}
	diamonds := g.Diamonds()
	if len(diamonds) != 25 {
		t.Fatalf("expected 25 outlines, got %d", len(diamonds))
	}

	// Tile (2, 2) sits under the observer.
	center := diamonds[2*5+2]
	want := []math.Vec2{
		math.V2(360, 300), math.V2(400, 320), math.V2(440, 300), math.V2(400, 280),
	}
	for i := range want {
		if !center[i].ApproxEqual(want[i], 1e-9) {
			t.Errorf("corner %d = %v, want %v", i, center[i], want[i])
		}
	}
}

func TestGridUnboundedCoversViewport(t *testing.T) {
	g, _, _ := newTestGrid()
	rect := g.Rect()
	if rect.Empty() || !rect.Contains(0, 0) {
		t.Fatalf("rect %+v should contain the observer tile", rect)
	}
	if len(g.Diamonds()) <= 25 {
		t.Errorf("expected the whole viewport outlined, got %d tiles", len(g.Diamonds()))
	}
}

func TestGridRedrawsOnViewChange(t *testing.T) {
	g, cam, s := newTestGrid()

	g.Update(0)
	g.Update(0)
	if len(s.rasters) != 1 {
		t.Fatalf("expected 1 raster for an unchanged view, got %d", len(s.rasters))
	}
	r := s.rasters[0]
	if r.w != 800 || r.h != 600 {
		t.Errorf("raster %dx%d, want viewport size", r.w, r.h)
	}
	if r.strokes != g.Tiles() || r.rects != 2 {
		t.Errorf("raster has %d strokes and %d rects, want %d and 2", r.strokes, r.rects, g.Tiles())
	}
	first := g.handle.(*countingHandle)

	cam.SetObserver(math.V3(1, 0, 0))
	g.Update(0)
	if len(s.rasters) != 2 {
		t.Errorf("observer move did not redraw, %d rasters", len(s.rasters))
	}
	if !first.released {
		t.Error("old overlay raster not released")
	}

	g.Render(s)
	if s.draws != 1 {
		t.Errorf("expected 1 draw, got %d", s.draws)
	}
	if !g.IsVisible() || g.Depth() <= 1e300 {
		t.Error("overlay should always draw last")
	}
}

type imageSource struct {
	img image.Image
	err error
}

func (s imageSource) Image() (image.Image, error) { return s.img, s.err }

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "test")
	sc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	// Bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	name, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}
	if want := filepath.Join(dir, "test_2026-01-02_03-04-05.000.png"); name != want {
		t.Errorf("name = %s, want %s", name, want)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("top pixel should be blue, got %v", img.At(0, 0))
	}
	if r, _, _, _ := img.At(0, 1).RGBA(); r == 0 {
		t.Errorf("bottom pixel should be red, got %v", img.At(0, 1))
	}
}

func TestCaptureErrors(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "")

	if _, err := sc.CaptureFromPixels([]byte{1, 2, 3}, 1, 1); !errors.Is(err, ErrPixelSize) {
		t.Errorf("expected ErrPixelSize, got %v", err)
	}

	boom := errors.New("boom")
	if _, err := sc.Capture(imageSource{err: boom}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}

	name, err := sc.Capture(imageSource{img: image.NewRGBA(image.Rect(0, 0, 2, 2))})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if filepath.Base(name)[:11] != "isoterrain_" {
		t.Errorf("default prefix missing from %s", name)
	}
}

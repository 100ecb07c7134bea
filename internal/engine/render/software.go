package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
	"go.uber.org/multierr"

	"github.com/Faultbox/isoterrain/pkg/math"
)

// Software is a CPU surface backed by a gg context.
type Software struct {
	ctx *gg.Context
}

// NewSoftware creates a w×h software surface.
func NewSoftware(w, h int) *Software {
	return &Software{ctx: gg.NewContext(max(w, 1), max(h, 1))}
}

// NewRaster starts a gg-backed raster.
func (s *Software) NewRaster(w, h int) Raster {
	return newSoftRaster(w, h)
}

// Draw blits a software handle. Handles from other backends are ignored.
func (s *Software) Draw(h Handle, at math.Vec2, scale float64) {
	sh, ok := h.(*SoftHandle)
	if !ok || sh.buf == nil {
		return
	}
	s.ctx.DrawImageEx(sh.buf, gg.DrawImageOptions{
		X:         at.X,
		Y:         at.Y,
		DstWidth:  float64(sh.w) * scale,
		DstHeight: float64(sh.h) * scale,
		Opacity:   1,
	})
}

// Clear fills the surface with c.
func (s *Software) Clear(c color.RGBA) {
	s.ctx.ClearWithColor(gg.FromColor(c))
}

// Size returns the surface extent.
func (s *Software) Size() math.Vec2 {
	return math.V2(float64(s.ctx.Width()), float64(s.ctx.Height()))
}

// Resize changes the surface extent, discarding its contents.
func (s *Software) Resize(w, h int) error {
	return s.ctx.Resize(max(w, 1), max(h, 1))
}

// Image returns the current frame.
func (s *Software) Image() (image.Image, error) {
	if err := s.ctx.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flushing frame: %w", err)
	}
	return s.ctx.Image(), nil
}

// EncodePNG writes the current frame as PNG.
func (s *Software) EncodePNG(w io.Writer) error {
	if err := s.ctx.FlushGPU(); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}
	return s.ctx.EncodePNG(w)
}

// Close releases the gg context.
func (s *Software) Close() error {
	return s.ctx.Close()
}

// SoftHandle is a finished software raster.
type SoftHandle struct {
	img image.Image
	buf *gg.ImageBuf
	w   int
	h   int
}

// Size returns the raster dimensions.
func (h *SoftHandle) Size() (int, int) {
	return h.w, h.h
}

// Image returns the raster pixels, or nil once released.
func (h *SoftHandle) Image() image.Image {
	return h.img
}

// Release drops the pixel buffers.
func (h *SoftHandle) Release() {
	h.img = nil
	h.buf = nil
}

// softRaster draws with gg. Fill errors are collected and reported by Finish.
type softRaster struct {
	ctx  *gg.Context
	w, h int
	err  error
}

// NewSoftRaster starts a CPU raster independent of any surface. Other
// backends use it to fill rasters before uploading the pixels.
func NewSoftRaster(w, h int) Raster {
	return newSoftRaster(w, h)
}

func newSoftRaster(w, h int) *softRaster {
	w, h = max(w, 1), max(h, 1)
	return &softRaster{ctx: gg.NewContext(w, h), w: w, h: h}
}

func (r *softRaster) path(pts []math.Vec2) bool {
	if len(pts) < 3 {
		return false
	}
	r.ctx.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.ctx.LineTo(p.X, p.Y)
	}
	r.ctx.ClosePath()
	return true
}

func (r *softRaster) FillPolygon(pts []math.Vec2, c color.RGBA) {
	if !r.path(pts) {
		return
	}
	r.ctx.SetColor(c)
	r.err = multierr.Append(r.err, r.ctx.Fill())
}

func (r *softRaster) StrokePolygon(pts []math.Vec2, c color.RGBA, width float64) {
	if !r.path(pts) {
		return
	}
	r.ctx.SetColor(c)
	r.ctx.SetLineWidth(width)
	r.err = multierr.Append(r.err, r.ctx.Stroke())
}

func (r *softRaster) FillRect(x, y, w, h float64, c color.RGBA) {
	r.ctx.DrawRectangle(x, y, w, h)
	r.ctx.SetColor(c)
	r.err = multierr.Append(r.err, r.ctx.Fill())
}

func (r *softRaster) Finish() (Handle, error) {
	err := multierr.Append(r.err, r.ctx.FlushGPU())
	img := r.ctx.Image()
	err = multierr.Append(err, r.ctx.Close())
	if err != nil {
		return nil, fmt.Errorf("rasterizing %dx%d: %w", r.w, r.h, err)
	}
	return &SoftHandle{
		img: img,
		buf: gg.ImageBufFromImage(img),
		w:   r.w,
		h:   r.h,
	}, nil
}

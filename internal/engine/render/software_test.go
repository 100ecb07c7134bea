package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/Faultbox/isoterrain/pkg/math"
)

func closeTo(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}

func TestSoftRasterFill(t *testing.T) {
	s := NewSoftware(64, 64)
	defer s.Close()

	r := s.NewRaster(20, 10)
	r.FillRect(0, 0, 20, 10, Red)
	r.FillPolygon([]math.Vec2{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10}, {X: 0, Y: 10}}, Green)
	r.FillPolygon([]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, Red) // too few points, ignored

	h, err := r.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if w, hh := h.Size(); w != 20 || hh != 10 {
		t.Errorf("expected 20x10, got %dx%d", w, hh)
	}

	img := h.(*SoftHandle).Image()
	got := color.RGBAModel.Convert(img.At(10, 5)).(color.RGBA)
	if got != Green {
		t.Errorf("center pixel = %v, want %v", got, Green)
	}
}

func TestSoftRasterZeroSize(t *testing.T) {
	s := NewSoftware(8, 8)
	defer s.Close()

	h, err := s.NewRaster(0, 0).Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if w, hh := h.Size(); w != 1 || hh != 1 {
		t.Errorf("expected 1x1 minimum raster, got %dx%d", w, hh)
	}
}

func TestSoftwareDrawAndEncode(t *testing.T) {
	s := NewSoftware(32, 32)
	defer s.Close()

	r := s.NewRaster(8, 8)
	r.FillRect(0, 0, 8, 8, White)
	h, err := r.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	s.Clear(Background)
	s.Draw(h, math.V2(10, 10), 1)

	img, err := s.Image()
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	inside := color.RGBAModel.Convert(img.At(13, 13)).(color.RGBA)
	if !closeTo(inside.R, 255, 2) || !closeTo(inside.G, 255, 2) {
		t.Errorf("drawn pixel = %v, want white", inside)
	}
	outside := color.RGBAModel.Convert(img.At(2, 2)).(color.RGBA)
	if outside != Background {
		t.Errorf("background pixel = %v, want %v", outside, Background)
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	if decoded.Bounds().Dx() != 32 {
		t.Errorf("expected 32px wide frame, got %d", decoded.Bounds().Dx())
	}
}

func TestReleasedHandleDrawsNothing(t *testing.T) {
	s := NewSoftware(16, 16)
	defer s.Close()

	r := s.NewRaster(16, 16)
	r.FillRect(0, 0, 16, 16, Red)
	h, err := r.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	h.Release()

	s.Clear(Background)
	s.Draw(h, math.V2(0, 0), 1)

	img, _ := s.Image()
	if got := color.RGBAModel.Convert(img.At(8, 8)).(color.RGBA); got != Background {
		t.Errorf("released handle was drawn: %v", got)
	}
}

func TestSoftwareResize(t *testing.T) {
	s := NewSoftware(10, 10)
	defer s.Close()

	if err := s.Resize(40, 30); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if s.Size() != math.V2(40, 30) {
		t.Errorf("expected size (40, 30), got %v", s.Size())
	}
}

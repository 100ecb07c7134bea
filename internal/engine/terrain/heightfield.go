// Package terrain turns a height field into shaded isometric tiles.
package terrain

import "github.com/Faultbox/isoterrain/pkg/formats"

// HeightField is a grid of elevations indexed [x][y]. Columns may have
// different lengths. A nil *HeightField is valid and has no tiles.
type HeightField struct {
	cols [][]float64
}

// NewHeightField wraps cols without copying.
func NewHeightField(cols [][]float64) *HeightField {
	return &HeightField{cols: cols}
}

// FromTable converts a parsed height table.
func FromTable(t *formats.HeightTable) *HeightField {
	return NewHeightField(t.Columns())
}

// Get returns the elevation at (x, y), or def when the position is outside the field.
func (h *HeightField) Get(x, y int, def float64) float64 {
	if !h.Contains(x, y) {
		return def
	}
	return h.cols[x][y]
}

// Contains reports whether (x, y) holds a sample.
func (h *HeightField) Contains(x, y int) bool {
	return h != nil && x >= 0 && x < len(h.cols) && y >= 0 && y < len(h.cols[x])
}

// Width returns the number of columns.
func (h *HeightField) Width() int {
	if h == nil {
		return 0
	}
	return len(h.cols)
}

// Height returns the length of the first column.
func (h *HeightField) Height() int {
	if h == nil || len(h.cols) == 0 {
		return 0
	}
	return len(h.cols[0])
}

// Range returns the lowest and highest elevation. An empty field returns 0, 0.
func (h *HeightField) Range() (lo, hi float64) {
	first := true
	for _, col := range h.columns() {
		for _, z := range col {
			if first {
				lo, hi, first = z, z, false
				continue
			}
			lo = min(lo, z)
			hi = max(hi, z)
		}
	}
	return lo, hi
}

// Each calls fn for every sample, column by column.
func (h *HeightField) Each(fn func(x, y int, z float64)) {
	for x, col := range h.columns() {
		for y, z := range col {
			fn(x, y, z)
		}
	}
}

func (h *HeightField) columns() [][]float64 {
	if h == nil {
		return nil
	}
	return h.cols
}

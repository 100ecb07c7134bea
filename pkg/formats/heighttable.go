package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Height table format errors.
var (
	ErrInvalidHeightMagic       = errors.New("invalid height table magic: expected 'ISOH'")
	ErrUnsupportedHeightVersion = errors.New("unsupported height table version")
	ErrTruncatedHeightData      = errors.New("truncated height table data")
)

const heightTableHeaderSize = 14

// HeightTableVersion represents the height table file version.
type HeightTableVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v HeightTableVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// HeightTable is a parsed ISOH elevation grid.
//
// Layout (little endian):
//
//	"ISOH" | minor u8 | major u8 | width u32 | height u32 | width*height float32
//
// Samples are stored column by column: all y for x=0, then x=1, and so on.
type HeightTable struct {
	Version HeightTableVersion
	Width   uint32
	Height  uint32
	Samples []float32
}

// At returns the elevation at (x, y) and whether the position is inside the table.
func (t *HeightTable) At(x, y int) (float32, bool) {
	if x < 0 || y < 0 || x >= int(t.Width) || y >= int(t.Height) {
		return 0, false
	}
	return t.Samples[x*int(t.Height)+y], true
}

// Columns converts the table to an [x][y] grid.
func (t *HeightTable) Columns() [][]float64 {
	cols := make([][]float64, t.Width)
	h := int(t.Height)
	for x := range cols {
		col := make([]float64, h)
		for y := range col {
			col[y] = float64(t.Samples[x*h+y])
		}
		cols[x] = col
	}
	return cols
}

// ElevationRange returns the minimum and maximum sample.
func (t *HeightTable) ElevationRange() (lo, hi float32) {
	if len(t.Samples) == 0 {
		return 0, 0
	}
	lo, hi = t.Samples[0], t.Samples[0]
	for _, s := range t.Samples {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	return lo, hi
}

// ParseHeightTable parses an uncompressed ISOH table from raw bytes.
func ParseHeightTable(data []byte) (*HeightTable, error) {
	if len(data) < heightTableHeaderSize {
		return nil, ErrTruncatedHeightData
	}

	if string(data[0:4]) != "ISOH" {
		return nil, ErrInvalidHeightMagic
	}

	// Version is stored as [minor, major]
	version := HeightTableVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHeightVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var width, height uint32
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrTruncatedHeightData)
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return nil, fmt.Errorf("%w: reading height", ErrTruncatedHeightData)
	}

	if width == 0 || height == 0 || width > 4096 || height > 4096 {
		return nil, fmt.Errorf("invalid height table dimensions: %dx%d", width, height)
	}

	count := int(width * height)
	if r.Len() < count*4 {
		return nil, fmt.Errorf("%w: want %d samples, have %d bytes", ErrTruncatedHeightData, count, r.Len())
	}

	table := &HeightTable{
		Version: version,
		Width:   width,
		Height:  height,
		Samples: make([]float32, count),
	}
	if err := binary.Read(r, binary.LittleEndian, table.Samples); err != nil {
		return nil, fmt.Errorf("%w: reading samples", ErrTruncatedHeightData)
	}

	for i, s := range table.Samples {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return nil, fmt.Errorf("sample %d is not a finite elevation", i)
		}
	}

	return table, nil
}

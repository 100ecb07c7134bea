package formats

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame magic number of a zstd stream.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// IsZstd reports whether data starts with a zstd frame.
func IsZstd(data []byte) bool {
	return len(data) >= 4 &&
		data[0] == zstdMagic[0] && data[1] == zstdMagic[1] &&
		data[2] == zstdMagic[2] && data[3] == zstdMagic[3]
}

// Decompress inflates a zstd stream. Data without the zstd magic is returned unchanged.
func Decompress(data []byte) ([]byte, error) {
	if !IsZstd(data) {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing zstd: %w", err)
	}
	return out, nil
}

// ParseHeightTableFile parses an ISOH table from disk.
// Both plain (.isoh) and zstd-compressed (.isoh.zst) files are accepted.
func ParseHeightTableFile(path string) (*HeightTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading height table: %w", err)
	}
	raw, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	table, err := ParseHeightTable(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadHeightColumns loads an [x][y] elevation grid from a height table or
// a grayscale PNG. amplitude scales PNG luminance and is ignored for tables.
func LoadHeightColumns(path string, amplitude float64) ([][]float64, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening heightmap: %w", err)
		}
		defer f.Close()
		cols, err := ParseHeightPNG(f, amplitude)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cols, nil
	case ".isoh", ".zst":
		table, err := ParseHeightTableFile(path)
		if err != nil {
			return nil, err
		}
		return table.Columns(), nil
	default:
		return nil, fmt.Errorf("unsupported height file extension %q", ext)
	}
}

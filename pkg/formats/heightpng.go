package formats

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// ParseHeightPNG decodes a PNG heightmap into an [x][y] grid.
// Image x maps to grid x and image y to grid y. Luminance 0..255 maps to 0..amplitude.
func ParseHeightPNG(r io.Reader, amplitude float64) ([][]float64, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding png heightmap: %w", err)
	}
	return HeightsFromImage(img, amplitude), nil
}

// HeightsFromImage samples the luminance of every pixel.
func HeightsFromImage(img image.Image, amplitude float64) [][]float64 {
	b := img.Bounds()
	cols := make([][]float64, b.Dx())
	for x := range cols {
		col := make([]float64, b.Dy())
		for y := range col {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			col[y] = float64(g.Y) / 255 * amplitude
		}
		cols[x] = col
	}
	return cols
}

package terrain

import "math"

// NoiseOptions configures GenerateNoise.
type NoiseOptions struct {
	Width, Height int
	Seed          int64
	// Amplitude is the maximum elevation.
	Amplitude float64
	// Scale is the lattice spacing of the first octave in tiles.
	Scale int
	// Octaves is the number of layers, each at half the spacing and
	// half the weight of the previous.
	Octaves int
	// Step rounds elevations to multiples of Step. Rounded terrain shares
	// many tile shapes. Zero keeps raw values.
	Step float64
}

// GenerateNoise builds a deterministic value-noise height grid.
func GenerateNoise(opts NoiseOptions) [][]float64 {
	if opts.Scale <= 0 {
		opts.Scale = 8
	}
	if opts.Octaves <= 0 {
		opts.Octaves = 3
	}

	cols := make([][]float64, max(opts.Width, 0))
	for x := range cols {
		col := make([]float64, max(opts.Height, 0))
		for y := range col {
			col[y] = noiseAt(opts, x, y)
		}
		cols[x] = col
	}
	return cols
}

func noiseAt(opts NoiseOptions, x, y int) float64 {
	var sum, norm float64
	weight := 1.0
	spacing := opts.Scale
	for o := 0; o < opts.Octaves && spacing > 0; o++ {
		sum += weight * latticeValue(opts.Seed+int64(o), x, y, spacing)
		norm += weight
		weight /= 2
		spacing /= 2
	}
	z := sum / norm * opts.Amplitude
	if opts.Step > 0 {
		z = math.Round(z/opts.Step) * opts.Step
	}
	return z
}

// latticeValue interpolates hashed lattice corners around (x, y) with smoothstep weights.
func latticeValue(seed int64, x, y, spacing int) float64 {
	gx, gy := floorDiv(x, spacing), floorDiv(y, spacing)
	fx := smooth(float64(x-gx*spacing) / float64(spacing))
	fy := smooth(float64(y-gy*spacing) / float64(spacing))

	v00 := unit(hash2(seed, gx, gy))
	v10 := unit(hash2(seed, gx+1, gy))
	v01 := unit(hash2(seed, gx, gy+1))
	v11 := unit(hash2(seed, gx+1, gy+1))

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func unit(h uint64) float64 {
	return float64(h>>11) / (1 << 53)
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func hash2(seed int64, x, y int) uint64 {
	ux := uint64(uint32(int32(x)))
	uy := uint64(uint32(int32(y)))
	return mix64(uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uy * 0xbf58476d1ce4e5b9))
}

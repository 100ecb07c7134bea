package scene

// TilePos is an integer tile position.
type TilePos struct {
	X, Y int
}

// TileIndex maps tile positions to values.
type TileIndex[T any] struct {
	m map[TilePos]T
}

// Tile returns the value at (x, y).
func (i *TileIndex[T]) Tile(x, y int) (T, bool) {
	v, ok := i.m[TilePos{x, y}]
	return v, ok
}

// SetTile stores v at (x, y).
func (i *TileIndex[T]) SetTile(x, y int, v T) {
	if i.m == nil {
		i.m = make(map[TilePos]T)
	}
	i.m[TilePos{x, y}] = v
}

// RemoveTiles empties the index and returns what it held.
func (i *TileIndex[T]) RemoveTiles() []T {
	out := make([]T, 0, len(i.m))
	for _, v := range i.m {
		out = append(out, v)
	}
	i.m = nil
	return out
}

// Len returns the number of indexed tiles.
func (i *TileIndex[T]) Len() int {
	return len(i.m)
}

// Each calls fn for every indexed tile in no particular order.
func (i *TileIndex[T]) Each(fn func(pos TilePos, v T)) {
	for p, v := range i.m {
		fn(p, v)
	}
}

package terrain

import (
	"image/color"

	"github.com/Faultbox/isoterrain/internal/engine/lighting"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// neighborWeight is subtracted per unit of the tile's own elevation when
// averaging neighbors. It is deliberately not 2/3.
const neighborWeight = 0.6667

// Neighbor indices into a ShapeKey or neighbor sample.
//
//	A B C        (x-1,y-1) (x-1,y) (x-1,y+1)
//	D o E   =    (x,  y-1)         (x,  y+1)
//	F G H        (x+1,y-1) (x+1,y) (x+1,y+1)
const (
	NA = iota
	NB
	NC
	ND
	NE
	NF
	NG
	NH
)

var neighborOffsets = [8][2]int{
	NA: {-1, -1}, NB: {-1, 0}, NC: {-1, 1},
	ND: {0, -1}, NE: {0, 1},
	NF: {1, -1}, NG: {1, 0}, NH: {1, 1},
}

// corners lists the diamond corners in walk order with the three
// neighbors each one averages.
var corners = [4]struct {
	dx, dy    float64
	neighbors [3]int
}{
	{-0.5, -0.5, [3]int{NA, NB, ND}},
	{+0.5, -0.5, [3]int{ND, NF, NG}},
	{+0.5, +0.5, [3]int{NE, NG, NH}},
	{-0.5, +0.5, [3]int{NB, NC, NE}},
}

// ShapeKey is a tile's elevation minus each neighbor's, in A..H order.
// Tiles with equal keys have the same rendered shape.
type ShapeKey [8]float64

// Sample returns the elevation of (x, y) and its eight neighbors.
// Neighbors outside the field take the tile's own elevation.
func Sample(hf *HeightField, x, y int) (z float64, n [8]float64) {
	z = hf.Get(x, y, 0)
	for i, o := range neighborOffsets {
		n[i] = hf.Get(x+o[0], y+o[1], z)
	}
	return z, n
}

// KeyOf builds the shape key for a tile sample.
func KeyOf(z float64, n [8]float64) ShapeKey {
	var k ShapeKey
	for i := range n {
		k[i] = z - n[i]
	}
	return k
}

// Face is one shaded triangle of a tile: the tile center plus two corners.
type Face struct {
	First, Second math.Vec3
	Normal        math.Vec3
	Intensity     float64
	Color         color.RGBA
}

// TileMesh is the geometry of one tile in world space.
type TileMesh struct {
	// Position is the tile's grid position and elevation.
	Position math.Vec3
	Center   math.Vec3
	Faces    [4]Face
}

// Anchor is the point the mesh geometry is relative to. Points minus the
// anchor depend only on the shape key.
func (m *TileMesh) Anchor() math.Vec3 {
	return anchorOf(m.Position)
}

func anchorOf(p math.Vec3) math.Vec3 {
	return math.V3(p.X, p.Y, (2-neighborWeight)*p.Z)
}

// Points returns the center followed by the four corners.
func (m *TileMesh) Points() [5]math.Vec3 {
	return [5]math.Vec3{m.Center, m.Faces[0].First, m.Faces[1].First, m.Faces[2].First, m.Faces[3].First}
}

// MeshBuilder computes tile meshes. It counts its builds so callers can
// observe cache effectiveness.
type MeshBuilder struct {
	Light  math.Vec3
	Builds int
}

// NewMeshBuilder creates a builder lit by light. A zero light uses
// lighting.DefaultVersor.
func NewMeshBuilder(light math.Vec3) *MeshBuilder {
	if light == (math.Vec3{}) {
		light = lighting.DefaultVersor
	}
	return &MeshBuilder{Light: light}
}

// Build computes the four faces of tile (x, y).
func (b *MeshBuilder) Build(hf *HeightField, x, y int) TileMesh {
	b.Builds++

	z, n := Sample(hf, x, y)
	pos := math.V3(float64(x), float64(y), z)

	var sum float64
	for _, v := range n {
		sum += v
	}
	center := pos.Add(math.V3(0, 0, sum/8-neighborWeight*z))

	var pts [4]math.Vec3
	for i, c := range corners {
		avg := (n[c.neighbors[0]] + n[c.neighbors[1]] + n[c.neighbors[2]]) / 3
		pts[i] = pos.Add(math.V3(c.dx, c.dy, avg-neighborWeight*z))
	}

	mesh := TileMesh{Position: pos, Center: center}
	for i := range mesh.Faces {
		mesh.Faces[i] = shadeFace(center, pts[i], pts[(i+1)%4], b.Light)
	}
	return mesh
}

// shadeFace lights the triangle center-first-second. Coincident points
// have no normal and get the neutral intensity.
func shadeFace(center, first, second, light math.Vec3) Face {
	normal, ok := first.Sub(center).Cross(second.Sub(center)).Unit()

	intensity := lighting.NeutralIntensity
	if ok {
		intensity = lighting.Intensity(normal, light)
	}

	return Face{
		First:     first,
		Second:    second,
		Normal:    normal,
		Intensity: intensity,
		Color:     lighting.Shade(intensity),
	}
}

// Package pointer buffers the last known pointer position between the
// host's event pump and the engine.
package pointer

import "github.com/Faultbox/isoterrain/pkg/math"

// Pointer keeps the last known pointer position. It is written by the
// event pump and read by the panner on its own schedule.
type Pointer struct {
	pos  math.Vec2
	seen bool
}

// Move records a pointer position.
func (p *Pointer) Move(x, y float64) {
	p.pos = math.V2(x, y)
	p.seen = true
}

// Position returns the last recorded position. ok is false until the
// pointer has moved at least once.
func (p *Pointer) Position() (pos math.Vec2, ok bool) {
	return p.pos, p.seen
}

// Reset forgets the pointer, for example when it leaves the window.
func (p *Pointer) Reset() {
	*p = Pointer{}
}

// Package event provides typed zoom notifications.
//
// A zoom sequence fires ZoomStart once, Zoom once per level change, and
// ZoomEnd once after the sequence settles. Handlers run synchronously in
// subscription order.
package event

// ID identifies a subscription for Off.
type ID uint64

type subscriber[F any] struct {
	id ID
	fn F
}

type channel[F any] struct {
	subs []subscriber[F]
}

func (c *channel[F]) add(id ID, fn F) {
	c.subs = append(c.subs, subscriber[F]{id: id, fn: fn})
}

func (c *channel[F]) remove(id ID) bool {
	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot lets handlers unsubscribe while the channel is firing.
func (c *channel[F]) snapshot() []subscriber[F] {
	return append([]subscriber[F](nil), c.subs...)
}

// Bus holds the three zoom channels.
type Bus struct {
	next  ID
	zoom  channel[func(level float64)]
	start channel[func()]
	end   channel[func()]
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) id() ID {
	b.next++
	return b.next
}

// OnZoom subscribes to every zoom level change.
func (b *Bus) OnZoom(fn func(level float64)) ID {
	id := b.id()
	b.zoom.add(id, fn)
	return id
}

// OnZoomStart subscribes to the start of a zoom sequence.
func (b *Bus) OnZoomStart(fn func()) ID {
	id := b.id()
	b.start.add(id, fn)
	return id
}

// OnZoomEnd subscribes to the settled end of a zoom sequence.
func (b *Bus) OnZoomEnd(fn func()) ID {
	id := b.id()
	b.end.add(id, fn)
	return id
}

// Off removes a subscription from whichever channel holds it.
func (b *Bus) Off(id ID) bool {
	return b.zoom.remove(id) || b.start.remove(id) || b.end.remove(id)
}

// EmitZoomStart notifies zoom-start subscribers.
func (b *Bus) EmitZoomStart() {
	for _, s := range b.start.snapshot() {
		s.fn()
	}
}

// EmitZoom notifies zoom subscribers of the new level.
func (b *Bus) EmitZoom(level float64) {
	for _, s := range b.zoom.snapshot() {
		s.fn(level)
	}
}

// EmitZoomEnd notifies zoom-end subscribers.
func (b *Bus) EmitZoomEnd() {
	for _, s := range b.end.snapshot() {
		s.fn()
	}
}

// Subscribers returns the subscription count per channel: start, zoom, end.
func (b *Bus) Subscribers() (start, zoom, end int) {
	return len(b.start.subs), len(b.zoom.subs), len(b.end.subs)
}

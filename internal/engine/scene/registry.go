package scene

import (
	"slices"
	"time"

	"github.com/Faultbox/isoterrain/internal/engine/render"
)

// Stats reports entity counts for one frame.
type Stats struct {
	Visible int
	Total   int
}

// Registry is the ordered list of entities drawn each frame.
type Registry struct {
	entities []Entity
	visible  []Entity
	stats    Stats
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends e. Adding an entity twice draws it twice.
func (r *Registry) Add(e Entity) {
	r.entities = append(r.entities, e)
}

// Remove deletes the first occurrence of e and reports whether it was found.
func (r *Registry) Remove(e Entity) bool {
	i := slices.Index(r.entities, e)
	if i < 0 {
		return false
	}
	r.entities = slices.Delete(r.entities, i, i+1)
	return true
}

// RemoveFunc deletes every entity for which drop returns true.
func (r *Registry) RemoveFunc(drop func(Entity) bool) int {
	n := len(r.entities)
	r.entities = slices.DeleteFunc(r.entities, drop)
	return n - len(r.entities)
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Each calls fn for every entity in registration order.
func (r *Registry) Each(fn func(Entity)) {
	for _, e := range r.entities {
		fn(e)
	}
}

// Update advances every entity, then collects the visible ones ordered by
// depth. Entities without a depth keep registration order and draw first.
func (r *Registry) Update(dt time.Duration) Stats {
	for _, e := range r.entities {
		e.Update(dt)
	}

	r.visible = r.visible[:0]
	for _, e := range r.entities {
		if e.IsVisible() {
			r.visible = append(r.visible, e)
		}
	}
	slices.SortStableFunc(r.visible, func(a, b Entity) int {
		da, db := depthOf(a), depthOf(b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	r.stats = Stats{Visible: len(r.visible), Total: len(r.entities)}
	return r.stats
}

// Draw renders the entities found visible by the last Update.
func (r *Registry) Draw(s render.Surface) {
	for _, e := range r.visible {
		e.Render(s)
	}
}

// Stats returns the counts from the last Update.
func (r *Registry) Stats() Stats {
	return r.stats
}

func depthOf(e Entity) float64 {
	if d, ok := e.(Depther); ok {
		return d.Depth()
	}
	return -1 << 53
}

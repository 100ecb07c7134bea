// Package panner moves the observer when the pointer rests near a viewport edge.
package panner

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/pointer"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/internal/engine/terrain"
	"github.com/Faultbox/isoterrain/internal/engine/viewport"
	"github.com/Faultbox/isoterrain/internal/logger"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Panning defaults.
const (
	DefaultMargin   = 100.0
	DefaultInterval = 200 * time.Millisecond
)

// Edge directions in world units. Screen left and right follow the x+y
// diagonal, screen up and down follow x-y.
var (
	dirLeft   = math.V3(-1, -1, 0)
	dirRight  = math.V3(1, 1, 0)
	dirTop    = math.V3(-1, 1, 0)
	dirBottom = math.V3(1, -1, 0)
)

// Options configures a Panner. Zero fields take defaults.
type Options struct {
	Margin   float64
	Interval time.Duration
	Logger   *zap.Logger
}

// Panner polls the pointer on the schedule queue and scrolls the observer.
type Panner struct {
	Margin   float64
	Interval time.Duration

	cam     *viewport.Camera
	pointer *pointer.Pointer
	queue   *schedule.Queue
	field   *terrain.HeightField
	task    *schedule.Task

	log *zap.Logger
}

// New creates a stopped panner.
func New(cam *viewport.Camera, ptr *pointer.Pointer, queue *schedule.Queue, opts Options) *Panner {
	p := &Panner{
		Margin:   opts.Margin,
		Interval: opts.Interval,
		cam:      cam,
		pointer:  ptr,
		queue:    queue,
		log:      logger.Or(opts.Logger, "panner"),
	}
	if p.Margin <= 0 {
		p.Margin = DefaultMargin
	}
	if p.Interval <= 0 {
		p.Interval = DefaultInterval
	}
	return p
}

// SetField sets the field the observer is kept inside. Nil removes the limit.
func (p *Panner) SetField(hf *terrain.HeightField) {
	p.field = hf
}

// Start arms the poll task. Starting a running panner does nothing.
func (p *Panner) Start() {
	if p.task.Pending() {
		return
	}
	p.task = p.queue.After(p.Interval, p.poll)
}

// Stop cancels the poll task.
func (p *Panner) Stop() {
	p.task.Cancel()
	p.task = nil
}

// Running reports whether the poll task is armed.
func (p *Panner) Running() bool {
	return p.task.Pending()
}

func (p *Panner) poll() {
	p.task = p.queue.After(p.Interval, p.poll)
	p.Pan()
}

// Pan applies one panning step and reports whether the observer moved.
func (p *Panner) Pan() bool {
	pos, ok := p.pointer.Position()
	if !ok {
		return false
	}

	step := p.Direction(pos)
	if step == (math.Vec3{}) {
		return false
	}

	from := p.cam.Observer()
	to := p.clamp(from.Add(step.Scale(1 / p.cam.Zoom())))
	if to == from {
		return false
	}
	p.cam.SetObserver(to)
	p.log.Debug("observer panned",
		zap.Float64("x", to.X), zap.Float64("y", to.Y))
	return true
}

// Direction returns the unscaled pan direction for a pointer position.
// Each axis moves towards at most one edge.
func (p *Panner) Direction(pos math.Vec2) math.Vec3 {
	size := p.cam.Viewport.Size
	var d math.Vec3

	if pos.X < p.Margin {
		d = d.Add(dirLeft)
	} else if pos.X > size.X-p.Margin {
		d = d.Add(dirRight)
	}

	if pos.Y < p.Margin {
		d = d.Add(dirTop)
	} else if pos.Y > size.Y-p.Margin {
		d = d.Add(dirBottom)
	}
	return d
}

func (p *Panner) clamp(o math.Vec3) math.Vec3 {
	w, h := p.field.Width(), p.field.Height()
	if w == 0 || h == 0 {
		return o
	}
	o.X = min(max(o.X, 0), float64(w-1))
	o.Y = min(max(o.Y, 0), float64(h-1))
	return o
}

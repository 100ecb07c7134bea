package viewport

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/event"
	"github.com/Faultbox/isoterrain/internal/engine/picking"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/internal/logger"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// Zoom defaults.
const (
	DefaultZoomMin      = 0.5
	DefaultZoomMax      = 2.0
	DefaultZoomEndDelay = 500 * time.Millisecond
)

// CameraOptions configures a Camera. Zero fields take defaults.
type CameraOptions struct {
	ZoomMin      float64
	ZoomMax      float64
	ZoomEndDelay time.Duration
	Logger       *zap.Logger
}

// Camera couples a viewport with the observer point and drives zoom events.
type Camera struct {
	Viewport *Viewport

	observer math.Vec3

	// Constraints
	ZoomMin      float64
	ZoomMax      float64
	ZoomEndDelay time.Duration

	events  *event.Bus
	queue   *schedule.Queue
	zoomEnd *schedule.Task
	zooming bool

	log *zap.Logger
}

// NewCamera creates a camera over vp. Zoom events go to bus; the zoom-end
// debounce is scheduled on queue.
func NewCamera(vp *Viewport, bus *event.Bus, queue *schedule.Queue, opts CameraOptions) *Camera {
	c := &Camera{
		Viewport:     vp,
		ZoomMin:      opts.ZoomMin,
		ZoomMax:      opts.ZoomMax,
		ZoomEndDelay: opts.ZoomEndDelay,
		events:       bus,
		queue:        queue,
		log:          logger.Or(opts.Logger, "camera"),
	}
	if c.ZoomMin <= 0 {
		c.ZoomMin = DefaultZoomMin
	}
	if c.ZoomMax <= 0 {
		c.ZoomMax = DefaultZoomMax
	}
	if c.ZoomEndDelay <= 0 {
		c.ZoomEndDelay = DefaultZoomEndDelay
	}
	return c
}

// Events returns the bus zoom notifications are sent on.
func (c *Camera) Events() *event.Bus {
	return c.events
}

// Observer returns the world point at the viewport origin.
func (c *Camera) Observer() math.Vec3 {
	return c.observer
}

// SetObserver moves the observer to p.
func (c *Camera) SetObserver(p math.Vec3) {
	c.observer = p
}

// Zoom returns the current zoom level.
func (c *Camera) Zoom() float64 {
	return c.Viewport.Zoom()
}

// Zooming reports whether a zoom sequence is in progress.
func (c *Camera) Zooming() bool {
	return c.zooming
}

// SetZoom clamps level to [ZoomMin, ZoomMax], rescales the viewport and
// returns the applied level.
//
// The first change of a sequence fires zoom-start, every change fires zoom,
// and zoom-end fires once ZoomEndDelay passes without another change. A
// level equal to the current one, after clamping, fires nothing.
func (c *Camera) SetZoom(level float64) float64 {
	level = min(max(level, c.ZoomMin), c.ZoomMax)
	if level == c.Viewport.Zoom() {
		return level
	}

	if !c.zooming {
		c.zooming = true
		c.log.Debug("zoom start", zap.Float64("from", c.Viewport.Zoom()))
		c.events.EmitZoomStart()
	}

	c.Viewport.scale(level)
	c.events.EmitZoom(level)

	c.zoomEnd.Cancel()
	c.zoomEnd = c.queue.After(c.ZoomEndDelay, c.settle)

	return level
}

func (c *Camera) settle() {
	c.zoomEnd = nil
	c.zooming = false
	c.log.Debug("zoom end", zap.Float64("level", c.Viewport.Zoom()))
	c.events.EmitZoomEnd()
}

// WorldToViewport projects a world point onto the screen.
func (c *Camera) WorldToViewport(w math.Vec3) math.Vec2 {
	return c.Viewport.Origin.Add(c.Viewport.MeasureWorld(w.Sub(c.observer)))
}

// ViewportToWorld returns the world point at absolute elevation z that
// projects to screen point p.
func (c *Camera) ViewportToWorld(p math.Vec2, z float64) math.Vec3 {
	rel := c.Viewport.MeasureViewport(p.Sub(c.Viewport.Origin), z-c.observer.Z)
	return c.observer.Add(rel)
}

// Corner rays in the order returned by Bounds.
const (
	UpLeft = iota
	UpRight
	DownLeft
	DownRight
)

// Bounds returns rays through the four viewport corners.
func (c *Camera) Bounds() [4]picking.Ray {
	s := c.Viewport.Size
	return [4]picking.Ray{
		UpLeft:    {Point: math.V2(0, 0)},
		UpRight:   {Point: math.V2(s.X, 0)},
		DownLeft:  {Point: math.V2(0, s.Y)},
		DownRight: {Point: math.V2(s.X, s.Y)},
	}
}

// Visible reports whether a screen point lies inside the viewport
// grown by the entity epsilon.
func (c *Camera) Visible(p math.Vec2) bool {
	return c.Viewport.Contains(p, c.Viewport.Epsilon())
}

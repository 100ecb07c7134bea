package viewport

import (
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/isoterrain/internal/engine/event"
	"github.com/Faultbox/isoterrain/internal/engine/picking"
	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/pkg/math"
)

const eps = 1e-9

func newTestCamera() (*Camera, *schedule.ManualClock, *schedule.Queue) {
	clock := &schedule.ManualClock{}
	queue := schedule.NewQueue(clock)
	vp := New(DefaultBaseUnit)
	vp.Resize(800, 600)
	return NewCamera(vp, event.NewBus(), queue, CameraOptions{}), clock, queue
}

func TestWorldToViewportKnownPoints(t *testing.T) {
	cam, _, _ := newTestCamera()

	tests := []struct {
		name  string
		world math.Vec3
		want  math.Vec2
	}{
		{"observer maps to origin", math.V3(0, 0, 0), math.V2(400, 300)},
		{"x axis goes down-right", math.V3(1, 0, 0), math.V2(440, 320)},
		{"y axis goes up-right", math.V3(0, 1, 0), math.V2(440, 280)},
		{"z axis goes up", math.V3(0, 0, 1), math.V2(400, 260)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cam.WorldToViewport(tt.world)
			if !got.ApproxEqual(tt.want, eps) {
				t.Errorf("WorldToViewport(%v) = %v, want %v", tt.world, got, tt.want)
			}
		})
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	cam, _, _ := newTestCamera()

	observers := []math.Vec3{
		math.V3(0, 0, 0),
		math.V3(12.5, -3, 2),
		math.V3(-40, 17.25, -1.5),
	}
	points := []math.Vec3{
		math.V3(0, 0, 0),
		math.V3(1, 2, 3),
		math.V3(-7.5, 11.25, 0.4),
		math.V3(100, -250, -12),
	}
	zooms := []float64{0.5, 1, 1.37, 2}

	for _, o := range observers {
		for _, zoom := range zooms {
			cam.SetObserver(o)
			cam.SetZoom(zoom)
			for _, w := range points {
				back := picking.Ray{Point: cam.WorldToViewport(w)}.WorldPointAtZ(cam, w.Z)
				if !back.ApproxEqual(w, eps) {
					t.Errorf("observer %v zoom %v: inverse(forward(%v)) = %v", o, zoom, w, back)
				}

				p := math.V2(w.X*10, w.Y*10)
				fwd := cam.WorldToViewport(cam.ViewportToWorld(p, w.Z))
				if !fwd.ApproxEqual(p, 1e-8) {
					t.Errorf("observer %v zoom %v: forward(inverse(%v, %v)) = %v", o, zoom, p, w.Z, fwd)
				}
			}
		}
	}
}

func TestMeasureInverse(t *testing.T) {
	vp := New(DefaultBaseUnit)
	for _, d := range []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}, {X: -2.5, Y: 4, Z: 0.75}} {
		back := vp.MeasureViewport(vp.MeasureWorld(d), d.Z)
		if !back.ApproxEqual(d, eps) {
			t.Errorf("MeasureViewport(MeasureWorld(%v)) = %v", d, back)
		}
	}
}

func TestZoomLinearity(t *testing.T) {
	cam, _, _ := newTestCamera()
	cam.SetObserver(math.V3(3, -2, 1))

	w1 := math.V3(1, 5, 0.5)
	w2 := math.V3(-4, 2, 2)

	for _, k := range []float64{0.5, 0.75, 1} {
		cam.SetZoom(k)
		d1 := cam.WorldToViewport(w1).Distance(cam.WorldToViewport(w2))
		cam.SetZoom(2 * k)
		d2 := cam.WorldToViewport(w1).Distance(cam.WorldToViewport(w2))
		if gomath.Abs(d2-2*d1) > eps {
			t.Errorf("zoom %v: distance %v at 2k, want %v", k, d2, 2*d1)
		}
	}
}

func TestSetZoomClamps(t *testing.T) {
	cam, _, _ := newTestCamera()

	tests := []struct {
		level, want float64
	}{
		{0.1, 0.5},
		{1.5, 1.5},
		{9, 2},
	}
	for _, tt := range tests {
		if got := cam.SetZoom(tt.level); got != tt.want {
			t.Errorf("SetZoom(%v) = %v, want %v", tt.level, got, tt.want)
		}
		want := DefaultBaseUnit.Scale(tt.want)
		if !cam.Viewport.Unit.ApproxEqual(want, eps) {
			t.Errorf("unit after SetZoom(%v) = %v, want %v", tt.level, cam.Viewport.Unit, want)
		}
	}
}

func TestZoomEventsDebounce(t *testing.T) {
	cam, clock, queue := newTestCamera()

	var log []string
	cam.Events().OnZoomStart(func() { log = append(log, "start") })
	cam.Events().OnZoom(func(float64) { log = append(log, "zoom") })
	cam.Events().OnZoomEnd(func() { log = append(log, "end") })

	for i := 0; i < 5; i++ {
		cam.SetZoom(1.1 + 0.1*float64(i))
		clock.Advance(100 * time.Millisecond)
		queue.Drain()
	}
	if !cam.Zooming() {
		t.Fatal("expected zoom sequence to be active")
	}

	clock.Advance(399 * time.Millisecond)
	queue.Drain()
	if len(log) != 6 {
		t.Fatalf("zoom-end fired early: %v", log)
	}

	clock.Advance(time.Millisecond)
	queue.Drain()

	want := []string{"start", "zoom", "zoom", "zoom", "zoom", "zoom", "end"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], log[i])
		}
	}
	if cam.Zooming() {
		t.Error("expected zoom sequence to be settled")
	}

	// A new sequence fires zoom-start again.
	cam.SetZoom(1)
	if log[len(log)-2] != "start" {
		t.Errorf("expected second zoom-start, got %v", log)
	}
}

func TestSetZoomUnchangedLevelIsSilent(t *testing.T) {
	cam, clock, queue := newTestCamera()

	var starts, zooms, ends int
	cam.Events().OnZoomStart(func() { starts++ })
	cam.Events().OnZoom(func(float64) { zooms++ })
	cam.Events().OnZoomEnd(func() { ends++ })

	cam.SetZoom(1.5)
	cam.SetZoom(2)
	clock.Advance(500 * time.Millisecond)
	queue.Drain()

	// Wheel steps past the limit, then a reset to the current level.
	tests := []struct {
		level, want float64
	}{
		{2.1, 2},
		{2.5, 2},
		{2, 2},
	}
	for _, tt := range tests {
		if got := cam.SetZoom(tt.level); got != tt.want {
			t.Errorf("SetZoom(%v) = %v, want %v", tt.level, got, tt.want)
		}
		if cam.Zooming() {
			t.Errorf("SetZoom(%v) started a zoom sequence at the limit", tt.level)
		}
	}
	clock.Advance(time.Second)
	queue.Drain()

	if starts != 1 || zooms != 2 || ends != 1 {
		t.Errorf("events start=%d zoom=%d end=%d, want 1, 2, 1", starts, zooms, ends)
	}
	if queue.Len() != 0 {
		t.Errorf("unchanged level left %d tasks queued", queue.Len())
	}
}

func TestBoundsCorners(t *testing.T) {
	cam, _, _ := newTestCamera()
	b := cam.Bounds()

	want := [4]math.Vec2{math.V2(0, 0), math.V2(800, 0), math.V2(0, 600), math.V2(800, 600)}
	for i := range want {
		if b[i].Point != want[i] {
			t.Errorf("corner %d = %v, want %v", i, b[i].Point, want[i])
		}
	}

	rect := picking.Cover(b[:], cam, 0)
	if !rect.Contains(0, 0) {
		t.Errorf("observer tile should be covered by %+v", rect)
	}
	up := b[UpLeft].WorldPointAtZ(cam, 0)
	if int(gomath.Floor(up.X)) != rect.MinX {
		t.Errorf("up-left corner x %v should set MinX %d", up.X, rect.MinX)
	}
}

func TestVisibleEpsilon(t *testing.T) {
	cam, _, _ := newTestCamera()

	tests := []struct {
		p    math.Vec2
		want bool
	}{
		{math.V2(400, 300), true},
		{math.V2(-80, 300), true},
		{math.V2(-81, 300), false},
		{math.V2(880, 680), true},
		{math.V2(400, 681), false},
	}
	for _, tt := range tests {
		if got := cam.Visible(tt.p); got != tt.want {
			t.Errorf("Visible(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

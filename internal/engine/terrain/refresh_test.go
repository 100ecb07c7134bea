package terrain

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/schedule"
	"github.com/Faultbox/isoterrain/pkg/math"
)

func newTestScheduler() (*RefreshScheduler, *TileCache, *schedule.ManualClock) {
	clock := &schedule.ManualClock{}
	cache := NewTileCache()
	cache.Store(ShapeKey{}, newVisual(&recordingHandle{raster: &recordingRaster{}}, 1, 1, math.Vec2{}))
	return NewRefreshScheduler(schedule.NewQueue(clock), cache, 0, zap.NewNop()), cache, clock
}

func TestRefreshDelay(t *testing.T) {
	r, _, _ := newTestScheduler()
	if r.PerUnit != DefaultRefreshDelayPerUnit {
		t.Fatalf("expected default per-unit delay, got %v", r.PerUnit)
	}
	if got := r.Delay(2.5); got != 50*time.Millisecond {
		t.Errorf("Delay(2.5) = %v, want 50ms", got)
	}
}

func TestLastRefreshInvalidates(t *testing.T) {
	r, cache, clock := newTestScheduler()
	q := r.queue

	var order []int
	r.Schedule(2, func() { order = append(order, 2) })
	r.Schedule(1, func() { order = append(order, 1) })

	clock.Advance(20 * time.Millisecond)
	q.Drain()
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("expected nearest refresh first, got %v", order)
	}
	if cache.Len() != 1 {
		t.Error("cache invalidated before the cycle drained")
	}
	if r.Pending() != 1 {
		t.Errorf("expected 1 pending, got %d", r.Pending())
	}

	clock.Advance(20 * time.Millisecond)
	q.Drain()
	if len(order) != 2 {
		t.Fatalf("expected both refreshes, got %v", order)
	}
	if cache.Len() != 0 {
		t.Error("cache not invalidated after the last refresh")
	}
}

func TestCancelRefreshes(t *testing.T) {
	r, cache, clock := newTestScheduler()

	fired := 0
	task := r.Schedule(1, func() { fired++ })
	r.Schedule(3, func() { fired++ })

	r.Cancel()
	if r.Pending() != 0 {
		t.Errorf("expected nothing pending, got %d", r.Pending())
	}
	if cache.Len() != 0 {
		t.Error("Cancel should invalidate the cache")
	}
	if task.Pending() {
		t.Error("canceled task still pending")
	}

	clock.Advance(time.Second)
	r.queue.Drain()
	if fired != 0 {
		t.Errorf("canceled refreshes fired %d times", fired)
	}
}

package terrain

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/schedule"
)

// DefaultRefreshDelayPerUnit staggers tile refreshes by distance from the observer.
const DefaultRefreshDelayPerUnit = 20 * time.Millisecond

// RefreshScheduler spreads tile regeneration after a zoom over several
// frames, nearest tiles first.
//
// Each cycle starts empty. When the last pending refresh of a cycle fires
// the cache is invalidated so shapes accumulated during the cycle do not
// pile up. Cancel drops the cycle and invalidates immediately.
type RefreshScheduler struct {
	PerUnit time.Duration

	queue   *schedule.Queue
	cache   *TileCache
	pending map[*schedule.Task]struct{}
	fired   int

	log *zap.Logger
}

// NewRefreshScheduler creates a scheduler invalidating cache.
func NewRefreshScheduler(queue *schedule.Queue, cache *TileCache, perUnit time.Duration, log *zap.Logger) *RefreshScheduler {
	if perUnit <= 0 {
		perUnit = DefaultRefreshDelayPerUnit
	}
	return &RefreshScheduler{
		PerUnit: perUnit,
		queue:   queue,
		cache:   cache,
		pending: make(map[*schedule.Task]struct{}),
		log:     log,
	}
}

// Delay returns the refresh delay for a tile distance units away.
func (r *RefreshScheduler) Delay(distance float64) time.Duration {
	return time.Duration(distance * float64(r.PerUnit))
}

// Schedule queues refresh to run after Delay(distance).
func (r *RefreshScheduler) Schedule(distance float64, refresh func()) *schedule.Task {
	var task *schedule.Task
	task = r.queue.After(r.Delay(distance), func() {
		delete(r.pending, task)
		r.fired++
		refresh()
		if len(r.pending) == 0 {
			r.log.Debug("refresh cycle drained", zap.Int("refreshed", r.fired), zap.Int("shapes", r.cache.Len()))
			r.fired = 0
			r.cache.InvalidateAll()
		}
	})
	r.pending[task] = struct{}{}
	return task
}

// Cancel drops every pending refresh and invalidates the cache.
func (r *RefreshScheduler) Cancel() {
	canceled := 0
	for task := range r.pending {
		if task.Cancel() {
			canceled++
		}
	}
	clear(r.pending)
	r.fired = 0
	r.cache.InvalidateAll()
	if canceled > 0 {
		r.log.Debug("refresh cycle canceled", zap.Int("canceled", canceled))
	}
}

// Pending returns the number of refreshes waiting to fire.
func (r *RefreshScheduler) Pending() int {
	return len(r.pending)
}

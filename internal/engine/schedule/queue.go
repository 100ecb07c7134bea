package schedule

import (
	"container/heap"
	"time"
)

// Task is a callback waiting on a Queue.
type Task struct {
	At time.Duration // Fire time on the queue's clock

	fn    func()
	seq   uint64
	index int // Index in heap, -1 once fired or canceled
	queue *Queue
}

// Pending reports whether the task is still waiting to fire.
func (t *Task) Pending() bool {
	return t != nil && t.index >= 0
}

// Cancel removes the task from its queue. Canceling a task that already
// fired or was already canceled does nothing and returns false.
func (t *Task) Cancel() bool {
	if !t.Pending() {
		return false
	}
	heap.Remove(&t.queue.tasks, t.index)
	t.index = -1
	return true
}

// taskHeap orders tasks by fire time, then by insertion order.
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].At != h[j].At {
		return h[i].At < h[j].At
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x interface{}) {
	task := x.(*Task)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*h = old[:n-1]
	return task
}

// Queue is a min-heap of tasks keyed by fire time. It is not safe for
// concurrent use; the frame loop owns it.
type Queue struct {
	clock Clock
	tasks taskHeap
	seq   uint64
}

// NewQueue creates an empty queue reading time from clock.
func NewQueue(clock Clock) *Queue {
	q := &Queue{clock: clock}
	heap.Init(&q.tasks)
	return q
}

// Clock returns the queue's time source.
func (q *Queue) Clock() Clock {
	return q.clock
}

// Now is shorthand for q.Clock().Now().
func (q *Queue) Now() time.Duration {
	return q.clock.Now()
}

// After schedules fn to run d after the current time.
func (q *Queue) After(d time.Duration, fn func()) *Task {
	return q.At(q.clock.Now()+d, fn)
}

// At schedules fn to run once the clock reaches at.
func (q *Queue) At(at time.Duration, fn func()) *Task {
	q.seq++
	task := &Task{At: at, fn: fn, seq: q.seq, queue: q}
	heap.Push(&q.tasks, task)
	return task
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Drain runs every task due at the current time in fire-time order and
// returns how many ran. Tasks scheduled while draining run in the same
// call if they are already due.
func (q *Queue) Drain() int {
	now := q.clock.Now()
	ran := 0
	for len(q.tasks) > 0 && q.tasks[0].At <= now {
		task := heap.Pop(&q.tasks).(*Task)
		task.fn()
		ran++
	}
	return ran
}

// Clear cancels every pending task.
func (q *Queue) Clear() {
	for _, task := range q.tasks {
		task.index = -1
	}
	q.tasks = q.tasks[:0]
}

package schedule

import (
	"testing"
	"time"
)

func TestQueueDrainOrder(t *testing.T) {
	clock := &ManualClock{}
	q := NewQueue(clock)

	var order []string
	q.After(30*time.Millisecond, func() { order = append(order, "c") })
	q.After(10*time.Millisecond, func() { order = append(order, "a") })
	q.After(20*time.Millisecond, func() { order = append(order, "b") })
	q.After(20*time.Millisecond, func() { order = append(order, "b2") })

	if ran := q.Drain(); ran != 0 {
		t.Fatalf("expected nothing due at t=0, ran %d", ran)
	}

	clock.Advance(20 * time.Millisecond)
	if ran := q.Drain(); ran != 3 {
		t.Fatalf("expected 3 tasks at t=20ms, ran %d", ran)
	}
	clock.Advance(time.Second)
	q.Drain()

	want := []string{"a", "b", "b2", "c"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
}

func TestTaskCancel(t *testing.T) {
	clock := &ManualClock{}
	q := NewQueue(clock)

	fired := 0
	keep := q.After(5*time.Millisecond, func() { fired++ })
	drop := q.After(1*time.Millisecond, func() { t.Error("canceled task fired") })

	if !drop.Pending() {
		t.Fatal("expected task to be pending")
	}
	if !drop.Cancel() {
		t.Error("expected first cancel to succeed")
	}
	if drop.Cancel() {
		t.Error("expected second cancel to be a no-op")
	}

	clock.Advance(10 * time.Millisecond)
	q.Drain()

	if fired != 1 {
		t.Errorf("expected 1 firing, got %d", fired)
	}
	if keep.Pending() {
		t.Error("fired task should not be pending")
	}
	if keep.Cancel() {
		t.Error("canceling a fired task should be a no-op")
	}
}

func TestQueueReschedulesDuringDrain(t *testing.T) {
	clock := &ManualClock{}
	q := NewQueue(clock)

	ticks := 0
	var poll func()
	poll = func() {
		ticks++
		q.After(200*time.Millisecond, poll)
	}
	q.After(200*time.Millisecond, poll)

	for i := 0; i < 10; i++ {
		clock.Advance(100 * time.Millisecond)
		q.Drain()
	}

	if ticks != 5 {
		t.Errorf("expected 5 polls in 1s, got %d", ticks)
	}
	if q.Len() != 1 {
		t.Errorf("expected one re-armed task, got %d", q.Len())
	}
}

func TestQueueClear(t *testing.T) {
	q := NewQueue(&ManualClock{})
	a := q.After(0, func() { t.Error("cleared task fired") })
	q.After(time.Second, func() { t.Error("cleared task fired") })

	q.Clear()
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d", q.Len())
	}
	if a.Pending() {
		t.Error("cleared task should not be pending")
	}
	q.Drain()
}

func TestWallClockMonotonic(t *testing.T) {
	c := NewWallClock()
	a := c.Now()
	b := c.Now()
	if b < a {
		t.Errorf("wall clock went backwards: %v then %v", a, b)
	}
}

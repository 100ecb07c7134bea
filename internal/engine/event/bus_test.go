package event

import "testing"

func TestBusOrderAndPayload(t *testing.T) {
	b := NewBus()

	var log []string
	var levels []float64
	b.OnZoomStart(func() { log = append(log, "start") })
	b.OnZoom(func(level float64) {
		log = append(log, "zoom")
		levels = append(levels, level)
	})
	b.OnZoomEnd(func() { log = append(log, "end") })

	b.EmitZoomStart()
	b.EmitZoom(1.1)
	b.EmitZoom(1.2)
	b.EmitZoomEnd()

	want := []string{"start", "zoom", "zoom", "end"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], log[i])
		}
	}
	if levels[1] != 1.2 {
		t.Errorf("expected last level 1.2, got %v", levels[1])
	}
}

func TestBusOff(t *testing.T) {
	b := NewBus()

	calls := 0
	id := b.OnZoomEnd(func() { calls++ })
	other := b.OnZoom(func(float64) {})

	if id == other {
		t.Fatal("expected distinct subscription ids")
	}

	b.EmitZoomEnd()
	if !b.Off(id) {
		t.Error("expected Off to find the subscription")
	}
	if b.Off(id) {
		t.Error("expected second Off to report false")
	}
	b.EmitZoomEnd()

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}

	start, zoom, end := b.Subscribers()
	if start != 0 || zoom != 1 || end != 0 {
		t.Errorf("unexpected subscriber counts %d/%d/%d", start, zoom, end)
	}
}

func TestBusOffDuringEmit(t *testing.T) {
	b := NewBus()

	calls := 0
	var id ID
	id = b.OnZoomStart(func() {
		calls++
		b.Off(id)
	})
	b.OnZoomStart(func() { calls++ })

	b.EmitZoomStart()
	b.EmitZoomStart()

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

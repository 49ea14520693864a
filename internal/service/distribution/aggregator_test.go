package distribution

import (
	"testing"

	"SignalDash/internal/domain/models"
)

func TestCount(t *testing.T) {
	var events []models.SignalEvent
	for i := 0; i < 3; i++ {
		events = append(events, models.SignalEvent{Direction: models.DirectionCall})
	}
	for i := 0; i < 2; i++ {
		events = append(events, models.SignalEvent{Direction: models.DirectionPut})
	}

	got := Count(events)
	want := models.Distribution{Call: 3, Put: 2, Hold: 0}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.Total() != len(events) {
		t.Fatalf("sum %d != length %d", got.Total(), len(events))
	}
}

func TestCountEmpty(t *testing.T) {
	if got := Count(nil); got != (models.Distribution{}) {
		t.Fatalf("expected zero distribution, got %+v", got)
	}
}

func TestCountIsDeterministic(t *testing.T) {
	events := []models.SignalEvent{
		{Direction: models.DirectionHold},
		{Direction: models.DirectionPut},
		{Direction: models.DirectionHold},
	}
	a, b := Count(events), Count(events)
	if a != b || a.Hold != 2 || a.Put != 1 {
		t.Fatalf("unexpected counts %+v / %+v", a, b)
	}
}

package notify

import (
	"testing"
	"time"

	"SignalDash/internal/domain/models"
	"SignalDash/internal/service/clock"
)

var t0 = time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)

func TestNotificationExpiryBoundary(t *testing.T) {
	clk := clock.NewFake(t0)
	s := New(clk, DefaultTTL, nil)
	s.Notify("hello", models.SeverityInfo)

	s.Tick(t0.Add(2999 * time.Millisecond))
	if len(s.Active()) != 1 {
		t.Fatalf("notification must be present at t+2999")
	}
	s.Tick(t0.Add(3001 * time.Millisecond))
	if len(s.Active()) != 0 {
		t.Fatalf("notification must be gone at t+3001")
	}
	if s.PendingTimers() != 0 {
		t.Fatalf("timer leaked after expiry: %d", s.PendingTimers())
	}
}

func TestNotificationsAreIndependent(t *testing.T) {
	clk := clock.NewFake(t0)
	var ticks []time.Time
	s := New(clk, DefaultTTL, func(now time.Time) { ticks = append(ticks, now) })

	a := s.Notify("same", models.SeverityInfo)
	clk.Advance(time.Second)
	b := s.Notify("same", models.SeverityError)
	if a.ID == b.ID {
		t.Fatalf("identical messages must produce distinct notifications")
	}
	if len(s.Active()) != 2 {
		t.Fatalf("expected 2 active notifications, got %d", len(s.Active()))
	}

	clk.Advance(2 * time.Second)
	if len(ticks) != 1 || !ticks[0].Equal(a.ExpiresAt) {
		t.Fatalf("expected expiry callback for first notification, got %v", ticks)
	}
	s.Tick(ticks[0])
	active := s.Active()
	if len(active) != 1 || active[0].ID != b.ID {
		t.Fatalf("unexpected active set %+v", active)
	}
}

func TestRemoveAndCloseReleaseTimers(t *testing.T) {
	clk := clock.NewFake(t0)
	fired := 0
	s := New(clk, DefaultTTL, func(time.Time) { fired++ })

	n := s.Notify("one", models.SeverityInfo)
	s.Notify("two", models.SeverityInfo)
	if !s.Remove(n.ID) {
		t.Fatalf("expected removal")
	}
	if clk.Pending() != 1 {
		t.Fatalf("expected 1 armed timer, got %d", clk.Pending())
	}

	s.Close()
	if clk.Pending() != 0 || s.PendingTimers() != 0 {
		t.Fatalf("close must stop every timer")
	}
	clk.Advance(time.Minute)
	if fired != 0 {
		t.Fatalf("no callback may fire after close, got %d", fired)
	}

	s.Notify("late", models.SeverityInfo)
	if len(s.Active()) != 0 || clk.Pending() != 0 {
		t.Fatalf("notify after close must not schedule")
	}
}

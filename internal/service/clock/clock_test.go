package clock

import (
	"testing"
	"time"
)

func TestFakeAdvanceFiresDueTimersInOrder(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)
	c := NewFake(start)

	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "c") })

	c.Advance(3 * time.Second)
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("unexpected fire order %v", fired)
	}
	if got := c.Now(); !got.Equal(start.Add(3 * time.Second)) {
		t.Fatalf("unexpected now %v", got)
	}
	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", c.Pending())
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	called := false
	tm := c.AfterFunc(time.Second, func() { called = true })
	if !tm.Stop() {
		t.Fatalf("expected first stop to succeed")
	}
	if tm.Stop() {
		t.Fatalf("expected second stop to report false")
	}
	c.Advance(time.Minute)
	if called {
		t.Fatalf("stopped timer fired")
	}
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalDash/internal/service/clock"
)

func TestTTLCacheExpiry(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	c := NewTTLCache[int](clk)

	c.Set("a", 1, time.Second)
	c.Set("b", 2, 0)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("get a = %d %v", v, ok)
	}

	clk.Advance(time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatal("entries without ttl must not expire")
	}

	c.Delete("b")
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should be deleted")
	}
}

type countingPinger struct {
	calls int
	err   error
}

func (p *countingPinger) Ping(context.Context, time.Duration) error {
	p.calls++
	return p.err
}

func TestPingerCachesResult(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	next := &countingPinger{err: errors.New("down")}
	p := NewPinger(next, 5*time.Second, clk)

	for i := 0; i < 3; i++ {
		if err := p.Ping(context.Background(), time.Second); err == nil {
			t.Fatal("expected cached failure")
		}
	}
	if next.calls != 1 {
		t.Fatalf("calls = %d, want 1", next.calls)
	}

	next.err = nil
	clk.Advance(5 * time.Second)
	if err := p.Ping(context.Background(), time.Second); err != nil {
		t.Fatalf("ping after expiry: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("calls = %d, want 2", next.calls)
	}
}

func TestPingerSkipsCancelledPing(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	next := &countingPinger{err: context.Canceled}
	p := NewPinger(next, 5*time.Second, clk)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Ping(ctx, time.Second)

	next.err = nil
	if err := p.Ping(context.Background(), time.Second); err != nil {
		t.Fatalf("cancelled ping was cached: %v", err)
	}
}

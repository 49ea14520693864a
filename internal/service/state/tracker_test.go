package state

import (
	"testing"
	"time"

	"SignalDash/internal/domain/models"

	"github.com/shopspring/decimal"
)

func TestWinRate(t *testing.T) {
	cases := []struct {
		total, win int
		want       string
	}{
		{0, 0, "0%"},
		{10, 6, "60.0%"},
		{3, 1, "33.3%"},
		{3, 2, "66.7%"},
	}
	for _, tc := range cases {
		got := WinRate(models.PerformanceSnapshot{TotalSignals: tc.total, WinningSignals: tc.win})
		if got != tc.want {
			t.Errorf("total=%d win=%d: got %q, want %q", tc.total, tc.win, got, tc.want)
		}
	}
}

func TestApplyConnectionIsIdempotent(t *testing.T) {
	tr := NewTracker()
	at := time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)
	c := models.ConnectionState{Connected: true, Authenticated: true, MessageCount: 4, LastMessageAt: &at}

	if !tr.ApplyConnection(c) {
		t.Fatalf("first apply must change state")
	}
	first := tr.Connection()
	if tr.ApplyConnection(c) {
		t.Fatalf("second identical apply must be a no-op")
	}
	if !first.Equal(tr.Connection()) {
		t.Fatalf("state drifted after identical apply")
	}

	at = at.Add(time.Hour)
	if !tr.Connection().LastMessageAt.Equal(time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("tracker must not alias caller's time pointer")
	}
}

func TestApplyPerformanceReplacesWholesale(t *testing.T) {
	tr := NewTracker()
	tr.ApplyPerformance(models.PerformanceSnapshot{TotalSignals: 10, WinningSignals: 6, ActiveAssets: 3, TotalProfit: decimal.NewFromFloat(12.5)})
	tr.ApplyPerformance(models.PerformanceSnapshot{TotalSignals: 2})

	got := tr.Performance()
	if got.WinningSignals != 0 || got.ActiveAssets != 0 || !got.TotalProfit.IsZero() {
		t.Fatalf("expected full replace, got %+v", got)
	}
	if tr.ApplyPerformance(models.PerformanceSnapshot{TotalSignals: 2, TotalProfit: decimal.Zero}) {
		t.Fatalf("equal snapshot must not report a change")
	}
}

func TestMarkDisconnected(t *testing.T) {
	tr := NewTracker()
	tr.ApplyConnection(models.ConnectionState{Connected: true, Authenticated: true, MessageCount: 9})
	if !tr.MarkDisconnected() {
		t.Fatalf("expected change")
	}
	c := tr.Connection()
	if c.Connected || !c.Authenticated || c.MessageCount != 9 {
		t.Fatalf("unexpected state %+v", c)
	}
	if tr.MarkDisconnected() {
		t.Fatalf("already disconnected")
	}
}

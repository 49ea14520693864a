package state

import (
	"fmt"

	"SignalDash/internal/domain/models"
)

// Tracker holds the latest known connection and performance records. Both are
// replaced wholesale on every update; there is no field-level merge.
type Tracker struct {
	conn models.ConnectionState
	perf models.PerformanceSnapshot
}

func NewTracker() *Tracker { return &Tracker{} }

// ApplyConnection replaces the connection record and reports whether it changed.
func (t *Tracker) ApplyConnection(c models.ConnectionState) bool {
	if t.conn.Equal(c) {
		return false
	}
	if c.LastMessageAt != nil {
		at := *c.LastMessageAt
		c.LastMessageAt = &at
	}
	t.conn = c
	return true
}

// ApplyPerformance replaces the performance record and reports whether it changed.
func (t *Tracker) ApplyPerformance(p models.PerformanceSnapshot) bool {
	if t.perf.Equal(p) {
		return false
	}
	t.perf = p
	return true
}

// MarkDisconnected flags the connection as down, keeping the other fields.
func (t *Tracker) MarkDisconnected() bool {
	if !t.conn.Connected {
		return false
	}
	t.conn.Connected = false
	return true
}

func (t *Tracker) Connection() models.ConnectionState { return t.conn }

func (t *Tracker) Performance() models.PerformanceSnapshot { return t.perf }

// WinRate formats winning/total as a percentage with one decimal, "0%" with no signals.
func WinRate(p models.PerformanceSnapshot) string {
	if p.TotalSignals <= 0 {
		return "0%"
	}
	rate := float64(p.WinningSignals) / float64(p.TotalSignals) * 100
	return fmt.Sprintf("%.1f%%", rate)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the recommended trade side of a signal.
type Direction string

const (
	DirectionCall Direction = "CALL"
	DirectionPut  Direction = "PUT"
	DirectionHold Direction = "HOLD"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionCall, DirectionPut, DirectionHold:
		return true
	default:
		return false
	}
}

// SignalEvent is a single trading signal produced upstream. Never mutated after decode.
type SignalEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Asset      string    `json:"asset"`
	Direction  Direction `json:"direction"`
	Timeframe  string    `json:"timeframe"`
	Confidence float64   `json:"confidence"`
	Type       string    `json:"type,omitempty"`
}

// ConnectionState describes the producer's upstream broker connection.
type ConnectionState struct {
	Connected     bool       `json:"websocket_connected"`
	Authenticated bool       `json:"authenticated"`
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message,omitempty"`
}

// Equal compares two connection states field by field.
func (c ConnectionState) Equal(o ConnectionState) bool {
	if c.Connected != o.Connected || c.Authenticated != o.Authenticated || c.MessageCount != o.MessageCount {
		return false
	}
	switch {
	case c.LastMessageAt == nil && o.LastMessageAt == nil:
		return true
	case c.LastMessageAt == nil || o.LastMessageAt == nil:
		return false
	default:
		return c.LastMessageAt.Equal(*o.LastMessageAt)
	}
}

// PerformanceSnapshot holds aggregate signal outcomes.
type PerformanceSnapshot struct {
	TotalSignals   int             `json:"total_signals"`
	WinningSignals int             `json:"winning_signals"`
	LosingSignals  int             `json:"losing_signals"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	ActiveAssets   int             `json:"active_assets"`
}

// Equal compares two snapshots; profit is compared numerically.
func (p PerformanceSnapshot) Equal(o PerformanceSnapshot) bool {
	return p.TotalSignals == o.TotalSignals &&
		p.WinningSignals == o.WinningSignals &&
		p.LosingSignals == o.LosingSignals &&
		p.ActiveAssets == o.ActiveAssets &&
		p.TotalProfit.Equal(o.TotalProfit)
}

// MetricPoint is one sample of a time series chart.
type MetricPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Severity of a notification.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a transient advisory message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the notification should be gone at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Distribution counts signals per direction.
type Distribution struct {
	Call int `json:"CALL"`
	Put  int `json:"PUT"`
	Hold int `json:"HOLD"`
}

// Total returns the sum of all counts.
func (d Distribution) Total() int { return d.Call + d.Put + d.Hold }

// Package payload decodes and validates backend JSON into domain records. Every
// failure is reported as models.ErrMalformedPayload so callers can keep prior state.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SignalDash/internal/domain/models"
	"SignalDash/pkg/util"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type signalWire struct {
	Timestamp  any      `json:"timestamp"`
	Asset      string   `json:"asset" validate:"required,max=64"`
	Direction  string   `json:"direction" validate:"required,oneof=CALL PUT HOLD"`
	Signal     string   `json:"signal"`
	Timeframe  string   `json:"timeframe" validate:"max=16"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=100"`
	Type       string   `json:"type"`
}

type connectionWire struct {
	WebsocketConnected *bool  `json:"websocket_connected"`
	Connected          *bool  `json:"connected"`
	Authenticated      bool   `json:"authenticated"`
	MessageCount       int    `json:"message_count" validate:"gte=0"`
	LastMessage        any    `json:"last_message"`
	Status             string `json:"status"`
}

type performanceWire struct {
	TotalSignals   *int             `json:"total_signals" validate:"required,gte=0"`
	WinningSignals int              `json:"winning_signals" validate:"gte=0"`
	LosingSignals  int              `json:"losing_signals" validate:"gte=0"`
	TotalProfit    *decimal.Decimal `json:"total_profit"`
	ActiveAssets   json.RawMessage  `json:"active_assets"`
}

func malformed(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", models.ErrMalformedPayload, what, err)
}

// Signal decodes one signal object.
func Signal(b []byte) (models.SignalEvent, error) {
	var w signalWire
	if err := json.Unmarshal(b, &w); err != nil {
		return models.SignalEvent{}, malformed("signal", err)
	}
	return w.toModel()
}

// Signals decodes a JSON array of signals, most recent first. One bad element
// rejects the whole snapshot.
func Signals(b []byte) ([]models.SignalEvent, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, malformed("signals", err)
	}
	out := make([]models.SignalEvent, 0, len(raw))
	for i, r := range raw {
		ev, err := Signal(r)
		if err != nil {
			return nil, fmt.Errorf("signals[%d]: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (w signalWire) toModel() (models.SignalEvent, error) {
	if w.Direction == "" {
		w.Direction = w.Signal
	}
	w.Direction = strings.ToUpper(strings.TrimSpace(w.Direction))
	w.Asset = strings.TrimSpace(w.Asset)
	if err := validate.Struct(w); err != nil {
		return models.SignalEvent{}, malformed("signal", err)
	}
	// A missing or empty timestamp is left zero; the receiver stamps it.
	var ts time.Time
	if !blankTime(w.Timestamp) {
		var ok bool
		if ts, ok = util.ParseTimeValue(w.Timestamp); !ok {
			return models.SignalEvent{}, malformed("signal", fmt.Errorf("invalid timestamp %v", w.Timestamp))
		}
	}
	return models.SignalEvent{
		Timestamp:  ts,
		Asset:      w.Asset,
		Direction:  models.Direction(w.Direction),
		Timeframe:  w.Timeframe,
		Confidence: *w.Confidence,
		Type:       w.Type,
	}, nil
}

func blankTime(v any) bool {
	if v == nil {
		return true
	}
	str, ok := v.(string)
	return ok && strings.TrimSpace(str) == ""
}

// Connection decodes a connection record. Either "websocket_connected" or
// "connected" must be present; a "status" string is accepted as a last resort.
func Connection(b []byte) (models.ConnectionState, error) {
	var w connectionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return models.ConnectionState{}, malformed("connection", err)
	}
	if err := validate.Struct(w); err != nil {
		return models.ConnectionState{}, malformed("connection", err)
	}

	var connected bool
	switch {
	case w.WebsocketConnected != nil:
		connected = *w.WebsocketConnected
	case w.Connected != nil:
		connected = *w.Connected
	case w.Status != "":
		connected = strings.EqualFold(w.Status, "connected")
	default:
		return models.ConnectionState{}, malformed("connection", fmt.Errorf("connected flag missing"))
	}

	c := models.ConnectionState{
		Connected:     connected,
		Authenticated: w.Authenticated,
		MessageCount:  w.MessageCount,
	}
	if w.LastMessage != nil && w.LastMessage != "" {
		at, ok := util.ParseTimeValue(w.LastMessage)
		if !ok {
			return models.ConnectionState{}, malformed("connection", fmt.Errorf("invalid last_message %v", w.LastMessage))
		}
		c.LastMessageAt = &at
	}
	return c, nil
}

// Performance decodes a performance snapshot. active_assets may be a count or the
// list of assets. The second return value reports whether total_profit was present.
func Performance(b []byte) (models.PerformanceSnapshot, bool, error) {
	var w performanceWire
	if err := json.Unmarshal(b, &w); err != nil {
		return models.PerformanceSnapshot{}, false, malformed("performance", err)
	}
	if err := validate.Struct(w); err != nil {
		return models.PerformanceSnapshot{}, false, malformed("performance", err)
	}
	active, err := activeAssets(w.ActiveAssets)
	if err != nil {
		return models.PerformanceSnapshot{}, false, malformed("performance", err)
	}

	p := models.PerformanceSnapshot{
		TotalSignals:   *w.TotalSignals,
		WinningSignals: w.WinningSignals,
		LosingSignals:  w.LosingSignals,
		ActiveAssets:   active,
	}
	if w.TotalProfit != nil {
		p.TotalProfit = *w.TotalProfit
	}
	return p, w.TotalProfit != nil, nil
}

func activeAssets(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return 0, err
		}
		return len(list), nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("active_assets: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("active_assets must be >= 0, got %d", n)
	}
	return n, nil
}

package tui

import (
	"strings"
	"testing"
	"time"

	"SignalDash/internal/domain/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

func row(seq uint64, asset string, dir models.Direction, tf string) models.SignalRow {
	ev := models.SignalEvent{Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Asset: asset, Direction: dir, Timeframe: tf, Confidence: 80}
	return models.SignalRow{Seq: seq, Time: "10:00:00", Asset: asset, Direction: string(dir), Timeframe: tf, Confidence: "80%", Event: ev}
}

func loaded(t *testing.T) Model {
	t.Helper()
	m := New()
	next, _ := m.Update(projectionMsg{p: models.Projection{
		Phase:       models.PhaseLive,
		Connection:  &models.ConnectionView{Status: "✅ Connected", Authentication: "✅ Authenticated", MessageCount: "3", LastActivity: "Never"},
		Performance: &models.PerformanceView{TotalSignals: "3", WinRate: "66.7%", TotalProfit: "$4.00"},
		Signals: &models.SignalsView{Rows: []models.SignalRow{
			row(3, "EURUSD", models.DirectionCall, "1m"),
			row(2, "BTCUSD", models.DirectionPut, "5M"),
			row(1, "EURUSD", models.DirectionHold, "5m"),
		}},
		Charts: &models.ChartsView{
			Profit:       []models.MetricPoint{{Label: "10:00:00", Value: decimal.NewFromInt(1)}, {Label: "10:00:01", Value: decimal.NewFromInt(4)}},
			Distribution: models.Distribution{Call: 1, Put: 1, Hold: 1},
		},
	}})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestAssetCycling(t *testing.T) {
	m := loaded(t)
	if n := len(m.Rows()); n != 3 {
		t.Fatalf("unfiltered rows = %d", n)
	}

	m = press(t, m, runes("a"))
	if m.Asset() != "EURUSD" || len(m.Rows()) != 2 {
		t.Fatalf("asset=%s rows=%d", m.Asset(), len(m.Rows()))
	}
	m = press(t, m, runes("a"))
	if m.Asset() != "BTCUSD" || len(m.Rows()) != 1 {
		t.Fatalf("asset=%s rows=%d", m.Asset(), len(m.Rows()))
	}
	m = press(t, m, runes("a"))
	if m.Asset() != "all" {
		t.Fatalf("cycle did not wrap: %s", m.Asset())
	}
	m = press(t, m, runes("A"))
	if m.Asset() != "BTCUSD" {
		t.Fatalf("reverse cycle = %s", m.Asset())
	}
}

func TestSearch(t *testing.T) {
	m := loaded(t)
	m = press(t, m, runes("/"), runes("c"), runes("a"), runes("l"), runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	rows := m.Rows()
	if len(rows) != 1 || rows[0].Direction != "CALL" {
		t.Fatalf("search 'call' rows = %+v", rows)
	}

	// timeframe matching is case-sensitive
	m = press(t, m, runes("c"), runes("/"), runes("5"), runes("m"), tea.KeyMsg{Type: tea.KeyEnter})
	if rows := m.Rows(); len(rows) != 1 || rows[0].Seq != 1 {
		t.Fatalf("search '5m' rows = %+v", rows)
	}

	m = press(t, m, runes("/"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if n := len(m.Rows()); n != 3 {
		t.Fatalf("esc should clear the query, rows = %d", n)
	}
}

func TestAssetResetWhenScrolledOut(t *testing.T) {
	m := press(t, loaded(t), runes("a"), runes("a"))
	if m.Asset() != "BTCUSD" {
		t.Fatalf("asset = %s", m.Asset())
	}
	next, _ := m.Update(projectionMsg{p: models.Projection{Signals: &models.SignalsView{Rows: []models.SignalRow{row(4, "EURUSD", models.DirectionCall, "1m")}}}})
	if got := next.(Model).Asset(); got != "all" {
		t.Fatalf("asset after scroll-out = %s", got)
	}
}

func TestViewRendersRegions(t *testing.T) {
	m := loaded(t)
	next, _ := m.Update(projectionMsg{p: models.Projection{
		Phase:         models.PhaseDegraded,
		Notifications: &models.NotificationsView{Items: []models.Notification{{Message: "New CALL signal for EURUSD", Severity: models.SeverityInfo}}},
	}})
	out := next.(Model).View()
	for _, want := range []string{"✅ Connected", "66.7%", "$4.00", "EURUSD", "BTCUSD", "DEGRADED", "New CALL signal for EURUSD"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	_, cmd := loaded(t).Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{1, 2, 3}); got != "▁▄█" {
		t.Fatalf("sparkline = %q", got)
	}
	if got := sparkline([]float64{5, 5}); got != "▅▅" {
		t.Fatalf("flat sparkline = %q", got)
	}
}

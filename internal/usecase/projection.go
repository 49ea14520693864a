package usecase

import (
	"strconv"

	"SignalDash/internal/domain/models"
	"SignalDash/internal/service/distribution"
	"SignalDash/internal/service/signallog"
	"SignalDash/internal/service/state"
	"SignalDash/pkg/util"
)

const (
	statusConnected       = "✅ Connected"
	statusDisconnected    = "❌ Disconnected"
	statusAuthenticated   = "✅ Authenticated"
	statusUnauthenticated = "❌ Not Authenticated"
	lastActivityNever     = "Never"
	timeUnknown           = "--:--:--"
)

var allRegions = []models.Region{
	models.RegionPhase,
	models.RegionConnection,
	models.RegionPerformance,
	models.RegionSignals,
	models.RegionCharts,
	models.RegionNotifications,
	models.RegionClock,
}

func (r *Reconciler) renderAll() {
	r.render(allRegions...)
}

// render hands the renderer a projection holding only the given regions.
func (r *Reconciler) render(regions ...models.Region) {
	var p models.Projection
	for _, region := range regions {
		switch region {
		case models.RegionPhase:
			p.Phase = r.phase
		case models.RegionConnection:
			p.Connection = ConnectionView(r.tracker.Connection(), r.phase == models.PhaseDegraded)
		case models.RegionPerformance:
			p.Performance = PerformanceView(r.tracker.Performance())
		case models.RegionSignals:
			p.Signals = SignalsView(r.signals)
		case models.RegionCharts:
			p.Charts = &models.ChartsView{
				Profit:       r.profit.Snapshot(),
				Distribution: distribution.Count(r.signals.History()),
			}
		case models.RegionNotifications:
			p.Notifications = &models.NotificationsView{Items: r.notes.Active()}
		case models.RegionClock:
			p.Clock = util.ClockLabel(r.clock.Now())
		}
	}
	r.renderer.Render(p)
}

// ConnectionView renders the connection card.
func ConnectionView(c models.ConnectionState, degraded bool) *models.ConnectionView {
	v := &models.ConnectionView{
		Status:         statusDisconnected,
		Connected:      c.Connected,
		Authentication: statusUnauthenticated,
		MessageCount:   strconv.Itoa(c.MessageCount),
		LastActivity:   lastActivityNever,
		Degraded:       degraded,
	}
	if c.Connected {
		v.Status = statusConnected
	}
	if c.Authenticated {
		v.Authentication = statusAuthenticated
	}
	if c.LastMessageAt != nil {
		v.LastActivity = util.ClockLabel(*c.LastMessageAt)
	}
	return v
}

// PerformanceView renders the six metric cards.
func PerformanceView(p models.PerformanceSnapshot) *models.PerformanceView {
	return &models.PerformanceView{
		TotalSignals:   strconv.Itoa(p.TotalSignals),
		WinningSignals: strconv.Itoa(p.WinningSignals),
		LosingSignals:  strconv.Itoa(p.LosingSignals),
		TotalProfit:    "$" + p.TotalProfit.StringFixed(2),
		WinRate:        state.WinRate(p),
		ActiveAssets:   strconv.Itoa(p.ActiveAssets),
	}
}

// SignalsView renders the visible log, newest first.
func SignalsView(s *signallog.Store) *models.SignalsView {
	entries := s.Visible()
	rows := make([]models.SignalRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, SignalRow(e))
	}
	return &models.SignalsView{Rows: rows, HistorySize: s.HistoryLen()}
}

func SignalRow(e signallog.Entry) models.SignalRow {
	at := timeUnknown
	if !e.Event.Timestamp.IsZero() {
		at = util.ClockLabel(e.Event.Timestamp)
	}
	return models.SignalRow{
		Seq:        e.Seq,
		Time:       at,
		Asset:      e.Event.Asset,
		Direction:  string(e.Event.Direction),
		Timeframe:  e.Event.Timeframe,
		Confidence: strconv.FormatFloat(e.Event.Confidence, 'f', -1, 64) + "%",
		Highlight:  e.Highlight,
		Event:      e.Event,
	}
}

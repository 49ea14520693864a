package models

// Region names one independently re-renderable part of the dashboard.
type Region string

const (
	RegionPhase         Region = "phase"
	RegionConnection    Region = "connection"
	RegionPerformance   Region = "performance"
	RegionSignals       Region = "signals"
	RegionCharts        Region = "charts"
	RegionNotifications Region = "notifications"
	RegionClock         Region = "clock"
)

// ConnectionView is the rendered connection/status card.
type ConnectionView struct {
	Status         string `json:"status"`
	Connected      bool   `json:"connected"`
	Authentication string `json:"authentication"`
	MessageCount   string `json:"message_count"`
	LastActivity   string `json:"last_activity"`
	Degraded       bool   `json:"degraded"`
}

// PerformanceView is the rendered metric card row.
type PerformanceView struct {
	TotalSignals   string `json:"total_signals"`
	WinningSignals string `json:"winning_signals"`
	LosingSignals  string `json:"losing_signals"`
	TotalProfit    string `json:"total_profit"`
	WinRate        string `json:"win_rate"`
	ActiveAssets   string `json:"active_assets"`
}

// SignalRow is one line of the signal list.
type SignalRow struct {
	Seq        uint64      `json:"seq"`
	Time       string      `json:"time"`
	Asset      string      `json:"asset"`
	Direction  string      `json:"direction"`
	Timeframe  string      `json:"timeframe"`
	Confidence string      `json:"confidence"`
	Highlight  bool        `json:"highlight"`
	Event      SignalEvent `json:"-"`
}

// SignalsView is the rendered signal list, newest first.
type SignalsView struct {
	Rows        []SignalRow `json:"rows"`
	HistorySize int         `json:"history_size"`
}

// ChartsView feeds the time-series and distribution charts.
type ChartsView struct {
	Profit       []MetricPoint `json:"profit"`
	Distribution Distribution  `json:"distribution"`
}

// NotificationsView lists active notifications, oldest first.
type NotificationsView struct {
	Items []Notification `json:"items"`
}

// Projection is a read-only view of dashboard state handed to renderers. Nil sections
// were not affected by the update that produced the projection.
type Projection struct {
	Phase         Phase              `json:"phase,omitempty"`
	Connection    *ConnectionView    `json:"connection,omitempty"`
	Performance   *PerformanceView   `json:"performance,omitempty"`
	Signals       *SignalsView       `json:"signals,omitempty"`
	Charts        *ChartsView        `json:"charts,omitempty"`
	Notifications *NotificationsView `json:"notifications,omitempty"`
	Clock         string             `json:"clock,omitempty"`
}

// Regions lists the regions present in p.
func (p Projection) Regions() []Region {
	var rs []Region
	if p.Phase != "" {
		rs = append(rs, RegionPhase)
	}
	if p.Connection != nil {
		rs = append(rs, RegionConnection)
	}
	if p.Performance != nil {
		rs = append(rs, RegionPerformance)
	}
	if p.Signals != nil {
		rs = append(rs, RegionSignals)
	}
	if p.Charts != nil {
		rs = append(rs, RegionCharts)
	}
	if p.Notifications != nil {
		rs = append(rs, RegionNotifications)
	}
	if p.Clock != "" {
		rs = append(rs, RegionClock)
	}
	return rs
}

// Merge overlays the sections present in o onto p.
func (p *Projection) Merge(o Projection) {
	if o.Phase != "" {
		p.Phase = o.Phase
	}
	if o.Connection != nil {
		p.Connection = o.Connection
	}
	if o.Performance != nil {
		p.Performance = o.Performance
	}
	if o.Signals != nil {
		p.Signals = o.Signals
	}
	if o.Charts != nil {
		p.Charts = o.Charts
	}
	if o.Notifications != nil {
		p.Notifications = o.Notifications
	}
	if o.Clock != "" {
		p.Clock = o.Clock
	}
}

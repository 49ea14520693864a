package models

// DashboardRequest narrows the signal list returned by the dashboard endpoint.
type DashboardRequest struct {
	Asset string `query:"asset" json:"asset" default:"all" validate:"max=32"`
	Query string `query:"q" json:"q" validate:"max=64"`
}

// DashboardResponse is the latest merged projection with the signal list narrowed by
// the request filters. Assets lists every asset present before filtering.
type DashboardResponse struct {
	Asset      string     `json:"asset"`
	Query      string     `json:"q,omitempty"`
	Assets     []string   `json:"assets"`
	Projection Projection `json:"dashboard"`
}

// HealthResponse reports the dashboard lifecycle for liveness checks.
type HealthResponse struct {
	Status         string `json:"status"`
	Phase          Phase  `json:"phase"`
	VisibleSignals int    `json:"visible_signals"`
	Backend        string `json:"backend,omitempty"`
	Push           string `json:"push,omitempty"`
}

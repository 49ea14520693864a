package models

// Phase is the lifecycle state of the dashboard controller.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseLive          Phase = "live"
	PhaseDegraded      Phase = "degraded"
)

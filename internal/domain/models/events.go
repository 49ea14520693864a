package models

// EventType names a push channel event.
type EventType string

const (
	EventConnectionUpdate  EventType = "connection_update"
	EventPerformanceUpdate EventType = "performance_update"
	EventNewSignal         EventType = "new_signal"
)

// PushEvent is a decoded push channel message. Exactly one payload pointer is set
// when Err is nil; Err carries decode/validation failures for the controller to report.
type PushEvent struct {
	Type        EventType
	Signal      *SignalEvent
	Performance *PerformanceSnapshot
	Connection  *ConnectionState
	// HasProfit is false when a performance update carried no total_profit.
	HasProfit bool
	Err       error
}

// SnapshotKind identifies one of the pull endpoints.
type SnapshotKind string

const (
	SnapshotSignals     SnapshotKind = "signals"
	SnapshotPerformance SnapshotKind = "performance"
	SnapshotConnection  SnapshotKind = "connection"
)

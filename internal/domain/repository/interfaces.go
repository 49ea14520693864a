package repository

import (
	"context"
	"time"

	"SignalDash/internal/domain/models"
)

// SnapshotSource pulls point-in-time state from the backend.
type SnapshotSource interface {
	FetchSignals(ctx context.Context) ([]models.SignalEvent, error)
	FetchPerformance(ctx context.Context) (models.PerformanceSnapshot, error)
	FetchConnection(ctx context.Context) (models.ConnectionState, error)
}

// PushHandler receives push channel lifecycle and data events. Implementations must
// not block for long: they are called from the transport's read goroutine.
type PushHandler interface {
	OnConnect()
	OnDisconnect(err error)
	OnEvent(ev models.PushEvent)
}

// Subscription is a handle to an active registration.
type Subscription interface {
	Cancel()
}

// PushChannel delivers server-initiated events. Subscribe returns immediately; the
// transport reconnects on its own and reports lifecycle changes to the handler.
type PushChannel interface {
	Subscribe(ctx context.Context, h PushHandler) (Subscription, error)
}

// Renderer draws projections. It never feeds data back into the core.
type Renderer interface {
	Render(p models.Projection)
}

// Metrics records dashboard activity.
type Metrics interface {
	RecordEvent(kind string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordVisibleSignals(n int)
}

// Pinger is implemented by adapters that can report their health.
type Pinger interface {
	Ping(ctx context.Context, timeout time.Duration) error
}

package usecase

import (
	"time"

	"SignalDash/internal/domain/models"
)

// event is anything the Run loop consumes.
type event interface{}

type pullResult struct {
	kind        models.SnapshotKind
	signals     []models.SignalEvent
	performance models.PerformanceSnapshot
	connection  models.ConnectionState
	err         error
	elapsed     time.Duration
}

type pushReceived struct{ ev models.PushEvent }

type channelConnected struct{}

type channelDisconnected struct{ err error }

type notificationTick struct{ now time.Time }

type highlightExpired struct{ seq uint64 }

type clockTick struct{ now time.Time }

type statusRequest struct{ reply chan Status }

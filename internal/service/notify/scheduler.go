package notify

import (
	"time"

	"SignalDash/internal/domain/models"
	"SignalDash/internal/service/clock"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3000 * time.Millisecond

// ExpiryFunc is called from a timer goroutine when a notification becomes due. The
// owner is expected to call Tick with now from its own event loop.
type ExpiryFunc func(now time.Time)

// Scheduler keeps transient notifications and one expiry timer per notification.
// Methods are not safe for concurrent use; only onExpire runs on another goroutine.
type Scheduler struct {
	clock    clock.Clock
	ttl      time.Duration
	onExpire ExpiryFunc

	items  []models.Notification
	timers map[string]clock.Timer
	closed bool
}

// New creates a scheduler. A non-positive ttl falls back to DefaultTTL.
func New(clk clock.Clock, ttl time.Duration, onExpire ExpiryFunc) *Scheduler {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if onExpire == nil {
		onExpire = func(time.Time) {}
	}
	return &Scheduler{
		clock:    clk,
		ttl:      ttl,
		onExpire: onExpire,
		timers:   make(map[string]clock.Timer),
	}
}

// Notify adds a notification expiring ttl from now. Identical messages are not merged.
func (s *Scheduler) Notify(message string, severity models.Severity) models.Notification {
	now := s.clock.Now()
	n := models.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if s.closed {
		return n
	}
	s.items = append(s.items, n)
	s.timers[n.ID] = s.clock.AfterFunc(s.ttl, func() {
		s.onExpire(n.ExpiresAt)
	})
	return n
}

// Tick removes every notification with ExpiresAt <= now and returns how many went.
func (s *Scheduler) Tick(now time.Time) int {
	kept := s.items[:0]
	removed := 0
	for _, n := range s.items {
		if n.Expired(now) {
			s.release(n.ID)
			removed++
			continue
		}
		kept = append(kept, n)
	}
	s.items = kept
	return removed
}

// Remove drops one notification early and cancels its timer.
func (s *Scheduler) Remove(id string) bool {
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.release(id)
			return true
		}
	}
	return false
}

// Active returns a copy of the visible notifications, oldest first.
func (s *Scheduler) Active() []models.Notification {
	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// PendingTimers reports how many expiry timers are still armed.
func (s *Scheduler) PendingTimers() int { return len(s.timers) }

// Close cancels all timers and drops all notifications.
func (s *Scheduler) Close() {
	for id := range s.timers {
		s.release(id)
	}
	s.items = nil
	s.closed = true
}

func (s *Scheduler) release(id string) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

package cache

import (
	"context"
	"time"

	drepo "SignalDash/internal/domain/repository"
	"SignalDash/internal/service/clock"
)

const pingKey = "ping"

// Pinger remembers the last ping result for ttl so health checks do not hit the
// backend on every request. Failures are cached too.
type Pinger struct {
	next  drepo.Pinger
	ttl   time.Duration
	cache *TTLCache[error]
}

func NewPinger(next drepo.Pinger, ttl time.Duration, clk clock.Clock) *Pinger {
	return &Pinger{next: next, ttl: ttl, cache: NewTTLCache[error](clk)}
}

func (p *Pinger) Ping(ctx context.Context, timeout time.Duration) error {
	if err, ok := p.cache.Get(pingKey); ok {
		return err
	}
	err := p.next.Ping(ctx, timeout)
	// A cancelled request says nothing about the backend.
	if ctx.Err() == nil {
		p.cache.Set(pingKey, err, p.ttl)
	}
	return err
}

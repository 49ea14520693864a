// Package ratelimit provides keyed token buckets for the read API.
package ratelimit

import (
	"sync"
	"time"

	"SignalDash/internal/service/clock"
)

// maxKeys bounds the bucket map; full buckets are pruned once it is exceeded.
const maxKeys = 4096

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter holds one bucket per key, all sharing the same capacity and refill rate.
type Limiter struct {
	mu       sync.Mutex
	m        map[string]*bucket
	capacity float64
	refill   float64 // tokens per second
	clock    clock.Clock
}

func New(capacity int, refillPerSec float64) *Limiter {
	return NewWithClock(capacity, refillPerSec, clock.Real{})
}

func NewWithClock(capacity int, refillPerSec float64, clk clock.Clock) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		m:        make(map[string]*bucket),
		capacity: float64(capacity),
		refill:   refillPerSec,
		clock:    clk,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		if len(l.m) >= maxKeys {
			l.prune(now)
		}
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	l.fill(b, now)
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (l *Limiter) fill(b *bucket, now time.Time) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * l.refill
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.last = now
}

// prune drops buckets that have refilled completely; they carry no state.
func (l *Limiter) prune(now time.Time) {
	for k, b := range l.m {
		l.fill(b, now)
		if b.tokens >= l.capacity {
			delete(l.m, k)
		}
	}
}

// Package cache holds small in-process caches with expiry.
package cache

import (
	"sync"
	"time"

	"SignalDash/internal/service/clock"
)

type entry[V any] struct {
	v   V
	exp time.Time
}

// TTLCache maps keys to values that expire after a per-entry ttl.
type TTLCache[V any] struct {
	mu    sync.RWMutex
	m     map[string]entry[V]
	clock clock.Clock
}

func NewTTLCache[V any](clk clock.Clock) *TTLCache[V] {
	return &TTLCache[V]{m: make(map[string]entry[V]), clock: clk}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if !e.exp.IsZero() && !c.clock.Now().Before(e.exp) {
		c.mu.Lock()
		if cur, ok := c.m[key]; ok && cur.exp.Equal(e.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.v, true
}

// Set stores v under key. A non-positive ttl never expires.
func (c *TTLCache[V]) Set(key string, v V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = c.clock.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry[V]{v: v, exp: exp}
	c.mu.Unlock()
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

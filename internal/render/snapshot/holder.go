// Package snapshot keeps the merged latest projection for readers outside the
// reconciler goroutine, such as the HTTP API.
package snapshot

import (
	"sync"
	"time"

	"SignalDash/internal/domain/models"
)

// Holder is a Renderer that merges partial projections into one full view.
type Holder struct {
	mu      sync.RWMutex
	current models.Projection
	updated time.Time
	renders uint64
}

func NewHolder() *Holder { return &Holder{} }

// Render merges p into the held projection.
func (h *Holder) Render(p models.Projection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current.Merge(p)
	h.updated = time.Now()
	h.renders++
}

// Latest returns the merged projection. Sections are shared, never mutated after
// rendering, so callers must treat them as read-only.
func (h *Holder) Latest() models.Projection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Phase returns the last rendered phase.
func (h *Holder) Phase() models.Phase {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Phase
}

// Ready reports whether a full view has been rendered at least once.
func (h *Holder) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c := h.current
	return c.Connection != nil && c.Performance != nil && c.Signals != nil
}

func (h *Holder) UpdatedAt() (time.Time, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.updated, h.renders
}

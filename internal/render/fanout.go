// Package render holds the rendering surfaces that consume dashboard projections.
package render

import (
	"SignalDash/internal/domain/models"
	drepo "SignalDash/internal/domain/repository"
)

// Fanout forwards every projection to each renderer in order.
type Fanout []drepo.Renderer

// NewFanout drops nil renderers.
func NewFanout(rs ...drepo.Renderer) Fanout {
	out := make(Fanout, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (f Fanout) Render(p models.Projection) {
	for _, r := range f {
		r.Render(p)
	}
}

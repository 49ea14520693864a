package distribution

import "SignalDash/internal/domain/models"

// Count tallies events per direction. It is recomputed from the log on every render
// so it can never drift from the store.
func Count(events []models.SignalEvent) models.Distribution {
	var d models.Distribution
	for _, ev := range events {
		switch ev.Direction {
		case models.DirectionCall:
			d.Call++
		case models.DirectionPut:
			d.Put++
		case models.DirectionHold:
			d.Hold++
		}
	}
	return d
}

package rates

import (
	"time"

	"RatePulse/internal/domain/models"
	"RatePulse/pkg/util"
)

// ComputePeerStats derives the current cross-sectional peer statistics and
// per-entity trailing deltas against the aggregated history. An entity with
// no usable history gets zero deltas, never a missing value.
func ComputePeerStats(entities []models.EntityRecord, history map[string]*models.NamedSeries, now time.Time) *models.PeerSnapshot {
	vals := make([]float64, 0, len(entities))
	for _, e := range entities {
		vals = append(vals, e.CurrentValue)
	}
	med, _ := Median(vals)
	p75, _ := Percentile(vals, 75)

	rows := make([]models.PeerRow, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, models.PeerRow{
			Entity:       e.DisplayName,
			CurrentValue: e.CurrentValue,
			Delta7d:      trailingDelta(history[e.ID], e.CurrentValue, now, 7),
			Delta30d:     trailingDelta(history[e.ID], e.CurrentValue, now, 30),
			URL:          e.ReferenceURL,
		})
	}

	return &models.PeerSnapshot{
		AsOf:    now,
		Median:  Round3(med),
		P75:     Round3(p75),
		Rows:    rows,
		History: history,
	}
}

// trailingDelta is current minus the latest observation dated at most
// today-days, or 0 when the series has no observation that old.
func trailingDelta(s *models.NamedSeries, current float64, now time.Time, days int) float64 {
	cutoff := util.Day(now).AddDate(0, 0, -days)
	p, ok := s.LatestOnOrBefore(cutoff)
	if !ok {
		return 0
	}
	return Round3(current - p.Value)
}

package rates

import (
	"sort"
	"time"

	"RatePulse/internal/domain/models"
	"RatePulse/pkg/util"
)

// Aggregate series identifiers.
const (
	SeriesPeerMedian = "peer_median"
	SeriesPeerP75    = "peer_p75"
)

// historyWindowYears is the trailing retention window for historical entries.
const historyWindowYears = 10

// WindowStart returns the first retained calendar day of the history window.
func WindowStart(now time.Time) time.Time {
	return util.Day(now).AddDate(-historyWindowYears, 0, 0)
}

// Aggregate builds one ordered series per entity plus the peer_median and
// peer_p75 aggregate series from the historical entries and the live
// snapshot. Entries outside the trailing window are dropped entirely; each
// series keeps at most one point per calendar day (first write wins); every
// series with a single observation is anchored with a synthetic point at the
// window start so it spans a line rather than a dot.
func Aggregate(entries []models.SnapshotEntry, entities []models.EntityRecord, now time.Time) map[string]*models.NamedSeries {
	start := WindowStart(now)
	today := util.Day(now)

	retained := make([]models.SnapshotEntry, 0, len(entries))
	for _, e := range entries {
		d := util.Day(e.Timestamp)
		if d.Before(start) || d.After(today) {
			continue
		}
		retained = append(retained, e)
	}
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Timestamp.Before(retained[j].Timestamp)
	})

	series := make(map[string]*models.NamedSeries)
	for _, e := range retained {
		d := util.Day(e.Timestamp)
		vals := make([]float64, 0, len(e.Rows))
		for _, row := range e.Rows {
			v, ok := NormalizeRate(row.Rate)
			if !ok {
				continue
			}
			id := Slugify(row.Name)
			if id == "" {
				continue
			}
			appendPoint(series, id, d, v)
			vals = append(vals, v)
		}
		appendAggregates(series, d, vals)
	}

	liveVals := make([]float64, 0, len(entities))
	for _, ent := range entities {
		appendPoint(series, ent.ID, today, ent.CurrentValue)
		liveVals = append(liveVals, ent.CurrentValue)
	}
	appendAggregates(series, today, liveVals)

	for _, s := range series {
		anchor(s, start)
	}
	return series
}

func appendPoint(series map[string]*models.NamedSeries, id string, date time.Time, value float64) {
	s, ok := series[id]
	if !ok {
		s = &models.NamedSeries{ID: id}
		series[id] = s
	}
	if n := len(s.Points); n > 0 && s.Points[n-1].Date.Equal(date) {
		return
	}
	s.Points = append(s.Points, models.ObservationPoint{Date: date, Value: value})
}

func appendAggregates(series map[string]*models.NamedSeries, date time.Time, vals []float64) {
	if len(vals) == 0 {
		return
	}
	med, _ := Median(vals)
	p75, _ := Percentile(vals, 75)
	appendPoint(series, SeriesPeerMedian, date, Round3(med))
	appendPoint(series, SeriesPeerP75, date, Round3(p75))
}

// anchor inserts a synthetic earlier point at the window start for singleton
// series, keeping the one-point-per-day invariant intact.
func anchor(s *models.NamedSeries, start time.Time) {
	if len(s.Points) != 1 || !s.Points[0].Date.After(start) {
		return
	}
	s.Points = append([]models.ObservationPoint{{Date: start, Value: s.Points[0].Value}}, s.Points...)
}

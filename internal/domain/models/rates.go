package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ObservationPoint is one dated rate observation. Dates carry day precision
// and serialize as YYYY-MM-DD.
type ObservationPoint struct {
	Date  time.Time
	Value float64
}

func (p ObservationPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}{p.Date.UTC().Format(time.DateOnly), p.Value})
}

func (p *ObservationPoint) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t, err := time.ParseInLocation(time.DateOnly, raw.Date, time.UTC)
	if err != nil {
		return err
	}
	p.Date = t
	p.Value = raw.Value
	return nil
}

// NamedSeries is an ordered per-entity rate series. Points are kept sorted
// ascending by date with at most one point per calendar day.
type NamedSeries struct {
	ID     string             `json:"id"`
	Points []ObservationPoint `json:"points"`
}

// Latest returns the most recent observation.
func (s *NamedSeries) Latest() (ObservationPoint, bool) {
	if s == nil || len(s.Points) == 0 {
		return ObservationPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// LatestOnOrBefore returns the newest observation dated on or before day.
func (s *NamedSeries) LatestOnOrBefore(day time.Time) (ObservationPoint, bool) {
	if s == nil {
		return ObservationPoint{}, false
	}
	for i := len(s.Points) - 1; i >= 0; i-- {
		if !s.Points[i].Date.After(day) {
			return s.Points[i], true
		}
	}
	return ObservationPoint{}, false
}

// ValuesSince returns the values of all observations dated on or after day.
func (s *NamedSeries) ValuesSince(day time.Time) []float64 {
	if s == nil {
		return nil
	}
	var vs []float64
	for _, p := range s.Points {
		if !p.Date.Before(day) {
			vs = append(vs, p.Value)
		}
	}
	return vs
}

// RateToken preserves the raw textual form of a rate cell so normalization
// can run uniformly whether the source wrote a string or a bare number.
type RateToken string

func (t *RateToken) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = RateToken(s)
		return nil
	}
	*t = RateToken(strings.TrimSpace(string(b)))
	return nil
}

func (t RateToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// SnapshotRow is one (entity, rate) cell of a historical snapshot entry.
type SnapshotRow struct {
	Name string    `json:"name"`
	Rate RateToken `json:"rate"`
}

// SnapshotEntry is one dated record of the append-only history log.
type SnapshotEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Rows      []SnapshotRow `json:"rows"`
}

// Account is one row of the live competitor snapshot.
type Account struct {
	Institution string    `json:"institution"`
	APY         RateToken `json:"apy"`
	Link        string    `json:"link,omitempty"`
}

// EntityRecord is a normalized live snapshot row. ID is the slug join key
// between current rows and historical series.
type EntityRecord struct {
	ID           string  `json:"id"`
	DisplayName  string  `json:"display_name"`
	CurrentValue float64 `json:"current_value"`
	ReferenceURL string  `json:"url,omitempty"`
}

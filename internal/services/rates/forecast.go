package rates

import (
	"time"

	"RatePulse/internal/domain/models"
	"RatePulse/pkg/util"
)

// Reference rate series identifiers.
const (
	SeriesPolicy = "FEDFUNDS" // effective policy rate
	SeriesFunds  = "SOFR"     // funds-rate proxy
	Series3Month = "DGS3MO"   // 3-month benchmark
	Series1Year  = "DGS1"     // 1-year benchmark
)

const (
	trailingMeanDays = 180
	volWindowDays    = 90
	bandFloor        = 0.15
	bandCeil         = 0.35
)

// ProjectionInput carries the reference series panel and the current top peer
// value when the live snapshot produced one.
type ProjectionInput struct {
	Series  map[string]*models.NamedSeries
	TopPeer *float64
}

// ProjectionMeta exposes the shared anchor, spread and latest reference
// values alongside the horizons, for the refinement summary.
type ProjectionMeta struct {
	Top     float64
	Spread  float64
	Current map[string]float64
}

// Project computes the three-horizon heuristic forecast. Each horizon blends
// its driver series toward the 180-day trailing mean and applies the scaled
// delta to the shared anchor; a horizon whose driver has no observations
// keeps the anchor unchanged without invalidating the others.
func Project(in ProjectionInput, now time.Time) ([]models.ForecastHorizon, ProjectionMeta) {
	s3 := in.Series[Series3Month]
	s1y := in.Series[Series1Year]

	meta := ProjectionMeta{Current: latestByID(in.Series)}
	meta.Top = anchorValue(in.TopPeer, s3, s1y)
	meta.Spread = policySpread(in.Series)

	yield := assetYield(s1y, s3, meta.Top, meta.Spread)

	specs := []struct {
		months int
		driver *models.NamedSeries
		weight float64
		mult   float64
		vol    *models.NamedSeries
	}{
		{3, s3, 0.55, 0.45, s3},
		{6, s1y, 0.65, 0.50, s1y},
		{12, s1y, 0.80, 0.50, s1y},
	}

	horizons := make([]models.ForecastHorizon, 0, len(specs))
	for _, sp := range specs {
		p50 := meta.Top
		if cur, ok := sp.driver.Latest(); ok {
			tm, ok := Mean(sp.driver.ValuesSince(util.Day(now).AddDate(0, 0, -trailingMeanDays)))
			if !ok {
				tm = cur.Value
			}
			projected := cur.Value + sp.weight*(tm-cur.Value)
			p50 = meta.Top + sp.mult*(projected-cur.Value)
		}
		p50 = Round3(p50)

		band := clamp(StdDev(sp.vol.ValuesSince(util.Day(now).AddDate(0, 0, -volWindowDays))), bandFloor, bandCeil)
		low := p50 - band
		if low < 0 {
			low = 0
		}

		horizons = append(horizons, models.ForecastHorizon{
			Months:       sp.months,
			P50:          p50,
			Low:          Round3(low),
			High:         Round3(p50 + band),
			DepositIndex: depositIndex(meta.Top, p50),
			NIM:          Round3(yield - p50),
		})
	}
	return horizons, meta
}

// anchorValue is the shared forecast anchor: the top peer value, else the
// latest 3-month benchmark, else the latest 1-year benchmark, else zero.
func anchorValue(topPeer *float64, s3, s1y *models.NamedSeries) float64 {
	if topPeer != nil {
		return *topPeer
	}
	if p, ok := s3.Latest(); ok {
		return p.Value
	}
	if p, ok := s1y.Latest(); ok {
		return p.Value
	}
	return 0
}

// policySpread is the policy rate minus the funds-rate proxy, 0 when either
// side is unavailable.
func policySpread(series map[string]*models.NamedSeries) float64 {
	pol, ok1 := series[SeriesPolicy].Latest()
	fun, ok2 := series[SeriesFunds].Latest()
	if !ok1 || !ok2 {
		return 0
	}
	return Round3(pol.Value - fun.Value)
}

func assetYield(s1y, s3 *models.NamedSeries, top, spread float64) float64 {
	base := top
	if p, ok := s1y.Latest(); ok {
		base = p.Value
	} else if p, ok := s3.Latest(); ok {
		base = p.Value
	}
	return base + spread
}

// depositIndex normalizes the anchor against the forecast rate, base 100.
func depositIndex(top, p50 float64) float64 {
	if p50 == 0 {
		return 100
	}
	return Round2(100 * top / p50)
}

func latestByID(series map[string]*models.NamedSeries) map[string]float64 {
	out := make(map[string]float64, len(series))
	for id, s := range series {
		if p, ok := s.Latest(); ok {
			out[id] = p.Value
		}
	}
	return out
}

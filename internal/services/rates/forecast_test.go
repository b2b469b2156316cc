package rates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RatePulse/internal/domain/models"
)

func flatSeries(id string, value float64, days int, now time.Time) *models.NamedSeries {
	s := &models.NamedSeries{ID: id}
	for i := days; i > 0; i-- {
		s.Points = append(s.Points, models.ObservationPoint{
			Date:  day(now.Year(), now.Month(), now.Day()).AddDate(0, 0, -i),
			Value: value,
		})
	}
	return s
}

func TestProjectFlatSeriesKeepsAnchor(t *testing.T) {
	top := 4.5
	in := ProjectionInput{
		Series: map[string]*models.NamedSeries{
			Series3Month: flatSeries(Series3Month, 5.0, 200, testNow),
			Series1Year:  flatSeries(Series1Year, 5.0, 200, testNow),
		},
		TopPeer: &top,
	}

	horizons, meta := Project(in, testNow)
	require.Len(t, horizons, 3)
	assert.Equal(t, 4.5, meta.Top)

	for _, h := range horizons {
		// flat driver: trailing mean equals current, delta is zero
		assert.Equal(t, 4.5, h.P50, "months %d", h.Months)
		assert.Equal(t, 100.0, h.DepositIndex, "months %d", h.Months)
		// zero volatility clamps the band to its floor
		assert.Equal(t, Round3(h.P50-0.15), h.Low)
		assert.Equal(t, Round3(h.P50+0.15), h.High)
		// asset yield 5.0, zero spread
		assert.Equal(t, 0.5, h.NIM)
	}
}

func TestProjectHorizonMonths(t *testing.T) {
	horizons, _ := Project(ProjectionInput{}, testNow)
	require.Len(t, horizons, 3)
	assert.Equal(t, 3, horizons[0].Months)
	assert.Equal(t, 6, horizons[1].Months)
	assert.Equal(t, 12, horizons[2].Months)
}

func TestProjectMissingDriverKeepsAnchorForThatHorizonOnly(t *testing.T) {
	top := 4.5
	in := ProjectionInput{
		Series: map[string]*models.NamedSeries{
			// no 3-month series; 1-year trends above its trailing mean
			Series1Year: {ID: Series1Year, Points: []models.ObservationPoint{
				{Date: day(2026, 5, 1), Value: 4.0},
				{Date: day(2026, 8, 1), Value: 5.0},
			}},
		},
		TopPeer: &top,
	}

	horizons, _ := Project(in, testNow)
	require.Len(t, horizons, 3)

	assert.Equal(t, 4.5, horizons[0].P50)    // 3m driver absent
	assert.NotEqual(t, 4.5, horizons[1].P50) // 6m driver present and moving
	assert.NotEqual(t, 4.5, horizons[2].P50)
}

func TestProjectAnchorFallback(t *testing.T) {
	in := ProjectionInput{
		Series: map[string]*models.NamedSeries{
			Series3Month: flatSeries(Series3Month, 5.25, 30, testNow),
		},
	}
	_, meta := Project(in, testNow)
	assert.Equal(t, 5.25, meta.Top)

	_, empty := Project(ProjectionInput{}, testNow)
	assert.Equal(t, 0.0, empty.Top)
}

func TestProjectLowFloorsAtZero(t *testing.T) {
	top := 0.05
	in := ProjectionInput{TopPeer: &top}
	horizons, _ := Project(in, testNow)
	for _, h := range horizons {
		assert.GreaterOrEqual(t, h.Low, 0.0)
	}
}

func TestProjectPolicySpread(t *testing.T) {
	in := ProjectionInput{
		Series: map[string]*models.NamedSeries{
			SeriesPolicy: flatSeries(SeriesPolicy, 4.33, 10, testNow),
			SeriesFunds:  flatSeries(SeriesFunds, 4.28, 10, testNow),
		},
	}
	_, meta := Project(in, testNow)
	assert.Equal(t, 0.05, meta.Spread)
	assert.Equal(t, 4.33, meta.Current[SeriesPolicy])
	assert.Equal(t, 4.28, meta.Current[SeriesFunds])
}

func TestDepositIndexExactlyHundredWhenP50EqualsTop(t *testing.T) {
	assert.Equal(t, 100.0, depositIndex(4.5, 4.5))
	assert.Equal(t, 100.0, depositIndex(4.5, 0)) // zero guard
	assert.Equal(t, 90.0, depositIndex(4.5, 5.0))
}

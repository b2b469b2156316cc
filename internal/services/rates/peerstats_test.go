package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RatePulse/internal/domain/models"
)

func TestComputePeerStats(t *testing.T) {
	entities := []models.EntityRecord{
		{ID: "sofi", DisplayName: "SoFi", CurrentValue: 5.0},
		{ID: "cit", DisplayName: "CIT", CurrentValue: 4.0},
		{ID: "ally", DisplayName: "Ally", CurrentValue: 3.0, ReferenceURL: "https://ally.example"},
		{ID: "chime", DisplayName: "Chime", CurrentValue: 2.0},
	}
	history := map[string]*models.NamedSeries{
		"sofi": {ID: "sofi", Points: []models.ObservationPoint{
			{Date: day(2026, 7, 20), Value: 4.8}, // well past both cutoffs
			{Date: day(2026, 8, 22), Value: 4.9}, // 8 days before now
		}},
	}

	snap := ComputePeerStats(entities, history, testNow)

	assert.Equal(t, 3.5, snap.Median)
	assert.Equal(t, 4.0, snap.P75)
	require.Len(t, snap.Rows, 4)

	sofi := snap.Rows[0]
	assert.Equal(t, "SoFi", sofi.Entity)
	assert.InDelta(t, 0.1, sofi.Delta7d, 1e-9)  // vs 4.9 on Aug 22
	assert.InDelta(t, 0.2, sofi.Delta30d, 1e-9) // vs 4.8 on Jul 20

	// no usable history defaults to zero deltas
	ally := snap.Rows[2]
	assert.Equal(t, 0.0, ally.Delta7d)
	assert.Equal(t, 0.0, ally.Delta30d)
	assert.Equal(t, "https://ally.example", ally.URL)

	assert.True(t, snap.AsOf.Equal(testNow))
	assert.Equal(t, history, snap.History)
}

func TestComputePeerStatsEmpty(t *testing.T) {
	snap := ComputePeerStats(nil, nil, testNow)
	assert.Equal(t, 0.0, snap.Median)
	assert.Equal(t, 0.0, snap.P75)
	assert.Empty(t, snap.Rows)
}

func TestTrailingDeltaIgnoresTooRecentHistory(t *testing.T) {
	s := &models.NamedSeries{ID: "sofi", Points: []models.ObservationPoint{
		{Date: day(2026, 8, 28), Value: 4.9}, // 2 days ago, inside the 7d cutoff
	}}
	assert.Equal(t, 0.0, trailingDelta(s, 5.0, testNow, 7))
	assert.Equal(t, 0.0, trailingDelta(nil, 5.0, testNow, 7))
}

package rates

import (
	"math"
	"time"

	"RatePulse/internal/domain/models"
)

// defaultShift is the fallback scenario shift magnitude in percentage points.
const defaultShift = 0.15

// GenerateScenarios derives the three named variants from the forecast
// horizons. Shifts apply identically to value/low/high, negate on nim, and
// leave depositIndex untouched.
func GenerateScenarios(horizons []models.ForecastHorizon, cfg models.ScenarioConfig, now time.Time) *models.ScenarioPayload {
	set := models.ScenarioSet{
		Baseline: make([]models.ScenarioRow, 0, len(horizons)),
		Hawkish:  make([]models.ScenarioRow, 0, len(horizons)),
		Dovish:   make([]models.ScenarioRow, 0, len(horizons)),
	}
	for _, h := range horizons {
		set.Baseline = append(set.Baseline, shifted(h, 0))
		set.Hawkish = append(set.Hawkish, shifted(h, shiftFor(cfg.HawkishBps, h.Months, defaultShift)))
		set.Dovish = append(set.Dovish, shifted(h, shiftFor(cfg.DovishBps, h.Months, -defaultShift)))
	}
	return &models.ScenarioPayload{AsOf: now, Scenarios: set}
}

func shifted(h models.ForecastHorizon, delta float64) models.ScenarioRow {
	return models.ScenarioRow{
		Months:       h.Months,
		Value:        Round3(h.P50 + delta),
		Low:          Round3(h.Low + delta),
		High:         Round3(h.High + delta),
		DepositIndex: h.DepositIndex,
		NIM:          Round3(h.NIM - delta),
	}
}

func shiftFor(overrides map[int]float64, months int, fallback float64) float64 {
	v, ok := overrides[months]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

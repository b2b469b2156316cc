package service

import (
	"context"

	"RatePulse/internal/domain/models"
)

// ForecastRefiner optionally adjusts a heuristic forecast through an external
// completion service. Implementations never fail a run: on any error they
// return the input horizons unchanged with the heuristic method tag.
type ForecastRefiner interface {
	Refine(ctx context.Context, in models.RefinementInput) ([]models.ForecastHorizon, string)
}

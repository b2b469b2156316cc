package repository

import (
	"context"
	"time"

	"RatePulse/internal/domain/models"
)

// HistorySource yields the persisted append-only snapshot history.
// A missing or unreadable source is reported as an empty history, not an error.
type HistorySource interface {
	Entries(ctx context.Context) ([]models.SnapshotEntry, error)
}

// SnapshotSource yields the live competitor snapshot. Failure here is fatal
// to a pipeline run.
type SnapshotSource interface {
	Accounts(ctx context.Context) ([]models.Account, error)
}

// SeriesSource yields one named reference rate series with observations on
// or after since.
type SeriesSource interface {
	Series(ctx context.Context, id string, since time.Time) (*models.NamedSeries, error)
}

// PayloadWriter persists the derived snapshot files of a run.
type PayloadWriter interface {
	WriteResult(res *models.Result) error
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordRun(method string)
	RecordError(kind string)
	RecordRate(series string, value float64)
	RecordStageDuration(stage string, seconds float64)
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RatePulse/internal/domain/models"
	drepo "RatePulse/internal/domain/repository"
	"RatePulse/internal/domain/service"
	"RatePulse/internal/services/rates"
	xlogger "RatePulse/pkg/logger"
)

// Pipeline runs one start-to-finish analytics batch: load sources, aggregate
// peer history, compute statistics, project the forecast, optionally refine
// it, and derive scenarios.
type Pipeline struct {
	history  drepo.HistorySource
	snapshot drepo.SnapshotSource
	series   drepo.SeriesSource
	refiner  service.ForecastRefiner
	metrics  drepo.Metrics
	scenario models.ScenarioConfig
	log      *xlogger.Logger
	clock    func() time.Time
}

// NewPipeline creates a new Pipeline instance.
func NewPipeline(
	history drepo.HistorySource,
	snapshot drepo.SnapshotSource,
	series drepo.SeriesSource,
	refiner service.ForecastRefiner,
	metrics drepo.Metrics,
	scenario models.ScenarioConfig,
	log *xlogger.Logger,
) *Pipeline {
	return &Pipeline{
		history:  history,
		snapshot: snapshot,
		series:   series,
		refiner:  refiner,
		metrics:  metrics,
		scenario: scenario,
		log:      log,
		clock:    time.Now,
	}
}

// WithClock overrides the pipeline clock.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

var referenceSeries = []string{
	rates.SeriesPolicy,
	rates.SeriesFunds,
	rates.Series3Month,
	rates.Series1Year,
}

type loaded struct {
	entries  []models.SnapshotEntry
	accounts []models.Account
	series   map[string]*models.NamedSeries
	fatal    error
}

// Run executes one batch. Only an unreadable live snapshot aborts the run;
// every other input failure degrades to empty data with a warning.
func (p *Pipeline) Run(ctx context.Context) (*models.Result, error) {
	now := p.clock().UTC()

	start := time.Now()
	in := p.load(ctx, now)
	p.metrics.RecordStageDuration("load", time.Since(start).Seconds())
	if in.fatal != nil {
		p.metrics.RecordError("snapshot")
		return nil, fmt.Errorf("load snapshot: %w", in.fatal)
	}

	start = time.Now()
	entities := rates.BuildEntities(in.accounts)
	history := rates.Aggregate(in.entries, entities, now)
	peers := rates.ComputePeerStats(entities, history, now)
	p.metrics.RecordStageDuration("aggregate", time.Since(start).Seconds())

	start = time.Now()
	var topPeer *float64
	if top, ok := rates.TopValue(entities); ok {
		topPeer = &top
	}
	horizons, meta := rates.Project(rates.ProjectionInput{Series: in.series, TopPeer: topPeer}, now)
	p.metrics.RecordStageDuration("forecast", time.Since(start).Seconds())

	start = time.Now()
	refined, method := p.refiner.Refine(ctx, models.RefinementInput{
		AsOf:     now,
		Top:      meta.Top,
		Spread:   meta.Spread,
		Current:  meta.Current,
		Horizons: horizons,
	})
	p.metrics.RecordStageDuration("refine", time.Since(start).Seconds())

	scenarios := rates.GenerateScenarios(refined, p.scenario, now)

	p.metrics.RecordRun(method)
	p.metrics.RecordRate("peer_median", peers.Median)
	p.metrics.RecordRate("peer_p75", peers.P75)
	for id, v := range meta.Current {
		p.metrics.RecordRate(id, v)
	}

	p.log.Info("pipeline run complete",
		xlogger.Int("peers", len(peers.Rows)),
		xlogger.Float64("median", peers.Median),
		xlogger.String("method", method))

	return &models.Result{
		Peers:     peers,
		Forecast:  &models.ForecastPayload{AsOf: now, Horizons: refined, Method: method},
		Scenarios: scenarios,
	}, nil
}

// load fetches all inputs concurrently; they are independent until the
// aggregation step joins them.
func (p *Pipeline) load(ctx context.Context, now time.Time) *loaded {
	out := &loaded{series: make(map[string]*models.NamedSeries, len(referenceSeries))}
	since := rates.WindowStart(now)

	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		entries, err := p.history.Entries(ctx)
		if err != nil {
			p.log.Warn("history unavailable, continuing with empty history", xlogger.Error(err))
			p.metrics.RecordError("history")
			return
		}
		out.entries = entries
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		accounts, err := p.snapshot.Accounts(ctx)
		if err != nil {
			out.fatal = err
			return
		}
		out.accounts = accounts
	}()

	for _, id := range referenceSeries {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			s, err := p.series.Series(ctx, id, since)
			if err != nil {
				p.log.Warn("reference series unavailable",
					xlogger.String("series", id), xlogger.Error(err))
				p.metrics.RecordError("series")
				return
			}
			mu.Lock()
			out.series[id] = s
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return out
}

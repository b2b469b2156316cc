package fred

import (
	"context"
	"fmt"
	"time"

	"RatePulse/internal/domain/models"
	domrepo "RatePulse/internal/domain/repository"
	"RatePulse/internal/services/ratelimit"
	"RatePulse/internal/services/rates"
	xhttp "RatePulse/pkg/http"
	xlogger "RatePulse/pkg/logger"
)

const DefaultBaseURL = "https://api.stlouisfed.org/fred"

// The observations API enforces a per-key request cap; requests are paced
// through a shared token bucket.
const (
	limiterKey    = "fred"
	limiterBurst  = 4
	limiterRefill = 2.0
)

// Client fetches reference rate series from the FRED observations API.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	log     *xlogger.Logger
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
}

func NewClient(apiKey string, log *xlogger.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    xhttp.NewClient(),
		limiter: ratelimit.New(),
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type observationsResponse struct {
	Observations []struct {
		Date  string           `json:"date"`
		Value models.RateToken `json:"value"`
	} `json:"observations"`
}

// Series fetches observations for one series id on or after since.
// Placeholder values ("." marks missing data upstream) are skipped.
func (c *Client) Series(ctx context.Context, id string, since time.Time) (*models.NamedSeries, error) {
	if err := c.limiter.Wait(ctx, limiterKey, limiterBurst, limiterRefill); err != nil {
		return nil, err
	}

	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/series/observations",
		QueryParams: map[string][]string{
			"series_id":         {id},
			"api_key":           {c.apiKey},
			"file_type":         {"json"},
			"observation_start": {since.UTC().Format(time.DateOnly)},
			"sort_order":        {"asc"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fred %s: %w", id, err)
	}

	series := &models.NamedSeries{ID: id}
	for _, obs := range resp.Observations {
		v, ok := rates.NormalizeRate(obs.Value)
		if !ok {
			continue
		}
		d, err := time.ParseInLocation(time.DateOnly, obs.Date, time.UTC)
		if err != nil {
			if c.log != nil {
				c.log.Debug("fred: dropped observation with bad date",
					xlogger.String("series", id), xlogger.String("date", obs.Date))
			}
			continue
		}
		series.Points = append(series.Points, models.ObservationPoint{Date: d, Value: v})
	}
	return series, nil
}

var _ domrepo.SeriesSource = (*Client)(nil)

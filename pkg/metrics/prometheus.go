package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal     *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastRate      *prometheus.GaugeVec
	stageDuration *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratepulse_runs_total",
				Help: "Total number of completed pipeline runs",
			},
			[]string{"method"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratepulse_errors_total",
				Help: "Total number of degraded or failed input stages",
			},
			[]string{"type"},
		),
		lastRate: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ratepulse_last_rate",
				Help: "Last observed rate for a series",
			},
			[]string{"series"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ratepulse_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordRun records a completed pipeline run by forecast method.
func (r *Recorder) RecordRun(method string) {
	r.runsTotal.WithLabelValues(method).Inc()
}

// RecordError records a degraded input or stage failure.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRate records the last observed rate for a series.
func (r *Recorder) RecordRate(series string, value float64) {
	r.lastRate.WithLabelValues(series).Set(value)
}

// RecordStageDuration records stage latency in seconds.
func (r *Recorder) RecordStageDuration(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

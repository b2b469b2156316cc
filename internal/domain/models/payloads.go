package models

import "time"

// Forecast method tags.
const (
	MethodHeuristic = "heuristic-only"
	MethodRefined   = "heuristic+refined"
)

// Scenario names.
const (
	ScenarioBaseline = "baseline"
	ScenarioHawkish  = "hawkish"
	ScenarioDovish   = "dovish"
)

// PeerRow is one entity row of the peer snapshot.
type PeerRow struct {
	Entity       string  `json:"entity"`
	CurrentValue float64 `json:"current_value"`
	Delta7d      float64 `json:"delta_7d"`
	Delta30d     float64 `json:"delta_30d"`
	URL          string  `json:"url,omitempty"`
}

// PeerSnapshot is the cross-sectional peer statistics payload.
type PeerSnapshot struct {
	AsOf    time.Time               `json:"as_of"`
	Median  float64                 `json:"median"`
	P75     float64                 `json:"p75"`
	Rows    []PeerRow               `json:"rows"`
	History map[string]*NamedSeries `json:"history"`
}

// ForecastHorizon is one forecast tenor of the rate forecast.
type ForecastHorizon struct {
	Months       int     `json:"months"`
	P50          float64 `json:"p50"`
	Low          float64 `json:"low"`
	High         float64 `json:"high"`
	DepositIndex float64 `json:"deposit_index"`
	NIM          float64 `json:"nim"`
}

// ForecastPayload is the forecast output with its method tag.
type ForecastPayload struct {
	AsOf     time.Time         `json:"as_of"`
	Horizons []ForecastHorizon `json:"horizons"`
	Method   string            `json:"method"`
}

// ScenarioRow mirrors ForecastHorizon with the point estimate renamed to value.
type ScenarioRow struct {
	Months       int     `json:"months"`
	Value        float64 `json:"value"`
	Low          float64 `json:"low"`
	High         float64 `json:"high"`
	DepositIndex float64 `json:"deposit_index"`
	NIM          float64 `json:"nim"`
}

// ScenarioSet holds the three named scenario variants.
type ScenarioSet struct {
	Baseline []ScenarioRow `json:"baseline"`
	Hawkish  []ScenarioRow `json:"hawkish"`
	Dovish   []ScenarioRow `json:"dovish"`
}

// ScenarioPayload is the scenario output.
type ScenarioPayload struct {
	AsOf      time.Time   `json:"as_of"`
	Scenarios ScenarioSet `json:"scenarios"`
}

// ScenarioConfig overrides the per-horizon basis-point shifts. Missing or
// invalid entries fall back to the default magnitude (+0.15 / -0.15).
type ScenarioConfig struct {
	HawkishBps map[int]float64 `yaml:"hawkish_bps"`
	DovishBps  map[int]float64 `yaml:"dovish_bps"`
}

// RefinementInput is the compact summary submitted to the refinement service.
type RefinementInput struct {
	AsOf     time.Time          `json:"as_of"`
	Top      float64            `json:"top"`
	Spread   float64            `json:"spread"`
	Current  map[string]float64 `json:"current"`
	Horizons []ForecastHorizon  `json:"horizons"`
}

// Result bundles all payloads of one pipeline run.
type Result struct {
	Peers     *PeerSnapshot    `json:"peers"`
	Forecast  *ForecastPayload `json:"forecast"`
	Scenarios *ScenarioPayload `json:"scenarios"`
}

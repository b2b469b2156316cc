package refine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"RatePulse/internal/domain/models"
	"RatePulse/internal/domain/service"
	xhttp "RatePulse/pkg/http"
	xlogger "RatePulse/pkg/logger"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiRefiner adjusts the heuristic forecast through the Gemini
// generateContent endpoint. Without an API key it degrades to a no-op.
// Failures are logged and swallowed; the heuristic horizons pass through.
type GeminiRefiner struct {
	apiKey    string
	model     string
	baseURL   string
	maxAdjust float64
	http      *xhttp.Client
	log       *xlogger.Logger
}

type Option func(*GeminiRefiner)

func WithBaseURL(url string) Option {
	return func(r *GeminiRefiner) {
		if url != "" {
			r.baseURL = url
		}
	}
}

func WithModel(model string) Option {
	return func(r *GeminiRefiner) {
		if model != "" {
			r.model = model
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(r *GeminiRefiner) {
		r.http = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
}

func WithMaxAdjust(pts float64) Option {
	return func(r *GeminiRefiner) {
		if pts > 0 {
			r.maxAdjust = pts
		}
	}
}

func NewGeminiRefiner(apiKey string, log *xlogger.Logger, opts ...Option) *GeminiRefiner {
	r := &GeminiRefiner{
		apiKey:    apiKey,
		model:     "gemini-1.5-flash",
		baseURL:   DefaultBaseURL,
		maxAdjust: 0.10,
		http:      xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		log:       log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// flexFloat tolerates numbers arriving as JSON strings or garbage; ok is
// false when no numeric value could be extracted.
type flexFloat struct {
	v  float64
	ok bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.v = v
	f.ok = true
	return nil
}

type refinedHorizon struct {
	Months       int       `json:"months"`
	P50          flexFloat `json:"p50"`
	Low          flexFloat `json:"low"`
	High         flexFloat `json:"high"`
	DepositIndex flexFloat `json:"deposit_index"`
	NIM          flexFloat `json:"nim"`
}

type refinedPayload struct {
	Horizons []refinedHorizon `json:"horizons"`
}

func (r *GeminiRefiner) Refine(ctx context.Context, in models.RefinementInput) ([]models.ForecastHorizon, string) {
	if r.apiKey == "" {
		return in.Horizons, models.MethodHeuristic
	}

	prompt, err := r.buildPrompt(in)
	if err != nil {
		r.warn("refine: prompt build failed", err)
		return in.Horizons, models.MethodHeuristic
	}

	var resp generateResponse
	err = r.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/models/%s:generateContent", r.baseURL, r.model),
		Headers: map[string]string{
			"x-goog-api-key": r.apiKey,
		},
		Body: generateRequest{
			Contents: []content{{Parts: []part{{Text: prompt}}}},
		},
	}, &resp)
	if err != nil {
		r.warn("refine: request failed", err)
		return in.Horizons, models.MethodHeuristic
	}

	text := candidateText(&resp)
	if text == "" {
		r.warn("refine: empty response", nil)
		return in.Horizons, models.MethodHeuristic
	}

	var payload refinedPayload
	if err := json.Unmarshal([]byte(stripFences(text)), &payload); err != nil {
		r.warn("refine: unparseable response", err)
		return in.Horizons, models.MethodHeuristic
	}
	if len(payload.Horizons) == 0 {
		r.warn("refine: response missing horizons", nil)
		return in.Horizons, models.MethodHeuristic
	}

	return merge(in.Horizons, payload.Horizons), models.MethodRefined
}

func (r *GeminiRefiner) buildPrompt(in models.RefinementInput) (string, error) {
	summary, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("You are a deposit rate analyst. Below is a JSON summary of current ")
	b.WriteString("reference rates, the top competitor APY, the policy spread, and a ")
	b.WriteString("three-horizon heuristic forecast.\n\n")
	b.Write(summary)
	b.WriteString(fmt.Sprintf("\n\nAdjust each horizon by at most %.2f percentage points ", r.maxAdjust))
	b.WriteString("based on the rate environment. Respond with strict JSON only, no prose, ")
	b.WriteString(`matching exactly: {"horizons": [{"months": int, "p50": number, "low": number, "high": number, "deposit_index": number, "nim": number}]}`)
	return b.String(), nil
}

// merge overrides heuristic fields with response values matched by months.
// Fields the response omitted or mangled keep the heuristic value.
func merge(heuristic []models.ForecastHorizon, refined []refinedHorizon) []models.ForecastHorizon {
	byMonths := make(map[int]refinedHorizon, len(refined))
	for _, h := range refined {
		byMonths[h.Months] = h
	}
	out := make([]models.ForecastHorizon, len(heuristic))
	for i, h := range heuristic {
		out[i] = h
		r, ok := byMonths[h.Months]
		if !ok {
			continue
		}
		if r.P50.ok {
			out[i].P50 = r.P50.v
		}
		if r.Low.ok {
			out[i].Low = r.Low.v
		}
		if r.High.ok {
			out[i].High = r.High.v
		}
		if r.DepositIndex.ok {
			out[i].DepositIndex = r.DepositIndex.v
		}
		if r.NIM.ok {
			out[i].NIM = r.NIM.v
		}
	}
	return out
}

func candidateText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return resp.Candidates[0].Content.Parts[0].Text
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (r *GeminiRefiner) warn(msg string, err error) {
	if r.log == nil {
		return
	}
	if err != nil {
		r.log.Warn(msg, xlogger.Error(err))
		return
	}
	r.log.Warn(msg)
}

var _ service.ForecastRefiner = (*GeminiRefiner)(nil)

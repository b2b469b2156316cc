package refine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RatePulse/internal/domain/models"
)

func refinementInput() models.RefinementInput {
	return models.RefinementInput{
		AsOf:    time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Top:     4.5,
		Spread:  0.05,
		Current: map[string]float64{"FEDFUNDS": 4.33},
		Horizons: []models.ForecastHorizon{
			{Months: 3, P50: 4.5, Low: 4.35, High: 4.65, DepositIndex: 100, NIM: 0.5},
			{Months: 6, P50: 4.4, Low: 4.25, High: 4.55, DepositIndex: 102.27, NIM: 0.6},
			{Months: 12, P50: 4.2, Low: 4.0, High: 4.4, DepositIndex: 107.14, NIM: 0.8},
		},
	}
}

func geminiBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func TestRefineNoCredentialIsNoOp(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	r := NewGeminiRefiner("", nil, WithBaseURL(srv.URL))
	in := refinementInput()

	horizons, method := r.Refine(context.Background(), in)
	assert.False(t, called)
	assert.Equal(t, models.MethodHeuristic, method)
	assert.Equal(t, in.Horizons, horizons)
}

func TestRefineMergesMatchedHorizons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiBody(`{"horizons":[
			{"months": 3, "p50": 4.55, "low": 4.40, "high": 4.70, "deposit_index": 98.9, "nim": 0.45},
			{"months": 6, "p50": "4.45"}
		]}`)))
	}))
	defer srv.Close()

	r := NewGeminiRefiner("secret", nil, WithBaseURL(srv.URL))
	in := refinementInput()

	horizons, method := r.Refine(context.Background(), in)
	require.Len(t, horizons, 3)
	assert.Equal(t, models.MethodRefined, method)

	assert.Equal(t, 4.55, horizons[0].P50)
	assert.Equal(t, 4.40, horizons[0].Low)
	assert.Equal(t, 98.9, horizons[0].DepositIndex)

	// string-typed number coerced; omitted fields keep the heuristic values
	assert.Equal(t, 4.45, horizons[1].P50)
	assert.Equal(t, 4.25, horizons[1].Low)
	assert.Equal(t, 0.6, horizons[1].NIM)

	// unmatched horizon passes through unchanged
	assert.Equal(t, in.Horizons[2], horizons[2])
}

func TestRefineStripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geminiBody("```json\n{\"horizons\":[{\"months\":3,\"p50\":4.6}]}\n```")))
	}))
	defer srv.Close()

	r := NewGeminiRefiner("secret", nil, WithBaseURL(srv.URL))
	horizons, method := r.Refine(context.Background(), refinementInput())
	assert.Equal(t, models.MethodRefined, method)
	assert.Equal(t, 4.6, horizons[0].P50)
}

func TestRefineFallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewGeminiRefiner("secret", nil, WithBaseURL(srv.URL))
	in := refinementInput()

	horizons, method := r.Refine(context.Background(), in)
	assert.Equal(t, models.MethodHeuristic, method)
	assert.Equal(t, in.Horizons, horizons)
}

func TestRefineFallbackOnUnparseableBody(t *testing.T) {
	cases := map[string]string{
		"prose":           geminiBody("rates will probably go down"),
		"empty":           geminiBody(""),
		"missingHorizons": geminiBody(`{"note":"no horizons here"}`),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			r := NewGeminiRefiner("secret", nil, WithBaseURL(srv.URL))
			in := refinementInput()

			horizons, method := r.Refine(context.Background(), in)
			assert.Equal(t, models.MethodHeuristic, method)
			assert.Equal(t, in.Horizons, horizons)
		})
	}
}

func TestRefineFallbackOnUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	r := NewGeminiRefiner("secret", nil, WithBaseURL(srv.URL))
	in := refinementInput()

	horizons, method := r.Refine(context.Background(), in)
	assert.Equal(t, models.MethodHeuristic, method)
	assert.Equal(t, in.Horizons, horizons)
}

func TestFlexFloat(t *testing.T) {
	var h refinedHorizon
	require.NoError(t, json.Unmarshal([]byte(`{"months":3,"p50":"4.5","low":null,"high":"n/a"}`), &h))
	assert.True(t, h.P50.ok)
	assert.Equal(t, 4.5, h.P50.v)
	assert.False(t, h.Low.ok)
	assert.False(t, h.High.ok)
	assert.False(t, h.NIM.ok)
}

package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RatePulse/internal/domain/models"
)

func TestFileHistoryReadsMixedTimestamps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")
	lines := `{"timestamp": "2026-08-28T12:00:00Z", "rows": [{"name": "Ally", "rate": "4.10%"}]}
{"timestamp": "2026-08-29", "rows": [{"name": "Ally", "rate": 4.15}]}

not json at all
{"timestamp": "garbage", "rows": []}
{"timestamp": "1756425600", "rows": [{"name": "SoFi", "rate": "4.60"}]}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	h := NewFileHistory(path, nil)
	entries, err := h.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3) // blank, malformed, and bad-timestamp lines dropped

	assert.Equal(t, "2026-08-28T12:00:00Z", entries[0].Timestamp.Format(time.RFC3339))
	assert.Equal(t, "Ally", entries[0].Rows[0].Name)
	assert.Equal(t, models.RateToken("4.10%"), entries[0].Rows[0].Rate)

	// bare numeric rate preserved as its raw token
	assert.Equal(t, models.RateToken("4.15"), entries[1].Rows[0].Rate)

	assert.Equal(t, int64(1756425600), entries[2].Timestamp.Unix())
}

func TestFileHistoryMissingFileIsEmpty(t *testing.T) {
	h := NewFileHistory(filepath.Join(t.TempDir(), "absent.jsonl"), nil)
	entries, err := h.Entries(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestFileSnapshotReadsAccounts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.json")
	body := `[
		{"institution": "Ally Bank", "apy": "4.10% APY", "link": "https://ally.example"},
		{"institution": "SoFi", "apy": 4.6}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s := NewFileSnapshot(path)
	accounts, err := s.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Ally Bank", accounts[0].Institution)
	assert.Equal(t, models.RateToken("4.10% APY"), accounts[0].APY)
	assert.Equal(t, models.RateToken("4.6"), accounts[1].APY)
}

func TestFileSnapshotMissingFileFails(t *testing.T) {
	s := NewFileSnapshot(filepath.Join(t.TempDir(), "absent.json"))
	_, err := s.Accounts(context.Background())
	require.Error(t, err)
}

func TestFileSnapshotMalformedFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileSnapshot(path).Accounts(context.Background())
	require.Error(t, err)
}

func TestFileWriterWritesAllPayloads(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	res := &models.Result{
		Peers:     &models.PeerSnapshot{AsOf: now, Median: 4.35, P75: 4.6},
		Forecast:  &models.ForecastPayload{AsOf: now, Method: models.MethodHeuristic},
		Scenarios: &models.ScenarioPayload{AsOf: now},
	}

	require.NoError(t, NewFileWriter(dir).WriteResult(res))

	for _, name := range []string{"peer_snapshot.json", "forecast.json", "scenarios.json"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, json.Valid(b), name)
	}

	var peers models.PeerSnapshot
	b, _ := os.ReadFile(filepath.Join(dir, "peer_snapshot.json"))
	require.NoError(t, json.Unmarshal(b, &peers))
	assert.Equal(t, 4.35, peers.Median)
}

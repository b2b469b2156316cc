package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: development
data:
  accounts_path: data/hysa_accounts.json
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.FRED.BaseURL != "https://api.stlouisfed.org/fred" {
		t.Errorf("unexpected fred base url %q", cfg.FRED.BaseURL)
	}
	if cfg.Refine.Model != "gemini-1.5-flash" {
		t.Errorf("unexpected refine model %q", cfg.Refine.Model)
	}
	if cfg.Refine.MaxAdjust != 0.10 {
		t.Errorf("unexpected max adjust %v", cfg.Refine.MaxAdjust)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("unexpected cache ttl %v", cfg.Cache.TTL)
	}
	if cfg.Data.OutputDir != "data/out" {
		t.Errorf("unexpected output dir %q", cfg.Data.OutputDir)
	}
}

func TestLoadParsesFull(t *testing.T) {
	body := `
environment: production
server:
  enabled: true
  port: 9090
  read_timeout: 5s
data:
  history_path: data/history.jsonl
  accounts_path: data/hysa_accounts.json
  output_dir: out
fred:
  api_key: abc
  timeout: 30s
refine:
  api_key: xyz
  max_adjust: 0.2
scenario:
  hawkish_bps:
    6: 0.25
  dovish_bps:
    6: -0.1
cache:
  ttl: 1m
  redis:
    enabled: true
    addr: localhost:6379
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Server.Enabled || cfg.Server.Port != 9090 {
		t.Errorf("server config not parsed: %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("unexpected read timeout %v", cfg.Server.ReadTimeout)
	}
	if cfg.Scenario.HawkishBps[6] != 0.25 {
		t.Errorf("unexpected hawkish override %v", cfg.Scenario.HawkishBps)
	}
	if cfg.Scenario.DovishBps[6] != -0.1 {
		t.Errorf("unexpected dovish override %v", cfg.Scenario.DovishBps)
	}
	if !cfg.Cache.Redis.Enabled || cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("redis config not parsed: %+v", cfg.Cache.Redis)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"missing environment": `
data:
  accounts_path: data/accounts.json
`,
		"missing accounts path": `
environment: development
`,
		"bad port": `
environment: development
server:
  enabled: true
  port: 70000
data:
  accounts_path: data/accounts.json
`,
		"negative max adjust": `
environment: development
data:
  accounts_path: data/accounts.json
refine:
  max_adjust: -0.5
`,
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FRED_API_KEY", "env-fred")
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("PORT", "7070")
	t.Setenv("REFINE_MAX_ADJUST", "0.05")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FRED.APIKey != "env-fred" {
		t.Errorf("fred key override not applied: %q", cfg.FRED.APIKey)
	}
	if cfg.Refine.APIKey != "env-gemini" {
		t.Errorf("gemini key override not applied: %q", cfg.Refine.APIKey)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port override not applied: %d", cfg.Server.Port)
	}
	if cfg.Refine.MaxAdjust != 0.05 {
		t.Errorf("max adjust override not applied: %v", cfg.Refine.MaxAdjust)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

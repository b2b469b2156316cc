package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"RatePulse/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Enabled         bool          `yaml:"enabled"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Data struct {
		HistoryPath  string `yaml:"history_path"`
		AccountsPath string `yaml:"accounts_path"`
		OutputDir    string `yaml:"output_dir"`
	} `yaml:"data"`
	FRED struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"fred"`
	Refine struct {
		APIKey    string        `yaml:"api_key"`
		Model     string        `yaml:"model"`
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		MaxAdjust float64       `yaml:"max_adjust"`
	} `yaml:"refine"`
	Scenario struct {
		HawkishBps map[int]float64 `yaml:"hawkish_bps"`
		DovishBps  map[int]float64 `yaml:"dovish_bps"`
	} `yaml:"scenario"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.FRED.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Refine.APIKey = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Data.OutputDir = v
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	c.Refine.MaxAdjust = util.ParseFloatDefault(os.Getenv("REFINE_MAX_ADJUST"), c.Refine.MaxAdjust)

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.FRED.BaseURL == "" {
		c.FRED.BaseURL = "https://api.stlouisfed.org/fred"
	}
	if c.FRED.Timeout == 0 {
		c.FRED.Timeout = 15 * time.Second
	}
	if c.Refine.Model == "" {
		c.Refine.Model = "gemini-1.5-flash"
	}
	if c.Refine.BaseURL == "" {
		c.Refine.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if c.Refine.Timeout == 0 {
		c.Refine.Timeout = 20 * time.Second
	}
	if c.Refine.MaxAdjust == 0 {
		c.Refine.MaxAdjust = 0.10
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.Data.OutputDir == "" {
		c.Data.OutputDir = "data/out"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Data.AccountsPath == "" {
		return fmt.Errorf("data.accounts_path is required")
	}
	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Refine.MaxAdjust < 0 {
		return fmt.Errorf("refine.max_adjust must be non-negative")
	}
	return nil
}

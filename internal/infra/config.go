package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all pipeline configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"oddswatch"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"oddswatch"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"oddswatch"`

	// Object storage for the published artifact
	StorageURL        string `env:"STORAGE_URL"`
	StorageServiceKey string `env:"STORAGE_SERVICE_KEY"`
	StorageBucket     string `env:"STORAGE_BUCKET" envDefault:"public"`
	ArtifactPath      string `env:"ARTIFACT_PATH" envDefault:"odds.json"`

	// Cycle behaviour
	CycleIntervalSeconds int  `env:"CYCLE_INTERVAL_SECONDS" envDefault:"30"`
	CatalogRefreshCycles int  `env:"CATALOG_REFRESH_CYCLES" envDefault:"10"`
	RunOnce              bool `env:"RUN_ONCE" envDefault:"false"`

	// Alert thresholds (percent)
	ArbitrageThreshold float64 `env:"ARBITRAGE_THRESHOLD" envDefault:"1.0"`
	ValueBetThreshold  float64 `env:"VALUE_BET_THRESHOLD" envDefault:"10.0"`

	// The bookmaker whose raw names define canonical teams. Required.
	PrimaryBookmaker string `env:"PRIMARY_BOOKMAKER"`

	// Source fan-out: comma-separated name=url pairs for generic JSON feeds.
	FeedSources string `env:"FEED_SOURCES"`

	// Ops
	HealthPort int    `env:"HEALTH_PORT" envDefault:"0"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate fails fast on configuration the pipeline cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PrimaryBookmaker) == "" {
		return fmt.Errorf("PRIMARY_BOOKMAKER is required: it names the source whose raw names define canonical teams")
	}
	if c.CycleIntervalSeconds <= 0 {
		return fmt.Errorf("CYCLE_INTERVAL_SECONDS must be positive, got %d", c.CycleIntervalSeconds)
	}
	if c.CatalogRefreshCycles <= 0 {
		return fmt.Errorf("CATALOG_REFRESH_CYCLES must be positive, got %d", c.CatalogRefreshCycles)
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// CycleInterval returns the sleep applied after each completed cycle.
func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.CycleIntervalSeconds) * time.Second
}

// Feeds parses FEED_SOURCES ("betano=https://...,kto=https://...") into
// name/url pairs, skipping malformed entries.
func (c *Config) Feeds() map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(c.FeedSources, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, url, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
			continue
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(url)
	}
	return out
}

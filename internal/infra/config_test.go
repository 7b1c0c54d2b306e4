package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PRIMARY_BOOKMAKER", "betano")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.CycleIntervalSeconds)
	assert.Equal(t, 30*time.Second, cfg.CycleInterval())
	assert.Equal(t, 10, cfg.CatalogRefreshCycles)
	assert.False(t, cfg.RunOnce)
	assert.Equal(t, 1.0, cfg.ArbitrageThreshold)
	assert.Equal(t, 10.0, cfg.ValueBetThreshold)
	assert.Equal(t, "public", cfg.StorageBucket)
	assert.Equal(t, "odds.json", cfg.ArtifactPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidate_RequiresPrimaryBookmaker(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIMARY_BOOKMAKER")
}

func TestValidate_RejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("PRIMARY_BOOKMAKER", "betano")
	t.Setenv("CYCLE_INTERVAL_SECONDS", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/odds")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/odds", cfg.DSN())

	t.Setenv("DATABASE_URL", "")
	t.Setenv("PGHOST", "dbhost")
	t.Setenv("PGUSER", "alice")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Contains(t, cfg.DSN(), "postgres://alice:")
	assert.Contains(t, cfg.DSN(), "@dbhost:5432/")
}

func TestFeeds(t *testing.T) {
	t.Setenv("FEED_SOURCES", "betano=https://feeds.local/betano, kto=https://feeds.local/kto ,broken,=nope,empty=")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	feeds := cfg.Feeds()
	assert.Equal(t, map[string]string{
		"betano": "https://feeds.local/betano",
		"kto":    "https://feeds.local/kto",
	}, feeds)
}

func TestFeeds_Empty(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Feeds())
}

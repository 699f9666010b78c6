package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2025-26", cfg.Season)
	assert.Equal(t, "https://cdn.nba.com/static/json", cfg.CDNBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ClutchWindow)
	assert.Equal(t, 5, cfg.ClutchMaxScoreDiff)
	assert.Equal(t, 8, cfg.Workers)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, "clutch_totals_2025_26.csv", cfg.OutputFile())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SEASON", "2024-25")
	t.Setenv("CLUTCH_WINDOW", "2m")
	t.Setenv("CLUTCH_MAX_SCORE_DIFF", "3")
	t.Setenv("OUTPUT_PATH", "/tmp/clutch.csv")
	t.Setenv("WORKERS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2024-25", cfg.Season)
	assert.Equal(t, 2*time.Minute, cfg.ClutchWindow)
	assert.Equal(t, 3, cfg.ClutchMaxScoreDiff)
	assert.Equal(t, "/tmp/clutch.csv", cfg.OutputFile())
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoad_InvalidSeason(t *testing.T) {
	t.Setenv("SEASON", "2025")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEASON")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Season:            "2025-26",
			CDNBaseURL:        "http://localhost",
			ClutchWindow:      5 * time.Minute,
			Workers:           4,
			RequestsPerSecond: 5,
			RequestBurst:      3,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative window", func(c *Config) { c.ClutchWindow = -time.Second }},
		{"negative diff", func(c *Config) { c.ClutchMaxScoreDiff = -1 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"zero rate", func(c *Config) { c.RequestsPerSecond = 0 }},
		{"empty base url", func(c *Config) { c.CDNBaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultOutputFile(t *testing.T) {
	assert.Equal(t, "clutch_totals_2025_26.csv", DefaultOutputFile("2025-26"))
	assert.Equal(t, "clutch_totals_2019_20.csv", DefaultOutputFile("2019-20"))
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var seasonPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Config holds all application configuration
type Config struct {
	// Season
	Season string `envconfig:"SEASON" default:"2025-26"`

	// NBA CDN
	CDNBaseURL  string        `envconfig:"NBA_CDN_BASE_URL" default:"https://cdn.nba.com/static/json"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	UserAgent   string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	Referer     string        `envconfig:"REFERER" default:"https://www.nba.com/"`

	// Clutch criteria
	ClutchWindow       time.Duration `envconfig:"CLUTCH_WINDOW" default:"5m"`
	ClutchMaxScoreDiff int           `envconfig:"CLUTCH_MAX_SCORE_DIFF" default:"5"`

	// Output
	OutputPath     string `envconfig:"OUTPUT_PATH" default:""`
	FinalGamesOnly bool   `envconfig:"FINAL_GAMES_ONLY" default:"false"`

	// Extraction
	Workers           int     `envconfig:"WORKERS" default:"8"`
	RequestsPerSecond float64 `envconfig:"REQUESTS_PER_SECOND" default:"5"`
	RequestBurst      int     `envconfig:"REQUEST_BURST" default:"3"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Redis play-by-play cache
	CacheEnabled       bool          `envconfig:"CACHE_ENABLED" default:"false"`
	RedisHost          string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort          int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword      string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB            int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTLPlayByPlay time.Duration `envconfig:"CACHE_TTL_PLAYBYPLAY" default:"24h"`

	// Worker mode
	RefreshCron string `envconfig:"REFRESH_CRON" default:"0 6 * * *"`
	RunOnStart  bool   `envconfig:"RUN_ON_START" default:"true"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !seasonPattern.MatchString(c.Season) {
		return fmt.Errorf("SEASON must look like 2025-26, got %q", c.Season)
	}

	if c.CDNBaseURL == "" {
		return fmt.Errorf("NBA_CDN_BASE_URL is required")
	}

	if c.ClutchWindow < 0 {
		return fmt.Errorf("CLUTCH_WINDOW must not be negative")
	}

	if c.ClutchMaxScoreDiff < 0 {
		return fmt.Errorf("CLUTCH_MAX_SCORE_DIFF must not be negative")
	}

	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1")
	}

	if c.RequestsPerSecond <= 0 || c.RequestBurst < 1 {
		return fmt.Errorf("REQUESTS_PER_SECOND must be positive and REQUEST_BURST at least 1")
	}

	return nil
}

// OutputFile returns the CSV path, derived from the season unless OUTPUT_PATH is set
func (c *Config) OutputFile() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return DefaultOutputFile(c.Season)
}

// DefaultOutputFile returns clutch_totals_<season>.csv with '-' replaced by '_'
func DefaultOutputFile(season string) string {
	return fmt.Sprintf("clutch_totals_%s.csv", strings.ReplaceAll(season, "-", "_"))
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

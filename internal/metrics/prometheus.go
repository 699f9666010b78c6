package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the clutch pipeline

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_clutch_api_calls_total",
			Help: "Total number of NBA CDN requests",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_clutch_api_call_duration_seconds",
			Help:    "Duration of NBA CDN requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Extraction metrics
	GamesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_clutch_games_processed_total",
			Help: "Total number of games processed by the play-by-play extractor",
		},
		[]string{"status"},
	)

	ClutchPlaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_clutch_plays_total",
			Help: "Total number of plays that satisfied the clutch criteria",
		},
	)

	PlayersExported = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_clutch_players_exported",
			Help: "Number of player rows written by the last run",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_clutch_cache_hits_total",
			Help: "Total number of play-by-play cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_clutch_cache_misses_total",
			Help: "Total number of play-by-play cache misses",
		},
	)

	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_clutch_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nba_clutch_run_duration_seconds",
			Help:    "Duration of pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_clutch_last_successful_run_timestamp",
			Help: "Timestamp of the last successful pipeline run",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_clutch_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_clutch_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordGame records the outcome of one game extraction
func RecordGame(status string, clutchPlays int) {
	GamesProcessedTotal.WithLabelValues(status).Inc()
	ClutchPlaysTotal.Add(float64(clutchPlays))
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordRun records a pipeline run
func RecordRun(status string, duration float64, players int) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration)

	if status == "success" {
		PlayersExported.Set(float64(players))
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

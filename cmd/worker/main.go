package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"nba_clutch/ingestion/internal/cache"
	"nba_clutch/ingestion/internal/client"
	"nba_clutch/ingestion/internal/config"
	"nba_clutch/ingestion/internal/logging"
	"nba_clutch/ingestion/internal/metrics"
	"nba_clutch/ingestion/internal/pipeline"
	"nba_clutch/ingestion/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Config first: godotenv must populate APP_ENV and LOG_LEVEL before the logger reads them
	cfg := config.MustLoad()
	logging.Setup(os.Stdout, cfg.AppEnv, cfg.LogLevel)

	log.Info().Msg("Starting NBA clutch totals worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("season", cfg.Season).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	var feedCache client.FeedCache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			defer redisCache.Close()
			feedCache = redisCache
			log.Info().Msg("Redis cache connected")
		}
	}

	p := pipeline.FromConfig(cfg, feedCache)

	srv := newMetricsServer(strconv.Itoa(cfg.MetricsPort), p)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting metrics server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	sched := scheduler.NewScheduler(cfg.RefreshCron, p)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	if cfg.RunOnStart {
		log.Info().Msg("Running initial clutch totals build...")
		go sched.RunNow(ctx)
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Metrics server shutdown failed")
	}

	log.Info().Msg("Worker shutdown complete")
}

// newMetricsServer serves Prometheus metrics and a health check that
// reports the pipeline state
func newMetricsServer(port string, p *pipeline.Pipeline) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","pipeline":%q}`, p.State().String())
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

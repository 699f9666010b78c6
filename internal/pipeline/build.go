package pipeline

import (
	"nba_clutch/ingestion/internal/client"
	"nba_clutch/ingestion/internal/clutch"
	"nba_clutch/ingestion/internal/config"
)

// FromConfig wires a CDN client and pipeline from configuration.
// feedCache may be nil to disable play-by-play caching.
func FromConfig(cfg *config.Config, feedCache client.FeedCache) *Pipeline {
	cdn := client.NewClient(client.Options{
		BaseURL:           cfg.CDNBaseURL,
		Timeout:           cfg.HTTPTimeout,
		UserAgent:         cfg.UserAgent,
		Referer:           cfg.Referer,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.RequestBurst,
		Cache:             feedCache,
		CacheTTL:          cfg.CacheTTLPlayByPlay,
	})

	criteria := clutch.DefaultCriteria()
	criteria.Window = cfg.ClutchWindow
	criteria.MaxScoreDiff = cfg.ClutchMaxScoreDiff

	return New(cdn, Options{
		Season:         cfg.Season,
		Criteria:       criteria,
		OutputPath:     cfg.OutputFile(),
		Workers:        cfg.Workers,
		FinalGamesOnly: cfg.FinalGamesOnly,
	})
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nba_clutch/ingestion/internal/metrics"
	"nba_clutch/ingestion/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Endpoint labels used for metrics and logs
const (
	EndpointSchedule   = "schedule"
	EndpointPlayByPlay = "playbyplay"
)

// maxErrorBody caps how much of a failed response body ends up in an error
const maxErrorBody = 256

// FeedCache stores raw response bodies. *cache.RedisCache satisfies it.
type FeedCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Options configures a Client. Headers are per client, never process-wide.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Referer   string

	// RequestsPerSecond <= 0 disables throttling
	RequestsPerSecond float64
	Burst             int

	// Cache is optional; only play-by-play bodies are cached
	Cache    FeedCache
	CacheTTL time.Duration

	HTTPClient *http.Client
}

// Client is the NBA CDN client
type Client struct {
	baseURL    string
	userAgent  string
	referer    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      FeedCache
	cacheTTL   time.Duration
}

// NewClient creates a new NBA CDN client
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		referer:    opts.Referer,
		httpClient: httpClient,
		limiter:    limiter,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
	}
}

// get performs one GET request against the CDN. No retries.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug().
		Str("url", url).
		Str("method", req.Method).
		Msg("Making CDN request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: errors.New(truncate(string(body), maxErrorBody))}
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("CDN request successful")

	return body, nil
}

// getCached serves path from the cache when one is configured
func (c *Client) getCached(ctx context.Context, endpoint, path string) ([]byte, error) {
	if c.cache == nil {
		return c.get(ctx, endpoint, path)
	}

	body, hit, err := c.cache.Get(ctx, path)
	if err != nil {
		log.Warn().Err(err).Str("key", path).Msg("Cache read failed, fetching from CDN")
		metrics.RecordError("cache", "read")
	} else if hit {
		metrics.RecordCacheHit()
		return body, nil
	}
	metrics.RecordCacheMiss()

	body, err = c.get(ctx, endpoint, path)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, path, body, c.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", path).Msg("Cache write failed")
		metrics.RecordError("cache", "write")
	}
	return body, nil
}

// SchedulePath returns the CDN path of a season's schedule document
func SchedulePath(season string) string {
	return fmt.Sprintf("staticData/scheduleLeagueV2_%s.json", models.SeasonStartYear(season))
}

// PlayByPlayPath returns the CDN path of one game's play-by-play document
func PlayByPlayPath(gameID models.GameID) string {
	return fmt.Sprintf("liveData/playbyplay/playbyplay_%s.json", gameID)
}

// FetchSchedule fetches the full league schedule for a season
func (c *Client) FetchSchedule(ctx context.Context, season string) (*models.Schedule, error) {
	path := SchedulePath(season)
	body, err := c.get(ctx, EndpointSchedule, path)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var resp models.ScheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{URL: url, Err: fmt.Errorf("failed to unmarshal schedule: %w", err)}
	}

	if resp.LeagueSchedule == nil {
		return nil, &ParseError{URL: url, Err: errors.New("missing leagueSchedule")}
	}
	if resp.LeagueSchedule.GameDates == nil {
		return nil, &ParseError{URL: url, Err: errors.New("missing leagueSchedule.gameDates")}
	}

	schedule := &models.Schedule{Season: season}
	for i, date := range resp.LeagueSchedule.GameDates {
		if date.Games == nil {
			return nil, &ParseError{URL: url, Err: fmt.Errorf("gameDates[%d] has no games list", i)}
		}
		for j, game := range date.Games {
			if game.GameID == "" {
				return nil, &ParseError{URL: url, Err: fmt.Errorf("gameDates[%d].games[%d] has no gameId", i, j)}
			}
			schedule.Games = append(schedule.Games, game)
		}
	}

	return schedule, nil
}

// FetchPlayByPlay fetches every action of one game in feed order
func (c *Client) FetchPlayByPlay(ctx context.Context, gameID models.GameID) ([]models.PlayAction, error) {
	if gameID == "" {
		return nil, errors.New("game id is required")
	}

	path := PlayByPlayPath(gameID)
	body, err := c.getCached(ctx, EndpointPlayByPlay, path)
	if err != nil {
		return nil, err
	}

	var resp models.PlayByPlayResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{URL: fmt.Sprintf("%s/%s", c.baseURL, path), Err: fmt.Errorf("failed to unmarshal play-by-play: %w", err)}
	}

	if resp.Game == nil {
		return nil, &ParseError{URL: fmt.Sprintf("%s/%s", c.baseURL, path), Err: errors.New("missing game")}
	}

	return resp.Game.Actions, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

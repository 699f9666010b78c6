// Package pipeline runs a season: schedule, per-game clutch extraction,
// accumulation and CSV export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nba_clutch/ingestion/internal/client"
	"nba_clutch/ingestion/internal/clutch"
	"nba_clutch/ingestion/internal/export"
	"nba_clutch/ingestion/internal/metrics"
	"nba_clutch/ingestion/internal/models"
	"nba_clutch/ingestion/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrAlreadyRunning is returned when Run is called while a run is in flight
var ErrAlreadyRunning = errors.New("pipeline is already running")

// progressEvery controls how often extraction progress is logged
const progressEvery = 100

// Source provides the schedule and play-by-play feeds. *client.Client implements it.
type Source interface {
	FetchSchedule(ctx context.Context, season string) (*models.Schedule, error)
	FetchPlayByPlay(ctx context.Context, gameID models.GameID) ([]models.PlayAction, error)
}

// Options configures a Pipeline
type Options struct {
	Season         string
	Criteria       clutch.Criteria
	OutputPath     string
	Workers        int
	FinalGamesOnly bool
}

// GameFailure records a game that contributed zero plays because of an error
type GameFailure struct {
	GameID models.GameID
	Err    error
}

// Report summarizes a completed run
type Report struct {
	RunID          string
	Season         string
	GamesScheduled int
	GamesFailed    []GameFailure
	ClutchPlays    int
	Rows           []models.PlayerTotals
	OutputPath     string
	Duration       time.Duration
}

// Pipeline runs the clutch totals batch
type Pipeline struct {
	source  Source
	opts    Options
	state   atomic.Int32
	running atomic.Bool
}

// New creates a pipeline reading from source
func New(source Source, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{source: source, opts: opts}
}

// State returns the current pipeline state
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
	log.Debug().Str("state", s.String()).Msg("Pipeline state changed")
}

// LoadSchedule fetches the season schedule and returns the game IDs to process
func (p *Pipeline) LoadSchedule(ctx context.Context) ([]models.GameID, error) {
	schedule, err := p.source.FetchSchedule(ctx, p.opts.Season)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	if p.opts.FinalGamesOnly {
		return schedule.FinalGameIDs(), nil
	}
	return schedule.GameIDs(), nil
}

// ExtractGame fetches one game's play-by-play and returns its clutch plays
func (p *Pipeline) ExtractGame(ctx context.Context, gameID models.GameID) ([]models.PlayAction, error) {
	actions, err := p.source.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return clutch.Filter(actions, p.opts.Criteria), nil
}

// extractAll runs ExtractGame over every game with a bounded worker pool.
// A failed game contributes zero plays; its error is returned for reporting.
// Plays are concatenated in schedule order.
func (p *Pipeline) extractAll(ctx context.Context, logger zerolog.Logger, gameIDs []models.GameID) ([]models.PlayAction, []GameFailure) {
	results := make([][]models.PlayAction, len(gameIDs))
	errs := make([]error, len(gameIDs))

	jobs := make(chan int)
	var processed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				plays, err := p.ExtractGame(ctx, gameIDs[i])
				if err != nil {
					errs[i] = err
					metrics.RecordGame("failed", 0)
					metrics.RecordError("extractor", errorType(err))
					logger.Warn().
						Err(err).
						Str("game_id", string(gameIDs[i])).
						Msg("Game skipped, contributing zero plays")
				} else {
					results[i] = plays
					metrics.RecordGame("success", len(plays))
				}

				if n := processed.Add(1); n%progressEvery == 0 {
					logger.Info().
						Int64("processed", n).
						Int("total", len(gameIDs)).
						Msg("Extraction progress")
				}
			}
		}()
	}

feed:
	for i := range gameIDs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var plays []models.PlayAction
	var failures []GameFailure
	for i, id := range gameIDs {
		if errs[i] != nil {
			failures = append(failures, GameFailure{GameID: id, Err: errs[i]})
			continue
		}
		plays = append(plays, results[i]...)
	}

	return plays, failures
}

// Run executes the whole batch. Schedule failures, export failures and
// cancellation are fatal; per-game failures are not.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer p.running.Store(false)

	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Season: p.opts.Season, OutputPath: p.opts.OutputPath}
	logger := log.With().Str("run_id", report.RunID).Logger()

	fail := func(component string, err error) (*Report, error) {
		p.setState(StateFailed)
		metrics.RecordError(component, errorType(err))
		metrics.RecordRun("failed", time.Since(start).Seconds(), 0)
		return nil, err
	}

	p.setState(StateIdle)

	p.setState(StateLoadingSchedule)
	logger.Info().Str("season", p.opts.Season).Msg("Loading schedule...")
	gameIDs, err := p.LoadSchedule(ctx)
	if err != nil {
		return fail("schedule", err)
	}
	report.GamesScheduled = len(gameIDs)
	logger.Info().Int("count", len(gameIDs)).Msg("Schedule loaded")

	p.setState(StateExtractingPlays)
	plays, failures := p.extractAll(ctx, logger, gameIDs)
	if err := ctx.Err(); err != nil {
		return fail("pipeline", fmt.Errorf("run cancelled during extraction: %w", err))
	}
	report.GamesFailed = failures
	report.ClutchPlays = len(plays)
	logger.Info().
		Int("clutch_plays", len(plays)).
		Int("games_failed", len(failures)).
		Msg("Clutch plays extracted")

	p.setState(StateAccumulating)
	report.Rows = stats.Accumulate(plays)
	logger.Info().Int("players", len(report.Rows)).Msg("Player totals accumulated")

	p.setState(StateExporting)
	if err := export.WriteCSV(p.opts.OutputPath, report.Rows); err != nil {
		return fail("exporter", fmt.Errorf("failed to export totals: %w", err))
	}

	report.Duration = time.Since(start)
	p.setState(StateDone)
	metrics.RecordRun("success", report.Duration.Seconds(), len(report.Rows))

	logger.Info().
		Str("path", report.OutputPath).
		Int("games", report.GamesScheduled).
		Int("games_failed", len(report.GamesFailed)).
		Int("clutch_plays", report.ClutchPlays).
		Int("players", len(report.Rows)).
		Dur("duration", report.Duration).
		Msg("Clutch totals exported")

	return report, nil
}

// errorType maps an error to a metrics label
func errorType(err error) string {
	var fetchErr *client.FetchError
	var parseErr *client.ParseError
	var ioErr *export.IOError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &ioErr):
		return "io"
	default:
		return "other"
	}
}

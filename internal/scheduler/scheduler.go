package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nba_clutch/ingestion/internal/pipeline"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Runner executes one clutch totals batch. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// Scheduler re-runs the pipeline on a cron schedule so the CSV tracks the
// season as games go final
type Scheduler struct {
	cronExpr string
	runner   Runner
	cron     *cron.Cron
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewScheduler creates a scheduler that calls runner on the given cron expression
func NewScheduler(cronExpr string, runner Runner) *Scheduler {
	return &Scheduler{
		cronExpr: cronExpr,
		runner:   runner,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start registers the refresh job and starts the cron scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cronExpr, func() {
		log.Info().Msg("Running scheduled refresh...")
		s.RunNow(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cronExpr).
		Msg("Clutch totals refresh scheduled")

	return nil
}

// RunNow runs the pipeline once in the calling goroutine. Failures are
// logged; the scheduler keeps going.
func (s *Scheduler) RunNow(ctx context.Context) {
	select {
	case <-s.stopChan:
		return
	default:
	}

	s.wg.Add(1)
	defer s.wg.Done()

	report, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrAlreadyRunning):
		log.Warn().Msg("Previous run still in progress, skipping")
	case err != nil:
		log.Error().Err(err).Msg("Clutch totals refresh failed")
	default:
		log.Info().
			Str("path", report.OutputPath).
			Int("players", len(report.Rows)).
			Int("games_failed", len(report.GamesFailed)).
			Msg("Clutch totals refresh complete")
	}
}

// Stop stops the cron scheduler and waits for an in-flight run to return
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	s.stopOnce.Do(func() {
		close(s.stopChan)
		<-s.cron.Stop().Done()
		s.wg.Wait()
	})

	log.Info().Msg("Scheduler stopped")
}

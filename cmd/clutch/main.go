// Command clutch builds the season's clutch shooting totals CSV in one pass
// and prints the top scorers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"nba_clutch/ingestion/internal/cache"
	"nba_clutch/ingestion/internal/client"
	"nba_clutch/ingestion/internal/config"
	"nba_clutch/ingestion/internal/export"
	"nba_clutch/ingestion/internal/logging"
	"nba_clutch/ingestion/internal/pipeline"
	"nba_clutch/ingestion/internal/stats"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

// cliOptions are settings that only exist on the command line
type cliOptions struct {
	Top int
}

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout))
}

// runMain wires configuration, flags and the pipeline and returns the
// process exit code
func runMain(args []string, out io.Writer) int {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	opts, err := applyFlags(cfg, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, out); err != nil {
		log.Error().Err(err).Msg("Clutch totals run failed")
		return 1
	}
	return 0
}

// loadConfig reads configuration (including .env) before configuring the
// logger, so APP_ENV and LOG_LEVEL set only in .env take effect
func loadConfig(logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(logOut, cfg.AppEnv, cfg.LogLevel)
	return cfg, nil
}

// applyFlags overrides environment configuration with command-line flags
// and re-validates the result
func applyFlags(cfg *config.Config, args []string) (cliOptions, error) {
	opts := cliOptions{Top: 10}

	fs := flag.NewFlagSet("clutch", flag.ContinueOnError)
	fs.StringVarP(&cfg.Season, "season", "s", cfg.Season, "season label, e.g. 2025-26")
	fs.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "CSV output path (default clutch_totals_<season>.csv)")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "concurrent play-by-play fetches")
	fs.BoolVar(&cfg.FinalGamesOnly, "final-only", cfg.FinalGamesOnly, "only process games with final status")
	fs.IntVarP(&opts.Top, "top", "t", opts.Top, "players to show in the summary table, 0 to disable")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Top < 0 {
		return opts, fmt.Errorf("--top must not be negative")
	}
	if err := cfg.Validate(); err != nil {
		return opts, fmt.Errorf("invalid configuration: %w", err)
	}

	return opts, nil
}

func run(ctx context.Context, cfg *config.Config, opts cliOptions, out io.Writer) error {
	log.Info().
		Str("season", cfg.Season).
		Str("output", cfg.OutputFile()).
		Int("workers", cfg.Workers).
		Msg("Starting clutch totals run")

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
		}
	}

	report, err := pipeline.FromConfig(cfg, feedCache).Run(ctx)
	if err != nil {
		return err
	}

	if opts.Top > 0 && len(report.Rows) > 0 {
		top := stats.TopByPoints(report.Rows, opts.Top)
		if err := export.WriteSummary(out, report.Season, top, len(report.Rows)); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
	}

	if n := len(report.GamesFailed); n > 0 {
		warn := color.New(color.FgYellow).SprintfFunc()
		if _, err := fmt.Fprintln(out, warn("Skipped %d of %d games after fetch errors", n, report.GamesScheduled)); err != nil {
			return err
		}
	}

	saved := color.New(color.FgGreen, color.Bold).SprintfFunc()
	_, err = fmt.Fprintln(out, saved("Saved %s", report.OutputPath))
	return err
}

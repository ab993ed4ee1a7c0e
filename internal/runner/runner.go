// Package runner sequences a single fetch, render and publish run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/wakagist/internal/config"
	"github.com/verte-zerg/wakagist/internal/gist"
	"github.com/verte-zerg/wakagist/internal/logging"
	"github.com/verte-zerg/wakagist/internal/model"
	"github.com/verte-zerg/wakagist/internal/report"
	"github.com/verte-zerg/wakagist/internal/wakatime"
)

// ErrNoStatsData means the provider returned an empty language breakdown.
var ErrNoStatsData = errors.New("no language stats returned")

// StatsProvider fetches the language breakdown.
type StatsProvider interface {
	FetchLanguages(ctx context.Context, statsRange string) (model.StatsSummary, error)
}

// Publisher overwrites the remote snippet.
type Publisher interface {
	Publish(ctx context.Context, content string) (model.PublishResult, error)
}

// Factory builds collaborators once configuration is known.
type Factory interface {
	Stats(cfg config.Config) StatsProvider
	Publisher(cfg config.Config) Publisher
}

// HTTPFactory builds the WakaTime and GitHub HTTP clients.
type HTTPFactory struct{}

// Stats implements Factory.
func (HTTPFactory) Stats(cfg config.Config) StatsProvider {
	return wakatime.New(cfg.WakaTimeBaseURL, cfg.WakaTimeKey, cfg.Timeout)
}

// Publisher implements Factory.
func (HTTPFactory) Publisher(cfg config.Config) Publisher {
	return gist.New(gist.Options{
		BaseURL:     cfg.GistBaseURL,
		Token:       cfg.GitHubToken,
		GistID:      cfg.GistID,
		Description: cfg.GistDescription,
		Filename:    cfg.GistFilename,
		Timeout:     cfg.Timeout,
	})
}

// Outcome is how a successful run ended.
type Outcome int

// Run outcomes.
const (
	OutcomePublished Outcome = iota
	OutcomeDryRun
	OutcomeNoData
)

func (o Outcome) String() string {
	switch o {
	case OutcomePublished:
		return "published"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeNoData:
		return "no-data"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a finished run.
type Result struct {
	Outcome Outcome
	Report  string
	Publish model.PublishResult
}

// Runner wires configuration, collaborators and logging for one run.
type Runner struct {
	Lookup  config.LookupFunc
	File    config.FileConfig
	Factory Factory
	Logger  *zap.Logger
	// Out receives the rendered report on dry runs. Nil discards it.
	Out io.Writer
	// NewRunID overrides run id generation.
	NewRunID func() string
}

// Run loads configuration, fetches stats, renders the report and publishes it
// unless the run is a dry run or there is nothing to publish.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	logger := r.logger().With(zap.String("run-id", r.runID()))
	defer logging.Scope(logger, "run")()

	cfg, err := config.Load(r.Lookup, r.File)
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		return Result{}, err
	}
	logger.Debug("configuration loaded",
		zap.String("range", cfg.StatsRange),
		zap.String("gist-id", cfg.GistID),
		zap.Bool("dry-run", cfg.DryRun),
	)

	factory := r.Factory
	if factory == nil {
		factory = HTTPFactory{}
	}

	summary, text, err := Render(ctx, factory.Stats(cfg), cfg.StatsRange)
	if errors.Is(err, ErrNoStatsData) {
		logger.Warn("no language stats returned; gist left unchanged", zap.String("range", cfg.StatsRange))
		return Result{Outcome: OutcomeNoData}, nil
	}
	if err != nil {
		logger.Error("failed to fetch stats", zap.Error(err))
		return Result{}, err
	}
	logger.Info("report rendered",
		zap.String("range", summary.Range),
		zap.Int("languages", len(summary.Languages)),
	)

	if cfg.DryRun {
		logger.Info("dry run; skipping publish")
		if r.Out != nil {
			if _, err := fmt.Fprintln(r.Out, text); err != nil {
				return Result{}, fmt.Errorf("failed to write report: %w", err)
			}
		}
		return Result{Outcome: OutcomeDryRun, Report: text}, nil
	}

	published, err := factory.Publisher(cfg).Publish(ctx, text)
	if err != nil {
		logger.Error("failed to publish gist", zap.Error(err))
		return Result{}, fmt.Errorf("failed to publish gist: %w", err)
	}
	logger.Info("gist updated",
		zap.Int("status", published.StatusCode),
		zap.String("file", published.Filename),
	)
	logger.Debug("stored content", zap.String("content", published.Content))
	return Result{Outcome: OutcomePublished, Report: text, Publish: published}, nil
}

// Render fetches stats for statsRange and builds the report text.
// It returns ErrNoStatsData when the breakdown is empty.
func Render(ctx context.Context, stats StatsProvider, statsRange string) (model.StatsSummary, string, error) {
	summary, err := stats.FetchLanguages(ctx, statsRange)
	if err != nil {
		return model.StatsSummary{}, "", fmt.Errorf("failed to fetch stats: %w", err)
	}
	if len(summary.Languages) == 0 {
		return summary, "", ErrNoStatsData
	}
	return summary, report.BuildReport(summary.Languages), nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) runID() string {
	if r.NewRunID != nil {
		return r.NewRunID()
	}
	return uuid.NewString()
}

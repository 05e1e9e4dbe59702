package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/navigator"
	"golang.org/x/sync/errgroup"
)

// Default orchestrator settings.
const (
	// DefaultWorkers is the number of seeds processed concurrently.
	DefaultWorkers = 5

	// DefaultPacing is how long a worker pauses after each seed.
	DefaultPacing = 5 * time.Second
)

// ErrSeedPanic is recorded on a SeedRun whose pipeline panicked.
var ErrSeedPanic = errors.New("seed pipeline panicked")

// Orchestrator navigates many seeds concurrently and unions their links.
// It uses errgroup to manage goroutines and respect the worker limit.
type Orchestrator struct {
	// pipelineFactory creates a fresh pipeline for each seed.
	pipelineFactory func() *Pipeline

	// workers is the maximum number of concurrent seeds.
	workers int

	// pacing is the pause after each seed before the worker slot is released.
	pacing time.Duration

	sleeper navigator.Sleeper
	logger  *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets a custom logger for run-level logging.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithWorkers sets the maximum number of concurrent seeds.
// Non-positive values keep the default.
func WithWorkers(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithPacing sets the pause after each seed. Negative values are ignored.
func WithPacing(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.pacing = d
		}
	}
}

// WithSleeper sets the sleeper used for pacing.
func WithSleeper(s navigator.Sleeper) OrchestratorOption {
	return func(o *Orchestrator) {
		if s != nil {
			o.sleeper = s
		}
	}
}

// NewOrchestrator creates an Orchestrator.
//
// pipelineFactory is called once per seed so no pipeline state is shared
// between seeds.
func NewOrchestrator(pipelineFactory func() *Pipeline, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		pipelineFactory: pipelineFactory,
		workers:         DefaultWorkers,
		pacing:          DefaultPacing,
		sleeper:         navigator.TimerSleeper{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Run navigates every seed and returns the union of collected links along
// with one SeedRun per seed, in seed order.
//
// Per-seed failures never produce an error; they are recorded on the
// SeedRun and contribute no links. The returned error is non-nil only when
// ctx was cancelled.
func (o *Orchestrator) Run(ctx context.Context, seeds []model.Seed, target model.Date) (*model.LinkSet, []*model.SeedRun, error) {
	return o.RunWithCallback(ctx, seeds, target, nil)
}

// RunWithCallback is Run with a callback invoked after each seed finishes.
// The callback is called from worker goroutines and must be safe for
// concurrent use.
func (o *Orchestrator) RunWithCallback(
	ctx context.Context,
	seeds []model.Seed,
	target model.Date,
	callback func(run *model.SeedRun, index int),
) (*model.LinkSet, []*model.SeedRun, error) {
	o.logger.Info("starting crawl",
		"seeds", len(seeds),
		"workers", o.workers,
		"target", target.String(),
	)

	startTime := time.Now()
	links := model.NewLinkSet()
	runs := make([]*model.SeedRun, len(seeds))

	var g errgroup.Group
	g.SetLimit(o.workers)

	for i, seed := range seeds {
		run := model.NewSeedRun(seed, target)
		runs[i] = run

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				run.Err = err
				return nil
			}

			o.execute(ctx, run)
			added := links.Add(run.Links...)

			o.logger.Info("seed finished",
				"site", seed.PageURL,
				"index", i+1,
				"total", len(seeds),
				"outcome", run.Outcome.String(),
				"links", len(run.Links),
				"new_links", added,
			)

			if callback != nil {
				callback(run, i)
			}

			// The slot stays taken during the pause.
			_ = o.sleeper.Sleep(ctx, o.pacing) //nolint:errcheck // cancellation is reported after Wait
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return errors

	o.logger.Info("crawl complete",
		"seeds", len(seeds),
		"links", links.Len(),
		"elapsed", time.Since(startTime),
	)

	return links, runs, ctx.Err()
}

// execute runs one seed's pipeline, converting panics into a recorded failure.
func (o *Orchestrator) execute(ctx context.Context, run *model.SeedRun) {
	run.StartedAt = time.Now()
	defer func() {
		if r := recover(); r != nil {
			run.Err = fmt.Errorf("%w: %v", ErrSeedPanic, r)
			run.Outcome = model.OutcomeFailed
			run.Snapshot = nil
			run.Links = nil
			o.logger.Error("seed failed",
				"site", run.Seed.PageURL,
				"error", run.Err,
			)
		}
		run.Duration = time.Since(run.StartedAt)
	}()

	if err := o.pipelineFactory().Execute(ctx, run); err != nil {
		o.logger.Error("seed failed",
			"site", run.Seed.PageURL,
			"error", err,
		)
		run.Snapshot = nil
		run.Links = nil
	}
}

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/datecrawl/internal/model"
)

// Step is one stage of a seed's pipeline.
//
// A step reads what earlier steps left on the SeedRun and adds its own
// result: NavigateStep sets Outcome, NavigationSteps and Snapshot, and
// CollectLinksStep turns the Snapshot into Links. A step that cannot
// produce its result returns an error; the pipeline records it on the run
// and skips every later step, since each step depends on the one before.
//
// Steps must honour ctx in anything that blocks and must not retain run
// after Do returns.
type Step interface {
	Do(ctx context.Context, run *model.SeedRun) error
	Name() string
}

// Pipeline runs its steps in order for one seed.
// A Pipeline is used by a single goroutine; the Orchestrator builds a fresh
// one per seed.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps for run and returns the first failure.
//
// The failure, including a cancellation noticed between steps, is also
// stored in run.Err. Each completed step is appended to run.PerformedSteps.
func (p *Pipeline) Execute(ctx context.Context, run *model.SeedRun) error {
	logger := p.logger.With("site", run.Seed.PageURL, "navigation", run.Seed.Navigation.String())

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			logger.Warn("pipeline cancelled", "before", step.Name(), "reason", err)
			run.Err = err
			return err
		}

		start := time.Now()
		err := step.Do(ctx, run)
		elapsed := time.Since(start)
		if err != nil {
			logger.Warn("step failed", "step", step.Name(), "elapsed", elapsed, "error", err)
			run.Err = err
			return err
		}

		logger.Debug("step completed", "step", step.Name(), "elapsed", elapsed)
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/datecrawl/internal/crawler"
	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/navigator"
)

// ErrNavigationFailed is recorded when a navigator fails without a cause.
var ErrNavigationFailed = errors.New("navigation failed")

// SiteResolver supplies the per-site collaborators for a seed.
type SiteResolver interface {
	// Navigator returns the navigator for seed's navigation type and site.
	Navigator(seed model.Seed) (navigator.Navigator, error)

	// Collector returns the link collector for seed's site.
	Collector(seed model.Seed) *crawler.Collector
}

// NavigateStep runs the seed's navigator and stores where it stopped.
type NavigateStep struct {
	resolver SiteResolver
	logger   *slog.Logger
}

// NavigateStepOption configures a NavigateStep.
type NavigateStepOption func(*NavigateStep)

// WithNavigateLogger sets a custom logger for the navigate step.
func WithNavigateLogger(logger *slog.Logger) NavigateStepOption {
	return func(s *NavigateStep) {
		s.logger = logger
	}
}

// NewNavigateStep creates a navigate step.
func NewNavigateStep(resolver SiteResolver, opts ...NavigateStepOption) *NavigateStep {
	s := &NavigateStep{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *NavigateStep) Name() string {
	return "navigate"
}

// Do executes the navigate step.
func (s *NavigateStep) Do(ctx context.Context, run *model.SeedRun) error {
	nav, err := s.resolver.Navigator(run.Seed)
	if err != nil {
		return fmt.Errorf("select navigator: %w", err)
	}

	res := nav.Navigate(ctx, run.Seed, run.Target)
	run.Outcome = res.Outcome
	run.NavigationSteps = res.Steps
	run.Snapshot = res.Snapshot
	run.Reason = res.Reason

	if res.Outcome == model.OutcomeFailed {
		if res.Err == nil {
			return ErrNavigationFailed
		}
		return res.Err
	}

	attrs := []any{
		"site", run.Seed.PageURL,
		"navigation", run.Seed.Navigation.String(),
		"outcome", res.Outcome.String(),
		"steps", res.Steps,
	}
	if res.Reason != nil {
		attrs = append(attrs, "reason", res.Reason)
	}
	s.logger.Info("navigation finished", attrs...)
	return nil
}

// CollectLinksStep extracts links from the navigated snapshot and then
// drops the snapshot.
type CollectLinksStep struct {
	resolver SiteResolver
	logger   *slog.Logger
}

// CollectLinksStepOption configures a CollectLinksStep.
type CollectLinksStepOption func(*CollectLinksStep)

// WithCollectLogger sets a custom logger for the collect step.
func WithCollectLogger(logger *slog.Logger) CollectLinksStepOption {
	return func(s *CollectLinksStep) {
		s.logger = logger
	}
}

// NewCollectLinksStep creates a link collection step.
func NewCollectLinksStep(resolver SiteResolver, opts ...CollectLinksStepOption) *CollectLinksStep {
	s := &CollectLinksStep{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CollectLinksStep) Name() string {
	return "collect_links"
}

// Do executes the collect step. A run without a snapshot collects nothing.
func (s *CollectLinksStep) Do(_ context.Context, run *model.SeedRun) error {
	if run.Snapshot == nil {
		s.logger.Debug("no snapshot to collect links from", "site", run.Seed.PageURL)
		return nil
	}

	result, err := s.resolver.Collector(run.Seed).Parse(run.Snapshot)
	run.Snapshot = nil
	if err != nil {
		return fmt.Errorf("collect links: %w", err)
	}

	run.Links = result.Links
	s.logger.Info("links collected",
		"site", run.Seed.PageURL,
		"title", result.Title,
		"links", len(result.Links),
		"internal", len(result.InternalLinks),
		"external", len(result.ExternalLinks),
	)
	return nil
}

// DefaultPipeline creates the standard seed pipeline: navigate, then collect.
func DefaultPipeline(resolver SiteResolver, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)
	p.AddSteps(
		NewNavigateStep(resolver, WithNavigateLogger(p.logger)),
		NewCollectLinksStep(resolver, WithCollectLogger(p.logger)),
	)
	return p
}

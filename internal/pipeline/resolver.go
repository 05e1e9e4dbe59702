package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nao1215/datecrawl/internal/config"
	"github.com/nao1215/datecrawl/internal/crawler"
	"github.com/nao1215/datecrawl/internal/datematch"
	"github.com/nao1215/datecrawl/internal/fetch"
	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/navigator"
	"github.com/nao1215/datecrawl/internal/render"
)

// ProfileResolver builds per-seed collaborators from the run configuration
// and the seed host's site profile.
type ProfileResolver struct {
	cfg      *config.Config
	client   *fetch.Client
	launcher render.Launcher
	sleeper  navigator.Sleeper
	logger   *slog.Logger
}

// ResolverOption configures a ProfileResolver.
type ResolverOption func(*ProfileResolver)

// WithResolverSleeper sets the sleeper used for settle waits.
func WithResolverSleeper(s navigator.Sleeper) ResolverOption {
	return func(r *ProfileResolver) {
		r.sleeper = s
	}
}

// WithResolverLogger sets the logger passed to navigators and matchers.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *ProfileResolver) {
		r.logger = logger
	}
}

// NewProfileResolver creates a ProfileResolver. launcher may be nil when no
// seed needs a browser.
func NewProfileResolver(cfg *config.Config, client *fetch.Client, launcher render.Launcher, opts ...ResolverOption) *ProfileResolver {
	r := &ProfileResolver{
		cfg:      cfg,
		client:   client,
		launcher: launcher,
		sleeper:  navigator.TimerSleeper{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Navigator returns the navigator for seed.
func (r *ProfileResolver) Navigator(seed model.Seed) (navigator.Navigator, error) {
	host := seed.Host()
	site := r.cfg.SiteConfig(host)

	deps := navigator.Deps{
		Matcher: datematch.NewMatcher(
			datematch.WithSelector(site.DateSelector),
			datematch.WithLogger(r.logger),
		),
		Sleeper:  r.sleeper,
		Logger:   r.logger,
		Settings: r.cfg.NavigationSettings(host),
	}
	if r.client != nil {
		deps.Fetcher = r.client.ForSite(site.Headers, site.Cookie)
	}
	if r.launcher != nil {
		deps.Launcher = r.launcher
	}
	return navigator.New(seed.Navigation, deps)
}

// Collector returns the link collector for seed's site.
func (r *ProfileResolver) Collector(seed model.Seed) *crawler.Collector {
	site := r.cfg.SiteConfig(seed.Host())
	return crawler.NewCollector(
		crawler.WithIgnorePatterns(site.IgnorePatterns),
		crawler.WithFollowPatterns(site.FollowPatterns),
	)
}

// Get fetches pageURL with the headers and cookie of its host's site profile.
// It lets article extraction reuse the same per-site request settings as
// navigation.
func (r *ProfileResolver) Get(ctx context.Context, pageURL string) (*model.Snapshot, error) {
	if r.client == nil {
		return nil, navigator.ErrNoFetcher
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse article url: %w", err)
	}
	site := r.cfg.SiteConfig(strings.ToLower(u.Host))
	return r.client.ForSite(site.Headers, site.Cookie).Get(ctx, pageURL)
}

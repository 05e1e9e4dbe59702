package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/datecrawl/internal/datematch"
	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/render"
)

// Default navigation settings.
const (
	// DefaultMaxSteps bounds pages fetched, scrolls, or clicks per seed.
	DefaultMaxSteps = 50

	// DefaultStartPage is the first pagination page requested.
	DefaultStartPage = 1

	// DefaultNextSelector selects the pagination "next" link.
	DefaultNextSelector = "a.pagination-next"

	// DefaultLoadMoreText is the label of the load-more control.
	DefaultLoadMoreText = "Load More"

	// DefaultLoadMoreTag is the element type of the load-more control.
	DefaultLoadMoreTag = "button"

	// DefaultSettleDelay is the wait after a scroll or click for new content.
	DefaultSettleDelay = 2 * time.Second

	// NoSettleDelay disables the wait after a scroll or click. A zero
	// Settings.SettleDelay means DefaultSettleDelay, so "no wait" needs its
	// own value.
	NoSettleDelay time.Duration = -1
)

var (
	// ErrStepLimit is the reason recorded when navigation stops at MaxSteps.
	ErrStepLimit = errors.New("navigation step limit reached")

	// ErrNoFetcher is returned by New when pagination has no HTTP fetcher.
	ErrNoFetcher = errors.New("pagination requires a fetcher")

	// ErrNoLauncher is returned by New when a browser strategy has no launcher.
	ErrNoLauncher = errors.New("browser navigation requires a launcher")

	// ErrUnknownNavigation is returned by New for an unsupported navigation type.
	ErrUnknownNavigation = errors.New("unknown navigation type")
)

// Fetcher retrieves a page over HTTP.
type Fetcher interface {
	Get(ctx context.Context, pageURL string) (*model.Snapshot, error)
}

// Result is the outcome of one navigation run.
type Result struct {
	// Outcome is how navigation stopped.
	Outcome model.Outcome

	// Snapshot is the document navigation stopped on. Nil when failed.
	Snapshot *model.Snapshot

	// Steps counts pages fetched, scrolls, or clicks performed.
	Steps int

	// Reason explains an exhausted outcome, such as ErrStepLimit or
	// render.ErrElementNotFound. May be nil.
	Reason error

	// Err is set when Outcome is failed.
	Err error
}

// Navigator walks a seed's listing until the target date is visible.
type Navigator interface {
	Navigate(ctx context.Context, seed model.Seed, target model.Date) Result
}

// Settings tunes navigation for a site.
type Settings struct {
	// NextSelector selects the pagination "next" affordance.
	NextSelector string

	// StartPage is the first pagination page number.
	StartPage int

	// LoadMoreText is matched against the load-more control's text.
	LoadMoreText string

	// LoadMoreTag is the element type of the load-more control.
	LoadMoreTag string

	// SettleDelay is the wait after a scroll or click. Zero means
	// DefaultSettleDelay; any negative value (see NoSettleDelay) means no wait.
	SettleDelay time.Duration

	// MaxSteps bounds pages fetched, scrolls, or clicks. Zero means unbounded,
	// so a zero Settings has no step bound; use DefaultSettings or set
	// DefaultMaxSteps explicitly to get the built-in bound.
	MaxSteps int
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		NextSelector: DefaultNextSelector,
		StartPage:    DefaultStartPage,
		LoadMoreText: DefaultLoadMoreText,
		LoadMoreTag:  DefaultLoadMoreTag,
		SettleDelay:  DefaultSettleDelay,
		MaxSteps:     DefaultMaxSteps,
	}
}

// withDefaults fills empty fields from DefaultSettings and resolves the
// settle delay sentinel. MaxSteps is left alone since zero is meaningful.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.NextSelector == "" {
		s.NextSelector = d.NextSelector
	}
	if s.StartPage <= 0 {
		s.StartPage = d.StartPage
	}
	if s.LoadMoreText == "" {
		s.LoadMoreText = d.LoadMoreText
	}
	if s.LoadMoreTag == "" {
		s.LoadMoreTag = d.LoadMoreTag
	}
	switch {
	case s.SettleDelay == 0:
		s.SettleDelay = d.SettleDelay
	case s.SettleDelay < 0:
		s.SettleDelay = 0
	}
	if s.MaxSteps < 0 {
		s.MaxSteps = 0
	}
	return s
}

// Deps are the collaborators a Navigator may use.
type Deps struct {
	Fetcher  Fetcher
	Launcher render.Launcher
	Matcher  *datematch.Matcher
	Sleeper  Sleeper
	Logger   *slog.Logger
	Settings Settings
}

// New returns the Navigator for kind.
func New(kind model.NavigationType, deps Deps) (Navigator, error) {
	if deps.Matcher == nil {
		deps.Matcher = datematch.NewMatcher()
	}
	if deps.Sleeper == nil {
		deps.Sleeper = TimerSleeper{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Settings = deps.Settings.withDefaults()

	switch kind {
	case model.NavigationPagination:
		if deps.Fetcher == nil {
			return nil, ErrNoFetcher
		}
		return &Pagination{deps: deps}, nil
	case model.NavigationInfiniteScroll:
		if deps.Launcher == nil {
			return nil, ErrNoLauncher
		}
		return &InfiniteScroll{deps: deps}, nil
	case model.NavigationLoadMore:
		if deps.Launcher == nil {
			return nil, ErrNoLauncher
		}
		return &LoadMore{deps: deps}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownNavigation, kind)
	}
}

// stepLimitReached reports whether steps has hit a positive limit.
func stepLimitReached(steps, limit int) bool {
	return limit > 0 && steps >= limit
}

func failed(steps int, err error) Result {
	return Result{Outcome: model.OutcomeFailed, Steps: steps, Err: err}
}

func found(snap *model.Snapshot, steps int) Result {
	return Result{Outcome: model.OutcomeFound, Snapshot: snap, Steps: steps}
}

func exhausted(snap *model.Snapshot, steps int, reason error) Result {
	return Result{Outcome: model.OutcomeExhausted, Snapshot: snap, Steps: steps, Reason: reason}
}

func seedLogger(logger *slog.Logger, seed model.Seed) *slog.Logger {
	return logger.With("site", seed.PageURL, "navigation", seed.Navigation.String())
}

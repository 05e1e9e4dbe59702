package article

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/datecrawl/internal/datematch"
	"github.com/nao1215/datecrawl/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers extracts one link at a time.
const DefaultWorkers = 1

// Filter keeps the links whose article was published on the target date.
type Filter struct {
	extractor Extractor
	workers   int
	logger    *slog.Logger
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithWorkers sets how many links are extracted concurrently.
func WithWorkers(n int) FilterOption {
	return func(f *Filter) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithLogger sets the logger for skipped links.
func WithLogger(logger *slog.Logger) FilterOption {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFilter creates a Filter.
func NewFilter(extractor Extractor, opts ...FilterOption) *Filter {
	f := &Filter{
		extractor: extractor,
		workers:   DefaultWorkers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter extracts every link and returns the records published on target.
// With more than one worker the records come back in completion order.
func (f *Filter) Filter(ctx context.Context, links []string, target model.Date) []model.ArticleRecord {
	var (
		mu      sync.Mutex
		records []model.ArticleRecord
	)

	g := new(errgroup.Group)
	g.SetLimit(f.workers)

	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, ok := f.one(ctx, link, target)
			if ok {
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return records
}

func (f *Filter) one(ctx context.Context, link string, target model.Date) (model.ArticleRecord, bool) {
	if ctx.Err() != nil {
		return model.ArticleRecord{}, false
	}

	logger := f.logger.With("link", link)

	ex, err := f.extractor.Extract(ctx, link)
	if err != nil {
		logger.Warn("skipping article", "error", err)
		return model.ArticleRecord{}, false
	}

	if !f.publishedOn(logger, ex, target) {
		return model.ArticleRecord{}, false
	}

	return model.ArticleRecord{
		Title:   ex.Title,
		Content: ex.Text,
		Date:    target,
		Link:    link,
	}, true
}

func (f *Filter) publishedOn(logger *slog.Logger, ex *Extracted, target model.Date) bool {
	if ex.PublishedTime != nil {
		return datematch.MatchesTime(ex.PublishedTime, target)
	}
	if ex.PublishedAt == "" {
		logger.Debug("article has no publish date")
		return false
	}
	d, err := datematch.Parse(ex.PublishedAt)
	if err != nil {
		logger.Warn("unable to parse publish date", "text", ex.PublishedAt, "error", err)
		return false
	}
	return d.Equal(target)
}

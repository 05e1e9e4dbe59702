package navigator

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/datecrawl/internal/model"
)

// Pagination walks numbered listing pages over HTTP.
type Pagination struct {
	deps Deps
}

// PageURL returns the listing URL for page n.
func PageURL(base string, n int) string {
	return fmt.Sprintf("%s/page/%d/", strings.TrimRight(base, "/"), n)
}

// Navigate fetches page after page until the target date appears or there
// is no next page.
func (p *Pagination) Navigate(ctx context.Context, seed model.Seed, target model.Date) Result {
	logger := seedLogger(p.deps.Logger, seed)
	settings := p.deps.Settings

	var last *model.Snapshot
	steps := 0
	for n := settings.StartPage; ; n++ {
		if err := ctx.Err(); err != nil {
			return failed(steps, err)
		}
		if stepLimitReached(steps, settings.MaxSteps) {
			logger.Warn("navigation step limit reached", "steps", steps)
			return exhausted(last, steps, ErrStepLimit)
		}

		pageURL := PageURL(seed.PageURL, n)
		snap, err := p.deps.Fetcher.Get(ctx, pageURL)
		steps++
		if err != nil {
			return failed(steps, fmt.Errorf("fetch page %d: %w", n, err))
		}
		last = snap

		doc, err := goquery.NewDocumentFromReader(snap.Reader())
		if err != nil {
			return failed(steps, fmt.Errorf("parse page %d: %w", n, err))
		}

		if p.deps.Matcher.InDocument(doc, target) {
			logger.Debug("target date found", "page", n)
			return found(snap, steps)
		}
		if doc.Find(settings.NextSelector).Length() == 0 {
			logger.Debug("no next page", "page", n)
			return exhausted(snap, steps, nil)
		}
	}
}

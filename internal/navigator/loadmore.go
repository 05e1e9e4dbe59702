package navigator

import (
	"context"
	"fmt"

	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/render"
)

// LoadMore clicks a "Load More" control until it disappears.
type LoadMore struct {
	deps Deps
}

// Navigate clicks until the target date appears or the control is gone.
// A control that is missing from the start yields the initial page.
func (l *LoadMore) Navigate(ctx context.Context, seed model.Seed, target model.Date) Result {
	logger := seedLogger(l.deps.Logger, seed)
	settings := l.deps.Settings

	sess, err := openSession(ctx, l.deps.Launcher, seed.PageURL)
	if err != nil {
		return failed(0, err)
	}
	defer closeSession(sess, logger)

	steps := 0
	for {
		if stepLimitReached(steps, settings.MaxSteps) {
			logger.Warn("navigation step limit reached", "steps", steps)
			snap, err := capture(ctx, sess, seed.PageURL)
			if err != nil {
				return failed(steps, err)
			}
			return exhausted(snap, steps, ErrStepLimit)
		}

		if err := sess.ClickText(ctx, settings.LoadMoreTag, settings.LoadMoreText); err != nil {
			if !render.IsElementMissing(err) {
				return failed(steps, err)
			}
			logger.Info("load more control unavailable", "error", err, "steps", steps)
			snap, cerr := capture(ctx, sess, seed.PageURL)
			if cerr != nil {
				return failed(steps, cerr)
			}
			return exhausted(snap, steps, err)
		}
		steps++
		if err := l.deps.Sleeper.Sleep(ctx, settings.SettleDelay); err != nil {
			return failed(steps, err)
		}

		snap, err := capture(ctx, sess, seed.PageURL)
		if err != nil {
			return failed(steps, err)
		}
		ok, err := l.deps.Matcher.InSnapshot(snap, target)
		if err != nil {
			return failed(steps, fmt.Errorf("parse rendered page: %w", err))
		}
		if ok {
			logger.Debug("target date found", "steps", steps)
			return found(snap, steps)
		}
	}
}

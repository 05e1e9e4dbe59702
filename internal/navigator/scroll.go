package navigator

import (
	"context"
	"fmt"

	"github.com/nao1215/datecrawl/internal/model"
)

// InfiniteScroll scrolls a rendered page until its height stops growing.
type InfiniteScroll struct {
	deps Deps
}

// Navigate scrolls until the target date appears or no new content loads.
func (s *InfiniteScroll) Navigate(ctx context.Context, seed model.Seed, target model.Date) Result {
	logger := seedLogger(s.deps.Logger, seed)
	settings := s.deps.Settings

	sess, err := openSession(ctx, s.deps.Launcher, seed.PageURL)
	if err != nil {
		return failed(0, err)
	}
	defer closeSession(sess, logger)

	lastHeight, err := sess.Height(ctx)
	if err != nil {
		return failed(0, err)
	}

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

		if err := sess.ScrollToBottom(ctx); err != nil {
			return failed(steps, err)
		}
		steps++
		if err := s.deps.Sleeper.Sleep(ctx, settings.SettleDelay); err != nil {
			return failed(steps, err)
		}

		height, err := sess.Height(ctx)
		if err != nil {
			return failed(steps, err)
		}
		snap, err := capture(ctx, sess, seed.PageURL)
		if err != nil {
			return failed(steps, err)
		}
		if height == lastHeight {
			logger.Debug("no more content to load", "steps", steps)
			return exhausted(snap, steps, nil)
		}
		lastHeight = height

		ok, err := s.deps.Matcher.InSnapshot(snap, target)
		if err != nil {
			return failed(steps, fmt.Errorf("parse rendered page: %w", err))
		}
		if ok {
			logger.Debug("target date found", "steps", steps)
			return found(snap, steps)
		}
	}
}

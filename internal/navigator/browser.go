package navigator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/datecrawl/internal/model"
	"github.com/nao1215/datecrawl/internal/render"
)

// openSession opens a session and loads the seed page. On error the session,
// if any, is already closed.
func openSession(ctx context.Context, launcher render.Launcher, pageURL string) (render.Session, error) {
	sess, err := launcher.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}
	if err := sess.Navigate(ctx, pageURL); err != nil {
		_ = sess.Close() //nolint:errcheck // navigation error takes precedence
		return nil, err
	}
	return sess, nil
}

func closeSession(sess render.Session, logger *slog.Logger) {
	if err := sess.Close(); err != nil {
		logger.Warn("failed to close browser session", "error", err)
	}
}

// capture snapshots the session's current document.
func capture(ctx context.Context, sess render.Session, fallbackURL string) (*model.Snapshot, error) {
	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, err
	}
	pageURL := sess.URL()
	if pageURL == "" {
		pageURL = fallbackURL
	}
	return model.NewSnapshot(pageURL, []byte(html)), nil
}

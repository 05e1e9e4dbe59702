package render

import (
	"context"
	"errors"
)

var (
	// ErrElementNotFound is returned by ClickText when no element matches.
	// Navigators treat it as "no more content", not as a failure.
	ErrElementNotFound = errors.New("element not found")

	// ErrElementNotClickable is returned when a matching element exists but
	// cannot be clicked (hidden, detached, covered).
	ErrElementNotClickable = errors.New("element not clickable")

	// ErrSessionClosed is returned by any call made after Close.
	ErrSessionClosed = errors.New("render session closed")
)

// Session is a single browser page.
type Session interface {
	// Navigate loads pageURL and waits for the load event.
	Navigate(ctx context.Context, pageURL string) error

	// ScrollToBottom scrolls the window to the bottom of the document.
	ScrollToBottom(ctx context.Context) error

	// Height returns document.body.scrollHeight.
	Height(ctx context.Context) (int, error)

	// ClickText clicks the first element matching tag whose text contains text.
	ClickText(ctx context.Context, tag, text string) error

	// HTML returns the current rendered document.
	HTML(ctx context.Context) (string, error)

	// URL returns the current page URL.
	URL() string

	// Close releases the page and its browser. Safe to call more than once.
	Close() error
}

// Launcher opens browser sessions.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

// IsElementMissing reports whether err means the requested element is absent
// or cannot be clicked.
func IsElementMissing(err error) bool {
	return errors.Is(err, ErrElementNotFound) || errors.Is(err, ErrElementNotClickable)
}

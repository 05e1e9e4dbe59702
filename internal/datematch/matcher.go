package datematch

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/datecrawl/internal/model"
)

// DefaultSelector selects the date-bearing elements on listing pages.
const DefaultSelector = "time"

// Matches reports whether text parses to target's calendar date.
// Empty or malformed text never matches.
func Matches(text string, target model.Date) bool {
	d, err := Parse(text)
	if err != nil {
		return false
	}
	return d.Equal(target)
}

// MatchesTime reports whether t falls on target's calendar date in t's own zone.
// A nil time never matches.
func MatchesTime(t *time.Time, target model.Date) bool {
	if t == nil || t.IsZero() {
		return false
	}
	return model.DateOf(*t).Equal(target)
}

// Matcher scans documents for date elements equal to a target date.
type Matcher struct {
	selector string
	logger   *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithSelector sets the CSS selector for date-bearing elements.
// An empty selector keeps the default.
func WithSelector(selector string) Option {
	return func(m *Matcher) {
		if selector != "" {
			m.selector = selector
		}
	}
}

// WithLogger sets the logger used to report unparseable dates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMatcher creates a Matcher.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		selector: DefaultSelector,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Selector returns the configured element selector.
func (m *Matcher) Selector() string {
	return m.selector
}

// Matches is like the package-level Matches but logs parse failures.
func (m *Matcher) Matches(text string, target model.Date) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	d, err := Parse(text)
	if err != nil {
		m.logger.Debug("unable to parse date", "text", text, "error", err)
		return false
	}
	return d.Equal(target)
}

// InDocument reports whether any selected element carries the target date.
// The datetime attribute is preferred; element text is used when it is absent.
func (m *Matcher) InDocument(doc *goquery.Document, target model.Date) bool {
	found := false
	doc.Find(m.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text, ok := s.Attr("datetime")
		if !ok {
			text = s.Text()
		}
		if m.Matches(text, target) {
			found = true
			return false
		}
		return true
	})
	return found
}

// InSnapshot parses snap and reports whether it contains the target date.
func (m *Matcher) InSnapshot(snap *model.Snapshot, target model.Date) (bool, error) {
	if snap == nil {
		return false, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(snap.HTML))
	if err != nil {
		return false, err
	}
	return m.InDocument(doc, target), nil
}

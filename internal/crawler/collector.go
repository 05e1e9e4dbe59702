package crawler

import (
	"fmt"

	"github.com/nao1215/datecrawl/internal/model"
)

// Collector turns a listing snapshot into candidate article links.
type Collector struct {
	filter LinkFilter
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithIgnorePatterns drops links whose path matches any pattern.
func WithIgnorePatterns(patterns []string) CollectorOption {
	return func(c *Collector) {
		c.filter.ignore = compact(patterns)
	}
}

// WithFollowPatterns keeps only links whose path matches one of the patterns.
func WithFollowPatterns(patterns []string) CollectorOption {
	return func(c *Collector) {
		c.filter.follow = compact(patterns)
	}
}

// NewCollector creates a Collector.
func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse parses snap against its site root and applies the link filter.
func (c *Collector) Parse(snap *model.Snapshot) (*ParseResult, error) {
	if snap == nil {
		return &ParseResult{Links: []string{}, InternalLinks: []string{}, ExternalLinks: []string{}}, nil
	}

	root, err := snap.SiteRoot()
	if err != nil {
		return nil, fmt.Errorf("resolve site root of %q: %w", snap.URL, err)
	}
	parser := &Parser{baseURL: root}

	result, err := parser.Parse(snap.Reader())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", snap.URL, err)
	}
	if c.filter.Empty() {
		return result, nil
	}

	filtered := &ParseResult{
		Title:         result.Title,
		Links:         make([]string, 0, len(result.Links)),
		InternalLinks: make([]string, 0, len(result.InternalLinks)),
		ExternalLinks: make([]string, 0, len(result.ExternalLinks)),
	}
	for _, link := range result.Links {
		if c.filter.Allow(link) {
			filtered.Links = append(filtered.Links, link)
		}
	}
	for _, link := range result.InternalLinks {
		if c.filter.Allow(link) {
			filtered.InternalLinks = append(filtered.InternalLinks, link)
		}
	}
	for _, link := range result.ExternalLinks {
		if c.filter.Allow(link) {
			filtered.ExternalLinks = append(filtered.ExternalLinks, link)
		}
	}
	return filtered, nil
}

// Collect returns the deduplicated links of snap in first-seen order.
func (c *Collector) Collect(snap *model.Snapshot) ([]string, error) {
	result, err := c.Parse(snap)
	if err != nil {
		return nil, err
	}
	return result.Links, nil
}

package model

import (
	"fmt"
	"net/url"
	"strings"
)

// NavigationType identifies how a site reveals older content.
type NavigationType int

const (
	// NavigationPagination walks numbered pages: {page_url}/page/{n}/.
	NavigationPagination NavigationType = iota

	// NavigationInfiniteScroll scrolls a rendered page until its height stops growing.
	NavigationInfiniteScroll

	// NavigationLoadMore repeatedly clicks a "Load More" control on a rendered page.
	NavigationLoadMore
)

// navigationNames maps accepted input spellings to navigation types.
// "load_more_button" is the spelling used by older seed files.
var navigationNames = map[string]NavigationType{
	"pagination":       NavigationPagination,
	"infinite_scroll":  NavigationInfiniteScroll,
	"load_more":        NavigationLoadMore,
	"load_more_button": NavigationLoadMore,
}

// String returns the canonical seed-file spelling of the navigation type.
func (n NavigationType) String() string {
	switch n {
	case NavigationPagination:
		return "pagination"
	case NavigationInfiniteScroll:
		return "infinite_scroll"
	case NavigationLoadMore:
		return "load_more"
	default:
		return "unknown"
	}
}

// NeedsBrowser reports whether the navigation type requires a rendered page.
func (n NavigationType) NeedsBrowser() bool {
	return n == NavigationInfiniteScroll || n == NavigationLoadMore
}

// ParseNavigationType converts a seed-file value into a NavigationType.
// Matching ignores case, surrounding spaces, and treats '-' and ' ' like '_'.
func ParseNavigationType(s string) (NavigationType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if n, ok := navigationNames[key]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("unknown navigation type %q", s)
}

// Seed is a site page to start from and the strategy used to navigate it.
type Seed struct {
	// PageURL is the absolute URL of the listing page.
	PageURL string `json:"page_url"`

	// Navigation selects the navigator variant for this seed.
	Navigation NavigationType `json:"navigation_type"`
}

// NewSeed validates pageURL and returns a Seed.
// The URL must be absolute with an http or https scheme.
func NewSeed(pageURL string, navigation NavigationType) (Seed, error) {
	pageURL = strings.TrimSpace(pageURL)
	u, err := url.Parse(pageURL)
	if err != nil {
		return Seed{}, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Seed{}, fmt.Errorf("page url %q must use http or https", pageURL)
	}
	if u.Host == "" {
		return Seed{}, fmt.Errorf("page url %q has no host", pageURL)
	}
	return Seed{PageURL: pageURL, Navigation: navigation}, nil
}

// Host returns the lower-cased host of the seed's page URL, or "" if it cannot be parsed.
func (s Seed) Host() string {
	u, err := url.Parse(s.PageURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

package config

import (
	"fmt"
	"maps"
	"strings"
)

// SiteConfig holds the crawl profile for a single site.
// Zero values mean "use the global setting or built-in default".
type SiteConfig struct {
	// Cookie is an HTTP cookie to send to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// NextSelector selects the pagination "next" link.
	NextSelector string `yaml:"nextSelector,omitempty"`

	// DateSelector selects the date elements on listing pages.
	DateSelector string `yaml:"dateSelector,omitempty"`

	// LoadMoreText is matched against the load-more control's text.
	LoadMoreText string `yaml:"loadMoreText,omitempty"`

	// LoadMoreTag is the element type of the load-more control.
	LoadMoreTag string `yaml:"loadMoreTag,omitempty"`

	// MaxSteps overrides the global navigation bound. 0 means unbounded.
	MaxSteps *int `yaml:"maxSteps,omitempty"`

	// StartPage is the first pagination page number.
	StartPage int `yaml:"startPage,omitempty"`

	// IgnorePatterns are URL path patterns whose links are not collected.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns, if set, restrict collected links to matching paths.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// Validate reports invalid numeric fields.
func (sc SiteConfig) Validate() error {
	if sc.MaxSteps != nil && *sc.MaxSteps < 0 {
		return ErrInvalidMaxSteps
	}
	if sc.StartPage < 0 {
		return ErrInvalidStartPage
	}
	return nil
}

// File represents the structure of the .datecrawl configuration file.
type File struct {
	// Sites maps hosts to their profiles, e.g. "news.example.com".
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// Validate checks the defaults and every site profile.
func (cf *File) Validate() error {
	if err := cf.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for host, site := range cf.Sites {
		if err := site.Validate(); err != nil {
			return fmt.Errorf("site %s: %w", host, err)
		}
	}
	return nil
}

// lookup finds the profile for host, trying the bare host when host has a
// "www." prefix and the "www." form when it does not.
func (cf *File) lookup(host string) (SiteConfig, bool) {
	host = strings.ToLower(host)
	if sc, ok := cf.Sites[host]; ok {
		return sc, true
	}
	alt := "www." + host
	if trimmed, found := strings.CutPrefix(host, "www."); found {
		alt = trimmed
	}
	sc, ok := cf.Sites[alt]
	return sc, ok
}

// GetSiteConfig returns the configuration for host, merged over defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if cf.Defaults.Headers != nil {
		result.Headers = maps.Clone(cf.Defaults.Headers)
	}

	siteConfig, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, siteConfig.Headers)
	}
	if siteConfig.NextSelector != "" {
		result.NextSelector = siteConfig.NextSelector
	}
	if siteConfig.DateSelector != "" {
		result.DateSelector = siteConfig.DateSelector
	}
	if siteConfig.LoadMoreText != "" {
		result.LoadMoreText = siteConfig.LoadMoreText
	}
	if siteConfig.LoadMoreTag != "" {
		result.LoadMoreTag = siteConfig.LoadMoreTag
	}
	if siteConfig.MaxSteps != nil {
		result.MaxSteps = siteConfig.MaxSteps
	}
	if siteConfig.StartPage != 0 {
		result.StartPage = siteConfig.StartPage
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	if len(siteConfig.FollowPatterns) > 0 {
		result.FollowPatterns = siteConfig.FollowPatterns
	}

	return result
}

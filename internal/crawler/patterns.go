package crawler

import (
	"net/url"
	"path/filepath"
	"strings"
)

// LinkFilter decides which collected links are kept, by URL path.
//
// Logic:
//  1. If the path matches any ignore pattern, drop it.
//  2. If follow patterns are set and the path matches none, drop it.
//  3. Otherwise keep it.
type LinkFilter struct {
	ignore []string
	follow []string
}

// NewLinkFilter creates a LinkFilter. Empty patterns are discarded.
func NewLinkFilter(ignore, follow []string) LinkFilter {
	return LinkFilter{ignore: compact(ignore), follow: compact(follow)}
}

// Empty reports whether the filter keeps every link.
func (f LinkFilter) Empty() bool {
	return len(f.ignore) == 0 && len(f.follow) == 0
}

// Allow reports whether link passes the filter.
func (f LinkFilter) Allow(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range f.ignore {
		if matchPattern(pattern, path) {
			return false
		}
	}
	if len(f.follow) == 0 {
		return true
	}
	for _, pattern := range f.follow {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

func compact(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//   - a trailing /* to match everything below a prefix
//
// Examples:
//   - "/tag/*" matches "/tag/politics", "/tag/politics/page/2"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/20??/*/*/*" matches "/2024/05/01/story"
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Patterns without a slash also match the last path segment.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}

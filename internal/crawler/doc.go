// Package crawler collects candidate article links from a listing snapshot.
//
// # Components
//
//   - Parser: walks an HTML document with golang.org/x/net/html and extracts
//     the page title and every resolvable <a href>.
//   - Collector: resolves links against the snapshot's site root, applies
//     optional follow/ignore path patterns, and deduplicates them.
//
// # Resolution rules
//
// Relative links are resolved against scheme://host of the page, not the
// full page URL. Fragments are dropped. javascript:, mailto:, tel:, data:
// and bare "#" hrefs are skipped, as is anything that does not resolve to
// http or https.
//
// # Usage
//
//	collector := crawler.NewCollector(crawler.WithIgnorePatterns([]string{"/tag/*"}))
//	links, err := collector.Collect(snapshot)
package crawler

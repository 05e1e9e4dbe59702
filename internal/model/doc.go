// Package model defines the core data structures shared by the crawler.
//
// This package contains the following main types:
//   - Seed and NavigationType: a site entry and the strategy used to reveal more content
//   - Date: a calendar date with no time-of-day component (the run's target date)
//   - Snapshot: the fetched or rendered document at the point navigation stops
//   - LinkSet: a concurrency-safe set of absolute article URLs
//   - ArticleRecord: a same-day article ready for output
//   - SeedRun and RunSummary: per-seed and per-run bookkeeping
//
// Multiple packages (navigator, pipeline, article, report, database) use these
// types, so they live here to avoid import cycles.
package model

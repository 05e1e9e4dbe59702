// Package database archives crawl runs in SQLite.
//
// The Archive stores one row per run, one row per seed in that run, and every
// article record the run produced. Articles are keyed by link and date, so
// re-running a crawl for the same day refreshes rows instead of duplicating
// them. The archive is write-mostly: crawls never read it back, it only feeds
// the history command.
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver.
package database

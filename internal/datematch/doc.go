// Package datematch decides whether a date found on a page equals the run's
// target date.
//
// All date-parsing fallback policy lives here so that navigation (which looks
// at listing pages) and article filtering (which looks at article metadata)
// agree on what "published on the target date" means. Comparison is by
// calendar date only: time of day and zone offset are dropped without
// converting between zones.
package datematch

// Package config provides configuration structures and utilities for datecrawl.
//
// Configuration comes from two layers:
//   - Config holds run-wide options set from CLI flags: target date, worker
//     count, pacing, navigation bounds, timeouts and output locations.
//   - File holds per-site profiles read from the .datecrawl YAML file. A
//     profile supplies selectors, cookies, headers and link patterns for one
//     host; the defaults section fills fields a site leaves empty.
//
// Lookups match hosts case-insensitively and treat "www.example.com" and
// "example.com" as the same site. FindConfigFile searches the working
// directory, the home directory, and the XDG config directory in that order.
//
// NavigationSettings merges both layers into navigator.Settings: a site's
// maxSteps overrides the global bound, and a global settle delay of zero
// becomes navigator.NoSettleDelay.
package config

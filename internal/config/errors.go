package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and SiteConfig.Validate()
// and can be matched with errors.Is().
var (
	// ErrNoSeedFile is returned when no seed CSV path is configured.
	ErrNoSeedFile = errors.New("no seed file specified: use --seeds")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidPacing is returned when the per-seed pacing delay is negative.
	// Use 0 for no pause between seeds.
	ErrInvalidPacing = errors.New("invalid pacing: must be non-negative")

	// ErrInvalidSettleDelay is returned when the scroll/click settle delay is negative.
	ErrInvalidSettleDelay = errors.New("invalid settle delay: must be non-negative")

	// ErrInvalidMaxSteps is returned when the navigation step bound is negative.
	// Use 0 for unbounded navigation.
	ErrInvalidMaxSteps = errors.New("invalid max steps: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidFilterWorkers is returned when the article filter worker count is not positive.
	ErrInvalidFilterWorkers = errors.New("invalid filter workers: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to keep the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidRate is returned when the per-host request rate is negative.
	// Use 0 to disable rate limiting.
	ErrInvalidRate = errors.New("invalid rate: must be non-negative")

	// ErrInvalidStartPage is returned when a site profile's start page is negative.
	ErrInvalidStartPage = errors.New("invalid start page: must be non-negative")
)

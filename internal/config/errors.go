package config

import "errors"

// Configuration validation errors, returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than error values
// created inside Validate(). Callers can use errors.Is() for programmatic
// handling while the messages stay human-readable.
var (
	// ErrNoSeeds is returned when no seed hostname is specified.
	ErrNoSeeds = errors.New("no seed specified: provide at least one hostname")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxWorkers is returned when the worker count is not positive.
	ErrInvalidMaxWorkers = errors.New("invalid max workers: must be positive")

	// ErrInvalidDepthLimit is returned when the depth limit is negative.
	// Use 0 to crawl only the seed sites.
	ErrInvalidDepthLimit = errors.New("invalid depth limit: must be non-negative")

	// ErrInvalidPagesLimit is returned when the per-site page limit is
	// zero or below -1. Use -1 for an unbounded crawl.
	ErrInvalidPagesLimit = errors.New("invalid pages limit: must be positive or -1 for unlimited")

	// ErrInvalidLinkedSitesLimit is returned when the linked-sites limit
	// is negative.
	ErrInvalidLinkedSitesLimit = errors.New("invalid linked sites limit: must be non-negative")

	// ErrInvalidPort is returned when the port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)

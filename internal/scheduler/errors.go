package scheduler

import "errors"

var (
	// ErrInvalidConcurrency is returned when the worker bound is below one.
	ErrInvalidConcurrency = errors.New("scheduler: max concurrency must be at least 1")

	// ErrNilCrawlFunc is returned when no crawl function is provided.
	ErrNilCrawlFunc = errors.New("scheduler: crawl function is required")
)

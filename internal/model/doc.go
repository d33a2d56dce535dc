// Package model defines the core data structures used throughout Web Reaper.
//
// This package contains the following main types:
//   - PageStats: The result of a single page fetch attempt
//   - SiteStats: The aggregate result of crawling one website
//   - PendingTask: A (site, depth) pair waiting in the cross-site frontier
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, scheduler, report, database) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model

// Package report renders crawl results in human-readable, JSON, and
// Markdown formats.
package report

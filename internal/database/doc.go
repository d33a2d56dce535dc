// Package database provides SQLite-based persistence for crawl results,
// enabling historical comparison between runs.
package database

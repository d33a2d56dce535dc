// Package log provides slog-based logging with URL credential scrubbing
// and optional size-rotated file output.
package log

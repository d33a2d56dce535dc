package report

import (
	"io"

	"github.com/RSM610/Web-Reaper/internal/model"
)

// Writer defines the interface for report output.
// Implementations render one site's crawl results in a specific format.
//
// Design decision: an interface rather than format flags on a single
// writer. This enables writing to files, stdout, or both with the same
// API, and keeps each format self-contained.
type Writer interface {
	// Write outputs the site's crawl results to the configured
	// destination. Returns the number of bytes written and any error
	// encountered.
	Write(stats *model.SiteStats, depth int) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: a separate type rather than io.MultiWriter because our
// Writer interface is different from io.Writer, we write crawl results,
// not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the results to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(stats *model.SiteStats, depth int) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(stats, depth)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/RSM610/Web-Reaper/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: plain text with ASCII formatting rather than ANSI
// colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-page listing in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-page response time listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the site's crawl results in human-readable format.
func (w *SimpleWriter) Write(stats *model.SiteStats, depth int) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Website:        %s\n", stats.Hostname))
	sb.WriteString(fmt.Sprintf("Depth:          %d\n", depth))
	sb.WriteString(fmt.Sprintf("Pages Visited:  %d\n", stats.VisitedCount()))
	sb.WriteString(fmt.Sprintf("Pages Failed:   %d\n", stats.PagesFailed))

	w.writeLinkedSites(&sb, stats)
	w.writeResponseTimes(&sb, stats)

	if w.verbose {
		w.writePages(&sb, stats)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeLinkedSites writes the linked sites section.
func (w *SimpleWriter) writeLinkedSites(sb *strings.Builder, stats *model.SiteStats) {
	sb.WriteString(fmt.Sprintf("Linked Sites:   %d\n", len(stats.LinkedSites)))
	for _, hostname := range stats.LinkedSites {
		sb.WriteString(fmt.Sprintf("  - %s\n", hostname))
	}
}

// writeResponseTimes writes the aggregate timing section.
func (w *SimpleWriter) writeResponseTimes(sb *strings.Builder, stats *model.SiteStats) {
	sb.WriteString("Response Times:\n")
	sb.WriteString(fmt.Sprintf("  Min: %s\n", formatMillis(stats.MinResponseTime)))
	sb.WriteString(fmt.Sprintf("  Max: %s\n", formatMillis(stats.MaxResponseTime)))
	sb.WriteString(fmt.Sprintf("  Avg: %s\n", formatMillis(stats.AverageResponseTime)))
}

// writePages writes the per-page listing.
func (w *SimpleWriter) writePages(sb *strings.Builder, stats *model.SiteStats) {
	sb.WriteString("Pages:\n")
	for _, page := range stats.Pages {
		sb.WriteString(fmt.Sprintf("  %s (%s)\n", page.URL, formatMillis(page.ResponseTime)))
	}
}

// formatMillis renders a millisecond value, or "n/a" for the
// no-response sentinel.
func formatMillis(ms float64) string {
	if ms < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f ms", ms)
}

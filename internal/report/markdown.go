package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/RSM610/Web-Reaper/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the site's crawl results in Markdown format.
func (w *MarkdownWriter) Write(stats *model.SiteStats, depth int) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, stats, depth)
	w.writePages(md, stats)
	w.writeLinkedSites(md, stats)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table and the success/failure chart.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, stats *model.SiteStats, depth int) {
	md.H2f("Crawl Report: %s", stats.Hostname)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Hostname", "`" + stats.Hostname + "`"},
			{"Depth", strconv.Itoa(depth)},
			{"Pages Visited", strconv.Itoa(stats.VisitedCount())},
			{"Pages Failed", strconv.Itoa(stats.PagesFailed)},
			{"Min Response Time", formatMillis(stats.MinResponseTime)},
			{"Max Response Time", formatMillis(stats.MaxResponseTime)},
			{"Avg Response Time", formatMillis(stats.AverageResponseTime)},
		},
	})
	md.PlainText("")

	if stats.VisitedCount() > 0 {
		w.writePieChart(md, stats)
	}

	if stats.PagesFailed > 0 {
		md.Warningf("%d page(s) could not be fetched.", stats.PagesFailed)
	} else {
		md.Tip("All pages fetched successfully.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of fetch outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats *model.SiteStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	if succeeded := stats.SucceededCount(); succeeded > 0 {
		chart.LabelAndIntValue("Succeeded", uint64(succeeded))
	}
	if stats.PagesFailed > 0 {
		chart.LabelAndIntValue("Failed", uint64(stats.PagesFailed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePages writes the per-page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, stats *model.SiteStats) {
	md.H3("Pages")
	md.PlainText("")

	if len(stats.Pages) == 0 {
		md.PlainText("No pages fetched.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(stats.Pages))
	for i, page := range stats.Pages {
		rows[i] = []string{
			"`" + page.URL + "`",
			formatMillis(page.ResponseTime),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Response Time"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLinkedSites writes the linked sites section.
func (w *MarkdownWriter) writeLinkedSites(md *markdown.Markdown, stats *model.SiteStats) {
	md.H3("Linked Sites")
	md.PlainText("")

	if len(stats.LinkedSites) == 0 {
		md.PlainText("No external sites linked.")
		md.PlainText("")
		return
	}

	md.BulletList(stats.LinkedSites...)
	md.PlainText("")
}

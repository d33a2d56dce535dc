package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RSM610/Web-Reaper/internal/config"
	"github.com/RSM610/Web-Reaper/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [hostname]",
		Short: "Show stored crawl results",
		Long: `History reads the crawl database and shows previous results.

Without arguments it lists every crawled hostname. With a hostname it
shows that site's crawls, newest first.

Examples:
  # List all crawled sites
  webreaper history

  # Show the crawl history of one site
  webreaper history example.com

  # Include per-page response times
  webreaper history --pages example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Directory of the crawl history database (default: XDG data directory)")
	cmd.Flags().Bool("pages", false,
		"Show per-page response times for each crawl")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	showPages, err := cmd.Flags().GetBool("pages")
	if err != nil {
		return err
	}

	// The database must already exist; history never creates one.
	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database (run a crawl first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 0 {
		return listSites(ctx, cmd, db)
	}
	return showSiteHistory(ctx, cmd, db, args[0], showPages)
}

// listSites prints every hostname present in the database.
func listSites(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB) error {
	sites, err := db.ListCrawledSites(ctx)
	if err != nil {
		return err
	}

	if len(sites) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawls recorded yet.")
		return nil
	}

	for _, hostname := range sites {
		fmt.Fprintln(cmd.OutOrStdout(), hostname)
	}
	return nil
}

// showSiteHistory prints the stored crawls of one hostname.
func showSiteHistory(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB, hostname string, showPages bool) error {
	crawls, err := db.GetCrawlHistory(ctx, hostname)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(crawls) == 0 {
		fmt.Fprintf(out, "No crawls recorded for %s.\n", hostname)
		return nil
	}

	for _, crawl := range crawls {
		fmt.Fprintln(out, strings.Repeat("-", 70))
		fmt.Fprintf(out, "Crawled:        %s\n", crawl.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Depth:          %d\n", crawl.Depth)
		fmt.Fprintf(out, "Pages Visited:  %d\n", crawl.PagesVisited)
		fmt.Fprintf(out, "Pages Failed:   %d\n", crawl.PagesFailed)
		fmt.Fprintf(out, "Linked Sites:   %d\n", len(crawl.LinkedSites))
		fmt.Fprintf(out, "Avg Response:   %s\n", formatHistoryMillis(crawl.AvgResponseMs))

		if showPages {
			pages, err := db.GetPageFetches(ctx, crawl.ID)
			if err != nil {
				return err
			}
			for _, page := range pages {
				fmt.Fprintf(out, "  %s (%s)\n", page.URL, formatHistoryMillis(page.ResponseTime))
			}
		}
	}
	return nil
}

// formatHistoryMillis renders a millisecond value, or "n/a" for the
// no-response sentinel.
func formatHistoryMillis(ms float64) string {
	if ms < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f ms", ms)
}

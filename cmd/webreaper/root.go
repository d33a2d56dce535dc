// Package main provides the entry point for the Web Reaper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for Web Reaper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webreaper",
		Short: "Multi-site web crawler with response time measurement",
		Long: `Web Reaper crawls websites breadth-first over plain HTTP, measures per-page
response times, and follows links to other sites up to a configurable depth.

Each crawled site gets a report with the pages visited, the pages that
failed, the sites it links to, and min/max/average response times.`,
		Version:       resolveBuildInfo().version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

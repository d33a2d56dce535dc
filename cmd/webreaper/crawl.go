package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/RSM610/Web-Reaper/internal/config"
	"github.com/RSM610/Web-Reaper/internal/crawler"
	"github.com/RSM610/Web-Reaper/internal/database"
	"github.com/RSM610/Web-Reaper/internal/log"
	"github.com/RSM610/Web-Reaper/internal/metrics"
	"github.com/RSM610/Web-Reaper/internal/model"
	"github.com/RSM610/Web-Reaper/internal/parser"
	"github.com/RSM610/Web-Reaper/internal/report"
	"github.com/RSM610/Web-Reaper/internal/scheduler"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [hostname...]",
		Short: "Crawl websites starting from the given seed hostnames",
		Long: `Crawl fetches pages from each seed site breadth-first over plain HTTP,
measures response times, and follows links to other sites up to the
configured depth.

Examples:
  # Crawl a single site
  webreaper crawl example.com

  # Crawl several seeds with four concurrent workers
  webreaper crawl --workers 4 example.com example.org

  # Follow cross-site links three levels deep, 25 pages per site
  webreaper crawl --depth 3 --pages 25 example.com

  # Output a Markdown report to a file
  webreaper crawl --markdown -o report.md example.com

  # Use a custom configuration file
  webreaper crawl -c myconfig.yaml example.com

Configuration file (.webreaper) example:
  crawlDelay: 500
  maxWorkers: 4
  depthLimit: 3
  pagesLimit: 25
  seedUrls:
    - example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between page requests within a site")
	cmd.Flags().IntP("workers", "w", config.DefaultMaxWorkers,
		"Number of sites crawled concurrently")
	cmd.Flags().IntP("depth", "d", config.DefaultDepthLimit,
		"Maximum cross-site link-following depth (0 crawls only the seeds)")
	cmd.Flags().IntP("pages", "p", config.DefaultPagesLimit,
		"Maximum pages fetched per site (-1 for unlimited)")
	cmd.Flags().Int("sites-limit", config.DefaultLinkedSitesLimit,
		"Maximum linked sites followed per crawled site")
	cmd.Flags().Int("port", config.DefaultPort,
		"TCP port to fetch pages from")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webreaper in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().String("db-dir", "",
		"Directory for the crawl history database (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Disable saving crawl results to the database")

	// Observability flags
	cmd.Flags().String("log-file", "",
		"Write logs to the specified file with size rotation (default: stderr)")
	cmd.Flags().String("metrics-addr", "",
		"Listen address for the Prometheus metrics endpoint (e.g. :9090)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and cobra flags.
// Precedence, lowest to highest: defaults, configuration file, flags the
// user actually set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURLs = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not
	// found. An absent default file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.SeedURLs = seedHostnames(cfg.SeedURLs)
	return cfg, nil
}

// seedHostnames reduces seed URLs to bare hostnames, so seeds may be given
// as full URLs (http://example.com/page) and plain hostnames alike. Empty
// entries are dropped.
func seedHostnames(seeds []string) []string {
	hostnames := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if hostname := parser.Hostname(strings.TrimSpace(seed)); hostname != "" {
			hostnames = append(hostnames, hostname)
		}
	}
	return hostnames
}

// applyFlags overlays explicitly set flags onto cfg. Flags left at their
// defaults do not clobber configuration file values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("delay") {
		if cfg.CrawlDelay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.MaxWorkers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("depth") {
		if cfg.DepthLimit, err = flags.GetInt("depth"); err != nil {
			return err
		}
	}
	if flags.Changed("pages") {
		if cfg.PagesLimit, err = flags.GetInt("pages"); err != nil {
			return err
		}
	}
	if flags.Changed("sites-limit") {
		if cfg.LinkedSitesLimit, err = flags.GetInt("sites-limit"); err != nil {
			return err
		}
	}
	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}

	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noDB
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	if cfg.LogFile, err = flags.GetString("log-file"); err != nil {
		return err
	}
	if cfg.MetricsAddr, err = flags.GetString("metrics-addr"); err != nil {
		return err
	}
	return nil
}

// setupLogger creates the structured logger for the run.
func setupLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFile != "" {
		return log.NewRotatingLogger(cfg.LogFile, cfg.Verbose)
	}
	return log.NewLogger(os.Stderr, cfg.Verbose)
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.SeedURLs,
		"workers", cfg.MaxWorkers,
		"depthLimit", cfg.DepthLimit,
		"pagesLimit", cfg.PagesLimit,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		stopMetrics := serveMetrics(cfg.MetricsAddr, m, logger)
		defer stopMetrics()
	}

	writer, closeWriter, err := buildReportWriter(cfg)
	if err != nil {
		return err
	}
	defer closeWriter()

	// One resolver for the whole run so the DNS cache spans sites.
	resolver := crawler.NewResolver(crawler.DefaultResolverSize, crawler.DefaultResolverTTL)

	crawlSite := func(ctx context.Context, hostname string) (*model.SiteStats, error) {
		site, err := crawler.NewSite(hostname,
			crawler.WithPort(cfg.Port),
			crawler.WithPageLimit(cfg.PagesLimit),
			crawler.WithCrawlDelay(cfg.CrawlDelay),
			crawler.WithResolver(resolver),
			crawler.WithLogger(logger),
			crawler.WithMetrics(m),
		)
		if err != nil {
			return nil, err
		}
		return site.Crawl(ctx)
	}

	sched, err := scheduler.New(crawlSite,
		&crawlReporter{ctx: ctx, writer: writer, db: db, logger: logger},
		scheduler.WithMaxConcurrency(cfg.MaxWorkers),
		scheduler.WithDepthLimit(cfg.DepthLimit),
		scheduler.WithLinkedSitesLimit(cfg.LinkedSitesLimit),
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := sched.Run(ctx, cfg.SeedURLs); err != nil {
		return err
	}
	logger.Info("crawl finished", "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// buildReportWriter builds the report writer from the configured format
// and destination. The returned cleanup closes the output file, if any.
func buildReportWriter(cfg *config.Config) (report.Writer, func(), error) {
	output := os.Stdout
	cleanup := func() {}

	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		output = f
		cleanup = func() { f.Close() }
	}

	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint()), cleanup, nil
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output), cleanup, nil
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose)), cleanup, nil
	}
}

// crawlReporter writes each completed site crawl to the report writer and,
// when enabled, to the database.
type crawlReporter struct {
	ctx    context.Context
	writer report.Writer
	db     *database.CrawlDB
	logger *slog.Logger
}

// Report implements scheduler.Reporter.
func (r *crawlReporter) Report(stats *model.SiteStats, depth int) error {
	if _, err := r.writer.Write(stats, depth); err != nil {
		return err
	}

	if r.db != nil {
		if _, err := r.db.SaveSiteStats(r.ctx, stats, depth); err != nil {
			// Persistence problems should not stop the crawl.
			r.logger.Error("failed to save crawl", "host", stats.Hostname, "error", err)
		}
	}
	return nil
}

// serveMetrics starts the Prometheus metrics endpoint. The returned stop
// function shuts the server down.
func serveMetrics(addr string, m *metrics.Metrics, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", "error", err)
		}
	}
}

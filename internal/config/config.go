package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultCrawlDelay is the politeness delay between page requests
	// within a site. 1 second is conservative and respectful of server
	// resources; lower values risk rate limiting.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultMaxWorkers is the number of sites crawled concurrently.
	// Higher values increase throughput but multiply open connections
	// and DNS traffic.
	DefaultMaxWorkers = 10

	// DefaultDepthLimit is the maximum link-following depth across sites.
	// Seeds are depth 0; a site found on a depth-n page is depth n+1.
	DefaultDepthLimit = 10

	// DefaultPagesLimit is the maximum number of pages fetched per site.
	// It prevents runaway crawling on large or infinitely-generating
	// sites. Use UnlimitedPages to disable the bound.
	DefaultPagesLimit = 10

	// DefaultLinkedSitesLimit bounds how many of a site's linked sites
	// are followed to the next depth.
	DefaultLinkedSitesLimit = 10

	// DefaultPort is the TCP port pages are fetched from.
	DefaultPort = 80

	// UnlimitedPages disables the per-site page bound.
	UnlimitedPages = -1

	// AppName is the application name used for XDG directory paths.
	AppName = "webreaper"
)

// Config holds all configuration options for a crawl.
// It is populated from defaults, then the optional configuration file,
// then CLI flags, and passed through the application via dependency
// injection rather than global state.
//
// Design decision: a single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// SeedURLs is the list of hostnames to start crawling from.
	// Must contain at least one entry.
	SeedURLs []string

	// CrawlDelay is the delay between page requests within a site.
	CrawlDelay time.Duration

	// MaxWorkers is the number of sites crawled concurrently.
	MaxWorkers int

	// DepthLimit is the maximum depth at which discovered sites are
	// still crawled. Depth 0 means only the seeds.
	DepthLimit int

	// PagesLimit is the maximum number of pages fetched per site.
	// UnlimitedPages disables the bound.
	PagesLimit int

	// LinkedSitesLimit bounds how many linked sites per crawled site are
	// considered for the next depth.
	LinkedSitesLimit int

	// Port is the TCP port to connect to on every site.
	Port int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .webreaper in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save crawl results to the database.
	SaveToDB bool

	// MetricsAddr is the listen address for the Prometheus metrics
	// endpoint. When empty, no metrics server is started.
	MetricsAddr string

	// LogFile is the path logs are written to. When empty, logs go to
	// stderr. Files are size-rotated.
	LogFile string
}

// NewConfig creates a new Config with default values.
//
// Design decision: a constructor instead of relying on zero values,
// because most defaults are non-zero. It also documents what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		CrawlDelay:       DefaultCrawlDelay,
		MaxWorkers:       DefaultMaxWorkers,
		DepthLimit:       DefaultDepthLimit,
		PagesLimit:       DefaultPagesLimit,
		LinkedSitesLimit: DefaultLinkedSitesLimit,
		Port:             DefaultPort,
	}
}

// XDGDataDir returns the XDG data directory for the crawler.
// On Linux: ~/.local/share/webreaper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the crawler.
// On Linux: ~/.config/webreaper
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found; fixing one error often makes the
// others irrelevant. Called once after CLI parsing, before any crawling.
func (c *Config) Validate() error {
	if len(c.SeedURLs) == 0 {
		return ErrNoSeeds
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxWorkers <= 0 {
		return ErrInvalidMaxWorkers
	}
	if c.DepthLimit < 0 {
		return ErrInvalidDepthLimit
	}
	if c.PagesLimit < UnlimitedPages || c.PagesLimit == 0 {
		return ErrInvalidPagesLimit
	}
	if c.LinkedSitesLimit < 0 {
		return ErrInvalidLinkedSitesLimit
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

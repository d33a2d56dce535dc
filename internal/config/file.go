package config

import "time"

// File is the YAML representation of the configuration file. All fields
// are optional; absent fields keep their current value.
//
// Example:
//
//	crawlDelay: 500
//	maxWorkers: 4
//	depthLimit: 3
//	pagesLimit: 25
//	linkedSitesLimit: 5
//	port: 8080
//	seedUrls:
//	  - example.com
//	  - example.org
type File struct {
	// CrawlDelay is the politeness delay in milliseconds.
	CrawlDelay *int `yaml:"crawlDelay"`

	// MaxWorkers is the number of sites crawled concurrently.
	MaxWorkers *int `yaml:"maxWorkers"`

	// DepthLimit is the maximum cross-site crawl depth.
	DepthLimit *int `yaml:"depthLimit"`

	// PagesLimit is the per-site page bound, -1 for unlimited.
	PagesLimit *int `yaml:"pagesLimit"`

	// LinkedSitesLimit bounds linked-site fan-out per crawled site.
	LinkedSitesLimit *int `yaml:"linkedSitesLimit"`

	// Port is the TCP port to fetch pages from.
	Port *int `yaml:"port"`

	// SeedURLs is the list of hostnames to start from. CLI arguments
	// take precedence when both are given.
	SeedURLs []string `yaml:"seedUrls"`
}

// Apply overlays the file's values onto cfg. Only fields present in the
// file are touched, so defaults and later CLI overrides survive.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.CrawlDelay != nil {
		cfg.CrawlDelay = time.Duration(*f.CrawlDelay) * time.Millisecond
	}
	if f.MaxWorkers != nil {
		cfg.MaxWorkers = *f.MaxWorkers
	}
	if f.DepthLimit != nil {
		cfg.DepthLimit = *f.DepthLimit
	}
	if f.PagesLimit != nil {
		cfg.PagesLimit = *f.PagesLimit
	}
	if f.LinkedSitesLimit != nil {
		cfg.LinkedSitesLimit = *f.LinkedSitesLimit
	}
	if f.Port != nil {
		cfg.Port = *f.Port
	}
	if len(f.SeedURLs) > 0 && len(cfg.SeedURLs) == 0 {
		cfg.SeedURLs = f.SeedURLs
	}
}

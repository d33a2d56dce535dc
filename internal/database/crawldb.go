package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/RSM610/Web-Reaper/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl results.
// It manages connection pooling and provides methods for saving and
// querying per-site statistics.
//
// Design decision: a single database file for all crawled sites rather
// than one file per site. This keeps cross-site queries (which sites link
// where, how response times compare) in plain SQL and simplifies backups.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "webreaper.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; more connections only help readers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per completed site crawl
	CREATE TABLE IF NOT EXISTS site_crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hostname TEXT NOT NULL,
		depth INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_visited INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		min_response_ms REAL NOT NULL,
		max_response_ms REAL NOT NULL,
		avg_response_ms REAL NOT NULL,
		linked_sites TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_site_crawls_hostname ON site_crawls(hostname);
	CREATE INDEX IF NOT EXISTS idx_site_crawls_timestamp ON site_crawls(timestamp);

	-- One row per fetched page, tied to its site crawl
	CREATE TABLE IF NOT EXISTS page_fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id INTEGER NOT NULL REFERENCES site_crawls(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		response_ms REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_page_fetches_crawl ON page_fetches(crawl_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SiteCrawl is a stored site crawl result.
type SiteCrawl struct {
	ID            int64
	Hostname      string
	Depth         int
	Timestamp     time.Time
	PagesVisited  int
	PagesFailed   int
	MinResponseMs float64
	MaxResponseMs float64
	AvgResponseMs float64
	LinkedSites   []string
}

// SaveSiteStats persists a finalized site crawl with all its page fetches.
// The site row and page rows are written in one transaction.
func (cdb *CrawlDB) SaveSiteStats(ctx context.Context, stats *model.SiteStats, depth int) (int64, error) {
	linkedJSON, err := json.Marshal(stats.LinkedSites)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize linked sites: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO site_crawls (hostname, depth, pages_visited, pages_failed, min_response_ms, max_response_ms, avg_response_ms, linked_sites)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		stats.Hostname,
		depth,
		stats.VisitedCount(),
		stats.PagesFailed,
		stats.MinResponseTime,
		stats.MaxResponseTime,
		stats.AverageResponseTime,
		string(linkedJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert site crawl: %w", err)
	}

	crawlID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl id: %w", err)
	}

	for _, page := range stats.Pages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO page_fetches (crawl_id, url, response_ms) VALUES (?, ?, ?)",
			crawlID, page.URL, page.ResponseTime,
		); err != nil {
			return 0, fmt.Errorf("failed to insert page fetch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}
	return crawlID, nil
}

// GetLatestCrawl retrieves the most recent crawl of a hostname.
// It returns nil without error when the hostname was never crawled.
func (cdb *CrawlDB) GetLatestCrawl(ctx context.Context, hostname string) (*SiteCrawl, error) {
	query := `
	SELECT id, hostname, depth, timestamp, pages_visited, pages_failed, min_response_ms, max_response_ms, avg_response_ms, linked_sites
	FROM site_crawls
	WHERE hostname = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	crawl, err := scanSiteCrawl(cdb.db.QueryRowContext(ctx, query, hostname))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest crawl: %w", err)
	}
	return crawl, nil
}

// GetCrawlHistory retrieves all crawls of a hostname, newest first.
func (cdb *CrawlDB) GetCrawlHistory(ctx context.Context, hostname string) ([]SiteCrawl, error) {
	query := `
	SELECT id, hostname, depth, timestamp, pages_visited, pages_failed, min_response_ms, max_response_ms, avg_response_ms, linked_sites
	FROM site_crawls
	WHERE hostname = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, hostname)
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl history: %w", err)
	}
	defer rows.Close()

	var results []SiteCrawl
	for rows.Next() {
		crawl, err := scanSiteCrawl(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}
		results = append(results, *crawl)
	}

	return results, rows.Err()
}

// ListCrawledSites returns every hostname present in the database.
func (cdb *CrawlDB) ListCrawledSites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT hostname FROM site_crawls
	ORDER BY hostname
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var hostname string
		if err := rows.Scan(&hostname); err != nil {
			return nil, fmt.Errorf("failed to scan hostname: %w", err)
		}
		sites = append(sites, hostname)
	}

	return sites, rows.Err()
}

// GetPageFetches retrieves the page rows of one site crawl in insert order.
func (cdb *CrawlDB) GetPageFetches(ctx context.Context, crawlID int64) ([]model.PageStats, error) {
	query := `
	SELECT url, response_ms FROM page_fetches
	WHERE crawl_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page fetches: %w", err)
	}
	defer rows.Close()

	var pages []model.PageStats
	for rows.Next() {
		var page model.PageStats
		if err := rows.Scan(&page.URL, &page.ResponseTime); err != nil {
			return nil, fmt.Errorf("failed to scan page fetch: %w", err)
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSiteCrawl(row rowScanner) (*SiteCrawl, error) {
	var crawl SiteCrawl
	var timestamp string
	var linkedJSON sql.NullString

	err := row.Scan(
		&crawl.ID,
		&crawl.Hostname,
		&crawl.Depth,
		&timestamp,
		&crawl.PagesVisited,
		&crawl.PagesFailed,
		&crawl.MinResponseMs,
		&crawl.MaxResponseMs,
		&crawl.AvgResponseMs,
		&linkedJSON,
	)
	if err != nil {
		return nil, err
	}

	crawl.Timestamp = parseTimestamp(timestamp)

	if linkedJSON.Valid && linkedJSON.String != "" {
		if err := json.Unmarshal([]byte(linkedJSON.String), &crawl.LinkedSites); err != nil {
			return nil, fmt.Errorf("failed to parse linked sites: %w", err)
		}
	}

	return &crawl, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

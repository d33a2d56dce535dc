package crawler

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/RSM610/Web-Reaper/internal/metrics"
	"github.com/RSM610/Web-Reaper/internal/model"
	"github.com/RSM610/Web-Reaper/internal/parser"
)

// UnlimitedPages disables the per-site page limit.
const UnlimitedPages = -1

// seedPath is the first page enqueued for every site crawl. The politeness
// delay is skipped for it so a site's first page is fetched immediately.
const seedPath = "/"

// Default crawl settings. The timeouts mirror classic interactive-crawler
// values: long enough for a slow shared host, short enough that a dead
// server costs only seconds per page.
const (
	DefaultPort           = 80
	DefaultCrawlDelay     = 1 * time.Second
	DefaultConnectTimeout = 10 * time.Second
	DefaultIOTimeout      = 10 * time.Second

	// readBufferSize is the per-read chunk size. 4KB comfortably holds a
	// typical response's status line and headers, so the first read -- the
	// one that stops the response timer -- usually carries real content.
	readBufferSize = 4096
)

// Site crawls the pages of a single host.
// It maintains a FIFO frontier of pending paths and a visited-path set, and
// fetches one page at a time over a fresh TCP connection.
//
// A Site is single-use: Crawl may be called once. It is not safe for
// concurrent use, and does not need to be; the scheduler gives each worker
// its own Site.
type Site struct {
	// hostname is the host to crawl. Used verbatim for dialing and for the
	// Host header; no case folding is applied.
	hostname string

	// port is the TCP port to connect to.
	port int

	// pageLimit bounds the number of recorded fetch attempts.
	// UnlimitedPages disables the bound.
	pageLimit int

	// crawlDelay is the politeness pause before every request except the
	// first.
	crawlDelay time.Duration

	// connectTimeout bounds connection establishment.
	connectTimeout time.Duration

	// ioTimeout bounds each individual read and write on the connection.
	ioTimeout time.Duration

	// resolver caches hostname lookups across pages. The crawl opens a
	// fresh connection per page, so without the cache every page would
	// cost a DNS round trip.
	resolver *Resolver

	// logger receives per-page debug output.
	logger *slog.Logger

	// metrics receives per-page counters. May be nil.
	metrics *metrics.Metrics
}

// Option configures a Site.
type Option func(*Site)

// WithPort sets the TCP port to connect to. Default is 80.
func WithPort(port int) Option {
	return func(s *Site) {
		s.port = port
	}
}

// WithPageLimit bounds the number of fetch attempts for the crawl.
// UnlimitedPages (the default) disables the bound.
func WithPageLimit(limit int) Option {
	return func(s *Site) {
		s.pageLimit = limit
	}
}

// WithCrawlDelay sets the politeness delay between requests.
func WithCrawlDelay(d time.Duration) Option {
	return func(s *Site) {
		s.crawlDelay = d
	}
}

// WithConnectTimeout sets the connection establishment timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Site) {
		s.connectTimeout = d
	}
}

// WithIOTimeout sets the per-read and per-write deadline.
func WithIOTimeout(d time.Duration) Option {
	return func(s *Site) {
		s.ioTimeout = d
	}
}

// WithResolver sets a shared DNS resolver. By default each Site creates its
// own; the scheduler passes one shared resolver so the cache spans sites.
func WithResolver(r *Resolver) Option {
	return func(s *Site) {
		s.resolver = r
	}
}

// WithLogger sets the logger for per-page debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Site) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors updated per page.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Site) {
		s.metrics = m
	}
}

// NewSite creates a crawler for the given hostname.
// It returns an error for a hostname that cannot possibly be dialed; those
// are the only fatal failures a site crawl has.
func NewSite(hostname string, opts ...Option) (*Site, error) {
	if hostname == "" {
		return nil, ErrEmptyHostname
	}
	if strings.ContainsAny(hostname, "/ \t\r\n") {
		return nil, ErrMalformedHostname
	}

	s := &Site{
		hostname:       hostname,
		port:           DefaultPort,
		pageLimit:      UnlimitedPages,
		crawlDelay:     DefaultCrawlDelay,
		connectTimeout: DefaultConnectTimeout,
		ioTimeout:      DefaultIOTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.port < 1 || s.port > 65535 {
		return nil, ErrInvalidPort
	}
	if s.resolver == nil {
		s.resolver = NewResolver(DefaultResolverSize, DefaultResolverTTL)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Crawl performs the breadth-first traversal of the site and returns its
// statistics. Per-page failures are recorded and never abort the crawl; the
// only error Crawl returns is context cancellation, and even then the
// statistics gathered so far are returned alongside it.
func (s *Site) Crawl(ctx context.Context) (*model.SiteStats, error) {
	stats := model.NewSiteStats(s.hostname)

	pending := []string{seedPath}
	discovered := map[string]bool{seedPath: true}

	for len(pending) > 0 && (s.pageLimit == UnlimitedPages || stats.VisitedCount() < s.pageLimit) {
		select {
		case <-ctx.Done():
			stats.Finalize()
			return stats, ctx.Err()
		default:
		}

		path := pending[0]
		pending = pending[1:]

		// Politeness delay for everything after the seed page.
		if path != seedPath && s.crawlDelay > 0 {
			select {
			case <-ctx.Done():
				stats.Finalize()
				return stats, ctx.Err()
			case <-time.After(s.crawlDelay):
			}
		}

		response, responseTime, err := s.fetchPage(ctx, path)
		if err != nil {
			// The server was never reached: count the failure, no page
			// record. Never retried.
			stats.RecordConnectionFailure()
			s.metrics.IncPageFailed()
			s.logger.Debug("page fetch failed",
				"host", s.hostname,
				"path", path,
				"error", err,
			)
			continue
		}

		stats.RecordPage(s.hostname+path, responseTime)
		if responseTime < 0 {
			s.metrics.IncPageFailed()
			s.logger.Debug("page returned no data", "host", s.hostname, "path", path)
		} else {
			s.metrics.IncPageFetched()
			s.metrics.ObserveResponseTime(time.Duration(responseTime * float64(time.Millisecond)))
		}

		// Feed extracted links back into the frontier. A link with an
		// empty hostname is relative and therefore internal.
		for _, link := range parser.Extract(response) {
			if link.Hostname == "" || link.Hostname == s.hostname {
				if !discovered[link.Path] {
					discovered[link.Path] = true
					pending = append(pending, link.Path)
				}
			} else {
				stats.AddLinkedSite(link.Hostname)
			}
		}
	}

	stats.Finalize()
	return stats, nil
}

// fetchPage retrieves one page over a fresh connection.
//
// The returned response time is the latency in milliseconds between writing
// the request and the first successful read, NOT the time to drain the whole
// response; a slowly trickling body does not inflate the metric. It is -1
// when the connection ended before any data arrived.
//
// An error is returned only when the request never reached the server
// (resolution, connect, or send failure). Read errors end the response; the
// bytes received up to that point are used as-is.
func (s *Site) fetchPage(ctx context.Context, path string) (string, float64, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return "", model.NoResponseTime, err
	}
	defer conn.Close()

	request := "GET " + path + " HTTP/1.1\r\n" +
		"Host: " + s.hostname + "\r\n" +
		"Connection: close\r\n\r\n"

	if err := conn.SetWriteDeadline(time.Now().Add(s.ioTimeout)); err != nil {
		return "", model.NoResponseTime, err
	}

	start := time.Now()
	if _, err := conn.Write([]byte(request)); err != nil {
		return "", model.NoResponseTime, err
	}

	responseTime := model.NoResponseTime
	var sb strings.Builder
	buf := make([]byte, readBufferSize)

	for {
		// Refresh the deadline per read so a trickling response is bounded
		// per chunk, not in total.
		if err := conn.SetReadDeadline(time.Now().Add(s.ioTimeout)); err != nil {
			break
		}

		n, err := conn.Read(buf)
		if n > 0 {
			if responseTime < 0 {
				responseTime = float64(time.Since(start)) / float64(time.Millisecond)
			}
			sb.Write(buf[:n])
		}
		if err != nil {
			// EOF is how "Connection: close" responses end; timeouts and
			// resets end the response the same way.
			break
		}
	}

	return sb.String(), responseTime, nil
}

// dial opens a TCP connection to the site, trying each resolved address
// until one accepts.
func (s *Site) dial(ctx context.Context) (net.Conn, error) {
	addrs, err := s.resolver.Lookup(ctx, s.hostname)
	if err != nil {
		return nil, err
	}

	dialer := net.Dialer{Timeout: s.connectTimeout}
	var lastErr error
	for _, addr := range addrs {
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(s.port)))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

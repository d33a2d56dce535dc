package crawler

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

// stubHostname is the hostname used for stub servers. It has to pass the
// domain allowlist so extracted self-links classify as internal; the
// resolver cache is pre-seeded to point it at the loopback listener.
const stubHostname = "stub.com"

// startStubServer starts a TCP listener whose accepted connections are each
// handed to handler. It returns the port the listener is bound to.
func startStubServer(t *testing.T, handler func(conn net.Conn)) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start stub server: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				handler(c)
			}(conn)
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

// newStubSite creates a Site for stubHostname wired to the stub listener,
// with the politeness delay disabled and short timeouts.
func newStubSite(t *testing.T, port int, opts ...Option) *Site {
	t.Helper()

	resolver := NewResolver(DefaultResolverSize, DefaultResolverTTL)
	resolver.cache.Add(stubHostname, []string{"127.0.0.1"})

	base := []Option{
		WithPort(port),
		WithResolver(resolver),
		WithCrawlDelay(0),
		WithConnectTimeout(2 * time.Second),
		WithIOTimeout(2 * time.Second),
	}
	site, err := NewSite(stubHostname, append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to create site: %v", err)
	}
	return site
}

// readRequest consumes the request headers so the stub can respond without
// racing the client's write.
func readRequest(conn net.Conn) string {
	var sb strings.Builder
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		sb.WriteString(line)
		if err != nil || line == "\r\n" {
			return sb.String()
		}
	}
}

// respondWith writes a minimal HTTP/1.1 response carrying body.
func respondWith(conn net.Conn, body string) {
	readRequest(conn)
	response := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/html\r\n" +
		"Connection: close\r\n\r\n" +
		body
	conn.Write([]byte(response)) //nolint:errcheck // Stub server; the test asserts on the client side
}

// TestSiteCrawlSinglePage verifies the base case: one page, no links.
func TestSiteCrawlSinglePage(t *testing.T) {
	t.Parallel()

	port := startStubServer(t, func(conn net.Conn) {
		respondWith(conn, "<html><body>no links here</body></html>")
	})

	site := newStubSite(t, port)
	stats, err := site.Crawl(context.Background())
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if stats.Hostname != stubHostname {
		t.Errorf("expected hostname %q, got %q", stubHostname, stats.Hostname)
	}
	if len(stats.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(stats.Pages))
	}
	if stats.Pages[0].URL != stubHostname+"/" {
		t.Errorf("expected URL %q, got %q", stubHostname+"/", stats.Pages[0].URL)
	}
	if stats.Pages[0].ResponseTime < 0 {
		t.Errorf("expected a positive response time, got %v", stats.Pages[0].ResponseTime)
	}
	if stats.PagesFailed != 0 {
		t.Errorf("expected no failed pages, got %d", stats.PagesFailed)
	}
	if stats.AverageResponseTime < 0 || stats.MinResponseTime < 0 || stats.MaxResponseTime < 0 {
		t.Errorf("expected aggregates to be set, got min=%v max=%v avg=%v",
			stats.MinResponseTime, stats.MaxResponseTime, stats.AverageResponseTime)
	}
}

// TestSiteCrawlImmediateClose verifies the zero-byte response case: the
// connection succeeds but the peer closes before sending anything.
func TestSiteCrawlImmediateClose(t *testing.T) {
	t.Parallel()

	port := startStubServer(t, func(conn net.Conn) {
		// Accept the request, then close without writing a byte.
		readRequest(conn)
	})

	site := newStubSite(t, port)
	stats, err := site.Crawl(context.Background())
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if len(stats.Pages) != 1 {
		t.Fatalf("expected exactly 1 page record, got %d", len(stats.Pages))
	}
	if !stats.Pages[0].Failed() {
		t.Errorf("expected the page record to carry the -1 sentinel, got %v", stats.Pages[0].ResponseTime)
	}
	if stats.PagesFailed != 1 {
		t.Errorf("expected 1 failed page, got %d", stats.PagesFailed)
	}
	if stats.AverageResponseTime != -1 || stats.MinResponseTime != -1 || stats.MaxResponseTime != -1 {
		t.Errorf("expected aggregates to stay at -1, got min=%v max=%v avg=%v",
			stats.MinResponseTime, stats.MaxResponseTime, stats.AverageResponseTime)
	}
}

// TestSiteCrawlConnectionRefused verifies that an unreachable server counts
// a failure without recording a page.
func TestSiteCrawlConnectionRefused(t *testing.T) {
	t.Parallel()

	// Grab a port and close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	site := newStubSite(t, port)
	stats, err := site.Crawl(context.Background())
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if len(stats.Pages) != 0 {
		t.Errorf("expected no page records, got %d", len(stats.Pages))
	}
	if stats.PagesFailed != 1 {
		t.Errorf("expected 1 failed page, got %d", stats.PagesFailed)
	}
}

// TestSiteCrawlFollowsInternalLinks verifies the breadth-first traversal and
// path deduplication.
func TestSiteCrawlFollowsInternalLinks(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"/": `<a href="http://stub.com/a">a</a>` +
			`<a href="http://stub.com/b">b</a>` +
			`<a href="http://stub.com/a">a again</a>`,
		"/a": `<a href="http://stub.com/">home</a>`,
		"/b": `no links`,
	}

	port := startStubServer(t, func(conn net.Conn) {
		request := readRequest(conn)
		fields := strings.Fields(request)
		body := ""
		if len(fields) >= 2 {
			body = pages[fields[1]]
		}
		response := "HTTP/1.1 200 OK\r\nConnection: close\r\n\r\n" + body
		conn.Write([]byte(response)) //nolint:errcheck // Stub server
	})

	site := newStubSite(t, port)
	stats, err := site.Crawl(context.Background())
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if len(stats.Pages) != 3 {
		t.Fatalf("expected 3 pages (/, /a, /b), got %d: %v", len(stats.Pages), stats.Pages)
	}
	// FIFO discovery order.
	want := []string{stubHostname + "/", stubHostname + "/a", stubHostname + "/b"}
	for i, p := range stats.Pages {
		if p.URL != want[i] {
			t.Errorf("page %d: expected %q, got %q", i, want[i], p.URL)
		}
	}
}

// TestSiteCrawlClassifiesExternalLinks verifies linked site collection and
// validation filtering.
func TestSiteCrawlClassifiesExternalLinks(t *testing.T) {
	t.Parallel()

	port := startStubServer(t, func(conn net.Conn) {
		respondWith(conn, `<a href="https://other.org/x">ext</a>`+
			`<a href="bad.exe">invalid</a>`+
			`<a href="https://other.org/y">ext again</a>`)
	})

	site := newStubSite(t, port)
	stats, err := site.Crawl(context.Background())
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if len(stats.LinkedSites) != 1 {
		t.Fatalf("expected exactly 1 linked site, got %d: %v", len(stats.LinkedSites), stats.LinkedSites)
	}
	if stats.LinkedSites[0] != "other.org" {
		t.Errorf("expected linked site 'other.org', got %q", stats.LinkedSites[0])
	}
}

// TestSiteCrawlPageLimit verifies the fetch-attempt bound.
func TestSiteCrawlPageLimit(t *testing.T) {
	t.Parallel()

	// Every page links to a fresh path, so without the limit the crawl
	// would never run out of frontier.
	var counter int
	port := startStubServer(t, func(conn net.Conn) {
		readRequest(conn)
		counter++
		body := `<a href="http://stub.com/gen` + strconv.Itoa(counter) + `">next</a>`
		response := "HTTP/1.1 200 OK\r\nConnection: close\r\n\r\n" + body
		conn.Write([]byte(response)) //nolint:errcheck // Stub server
	})

	site := newStubSite(t, port, WithPageLimit(3))
	stats, err := site.Crawl(context.Background())
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if len(stats.Pages) != 3 {
		t.Errorf("expected the crawl to stop at 3 pages, got %d", len(stats.Pages))
	}
}

// TestSiteCrawlContextCancellation verifies that cancellation surfaces and
// partial statistics are still returned.
func TestSiteCrawlContextCancellation(t *testing.T) {
	t.Parallel()

	port := startStubServer(t, func(conn net.Conn) {
		respondWith(conn, `<a href="http://stub.com/more">more</a>`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	site := newStubSite(t, port)
	stats, err := site.Crawl(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if stats == nil {
		t.Fatal("expected partial statistics even when cancelled")
	}
}

// TestNewSiteValidation covers the construction-time failures.
func TestNewSiteValidation(t *testing.T) {
	t.Parallel()

	t.Run("empty hostname", func(t *testing.T) {
		t.Parallel()
		if _, err := NewSite(""); !errors.Is(err, ErrEmptyHostname) {
			t.Errorf("expected ErrEmptyHostname, got %v", err)
		}
	})

	t.Run("hostname with path", func(t *testing.T) {
		t.Parallel()
		if _, err := NewSite("example.com/page"); !errors.Is(err, ErrMalformedHostname) {
			t.Errorf("expected ErrMalformedHostname, got %v", err)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Parallel()
		if _, err := NewSite("example.com", WithPort(0)); !errors.Is(err, ErrInvalidPort) {
			t.Errorf("expected ErrInvalidPort, got %v", err)
		}
	})
}

// TestResolverCachesLookups verifies IP passthrough and cache hits.
func TestResolverCachesLookups(t *testing.T) {
	t.Parallel()

	r := NewResolver(8, time.Minute)

	t.Run("ip literal passes through", func(t *testing.T) {
		t.Parallel()
		addrs, err := r.Lookup(context.Background(), "127.0.0.1")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if len(addrs) != 1 || addrs[0] != "127.0.0.1" {
			t.Errorf("expected [127.0.0.1], got %v", addrs)
		}
	})

	t.Run("cached entry is served", func(t *testing.T) {
		t.Parallel()
		r := NewResolver(8, time.Minute)
		r.cache.Add("seeded.com", []string{"192.0.2.1"})

		addrs, err := r.Lookup(context.Background(), "seeded.com")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if len(addrs) != 1 || addrs[0] != "192.0.2.1" {
			t.Errorf("expected the seeded address, got %v", addrs)
		}
	})
}

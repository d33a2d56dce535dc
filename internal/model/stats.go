package model

// NoResponseTime is the sentinel value used for timing fields when no page
// was fetched successfully. A response time can never legitimately be
// negative, so -1 unambiguously marks "no data".
const NoResponseTime = float64(-1)

// PendingTask is a site waiting in the cross-site frontier.
// It is produced when a new external site is first observed and consumed
// exactly once by a worker.
type PendingTask struct {
	// Hostname is the site to crawl. Identity is the exact string value;
	// no case folding or trailing-slash normalization is applied anywhere,
	// so "Example.com" and "example.com" are distinct sites.
	Hostname string `json:"hostname"`

	// Depth is the graph distance, in site-to-site hops, from a seed site.
	Depth int `json:"depth"`
}

// PageStats records the outcome of a single page fetch attempt.
// It is immutable after creation and owned by the enclosing SiteStats.
type PageStats struct {
	// URL is the hostname plus path of the fetched page.
	URL string `json:"url"`

	// ResponseTime is the time in milliseconds from sending the request to
	// receiving the first chunk of the response. It is NoResponseTime when
	// the page produced no data before the connection ended.
	ResponseTime float64 `json:"response_time_ms"`
}

// Failed reports whether this fetch attempt produced no timed response.
func (p PageStats) Failed() bool {
	return p.ResponseTime < 0
}

// SiteStats is the aggregate result of crawling one website.
// It is created and owned by a single site crawl; the scheduler only reads
// it after the crawl returns, so no locking is needed.
type SiteStats struct {
	// Hostname is the site these statistics describe.
	Hostname string `json:"hostname"`

	// Pages holds one entry per fetch attempt that reached the server, in
	// the order the pages were dequeued. Attempts that never produced data
	// carry the NoResponseTime sentinel.
	Pages []PageStats `json:"pages"`

	// PagesFailed counts dequeued pages that failed: connection or send
	// errors as well as attempts that received zero bytes.
	PagesFailed int `json:"pages_failed"`

	// LinkedSites lists external hostnames discovered during the crawl,
	// deduplicated, in first-seen order.
	LinkedSites []string `json:"linked_sites"`

	// MinResponseTime, MaxResponseTime, and AverageResponseTime summarize
	// the successfully timed pages in milliseconds. All three remain
	// NoResponseTime until at least one page succeeds. Failed pages never
	// contribute to these aggregates.
	MinResponseTime     float64 `json:"min_response_time_ms"`
	MaxResponseTime     float64 `json:"max_response_time_ms"`
	AverageResponseTime float64 `json:"average_response_time_ms"`

	// linkedSeen tracks hostnames already present in LinkedSites.
	linkedSeen map[string]bool
}

// NewSiteStats creates an empty SiteStats for the given hostname with all
// timing fields set to the NoResponseTime sentinel.
func NewSiteStats(hostname string) *SiteStats {
	return &SiteStats{
		Hostname:            hostname,
		Pages:               make([]PageStats, 0),
		LinkedSites:         make([]string, 0),
		MinResponseTime:     NoResponseTime,
		MaxResponseTime:     NoResponseTime,
		AverageResponseTime: NoResponseTime,
		linkedSeen:          make(map[string]bool),
	}
}

// RecordPage appends a fetch attempt and updates the running min/max.
// A negative responseTime marks a page that produced no data; it is recorded
// for the report but counted as failed and excluded from the aggregates.
func (s *SiteStats) RecordPage(url string, responseTime float64) {
	s.Pages = append(s.Pages, PageStats{URL: url, ResponseTime: responseTime})

	if responseTime < 0 {
		s.PagesFailed++
		return
	}

	if s.MinResponseTime < 0 || responseTime < s.MinResponseTime {
		s.MinResponseTime = responseTime
	}
	if s.MaxResponseTime < 0 || responseTime > s.MaxResponseTime {
		s.MaxResponseTime = responseTime
	}
}

// RecordConnectionFailure counts a dequeued page whose connection or request
// could not be established. No page entry is recorded because the server was
// never reached.
func (s *SiteStats) RecordConnectionFailure() {
	s.PagesFailed++
}

// AddLinkedSite records an external hostname if it has not been seen in this
// crawl before. It returns true when the hostname was newly added.
func (s *SiteStats) AddLinkedSite(hostname string) bool {
	if s.linkedSeen == nil {
		s.linkedSeen = make(map[string]bool)
	}
	if s.linkedSeen[hostname] {
		return false
	}
	s.linkedSeen[hostname] = true
	s.LinkedSites = append(s.LinkedSites, hostname)
	return true
}

// VisitedCount returns the number of fetch attempts recorded so far. This is
// the count bounded by the per-site page limit.
func (s *SiteStats) VisitedCount() int {
	return len(s.Pages)
}

// SucceededCount returns the number of pages with a valid response time.
func (s *SiteStats) SucceededCount() int {
	n := 0
	for _, p := range s.Pages {
		if !p.Failed() {
			n++
		}
	}
	return n
}

// Finalize computes AverageResponseTime over the successfully timed pages.
// It is called once after the page frontier drains. If no page ever
// succeeded, the timing fields keep the NoResponseTime sentinel.
func (s *SiteStats) Finalize() {
	var total float64
	var count int
	for _, p := range s.Pages {
		if p.Failed() {
			continue
		}
		total += p.ResponseTime
		count++
	}
	if count > 0 {
		s.AverageResponseTime = total / float64(count)
	}
}

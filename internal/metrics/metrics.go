package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawl.
type Metrics struct {
	Registry        *prometheus.Registry
	PagesFetched    prometheus.Counter
	PagesFailed     prometheus.Counter
	SitesCrawled    prometheus.Counter
	SitesDiscovered prometheus.Counter
	ActiveWorkers   prometheus.Gauge
	ResponseTime    prometheus.Histogram
}

// New constructs and registers all collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	pagesFetched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webreaper_pages_fetched_total",
		Help: "Total pages fetched successfully.",
	})
	pagesFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webreaper_pages_failed_total",
		Help: "Total page fetch attempts that failed.",
	})
	sitesCrawled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webreaper_sites_crawled_total",
		Help: "Total site crawls completed.",
	})
	sitesDiscovered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webreaper_sites_discovered_total",
		Help: "Total distinct sites added to the frontier.",
	})
	activeWorkers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "webreaper_active_workers",
		Help: "Number of site crawls currently running.",
	})
	responseTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "webreaper_response_time_seconds",
		Help:    "Time to first response byte for fetched pages.",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(pagesFetched, pagesFailed, sitesCrawled, sitesDiscovered, activeWorkers, responseTime)

	return &Metrics{
		Registry:        registry,
		PagesFetched:    pagesFetched,
		PagesFailed:     pagesFailed,
		SitesCrawled:    sitesCrawled,
		SitesDiscovered: sitesDiscovered,
		ActiveWorkers:   activeWorkers,
		ResponseTime:    responseTime,
	}
}

// IncPageFetched increments the successful fetch counter.
func (m *Metrics) IncPageFetched() {
	if m == nil {
		return
	}
	m.PagesFetched.Inc()
}

// IncPageFailed increments the failed fetch counter.
func (m *Metrics) IncPageFailed() {
	if m == nil {
		return
	}
	m.PagesFailed.Inc()
}

// IncSiteCrawled increments the completed site crawl counter.
func (m *Metrics) IncSiteCrawled() {
	if m == nil {
		return
	}
	m.SitesCrawled.Inc()
}

// IncSiteDiscovered increments the discovered site counter.
func (m *Metrics) IncSiteDiscovered() {
	if m == nil {
		return
	}
	m.SitesDiscovered.Inc()
}

// WorkerStarted increments the active worker gauge.
func (m *Metrics) WorkerStarted() {
	if m == nil {
		return
	}
	m.ActiveWorkers.Inc()
}

// WorkerFinished decrements the active worker gauge.
func (m *Metrics) WorkerFinished() {
	if m == nil {
		return
	}
	m.ActiveWorkers.Dec()
}

// ObserveResponseTime records a page's time to first byte.
func (m *Metrics) ObserveResponseTime(d time.Duration) {
	if m == nil {
		return
	}
	m.ResponseTime.Observe(d.Seconds())
}

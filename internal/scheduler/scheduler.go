package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/RSM610/Web-Reaper/internal/metrics"
	"github.com/RSM610/Web-Reaper/internal/model"
)

// Default bounds, applied when no option overrides them.
const (
	DefaultMaxConcurrency   = 10
	DefaultDepthLimit       = 10
	DefaultLinkedSitesLimit = 10
)

// CrawlFunc crawls a single site and returns its statistics. The scheduler
// does not care how; production wires crawler.Site, tests wire stubs.
type CrawlFunc func(ctx context.Context, hostname string) (*model.SiteStats, error)

// Reporter receives the statistics of each completed site crawl.
// Calls are serialized; implementations need no locking of their own.
type Reporter interface {
	Report(stats *model.SiteStats, depth int) error
}

// Scheduler runs site crawls breadth-first across sites: every seed is at
// depth zero, and a site discovered on a depth-n page is crawled at depth
// n+1 until the depth limit cuts the expansion off.
//
// Design decision: a coordinator goroutine owns the frontier and spawns
// one worker per site, rather than a fixed worker pool draining a channel.
//
//  1. Termination needs "frontier empty AND no worker active"; a channel
//     cannot express the second half, a condition variable can.
//  2. Workers discover new sites while running, so the frontier grows
//     after the coordinator has seen it empty. The condition variable
//     wakes the coordinator on every change.
type Scheduler struct {
	crawl    CrawlFunc
	reporter Reporter

	maxConcurrency   int
	depthLimit       int
	linkedSitesLimit int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMaxConcurrency bounds the number of sites crawled at the same time.
func WithMaxConcurrency(n int) Option {
	return func(s *Scheduler) {
		s.maxConcurrency = n
	}
}

// WithDepthLimit sets the maximum depth at which discovered sites are still
// enqueued. Sites found on a page at the limit are reported as linked but
// never crawled.
func WithDepthLimit(n int) Option {
	return func(s *Scheduler) {
		s.depthLimit = n
	}
}

// WithLinkedSitesLimit bounds how many new sites a single crawl may add to
// the frontier. Linked sites already discovered do not count against the
// bound.
func WithLinkedSitesLimit(n int) Option {
	return func(s *Scheduler) {
		s.linkedSitesLimit = n
	}
}

// WithLogger sets the logger for per-site progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors updated per site and worker.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// New creates a Scheduler. The crawl function is mandatory; the reporter
// may be nil, in which case completed crawls are only logged.
func New(crawl CrawlFunc, reporter Reporter, opts ...Option) (*Scheduler, error) {
	if crawl == nil {
		return nil, ErrNilCrawlFunc
	}

	s := &Scheduler{
		crawl:            crawl,
		reporter:         reporter,
		maxConcurrency:   DefaultMaxConcurrency,
		depthLimit:       DefaultDepthLimit,
		linkedSitesLimit: DefaultLinkedSitesLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.maxConcurrency < 1 {
		return nil, ErrInvalidConcurrency
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Run crawls every reachable site starting from the seeds and blocks until
// the frontier is exhausted and all workers have finished, or the context
// is cancelled. Per-site failures are logged and never abort the run.
func (s *Scheduler) Run(parent context.Context, seeds []string) error {
	st := newState(seeds)

	g, ctx := errgroup.WithContext(parent)

	// The coordinator sleeps on the condition variable, which cancellation
	// alone cannot interrupt. This goroutine bridges the two; it exits when
	// g.Wait cancels the group context.
	go func() {
		<-ctx.Done()
		st.cond.Broadcast()
	}()

	st.mu.Lock()
	for ctx.Err() == nil {
		if len(st.pending) == 0 && st.active == 0 {
			break
		}
		if len(st.pending) == 0 || st.active >= s.maxConcurrency {
			st.cond.Wait()
			continue
		}

		task := st.pending[0]
		st.pending = st.pending[1:]
		st.active++
		g.Go(func() error {
			s.runTask(ctx, st, task)
			return nil
		})
	}
	st.mu.Unlock()

	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}

// runTask crawls one site, reports its statistics, and folds the linked
// sites it discovered back into the frontier.
func (s *Scheduler) runTask(ctx context.Context, st *state, task model.PendingTask) {
	defer func() {
		st.mu.Lock()
		st.active--
		st.mu.Unlock()
		st.cond.Broadcast()
	}()

	s.metrics.WorkerStarted()
	defer s.metrics.WorkerFinished()

	s.logger.Info("crawling site", "host", task.Hostname, "depth", task.Depth)

	stats, err := s.crawl(ctx, task.Hostname)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("site crawl failed", "host", task.Hostname, "error", err)
		}
		return
	}
	s.metrics.IncSiteCrawled()

	if s.reporter != nil {
		// Serialized under the state lock so concurrent workers never
		// interleave their output.
		st.mu.Lock()
		reportErr := s.reporter.Report(stats, task.Depth)
		st.mu.Unlock()
		if reportErr != nil {
			s.logger.Error("failed to report site", "host", task.Hostname, "error", reportErr)
		}
	}

	if task.Depth >= s.depthLimit {
		return
	}

	st.mu.Lock()
	added := st.enqueue(stats.LinkedSites, task.Depth+1, s.linkedSitesLimit)
	st.mu.Unlock()
	st.cond.Broadcast()

	for range added {
		s.metrics.IncSiteDiscovered()
	}
}

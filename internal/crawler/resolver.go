package crawler

import (
	"context"
	"net"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Resolver settings. The cache is small because a crawl only ever talks to
// as many hosts as the scheduler admits, and entries expire so a long run
// does not pin stale records.
const (
	DefaultResolverSize = 512
	DefaultResolverTTL  = 5 * time.Minute
)

// Resolver resolves hostnames with an expiring LRU cache in front of the
// system resolver. The crawler opens a fresh connection for every page, so
// caching saves one DNS round trip per page after the first.
//
// Resolver is safe for concurrent use and is shared across all site crawls
// of a run.
type Resolver struct {
	// cache maps hostname to its resolved addresses.
	cache *expirable.LRU[string, []string]

	// resolver performs the actual lookups.
	resolver *net.Resolver
}

// NewResolver creates a Resolver with the given cache size and entry TTL.
func NewResolver(size int, ttl time.Duration) *Resolver {
	return &Resolver{
		cache:    expirable.NewLRU[string, []string](size, nil, ttl),
		resolver: net.DefaultResolver,
	}
}

// Lookup returns the addresses for a hostname, consulting the cache first.
// Literal IP addresses pass through untouched. Failed lookups are not
// cached; the next page retries them.
func (r *Resolver) Lookup(ctx context.Context, hostname string) ([]string, error) {
	if ip := net.ParseIP(hostname); ip != nil {
		return []string{hostname}, nil
	}

	if addrs, ok := r.cache.Get(hostname); ok {
		return addrs, nil
	}

	addrs, err := r.resolver.LookupHost(ctx, hostname)
	if err != nil {
		return nil, err
	}

	r.cache.Add(hostname, addrs)
	return addrs, nil
}

package resolve

import (
	"context"
	"net"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultTTL is how long a resolved address is trusted before looking it up again
const DefaultTTL = 30 * time.Second

// Resolver handles forward lookups with a TTL bounded cache
type Resolver struct {
	cache      *ttlcache.Cache[string, string]
	lookupFunc func(ctx context.Context, host string) ([]string, error)
	retries    int
	retryDelay time.Duration
}

// NewResolver creates a Resolver that caches each answer for ttl
func NewResolver(ttl time.Duration) *Resolver {
	return &Resolver{
		cache: ttlcache.New[string, string](
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
		lookupFunc: net.DefaultResolver.LookupHost,
		retries:    3,
		retryDelay: 100 * time.Millisecond,
	}
}

// Lookup returns the first address host resolves to, from cache when the
// previous answer has not expired. Failed lookups are cached as misses for
// the same TTL. IP literals are returned unchanged.
func (r *Resolver) Lookup(ctx context.Context, host string) (string, bool) {
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), true
	}
	if item := r.cache.Get(host); item != nil {
		return item.Value(), item.Value() != ""
	}

	for attempt := range r.retries {
		addrs, err := r.lookupFunc(ctx, host)
		if err == nil && len(addrs) > 0 {
			r.cache.Set(host, addrs[0], ttlcache.DefaultTTL)
			return addrs[0], true
		}
		if attempt < r.retries-1 && !r.wait(ctx) {
			// Cancelled, not a real miss; leave the cache alone
			return "", false
		}
	}
	r.cache.Set(host, "", ttlcache.DefaultTTL)
	return "", false
}

// wait pauses for retryDelay and reports false if ctx ended first
func (r *Resolver) wait(ctx context.Context) bool {
	t := time.NewTimer(r.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

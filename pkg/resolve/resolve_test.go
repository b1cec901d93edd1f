package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

func newTestResolver(ttl time.Duration, lookup func(ctx context.Context, host string) ([]string, error)) *Resolver {
	return &Resolver{
		cache: ttlcache.New[string, string](
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
		lookupFunc: lookup,
		retries:    3,
		retryDelay: 0,
	}
}

func TestNewResolver(t *testing.T) {
	r := NewResolver(DefaultTTL)

	if r == nil || r.cache == nil || r.lookupFunc == nil {
		t.Fatal("NewResolver() returned invalid resolver")
	}
	if r.retries != 3 || r.retryDelay != 100*time.Millisecond {
		t.Errorf("NewResolver() retries=%d delay=%v, want 3 and 100ms", r.retries, r.retryDelay)
	}
}

func TestResolver_Lookup(t *testing.T) {
	t.Run("successful lookup is cached", func(t *testing.T) {
		calls := 0
		r := newTestResolver(time.Minute, func(ctx context.Context, host string) ([]string, error) {
			calls++
			return []string{"93.184.216.34", "2606:2800:220:1::"}, nil
		})

		for range 3 {
			addr, ok := r.Lookup(context.Background(), "example.com")
			if !ok || addr != "93.184.216.34" {
				t.Fatalf("Lookup() = (%q, %v), want (\"93.184.216.34\", true)", addr, ok)
			}
		}
		if calls != 1 {
			t.Errorf("lookupFunc called %d times, want 1", calls)
		}
	})

	t.Run("ip literal skips lookup", func(t *testing.T) {
		r := newTestResolver(time.Minute, func(ctx context.Context, host string) ([]string, error) {
			t.Fatal("lookupFunc should not be called for an IP literal")
			return nil, nil
		})

		if addr, ok := r.Lookup(context.Background(), "192.0.2.1"); !ok || addr != "192.0.2.1" {
			t.Errorf("Lookup() = (%q, %v), want (\"192.0.2.1\", true)", addr, ok)
		}
	})

	t.Run("failed lookup retries then reports miss", func(t *testing.T) {
		calls := 0
		r := newTestResolver(time.Minute, func(ctx context.Context, host string) ([]string, error) {
			calls++
			return nil, errors.New("no such host")
		})

		if addr, ok := r.Lookup(context.Background(), "invalid.test"); ok || addr != "" {
			t.Errorf("Lookup() = (%q, %v), want (\"\", false)", addr, ok)
		}
		if calls != 3 {
			t.Errorf("lookupFunc called %d times, want 3", calls)
		}

		// The miss is cached
		if _, ok := r.Lookup(context.Background(), "invalid.test"); ok {
			t.Error("second Lookup() reported a hit for a failed host")
		}
		if calls != 3 {
			t.Errorf("lookupFunc called %d times after cached miss, want 3", calls)
		}
	})

	t.Run("retry succeeds after a failure", func(t *testing.T) {
		calls := 0
		r := newTestResolver(time.Minute, func(ctx context.Context, host string) ([]string, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("temporary failure")
			}
			return []string{"198.51.100.7"}, nil
		})

		if addr, ok := r.Lookup(context.Background(), "example.net"); !ok || addr != "198.51.100.7" {
			t.Errorf("Lookup() = (%q, %v), want (\"198.51.100.7\", true)", addr, ok)
		}
	})

	t.Run("expired entry is looked up again", func(t *testing.T) {
		answers := []string{"192.0.2.1", "192.0.2.2"}
		calls := 0
		r := newTestResolver(10*time.Millisecond, func(ctx context.Context, host string) ([]string, error) {
			ans := answers[calls]
			calls++
			return []string{ans}, nil
		})

		first, _ := r.Lookup(context.Background(), "example.com")
		time.Sleep(30 * time.Millisecond)
		second, _ := r.Lookup(context.Background(), "example.com")

		if first != "192.0.2.1" || second != "192.0.2.2" {
			t.Errorf("Lookup() sequence = %q, %q, want 192.0.2.1, 192.0.2.2", first, second)
		}
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		calls := 0
		r := newTestResolver(time.Minute, func(ctx context.Context, host string) ([]string, error) {
			calls++
			return nil, errors.New("temporary failure")
		})
		r.retryDelay = time.Hour

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, ok := r.Lookup(ctx, "example.com"); ok {
				t.Error("Lookup() reported a hit with failing lookups")
			}
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Lookup() kept waiting after the context was cancelled")
		}
		if calls != 1 {
			t.Errorf("lookupFunc called %d times, want 1", calls)
		}
		if r.cache.Get("example.com") != nil {
			t.Error("cancelled lookup should not be cached as a miss")
		}
	})
}

// Package imagecache provides the request-scoped memo cache used by image
// backfill. One cache is created per pipeline invocation and discarded when
// the listing computation ends; discovered images are never promoted to
// process-wide state.
package imagecache

import (
	"context"
	"sync"
)

// Cache memoizes page URL -> image URL lookups within one pipeline run.
// Implementations must be safe for concurrent use: backfill issues one
// outstanding fetch per deal, with no ordering between them.
type Cache interface {
	// Get returns the memoized image for a page URL, and whether one was
	// recorded. An empty recorded value means "looked up, nothing found"
	// and suppresses repeat fetches for the same page.
	Get(ctx context.Context, pageURL string) (string, bool)

	// Put records the image discovered for a page URL. Empty values are
	// recorded too, as negative entries.
	Put(ctx context.Context, pageURL, image string)

	// Len returns the number of recorded entries.
	Len() int
}

// inMemoryCache implements Cache with a bounded map. When the bound is
// reached new entries are dropped rather than evicting old ones; within a
// single request the bound only guards against a pathological feed.
type inMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
	maxSize int
}

// New creates a request-scoped cache with configuration options.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]string)
	return c
}

func (c *inMemoryCache) Get(_ context.Context, pageURL string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[pageURL]
	return v, ok
}

func (c *inMemoryCache) Put(_ context.Context, pageURL, image string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[pageURL]; !ok && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		return
	}
	c.entries[pageURL] = image
}

func (c *inMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

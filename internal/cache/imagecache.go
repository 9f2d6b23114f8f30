package cache

import (
	"context"
	"sync"
)

// PrefetchFunc warms a remote image so later loads hit the platform cache.
type PrefetchFunc func(ctx context.Context, uri string) error

// ImageCache remembers which remote image URIs have already been prefetched
// for the lifetime of the process. There is no eviction or TTL: the set is
// bounded by the number of distinct images seen in a session.
type ImageCache struct {
	mu       sync.Mutex
	cached   map[string]string
	prefetch PrefetchFunc
}

func NewImageCache(prefetch PrefetchFunc) *ImageCache {
	return &ImageCache{
		cached:   make(map[string]string),
		prefetch: prefetch,
	}
}

// Preload issues the prefetch for the URI unless it already succeeded once.
// Failed prefetches are not recorded, so the next Preload retries.
func (c *ImageCache) Preload(ctx context.Context, uri string) error {
	if uri == "" {
		return nil
	}

	c.mu.Lock()
	_, ok := c.cached[uri]
	c.mu.Unlock()
	if ok {
		return nil
	}

	if c.prefetch != nil {
		if err := c.prefetch(ctx, uri); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.cached[uri] = uri
	c.mu.Unlock()
	return nil
}

// CachedURI returns the cached URI and whether it was present.
func (c *ImageCache) CachedURI(uri string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.cached[uri]
	return cached, ok
}

func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cached)
}

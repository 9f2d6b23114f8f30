package cache

import (
	"context"
	"errors"
	"testing"
)

func TestPreloadOnlyPrefetchesOnce(t *testing.T) {
	calls := 0
	c := NewImageCache(func(ctx context.Context, uri string) error {
		calls++
		return nil
	})

	uri := "https://cdn.example.com/avatars/1.jpg"
	if err := c.Preload(context.Background(), uri); err != nil {
		t.Fatalf("first preload: %v", err)
	}
	if err := c.Preload(context.Background(), uri); err != nil {
		t.Fatalf("second preload: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 prefetch call, got %d", calls)
	}

	cached, ok := c.CachedURI(uri)
	if !ok || cached != uri {
		t.Fatalf("expected cache hit for %q, got %q ok=%v", uri, cached, ok)
	}
}

func TestPreloadFailureIsNotCached(t *testing.T) {
	calls := 0
	c := NewImageCache(func(ctx context.Context, uri string) error {
		calls++
		if calls == 1 {
			return errors.New("network down")
		}
		return nil
	})

	uri := "https://cdn.example.com/avatars/2.jpg"
	if err := c.Preload(context.Background(), uri); err == nil {
		t.Fatal("expected first preload to fail")
	}
	if _, ok := c.CachedURI(uri); ok {
		t.Fatal("failed prefetch must not be cached")
	}
	if err := c.Preload(context.Background(), uri); err != nil {
		t.Fatalf("retry preload: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 prefetch calls, got %d", calls)
	}
}

func TestCachedURIMiss(t *testing.T) {
	c := NewImageCache(nil)
	if _, ok := c.CachedURI("https://cdn.example.com/unknown.jpg"); ok {
		t.Fatal("expected miss for never-preloaded uri")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

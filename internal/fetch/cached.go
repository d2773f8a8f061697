package fetch

import (
	"context"
	"log/slog"
)

// Cache stores response bodies by URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedClient serves responses from a Cache when possible and stores fresh
// successful responses. It is meant for content that never changes once
// published, such as archived snapshots.
type CachedClient struct {
	next   Getter
	cache  Cache
	logger *slog.Logger
}

// NewCachedClient wraps next with cache. A nil cache disables caching.
func NewCachedClient(next Getter, cache Cache, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{next: next, cache: cache, logger: logger}
}

// Get returns the cached body for url if present, otherwise fetches it.
// Cache failures are logged and never fail the fetch.
func (c *CachedClient) Get(ctx context.Context, url string) (*Result, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, url)
		switch {
		case err != nil:
			c.logger.WarnContext(ctx, "cache read failed", "url", url, "error", err)
		case ok:
			return &Result{URL: url, Body: body, StatusCode: 200, FromCache: true}, nil
		}
	}

	result, err := c.next.Get(ctx, url)
	if err != nil {
		return result, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, result.Body); err != nil {
			c.logger.WarnContext(ctx, "cache write failed", "url", url, "error", err)
		}
	}
	return result, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// content.go provides a Valkey-backed cache for public JSON responses.
// Published pages and posts change rarely but are read constantly, so
// their serialized responses are cached and invalidated on write.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// contentKeyPrefix is the Valkey key prefix for cached responses.
	contentKeyPrefix = "pub:"

	// DefaultContentTTL is how long a cached response stays valid.
	DefaultContentTTL = 5 * time.Minute
)

// ContentCache manages cached public JSON responses in Valkey.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContentCache creates a content cache backed by the given Valkey client.
func NewContentCache(client *redis.Client, ttl time.Duration) *ContentCache {
	if ttl == 0 {
		ttl = DefaultContentTTL
	}
	return &ContentCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. The second return is false on miss.
func (cc *ContentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := cc.client.Get(ctx, contentKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("content cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("content cache hit", "key", key)
	return val, true
}

// Set stores a response body under the given key with the configured TTL.
func (cc *ContentCache) Set(ctx context.Context, key string, body []byte) {
	if err := cc.client.Set(ctx, contentKeyPrefix+key, body, cc.ttl).Err(); err != nil {
		slog.Warn("content cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached response.
func (cc *ContentCache) Invalidate(ctx context.Context, key string) {
	if err := cc.client.Del(ctx, contentKeyPrefix+key).Err(); err != nil {
		slog.Warn("content cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("content cache invalidated", "key", key)
}

// InvalidateAll removes every cached response by scanning for the
// prefix. Used on writes that affect listings, since any cached listing
// could include the changed entity.
func (cc *ContentCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, contentKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("content cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("content cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("content cache fully cleared", "deleted", deleted)
	}
}

// PageKey returns the cache key for a published page response.
func PageKey(slug string) string {
	return "page:" + slug
}

// PostKey returns the cache key for a published post response.
func PostKey(slug string) string {
	return "post:" + slug
}

// ListKey returns the cache key for a public listing response.
func ListKey(name string) string {
	return "list:" + name
}

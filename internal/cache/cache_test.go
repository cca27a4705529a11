// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, contentKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("ping after connect: %v", err)
	}
}

func TestContentCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewContentCache(client, time.Minute)
	ctx := context.Background()

	key := PageKey("about-us")
	body := []byte(`{"slug":"about-us","title":"About"}`)

	if _, ok := cc.Get(ctx, key); ok {
		t.Fatal("unexpected hit before Set")
	}

	cc.Set(ctx, key, body)
	got, ok := cc.Get(ctx, key)
	if !ok {
		t.Fatal("miss after Set")
	}
	if string(got) != string(body) {
		t.Errorf("cached body = %q, want %q", got, body)
	}

	cc.Invalidate(ctx, key)
	if _, ok := cc.Get(ctx, key); ok {
		t.Error("hit after Invalidate")
	}
}

func TestContentCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewContentCache(client, time.Second)
	ctx := context.Background()

	key := PostKey("fleeting")
	cc.Set(ctx, key, []byte("{}"))

	ttl, err := client.TTL(ctx, contentKeyPrefix+key).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Second {
		t.Errorf("TTL = %v, want within (0, 1s]", ttl)
	}
}

func TestContentCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewContentCache(client, time.Minute)
	ctx := context.Background()

	keys := []string{PageKey("one"), PostKey("two"), ListKey("posts-page-1")}
	for _, k := range keys {
		cc.Set(ctx, k, []byte("{}"))
	}

	cc.InvalidateAll(ctx)
	for _, k := range keys {
		if _, ok := cc.Get(ctx, k); ok {
			t.Errorf("key %q survived InvalidateAll", k)
		}
	}
}

func TestContentCacheDefaultTTL(t *testing.T) {
	cc := NewContentCache(nil, 0)
	if cc.ttl != DefaultContentTTL {
		t.Errorf("ttl = %v, want default %v", cc.ttl, DefaultContentTTL)
	}
}

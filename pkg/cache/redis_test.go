package cache

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/stockroom/pkg/config"
)

func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL: url,
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestItemCacheKey(t *testing.T) {
	c := NewItemCache(nil)
	if got := c.key(42); got != "item:42" {
		t.Errorf("unexpected key: %q", got)
	}
}

// Integration tests — skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	t.Run("Ping_Success", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("ItemCache_RoundTrip", func(t *testing.T) {
		rc, err := NewRedisClient(newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		ic := NewItemCache(rc)
		ctx := context.Background()
		want := &CachedItem{ID: 7, Name: "hammer", Description: "claw hammer", Photo: "abc.jpg"}
		if err := ic.Set(ctx, want); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := ic.Get(ctx, 7)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if *got != *want {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
		}

		if err := ic.Delete(ctx, 7); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := ic.Get(ctx, 7); err != redis.Nil {
			t.Errorf("expected redis.Nil after delete, got %v", err)
		}
	})
}

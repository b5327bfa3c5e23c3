package pubindex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eringen/pubindex/config"
)

// skipIfNoRedis skips the test if PUBINDEX_TEST_REDIS_URL is not set.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("PUBINDEX_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: PUBINDEX_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCacheRoundTrip(t *testing.T) {
	url := skipIfNoRedis(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url, "pubindex-test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer c.Close()
	_ = c.Clear(ctx)

	if err := c.Set(ctx, "k", []byte("png")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "png" {
		t.Fatalf("Get = %q, want %q", got, "png")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get after Delete = %v, want ErrCacheMiss", err)
	}

	for _, k := range []string{"a", "b"} {
		c.Set(ctx, k, []byte(k))
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get after Clear = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCacheEmptyURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "", "p:", 0); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestRedisCacheInvalidURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url", "p:", 0); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestRedisCacheClosed(t *testing.T) {
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "p:", 0)
	if got := c.prefixKey("abc"); got != "p:og:abc" {
		t.Fatalf("prefixKey = %q, want %q", got, "p:og:abc")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if _, err := c.Get(context.Background(), "abc"); !errors.Is(err, ErrCacheClosed) {
		t.Fatalf("Get after Close = %v, want ErrCacheClosed", err)
	}
	if err := c.Clear(context.Background()); !errors.Is(err, ErrCacheClosed) {
		t.Fatalf("Clear after Close = %v, want ErrCacheClosed", err)
	}
}

func TestOpenImageCache(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"", "none"} {
		c, err := OpenImageCache(ctx, config.Server{Cache: name})
		if err != nil || c != nil {
			t.Fatalf("OpenImageCache(%q) = (%v, %v), want (nil, nil)", name, c, err)
		}
	}

	c, err := OpenImageCache(ctx, config.Server{Cache: "sqlite", DatabasePath: filepath.Join(t.TempDir(), "img.db")})
	if err != nil {
		t.Fatalf("OpenImageCache(sqlite) failed: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*Store); !ok {
		t.Fatalf("OpenImageCache(sqlite) = %T, want *Store", c)
	}

	if _, err := OpenImageCache(ctx, config.Server{Cache: "memcached"}); err == nil {
		t.Fatal("expected error for unknown cache")
	}
}

package pubindex

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test_images.db")

	s, err := NewStore(path, ttl)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t, 0)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	count, size, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if count != 0 || size != 0 {
		t.Fatalf("new store has %d images (%d bytes), want none", count, size)
	}
}

func TestNewStoreIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.db")
	ctx := context.Background()

	s, err := NewStore(path, 0)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("png")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s, err = NewStore(path, 0)
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "png" {
		t.Fatalf("Get = %q, want %q", got, "png")
	}
}

func TestStoreSetAndGet(t *testing.T) {
	s := setupTestStore(t, 0)
	ctx := context.Background()

	if err := s.Set(ctx, "abc", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string([]byte{1, 2, 3}) {
		t.Fatalf("Get = %v, want [1 2 3]", got)
	}

	// Replace
	if err := s.Set(ctx, "abc", []byte{9}); err != nil {
		t.Fatalf("Set (replace) failed: %v", err)
	}
	got, _ = s.Get(ctx, "abc")
	if len(got) != 1 || got[0] != 9 {
		t.Fatalf("Get after replace = %v, want [9]", got)
	}

	count, size, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if count != 1 || size != 1 {
		t.Fatalf("Stats = (%d, %d), want (1, 1)", count, size)
	}
}

func TestStoreGetMiss(t *testing.T) {
	s := setupTestStore(t, 0)

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get error = %v, want ErrCacheMiss", err)
	}
}

func TestStoreTTL(t *testing.T) {
	s := setupTestStore(t, time.Hour)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.Set(ctx, "old", []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	now = now.Add(30 * time.Minute)
	if err := s.Set(ctx, "new", []byte("b")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := s.Get(ctx, "old"); err != nil {
		t.Fatalf("entry within ttl: %v", err)
	}

	now = now.Add(45 * time.Minute)
	if _, err := s.Get(ctx, "old"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expired entry error = %v, want ErrCacheMiss", err)
	}
	if _, err := s.Get(ctx, "new"); err != nil {
		t.Fatalf("fresh entry: %v", err)
	}

	n, err := s.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Purge removed %d, want 1", n)
	}
	count, _, _ := s.Stats(ctx)
	if count != 1 {
		t.Fatalf("count after purge = %d, want 1", count)
	}
}

func TestStorePurgeWithoutTTL(t *testing.T) {
	s := setupTestStore(t, 0)
	ctx := context.Background()
	s.Set(ctx, "a", []byte("a"))

	n, err := s.Purge(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Purge = (%d, %v), want (0, nil)", n, err)
	}
}

func TestStoreDeleteAndClear(t *testing.T) {
	s := setupTestStore(t, 0)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Set(%q) failed: %v", k, err)
		}
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("deleted entry error = %v, want ErrCacheMiss", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	count, _, _ := s.Stats(ctx)
	if count != 0 {
		t.Fatalf("count after clear = %d, want 0", count)
	}
}

func TestStoreClosed(t *testing.T) {
	s := setupTestStore(t, 0)
	ctx := context.Background()
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrCacheClosed) {
		t.Fatalf("Get after close = %v, want ErrCacheClosed", err)
	}
	if err := s.Set(ctx, "a", nil); !errors.Is(err, ErrCacheClosed) {
		t.Fatalf("Set after close = %v, want ErrCacheClosed", err)
	}
}

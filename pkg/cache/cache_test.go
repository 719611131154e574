package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(8)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v), want hit", hit, err)
	}
	if !bytes.Equal(data, []byte("v")) {
		t.Errorf("data = %q, want v", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry should miss")
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(8)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	// Oldest entry evicted
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("oldest entry should be evicted at capacity")
	}
	if _, hit, _ := c.Get(ctx, "c"); !hit {
		t.Error("newest entry should survive")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "listing:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "listing:abc")
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v), want hit", hit, err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("data = %q", data)
	}

	// Unknown key misses without error
	if _, hit, err := c.Get(ctx, "nope"); hit || err != nil {
		t.Errorf("unknown key = (%v, %v), want clean miss", hit, err)
	}

	if err := c.Delete(ctx, "listing:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "listing:abc"); hit {
		t.Error("deleted entry should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Same inputs produce the same key
	if k.ListingKey("files", "/home") != k.ListingKey("files", "/home") {
		t.Error("ListingKey should be deterministic")
	}

	// Different paths produce different keys
	if k.ListingKey("files", "/home") == k.ListingKey("files", "/tmp") {
		t.Error("Different paths should produce different keys")
	}

	// Different providers produce different keys for the same path
	if k.ListingKey("files", "/home") == k.ListingKey("docs", "/home") {
		t.Error("Different providers should produce different keys")
	}

	// TreeKey should include options in hash
	tk1 := k.TreeKey("files", TreeKeyOpts{Mode: "parent", MaxDepth: 2})
	tk2 := k.TreeKey("files", TreeKeyOpts{Mode: "direct", MaxDepth: 2})
	if tk1 == tk2 {
		t.Error("Different TreeKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "session:42:")

	// All keys should be prefixed
	key := scoped.ListingKey("files", "/home")
	if !strings.HasPrefix(key, "session:42:") {
		t.Errorf("ScopedKeyer ListingKey should be prefixed: %s", key)
	}
	if key[len("session:42:"):] != inner.ListingKey("files", "/home") {
		t.Error("ScopedKeyer should delegate to the inner keyer")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ListingKey("files", "/home")
	if !strings.HasPrefix(key, "prefix:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

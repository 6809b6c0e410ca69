package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("transcript", "dQw4w9WgXcQ")
		k2 := CacheKey("transcript", "dQw4w9WgXcQ")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("transcript", "aaaaaaaaaaa")
		k2 := CacheKey("transcript", "bbbbbbbbbbb")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "eb:" {
			t.Errorf("expected eb: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	CacheSet(ctx, key, []byte("hello"))

	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCacheJSON(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	ctx := context.Background()

	type payload struct {
		ID    string   `json:"id"`
		Lines []string `json:"lines"`
	}
	key := CacheKey("json", "x")
	CacheStoreJSON(ctx, key, payload{ID: "x", Lines: []string{"a", "b"}})

	got, ok := CacheLoadJSON[payload](ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.ID != "x" || len(got.Lines) != 2 {
		t.Errorf("got %+v", got)
	}

	CacheSet(ctx, CacheKey("json", "bad"), []byte("{not json"))
	if _, ok := CacheLoadJSON[payload](ctx, CacheKey("json", "bad")); ok {
		t.Error("expected corrupt entry to miss")
	}
}

func TestCacheExpiration(t *testing.T) {
	InitCache("", 1*time.Millisecond, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	CacheSet(ctx, key, []byte("temp"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	InitCache("", time.Minute, 3, 5*time.Minute)
	ctx := context.Background()

	keys := make([]string, 4)
	for i := range keys {
		keys[i] = CacheKey("evict", fmt.Sprintf("item-%d", i))
	}
	for _, k := range keys[:3] {
		CacheSet(ctx, k, []byte(k))
	}
	// touch the oldest so the second entry becomes the eviction candidate
	if _, ok := CacheGet(ctx, keys[0]); !ok {
		t.Fatal("expected hit for first key")
	}
	CacheSet(ctx, keys[3], []byte("v3"))

	if n := resultCache.size(); n != 3 {
		t.Errorf("size = %d, want 3", n)
	}
	if _, ok := CacheGet(ctx, keys[1]); ok {
		t.Error("least recently used entry survived eviction")
	}
	for _, k := range []string{keys[0], keys[2], keys[3]} {
		if _, ok := CacheGet(ctx, k); !ok {
			t.Errorf("entry %s evicted unexpectedly", k)
		}
	}
}

func TestCacheSweep(t *testing.T) {
	InitCache("", time.Minute, 0, time.Hour)
	ctx := context.Background()

	CacheSet(ctx, CacheKey("sweep", "a"), []byte("a"))
	CacheSet(ctx, CacheKey("sweep", "b"), []byte("b"))

	if n := resultCache.sweep(time.Now()); n != 0 {
		t.Errorf("fresh entries swept: %d", n)
	}
	if n := resultCache.sweep(time.Now().Add(2 * time.Minute)); n != 2 {
		t.Errorf("swept %d, want 2", n)
	}
	if n := resultCache.size(); n != 0 {
		t.Errorf("size after sweep = %d", n)
	}
}

func TestCacheKeyBoundaries(t *testing.T) {
	if CacheKey("ab", "c") == CacheKey("a", "bc") {
		t.Error("part boundaries must change the key")
	}
}

func TestCacheStats(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	CacheGet(ctx, key)
	if _, misses := CacheStats(); misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	CacheSet(ctx, key, []byte("x"))
	CacheGet(ctx, key)

	hits, misses := CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

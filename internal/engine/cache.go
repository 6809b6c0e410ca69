package engine

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKeyPrefix namespaces every key written to Redis.
const cacheKeyPrefix = "eb:"

// Transcripts, playlist listings and resolved playlist ids are memoized here.
// The memory tier is an LRU bounded by maxEntries; Redis is optional and
// shared across processes.
var resultCache *memo

var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

type memo struct {
	mu      sync.Mutex
	order   *list.List               // front = most recently used
	entries map[string]*list.Element // key → element holding *memoItem
	limit   int
	ttl     time.Duration

	rdb *redis.Client
}

type memoItem struct {
	key     string
	payload []byte
	until   time.Time
}

func (it *memoItem) stale(now time.Time) bool { return !now.Before(it.until) }

// InitCache installs the process cache. An empty redisURL keeps it memory-only;
// an unreachable Redis is logged and skipped.
func InitCache(redisURL string, ttl time.Duration, maxEntries int, cleanupInterval time.Duration) {
	m := &memo{
		order:   list.New(),
		entries: make(map[string]*list.Element),
		limit:   maxEntries,
		ttl:     ttl,
		rdb:     dialRedis(redisURL),
	}
	resultCache = m
	slog.Debug("cache: initialized",
		slog.Duration("ttl", ttl),
		slog.Int("max_entries", maxEntries),
		slog.Bool("redis", m.rdb != nil))

	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	go m.sweepEvery(cleanupInterval)
}

func dialRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("cache: bad REDIS_URL, using memory only", slog.Any("error", err))
		return nil
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("cache: redis ping failed, using memory only",
			slog.String("addr", opts.Addr), slog.Any("error", err))
		_ = rdb.Close()
		return nil
	}
	slog.Info("cache: redis connected", slog.String("addr", opts.Addr))
	return rdb
}

// CacheEnabled reports whether InitCache has run.
func CacheEnabled() bool { return resultCache != nil }

// CacheRedis reports whether the Redis tier is connected.
func CacheRedis() bool { return resultCache != nil && resultCache.rdb != nil }

// CacheKey hashes the tool name and its arguments into a short stable key.
// Parts are length-prefixed so ("ab","c") and ("a","bc") never collide.
func CacheKey(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:12])
}

// CacheGet returns the payload stored under key. A Redis hit is copied
// into memory for subsequent lookups.
func CacheGet(ctx context.Context, key string) ([]byte, bool) {
	m := resultCache
	if m == nil {
		cacheMisses.Add(1)
		return nil, false
	}
	if data, ok := m.local(key); ok {
		cacheHits.Add(1)
		return data, true
	}
	if m.rdb != nil {
		data, err := m.rdb.Get(ctx, key).Bytes()
		if err == nil {
			slog.Debug("cache: redis hit", slog.String("key", key))
			m.remember(key, data)
			cacheHits.Add(1)
			return data, true
		}
		if err != redis.Nil {
			slog.Debug("cache: redis get failed", slog.Any("error", err))
		}
	}
	cacheMisses.Add(1)
	return nil, false
}

// CacheSet stores data under key in memory and, when connected, Redis.
func CacheSet(ctx context.Context, key string, data []byte) {
	m := resultCache
	if m == nil {
		return
	}
	m.remember(key, data)
	if m.rdb == nil {
		return
	}
	if err := m.rdb.Set(ctx, key, data, m.ttl).Err(); err != nil {
		slog.Debug("cache: redis set failed", slog.Any("error", err))
	}
}

// CacheLoadJSON decodes the payload under key. Undecodable entries count as misses.
func CacheLoadJSON[T any](ctx context.Context, key string) (T, bool) {
	var out T
	data, ok := CacheGet(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Debug("cache: dropping undecodable entry", slog.String("key", key))
		var zero T
		return zero, false
	}
	return out, true
}

// CacheStoreJSON encodes v and stores it under key.
func CacheStoreJSON[T any](ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Debug("cache: encode failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	CacheSet(ctx, key, data)
}

// CacheStats returns hit/miss counters since process start.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

func (m *memo) local(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	it := el.Value.(*memoItem)
	if it.stale(time.Now()) {
		m.drop(el)
		return nil, false
	}
	m.order.MoveToFront(el)
	return it.payload, true
}

func (m *memo) remember(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until := time.Now().Add(m.ttl)
	if el, ok := m.entries[key]; ok {
		it := el.Value.(*memoItem)
		it.payload, it.until = data, until
		m.order.MoveToFront(el)
		return
	}
	m.entries[key] = m.order.PushFront(&memoItem{key: key, payload: data, until: until})
	if m.limit <= 0 {
		return
	}
	for m.order.Len() > m.limit {
		m.drop(m.order.Back())
	}
}

// drop unlinks el; callers hold m.mu.
func (m *memo) drop(el *list.Element) {
	delete(m.entries, el.Value.(*memoItem).key)
	m.order.Remove(el)
}

func (m *memo) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *memo) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for el := m.order.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoItem).stale(now) {
			m.drop(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (m *memo) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		if n := m.sweep(now); n > 0 {
			slog.Debug("cache: swept expired entries", slog.Int("removed", n))
		}
	}
}

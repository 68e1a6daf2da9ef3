package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMemoryCacheSize = 4096
	DefaultMemoryCacheTTL  = 24 * time.Hour
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memoryCache is used when no redis is configured. Values are stored as JSON so
// Get behaves like the redis implementation. The LRU bounds the number of keys and
// evicts anything older than its TTL in the background; a shorter per-key TTL is
// checked on read.
type memoryCache struct {
	entries *expirable.LRU[string, memoryEntry]
	now     func() time.Time
}

func NewMemoryCache() CacheService {
	return NewMemoryCacheWithLimits(DefaultMemoryCacheSize, DefaultMemoryCacheTTL)
}

// NewMemoryCacheWithLimits keeps at most size keys, none of them longer than ttl.
func NewMemoryCacheWithLimits(size int, ttl time.Duration) CacheService {
	return newMemoryCache(size, ttl, time.Now)
}

func newMemoryCache(size int, ttl time.Duration, now func() time.Time) *memoryCache {
	return &memoryCache{
		entries: expirable.NewLRU[string, memoryEntry](size, nil, ttl),
		now:     now,
	}
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.entries.Add(key, entry)
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	entry, ok := m.entries.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.entries.Remove(key)
		return ErrCacheMiss
	}
	return json.Unmarshal(entry.data, dest)
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// DeletePattern uses path.Match globbing, so unlike redis MATCH a * does not cross "/".
func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	for _, key := range m.entries.Keys() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return err
		}
		if matched {
			m.entries.Remove(key)
		}
	}
	return nil
}

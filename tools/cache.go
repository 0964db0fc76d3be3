package tools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/types"
)

// Store is a TTL result cache for tool outputs. Expired entries must be
// treated as absent on read even when eviction is deferred.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
	ClearExpired(ctx context.Context)
}

// CacheKey derives a deterministic key from a tool name and its normalized
// arguments. json.Marshal emits map keys in sorted order, so the key is
// independent of argument ordering.
func CacheKey(tool string, args types.Args) string {
	data, err := json.Marshal(args)
	if err != nil {
		// Fallback for unmarshalable values; still deterministic per run.
		data = []byte(fmt.Sprintf("%v", args))
	}
	sum := sha256.Sum256(append([]byte(tool+":"), data...))
	return "tool:cache:" + hex.EncodeToString(sum[:16])
}

// CacheStats tracks cache performance.
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

type memoryEntry struct {
	value     string
	createdAt time.Time
	expiresAt time.Time
	hitCount  int
}

// MemoryStore is an in-process Store backed by a mutex-guarded map.
// When the capacity bound is reached the oldest entry is evicted.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	maxEntries int
	stats      CacheStats
	logger     *zap.Logger

	// now is swappable for expiry tests.
	now func() time.Time
}

// MemoryStoreConfig configures a MemoryStore.
type MemoryStoreConfig struct {
	MaxEntries int `json:"max_entries"`
}

// DefaultMemoryStoreConfig returns sensible defaults.
func DefaultMemoryStoreConfig() MemoryStoreConfig {
	return MemoryStoreConfig{MaxEntries: 10000}
}

// NewMemoryStore creates an in-memory result cache.
func NewMemoryStore(config MemoryStoreConfig, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultMemoryStoreConfig().MaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]*memoryEntry),
		maxEntries: config.MaxEntries,
		logger:     logger.With(zap.String("component", "tool_cache")),
		now:        time.Now,
	}
}

// Get returns the cached value, treating expired entries as absent and
// evicting them in place.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		s.stats.Misses++
		return "", false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		s.stats.Misses++
		s.stats.Size = len(s.entries)
		return "", false
	}

	entry.hitCount++
	s.stats.Hits++
	return entry.value, true
}

// Set stores a value under key for the given TTL, refreshing the timestamp
// if the key already exists.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldest()
	}

	now := s.now()
	s.entries[key] = &memoryEntry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	s.stats.Size = len(s.entries)
}

// Delete removes a single entry.
func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	s.stats.Size = len(s.entries)
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*memoryEntry)
	s.stats.Size = 0
}

// ClearExpired eagerly evicts every expired entry.
func (s *MemoryStore) ClearExpired(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			s.stats.Evictions++
		}
	}
	s.stats.Size = len(s.entries)
}

// Stats returns a snapshot of cache counters.
func (s *MemoryStore) Stats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// evictOldest drops the entry with the oldest creation time. Caller holds
// the write lock.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range s.entries {
		if oldestKey == "" || entry.createdAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.createdAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
		s.stats.Evictions++
	}
}

package tools

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore is a Store backed by Redis, for sharing cached tool results
// across processes. Expiry is enforced by Redis key TTLs, so ClearExpired
// is a no-op.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// RedisStoreConfig configures a RedisStore.
type RedisStoreConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	// KeyPrefix namespaces all cache keys (default "crewkit:").
	KeyPrefix string `json:"key_prefix"`
	PoolSize  int    `json:"pool_size"`
}

// DefaultRedisStoreConfig returns sensible defaults.
func DefaultRedisStoreConfig() RedisStoreConfig {
	return RedisStoreConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "crewkit:",
		PoolSize:  10,
	}
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(config RedisStoreConfig, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultRedisStoreConfig().KeyPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
		prefix: config.KeyPrefix,
		logger: logger.With(zap.String("component", "redis_tool_cache")),
	}, nil
}

// Get returns the cached value if present and unexpired.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		s.logger.Warn("cache get failed", zap.Error(err))
		return "", false
	}
	return value, true
}

// Set stores a value with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", zap.Error(err))
	}
}

// Delete removes a single entry.
func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.Warn("cache delete failed", zap.Error(err))
	}
}

// Clear removes every entry under the store's prefix.
func (s *RedisStore) Clear(ctx context.Context) {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("cache clear failed", zap.Error(err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("cache scan failed", zap.Error(err))
	}
}

// ClearExpired is a no-op: Redis expires keys itself.
func (s *RedisStore) ClearExpired(context.Context) {}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopbridge/backend/internal/domain/shared"
)

// dedupeKeyPrefix namespaces import row keys in the shared Redis instance
const dedupeKeyPrefix = "import:dedupe:"

// RedisDedupeStore tracks already-submitted row keys in Redis so every
// instance of the service sees the same claim set.
type RedisDedupeStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOptions holds Redis connection settings for the dedupe store
type RedisOptions struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisDedupeStore connects to Redis and verifies the connection
func NewRedisDedupeStore(opts RedisOptions) (*RedisDedupeStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDedupeStore{client: client, keyPrefix: dedupeKeyPrefix}, nil
}

// NewRedisDedupeStoreWithClient wraps an existing client, used in tests and
// when sharing one client across components.
func NewRedisDedupeStoreWithClient(client *redis.Client, keyPrefix string) *RedisDedupeStore {
	if keyPrefix == "" {
		keyPrefix = dedupeKeyPrefix
	}
	return &RedisDedupeStore{client: client, keyPrefix: keyPrefix}
}

// MarkProcessed claims a row key atomically via SETNX. Returns true when the
// key was newly claimed.
func (s *RedisDedupeStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim import key: %w", err)
	}
	return claimed, nil
}

// IsProcessed reports whether a row key is currently claimed
func (s *RedisDedupeStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check import key: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisDedupeStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisDedupeStore)(nil)

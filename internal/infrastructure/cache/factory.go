package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/domain/shared"
)

// Dedupe backends selectable via configuration
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DedupeStoreFactory builds the configured dedupe store backend
type DedupeStoreFactory struct {
	backend       string
	redisOptions  RedisOptions
	logger        *zap.Logger
	allowFallback bool
}

// FactoryOption is a functional option for the factory
type FactoryOption func(*DedupeStoreFactory)

// WithLogger sets the factory logger
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *DedupeStoreFactory) { f.logger = logger }
}

// WithMemoryFallback controls falling back to the in-memory store when Redis
// is configured but unreachable. Default is true.
func WithMemoryFallback(allow bool) FactoryOption {
	return func(f *DedupeStoreFactory) { f.allowFallback = allow }
}

// NewDedupeStoreFactory creates a factory for the given backend name
func NewDedupeStoreFactory(backend string, redisOptions RedisOptions, opts ...FactoryOption) *DedupeStoreFactory {
	f := &DedupeStoreFactory{
		backend:       backend,
		redisOptions:  redisOptions,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore builds the store for the configured backend. A Redis backend
// that cannot connect degrades to the in-memory store unless fallback is
// disabled; duplicate detection then only spans this instance.
func (f *DedupeStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	switch f.backend {
	case BackendRedis:
		store, err := NewRedisDedupeStore(f.redisOptions)
		if err == nil {
			f.logger.Info("using Redis dedupe store")
			return store, nil
		}
		if !f.allowFallback {
			return nil, fmt.Errorf("redis dedupe store required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory dedupe store",
			zap.Error(err),
		)
		return NewInMemoryDedupeStore(), nil
	case BackendMemory, "":
		return NewInMemoryDedupeStore(), nil
	default:
		return nil, fmt.Errorf("unknown dedupe backend %q", f.backend)
	}
}

package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores idempotency keys of successfully submitted rows so
// that repeated submissions of the same logical row can be collapsed locally
// before ever reaching the remote platform.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for local submission deduplication
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed keys. After this duration the
	// same key can be submitted again.
	TTL time.Duration

	// Enabled determines whether local dedupe checking is enabled.
	// The remote platform still deduplicates by idempotency header either way.
	Enabled bool
}

// DefaultIdempotencyConfig returns the default dedupe configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: false,
	}
}

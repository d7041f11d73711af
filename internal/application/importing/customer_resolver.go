package importapp

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// CustomerResolver resolves row emails to platform customer ids, creating the
// customer when no match exists. Resolution is best effort: any lookup or
// creation failure leaves the order's inline customer block in place instead
// of failing the row.
//
// Concurrent rows sharing one email are collapsed into a single platform
// round trip, so a file with two hundred rows for the same buyer performs one
// lookup, not two hundred.
type CustomerResolver struct {
	api    integration.CustomerAPI
	logger *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]int64
}

// NewCustomerResolver creates a resolver with an empty run-scoped cache
func NewCustomerResolver(api integration.CustomerAPI, logger *zap.Logger) *CustomerResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerResolver{
		api:    api,
		logger: logger,
		cache:  make(map[string]int64),
	}
}

// Resolve returns the platform customer id for the email, creating the
// customer if needed. ok is false when the email could not be resolved.
// The email is lowercased first so casing variants of one address share a
// cache entry and a single platform record.
func (r *CustomerResolver) Resolve(ctx context.Context, email, firstName, lastName, phone string) (int64, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return 0, false
	}

	r.mu.RLock()
	id, hit := r.cache[email]
	r.mu.RUnlock()
	if hit {
		return id, true
	}

	v, err, _ := r.group.Do(email, func() (any, error) {
		return r.lookupOrCreate(ctx, email, firstName, lastName, phone)
	})
	if err != nil {
		r.logger.Warn("customer resolution failed, submitting order with inline customer",
			zap.String("email", email),
			zap.Error(err),
		)
		return 0, false
	}

	id = v.(int64)
	r.mu.Lock()
	r.cache[email] = id
	r.mu.Unlock()
	return id, true
}

func (r *CustomerResolver) lookupOrCreate(ctx context.Context, email, firstName, lastName, phone string) (int64, error) {
	id, found, err := r.api.FindCustomerByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	return r.api.CreateCustomer(ctx, email, firstName, lastName, phone)
}

package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopbridge/backend/internal/domain/importing"
)

// Platform errors
var (
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")
	ErrOrderNotFound           = errors.New("integration: platform order not found")
	ErrCustomerNotCreated      = errors.New("integration: customer could not be created")
)

// PlatformError is a remote rejection carrying the last observed HTTP status
// and response body for per-row diagnostics.
type PlatformError struct {
	Status int
	Body   string
}

// Error implements the error interface
func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform returned %d: %s", e.Status, e.Body)
}

// Is lets callers match any PlatformError against ErrPlatformRequestFailed
func (e *PlatformError) Is(target error) bool {
	return target == ErrPlatformRequestFailed
}

// OrderAPI creates orders on the remote platform
type OrderAPI interface {
	// CreateOrder submits an order-creation payload under the given
	// idempotency key and returns the created order's numeric id. Retried
	// submissions must reuse the same key so the platform collapses
	// duplicates instead of creating a second order.
	CreateOrder(ctx context.Context, payload *importing.OrderPayload, idempotencyKey string) (int64, error)
}

// CustomerAPI looks up and creates customer records on the remote platform
type CustomerAPI interface {
	// FindCustomerByEmail returns the numeric customer id for an email,
	// or found=false when no customer matches.
	FindCustomerByEmail(ctx context.Context, email string) (id int64, found bool, err error)

	// CreateCustomer creates a customer record and returns its numeric id
	CreateCustomer(ctx context.Context, email, firstName, lastName, phone string) (int64, error)
}

// OrderSummary is a thin projection of a platform order used by the
// operational tools (bulk delete, bulk fulfill).
type OrderSummary struct {
	ID          string     `json:"id"` // platform GID
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// OrderAdminAPI exposes the administrative order operations behind the tools
type OrderAdminAPI interface {
	// ListOrders pages through orders matching the platform query string,
	// newest first, up to limit.
	ListOrders(ctx context.Context, query string, limit int) ([]OrderSummary, error)

	// CloseOrder closes an open order (required before deletion)
	CloseOrder(ctx context.Context, orderGID string) error

	// DeleteOrder deletes an order, returning the deleted id
	DeleteOrder(ctx context.Context, orderGID string) (string, error)

	// ListFulfillmentOrders returns the open fulfillment order GIDs of an order
	ListFulfillmentOrders(ctx context.Context, orderGID string) ([]string, error)

	// CreateFulfillment fulfills one fulfillment order
	CreateFulfillment(ctx context.Context, fulfillmentOrderGID string, notifyCustomer bool) error
}

// ShopInfo identifies the connected shop
type ShopInfo struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// ProductSummary is a thin product projection for the console listing
type ProductSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	TotalInventory int    `json:"total_inventory"`
}

// ShopAPI exposes the read-only console queries
type ShopAPI interface {
	GetShopInfo(ctx context.Context) (*ShopInfo, error)
	ListProducts(ctx context.Context, limit int) ([]ProductSummary, error)
	ListRecentOrders(ctx context.Context, query string, limit int) ([]OrderSummary, error)
}

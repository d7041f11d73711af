package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopbridge/backend/internal/domain/importing"
	"github.com/shopbridge/backend/internal/domain/integration"
)

// orderCreateResponse is the REST order-creation response shape
type orderCreateResponse struct {
	Order struct {
		ID int64 `json:"id"`
	} `json:"order"`
}

// CreateOrder submits the payload to the orders endpoint. The idempotency key
// travels as a request header so the platform collapses retried submissions
// of the same row into one order.
func (c *Client) CreateOrder(ctx context.Context, payload *importing.OrderPayload, idempotencyKey string) (int64, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["X-Shopify-Idempotency-Key"] = idempotencyKey
	}

	status, body, err := c.doREST(ctx, http.MethodPost, "orders.json", payload, headers)
	if err != nil {
		return 0, err
	}
	if status == http.StatusTooManyRequests {
		return 0, fmt.Errorf("%w: HTTP 429", integration.ErrPlatformRateLimited)
	}
	if status < 200 || status >= 300 {
		return 0, &integration.PlatformError{Status: status, Body: string(body)}
	}

	var resp orderCreateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if resp.Order.ID == 0 {
		return 0, fmt.Errorf("%w: order id missing from response", integration.ErrPlatformInvalidResponse)
	}
	return resp.Order.ID, nil
}

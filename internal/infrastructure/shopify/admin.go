package shopify

import (
	"context"
	"fmt"
	"time"

	"github.com/shopbridge/backend/internal/domain/integration"
)

const listOrdersQuery = `
query listOrders($query: String!, $first: Int!) {
  orders(first: $first, query: $query, sortKey: CREATED_AT, reverse: true) {
    edges {
      node {
        id
        name
        createdAt
        closedAt
        cancelledAt
      }
    }
  }
}`

// orderNode is the GraphQL order projection shared by the listing queries
type orderNode struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"createdAt"`
	ClosedAt    *time.Time `json:"closedAt"`
	CancelledAt *time.Time `json:"cancelledAt"`
}

type ordersQueryData struct {
	Orders struct {
		Edges []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

// userError is the GraphQL mutation rejection shape
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func firstUserError(errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, errs[0].Message)
}

// ListOrders pages orders matching the platform query string, newest first
func (c *Client) ListOrders(ctx context.Context, query string, limit int) ([]integration.OrderSummary, error) {
	if limit <= 0 || limit > 250 {
		limit = 250
	}
	var data ordersQueryData
	variables := map[string]any{"query": query, "first": limit}
	if err := c.doGraphQL(ctx, listOrdersQuery, variables, &data); err != nil {
		return nil, err
	}

	orders := make([]integration.OrderSummary, 0, len(data.Orders.Edges))
	for _, edge := range data.Orders.Edges {
		orders = append(orders, integration.OrderSummary{
			ID:          edge.Node.ID,
			Name:        edge.Node.Name,
			CreatedAt:   edge.Node.CreatedAt,
			ClosedAt:    edge.Node.ClosedAt,
			CancelledAt: edge.Node.CancelledAt,
		})
	}
	return orders, nil
}

const orderCloseMutation = `
mutation orderClose($input: OrderCloseInput!) {
  orderClose(input: $input) {
    order { id }
    userErrors { field message }
  }
}`

type orderCloseData struct {
	OrderClose struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
		UserErrors []userError `json:"userErrors"`
	} `json:"orderClose"`
}

// CloseOrder closes an open order. Orders must be closed before deletion.
func (c *Client) CloseOrder(ctx context.Context, orderGID string) error {
	var data orderCloseData
	variables := map[string]any{"input": map[string]any{"id": orderGID}}
	if err := c.doGraphQL(ctx, orderCloseMutation, variables, &data); err != nil {
		return err
	}
	return firstUserError(data.OrderClose.UserErrors)
}

const orderDeleteMutation = `
mutation orderDelete($orderId: ID!) {
  orderDelete(orderId: $orderId) {
    deletedId
    userErrors { field message }
  }
}`

type orderDeleteData struct {
	OrderDelete struct {
		DeletedID string      `json:"deletedId"`
		UserErrors []userError `json:"userErrors"`
	} `json:"orderDelete"`
}

// DeleteOrder deletes an order and returns the deleted id
func (c *Client) DeleteOrder(ctx context.Context, orderGID string) (string, error) {
	var data orderDeleteData
	variables := map[string]any{"orderId": orderGID}
	if err := c.doGraphQL(ctx, orderDeleteMutation, variables, &data); err != nil {
		return "", err
	}
	if err := firstUserError(data.OrderDelete.UserErrors); err != nil {
		return "", err
	}
	if data.OrderDelete.DeletedID == "" {
		return "", integration.ErrOrderNotFound
	}
	return data.OrderDelete.DeletedID, nil
}

const fulfillmentOrdersQuery = `
query fulfillmentOrders($id: ID!) {
  order(id: $id) {
    fulfillmentOrders(first: 10) {
      edges {
        node {
          id
          status
        }
      }
    }
  }
}`

type fulfillmentOrdersData struct {
	Order *struct {
		FulfillmentOrders struct {
			Edges []struct {
				Node struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"fulfillmentOrders"`
	} `json:"order"`
}

// ListFulfillmentOrders returns the GIDs of the order's open fulfillment orders
func (c *Client) ListFulfillmentOrders(ctx context.Context, orderGID string) ([]string, error) {
	var data fulfillmentOrdersData
	variables := map[string]any{"id": orderGID}
	if err := c.doGraphQL(ctx, fulfillmentOrdersQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, integration.ErrOrderNotFound
	}

	var ids []string
	for _, edge := range data.Order.FulfillmentOrders.Edges {
		if edge.Node.Status == "OPEN" {
			ids = append(ids, edge.Node.ID)
		}
	}
	return ids, nil
}

const fulfillmentCreateMutation = `
mutation fulfillmentCreate($fulfillment: FulfillmentV2Input!) {
  fulfillmentCreateV2(fulfillment: $fulfillment) {
    fulfillment { id }
    userErrors { field message }
  }
}`

type fulfillmentCreateData struct {
	FulfillmentCreateV2 struct {
		Fulfillment struct {
			ID string `json:"id"`
		} `json:"fulfillment"`
		UserErrors []userError `json:"userErrors"`
	} `json:"fulfillmentCreateV2"`
}

// CreateFulfillment fulfills every line of one fulfillment order
func (c *Client) CreateFulfillment(ctx context.Context, fulfillmentOrderGID string, notifyCustomer bool) error {
	var data fulfillmentCreateData
	variables := map[string]any{
		"fulfillment": map[string]any{
			"notifyCustomer": notifyCustomer,
			"lineItemsByFulfillmentOrder": []map[string]any{
				{"fulfillmentOrderId": fulfillmentOrderGID},
			},
		},
	}
	if err := c.doGraphQL(ctx, fulfillmentCreateMutation, variables, &data); err != nil {
		return err
	}
	return firstUserError(data.FulfillmentCreateV2.UserErrors)
}

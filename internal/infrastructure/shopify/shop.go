package shopify

import (
	"context"

	"github.com/shopbridge/backend/internal/domain/integration"
)

const shopInfoQuery = `
query shopInfo {
  shop {
    name
    myshopifyDomain
  }
}`

type shopInfoData struct {
	Shop struct {
		Name            string `json:"name"`
		MyshopifyDomain string `json:"myshopifyDomain"`
	} `json:"shop"`
}

// GetShopInfo returns the connected shop's name and domain
func (c *Client) GetShopInfo(ctx context.Context) (*integration.ShopInfo, error) {
	var data shopInfoData
	if err := c.doGraphQL(ctx, shopInfoQuery, nil, &data); err != nil {
		return nil, err
	}
	return &integration.ShopInfo{
		Name:   data.Shop.Name,
		Domain: data.Shop.MyshopifyDomain,
	}, nil
}

const listProductsQuery = `
query listProducts($first: Int!) {
  products(first: $first, sortKey: UPDATED_AT, reverse: true) {
    edges {
      node {
        id
        title
        status
        totalInventory
      }
    }
  }
}`

type productsQueryData struct {
	Products struct {
		Edges []struct {
			Node struct {
				ID             string `json:"id"`
				Title          string `json:"title"`
				Status         string `json:"status"`
				TotalInventory int    `json:"totalInventory"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

// ListProducts returns the most recently updated products
func (c *Client) ListProducts(ctx context.Context, limit int) ([]integration.ProductSummary, error) {
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	var data productsQueryData
	if err := c.doGraphQL(ctx, listProductsQuery, map[string]any{"first": limit}, &data); err != nil {
		return nil, err
	}

	products := make([]integration.ProductSummary, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		products = append(products, integration.ProductSummary{
			ID:             edge.Node.ID,
			Title:          edge.Node.Title,
			Status:         edge.Node.Status,
			TotalInventory: edge.Node.TotalInventory,
		})
	}
	return products, nil
}

// ListRecentOrders returns recent orders matching the query string, reusing
// the admin listing projection.
func (c *Client) ListRecentOrders(ctx context.Context, query string, limit int) ([]integration.OrderSummary, error) {
	return c.ListOrders(ctx, query, limit)
}

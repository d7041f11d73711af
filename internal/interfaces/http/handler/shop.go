package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// ShopHandler exposes the read-only shop console queries
type ShopHandler struct {
	BaseHandler
	shop integration.ShopAPI
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shop integration.ShopAPI) *ShopHandler {
	return &ShopHandler{shop: shop}
}

// RegisterRoutes registers the shop console routes
func (h *ShopHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/shop")
	{
		group.GET("", h.GetShopInfo)
		group.GET("/products", h.ListProducts)
		group.GET("/orders", h.ListOrders)
	}
}

// GetShopInfo returns the connected shop's identity
func (h *ShopHandler) GetShopInfo(c *gin.Context) {
	info, err := h.shop.GetShopInfo(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// ListProducts returns the most recently updated products
func (h *ShopHandler) ListProducts(c *gin.Context) {
	products, err := h.shop.ListProducts(c.Request.Context(), queryLimit(c, 50))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// ListOrders returns recent orders, optionally filtered by a platform query
func (h *ShopHandler) ListOrders(c *gin.Context) {
	orders, err := h.shop.ListRecentOrders(c.Request.Context(), c.Query("query"), queryLimit(c, 50))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// queryLimit parses the limit query parameter, falling back to def
func queryLimit(c *gin.Context, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	toolsapp "github.com/shopbridge/backend/internal/application/tools"
	"github.com/shopbridge/backend/internal/interfaces/http/dto"
)

// ToolsService is the application surface the tools endpoints depend on
type ToolsService interface {
	DeleteImportedOrders(ctx context.Context, req toolsapp.Request) (*toolsapp.Report, error)
	FulfillUnfulfilledOrders(ctx context.Context, req toolsapp.Request) (*toolsapp.Report, error)
}

// ToolsHandler handles the operational bulk tools
type ToolsHandler struct {
	BaseHandler
	service ToolsService
}

// NewToolsHandler creates a new ToolsHandler
func NewToolsHandler(service ToolsService) *ToolsHandler {
	return &ToolsHandler{service: service}
}

// RegisterRoutes registers the tools routes
func (h *ToolsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/tools")
	{
		group.POST("/delete-imported-orders", h.DeleteImportedOrders)
		group.POST("/fulfill-orders", h.FulfillOrders)
	}
}

// DeleteImportedOrders removes orders previously created by the importer
func (h *ToolsHandler) DeleteImportedOrders(c *gin.Context) {
	req, ok := h.bindToolsRequest(c)
	if !ok {
		return
	}

	report, err := h.service.DeleteImportedOrders(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// FulfillOrders fulfills every unfulfilled order up to the requested limit
func (h *ToolsHandler) FulfillOrders(c *gin.Context) {
	req, ok := h.bindToolsRequest(c)
	if !ok {
		return
	}

	report, err := h.service.FulfillUnfulfilledOrders(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// bindToolsRequest parses the optional JSON body. An empty body falls back to
// the service defaults.
func (h *ToolsHandler) bindToolsRequest(c *gin.Context) (toolsapp.Request, bool) {
	var body dto.ToolsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.Error(c, 400, dto.ErrCodeValidation, "Invalid tools request: "+err.Error())
			return toolsapp.Request{}, false
		}
	}
	return toolsapp.Request{
		Query:          body.Query,
		Limit:          body.Limit,
		DryRun:         body.DryRun,
		NotifyCustomer: body.NotifyCustomer,
	}, true
}

package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	importapp "github.com/shopbridge/backend/internal/application/importing"
	"github.com/shopbridge/backend/internal/domain/importing"
	csvimport "github.com/shopbridge/backend/internal/infrastructure/import"
	"github.com/shopbridge/backend/internal/interfaces/http/dto"
)

// ImportService is the application surface the import endpoints depend on
type ImportService interface {
	ImportOrders(ctx context.Context, req importapp.ImportRequest) (*importing.Result, *importing.ImportRun, error)
	GetRun(ctx context.Context, id string) (*importing.ImportRun, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*importing.ImportRun, int64, error)
}

// ImportHandler handles the CSV import endpoints
type ImportHandler struct {
	BaseHandler
	service ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(service ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// RegisterRoutes registers the import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/import")
	{
		group.POST("/orders", h.ImportOrders)
		group.GET("/runs", h.ListRuns)
		group.GET("/runs/:id", h.GetRun)
	}
}

// ImportOrders accepts a CSV as a multipart file, inline text or remote URL
// and runs the import pipeline over it. Row failures are reported per row in
// the response body; only run-level failures produce an error status.
func (h *ImportHandler) ImportOrders(c *gin.Context) {
	var form dto.ImportOrdersForm
	if err := c.ShouldBind(&form); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid import request: "+err.Error())
		return
	}

	source := csvimport.Source{
		Text: form.CSVText,
		URL:  form.CSVURL,
	}
	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			h.BadRequest(c, "Uploaded file could not be opened")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			h.BadRequest(c, "Uploaded file could not be read")
			return
		}
		source.FileName = fileHeader.Filename
		source.FileBytes = data
	}

	result, run, err := h.service.ImportOrders(c.Request.Context(), importapp.ImportRequest{
		Source:   source,
		DryRun:   form.DryRun,
		MarkPaid: form.MarkPaid,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := dto.ImportOrdersResponse{
		Summary: result.Summary,
		Results: result.Results,
	}
	if run != nil {
		response.RunID = run.ID.String()
	}
	h.Success(c, response)
}

// GetRun returns one import run history record
func (h *ImportHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewImportRunResponse(run))
}

// ListRuns returns import run history, newest first
func (h *ImportHandler) ListRuns(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeValidation, "Invalid list request: "+err.Error())
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	runs, total, err := h.service.ListRuns(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.ImportRunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, dto.NewImportRunResponse(run))
	}
	h.SuccessWithMeta(c, responses, total, req.Limit, req.Offset)
}

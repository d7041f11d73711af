package dto

import (
	"time"

	"github.com/shopbridge/backend/internal/domain/importing"
)

// ImportOrdersForm carries the non-file fields of an import request. The CSV
// itself arrives as a multipart file upload, inline text or a remote URL;
// exactly one is used, in that order.
type ImportOrdersForm struct {
	CSVText  string `form:"csv_text"`
	CSVURL   string `form:"csv_url" binding:"omitempty,url"`
	DryRun   bool   `form:"dry_run"`
	MarkPaid bool   `form:"mark_paid"`
}

// ImportOrdersResponse is the import outcome plus the persisted run id
type ImportOrdersResponse struct {
	RunID   string                 `json:"run_id,omitempty"`
	Summary importing.Summary      `json:"summary"`
	Results []importing.RowOutcome `json:"results"`
}

// ImportRunResponse is one run history record with derived fields
type ImportRunResponse struct {
	ID            string     `json:"id"`
	ShopDomain    string     `json:"shop_domain"`
	Source        string     `json:"source"`
	FileName      string     `json:"file_name,omitempty"`
	Status        string     `json:"status"`
	TotalRows     int        `json:"total_rows"`
	CreatedRows   int        `json:"created_rows"`
	FailedRows    int        `json:"failed_rows"`
	DuplicateRows int        `json:"duplicate_rows"`
	SuccessRate   float64    `json:"success_rate"`
	DurationMS    int64      `json:"duration_ms"`
	Error         string     `json:"error,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewImportRunResponse projects a run record into its API shape
func NewImportRunResponse(run *importing.ImportRun) ImportRunResponse {
	return ImportRunResponse{
		ID:            run.ID.String(),
		ShopDomain:    run.ShopDomain,
		Source:        string(run.Source),
		FileName:      run.FileName,
		Status:        string(run.Status),
		TotalRows:     run.TotalRows,
		CreatedRows:   run.CreatedRows,
		FailedRows:    run.FailedRows,
		DuplicateRows: run.DuplicateRows,
		SuccessRate:   run.SuccessRate(),
		DurationMS:    run.Duration().Milliseconds(),
		Error:         run.Error,
		StartedAt:     run.StartedAt,
		CompletedAt:   run.CompletedAt,
		CreatedAt:     run.CreatedAt,
	}
}

// ToolsRequest tunes one bulk tool invocation
type ToolsRequest struct {
	Query          string `json:"query"`
	Limit          int    `json:"limit" binding:"omitempty,min=1,max=250"`
	DryRun         bool   `json:"dry_run"`
	NotifyCustomer bool   `json:"notify_customer"`
}

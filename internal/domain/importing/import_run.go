package importing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopbridge/backend/internal/domain/shared"
)

// SourceType identifies where an import run's CSV came from
type SourceType string

const (
	SourceFile SourceType = "file"
	SourceText SourceType = "text"
	SourceURL  SourceType = "url"
)

// IsValid checks if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceFile, SourceText, SourceURL:
		return true
	}
	return false
}

// RunStatus represents the status of an import run
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// IsTerminal returns true if this is a terminal state
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// ImportRun tracks one CSV-to-orders import run end to end
type ImportRun struct {
	ID            uuid.UUID  `json:"id"`
	ShopDomain    string     `json:"shop_domain"`
	Source        SourceType `json:"source"`
	FileName      string     `json:"file_name,omitempty"`
	FileSize      int64      `json:"file_size,omitempty"`
	Status        RunStatus  `json:"status"`
	TotalRows     int        `json:"total_rows"`
	CreatedRows   int        `json:"created_rows"`
	FailedRows    int        `json:"failed_rows"`
	DuplicateRows int        `json:"duplicate_rows"`
	Error         string     `json:"error,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewImportRun creates a new import run record
func NewImportRun(shopDomain string, source SourceType, fileName string, fileSize int64) (*ImportRun, error) {
	if shopDomain == "" {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop domain cannot be empty")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", fmt.Sprintf("Invalid source type: %s", source))
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	now := time.Now()
	return &ImportRun{
		ID:         uuid.New(),
		ShopDomain: shopDomain,
		Source:     source,
		FileName:   fileName,
		FileSize:   fileSize,
		Status:     RunStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// StartProcessing marks the run as started
func (r *ImportRun) StartProcessing() error {
	if r.Status != RunStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing from state: %s", r.Status))
	}
	now := time.Now()
	r.Status = RunStatusProcessing
	r.StartedAt = &now
	r.UpdatedAt = now
	return nil
}

// Complete records the run's final counters
func (r *ImportRun) Complete(summary Summary) error {
	if r.Status != RunStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", r.Status))
	}
	r.TotalRows = summary.TotalRows
	r.CreatedRows = summary.Created
	r.FailedRows = summary.Failed
	r.DuplicateRows = summary.Duplicates

	r.Status = RunStatusCompleted
	if summary.TotalRows > 0 && summary.Created == 0 && summary.Duplicates == 0 && summary.Previewed == 0 {
		r.Status = RunStatusFailed
	}
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// Fail marks the run as failed before or during processing
func (r *ImportRun) Fail(msg string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", r.Status))
	}
	now := time.Now()
	r.Status = RunStatusFailed
	r.Error = msg
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// Duration returns how long the run took (or has taken so far)
func (r *ImportRun) Duration() time.Duration {
	if r.StartedAt == nil {
		return 0
	}
	end := time.Now()
	if r.CompletedAt != nil {
		end = *r.CompletedAt
	}
	return end.Sub(*r.StartedAt)
}

// SuccessRate returns the created percentage (0-100)
func (r *ImportRun) SuccessRate() float64 {
	if r.TotalRows == 0 {
		return 0
	}
	return float64(r.CreatedRows) / float64(r.TotalRows) * 100
}

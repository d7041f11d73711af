package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopbridge/backend/internal/domain/importing"
)

// ImportRunModel is the GORM mapping of an import run history record
type ImportRunModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopDomain    string    `gorm:"size:255;not null;index"`
	Source        string    `gorm:"size:16;not null"`
	FileName      string    `gorm:"size:512"`
	FileSize      int64
	Status        string `gorm:"size:16;not null;index"`
	TotalRows     int
	CreatedRows   int
	FailedRows    int
	DuplicateRows int
	Error         string `gorm:"type:text"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName overrides the table name
func (ImportRunModel) TableName() string {
	return "import_runs"
}

// ToDomain converts the model to the domain aggregate
func (m *ImportRunModel) ToDomain() *importing.ImportRun {
	return &importing.ImportRun{
		ID:            m.ID,
		ShopDomain:    m.ShopDomain,
		Source:        importing.SourceType(m.Source),
		FileName:      m.FileName,
		FileSize:      m.FileSize,
		Status:        importing.RunStatus(m.Status),
		TotalRows:     m.TotalRows,
		CreatedRows:   m.CreatedRows,
		FailedRows:    m.FailedRows,
		DuplicateRows: m.DuplicateRows,
		Error:         m.Error,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ImportRunModelFromDomain converts the domain aggregate to its GORM model
func ImportRunModelFromDomain(run *importing.ImportRun) *ImportRunModel {
	return &ImportRunModel{
		ID:            run.ID,
		ShopDomain:    run.ShopDomain,
		Source:        string(run.Source),
		FileName:      run.FileName,
		FileSize:      run.FileSize,
		Status:        string(run.Status),
		TotalRows:     run.TotalRows,
		CreatedRows:   run.CreatedRows,
		FailedRows:    run.FailedRows,
		DuplicateRows: run.DuplicateRows,
		Error:         run.Error,
		StartedAt:     run.StartedAt,
		CompletedAt:   run.CompletedAt,
		CreatedAt:     run.CreatedAt,
		UpdatedAt:     run.UpdatedAt,
	}
}

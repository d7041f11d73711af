package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopbridge/backend/internal/domain/importing"
	"github.com/shopbridge/backend/internal/domain/shared"
	"github.com/shopbridge/backend/internal/infrastructure/persistence/models"
)

// GormImportRunRepository implements ImportRunRepository using GORM
type GormImportRunRepository struct {
	db *gorm.DB
}

// NewGormImportRunRepository creates a new GormImportRunRepository
func NewGormImportRunRepository(db *gorm.DB) *GormImportRunRepository {
	return &GormImportRunRepository{db: db}
}

// Save creates or updates an import run record
func (r *GormImportRunRepository) Save(ctx context.Context, run *importing.ImportRun) error {
	model := models.ImportRunModelFromDomain(run)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an import run by ID
func (r *GormImportRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*importing.ImportRun, error) {
	var model models.ImportRunModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns import runs newest first, with the total count for paging
func (r *GormImportRunRepository) List(ctx context.Context, limit, offset int) ([]*importing.ImportRun, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ImportRunModel{})

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var runModels []models.ImportRunModel
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&runModels).Error; err != nil {
		return nil, 0, err
	}

	runs := make([]*importing.ImportRun, len(runModels))
	for i := range runModels {
		runs[i] = runModels[i].ToDomain()
	}
	return runs, totalCount, nil
}

// Compile-time interface compliance check
var _ importing.ImportRunRepository = (*GormImportRunRepository)(nil)

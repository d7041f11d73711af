package importing

import (
	"context"

	"github.com/google/uuid"
)

// ImportRunRepository persists import run history
type ImportRunRepository interface {
	Save(ctx context.Context, run *ImportRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*ImportRun, error)
	List(ctx context.Context, limit, offset int) ([]*ImportRun, int64, error)
}

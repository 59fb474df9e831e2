package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/trackle/backend/internal/domain/shared"
)

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Project, error)
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, project *Project) error

	// AddRef records a project reference, ignoring duplicates.
	AddRef(ctx context.Context, ref *ProjectRef) error
	RemoveRef(ctx context.Context, projectID uuid.UUID, refType RefType, refID uuid.UUID) error
}

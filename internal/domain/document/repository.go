package document

import (
	"context"

	"github.com/google/uuid"
)

// ListQuery carries the resolved constraints for a document listing.
// Built by the application layer, translated to SQL by the repository.
type ListQuery struct {
	// Requester visibility. When Privileged is true the ownership
	// restriction is skipped entirely.
	RequesterID uuid.UUID
	Privileged  bool

	// Optional field filters. Zero values are no-ops.
	Category   Category
	Status     Status
	FileType   string
	UploadedBy *uuid.UUID
	ProjectID  *uuid.UUID

	// ActiveProjectIDs limits results to documents whose project is
	// live or absent. Applied only when ProjectID is nil.
	ActiveProjectIDs []uuid.UUID

	// Search matches name or description, case-insensitively.
	Search string

	Page     int
	Limit    int
	OrderBy  string
	OrderDir string
}

// Skip returns the offset for the current page
func (q ListQuery) Skip() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// DocumentRepository defines persistence operations for documents
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, query ListQuery) ([]Document, error)
	CountMatching(ctx context.Context, query ListQuery) (int64, error)
	Save(ctx context.Context, doc *Document) error

	// AddShare records a share grant, ignoring duplicates.
	AddShare(ctx context.Context, share *DocumentShare) error
	RemoveShare(ctx context.Context, documentID, userID uuid.UUID) error

	CountByCategory(ctx context.Context, query ListQuery) (map[Category]int64, error)
}

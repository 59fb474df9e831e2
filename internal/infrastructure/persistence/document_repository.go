package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trackle/backend/internal/domain/document"
	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/infrastructure/persistence/docscope"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by ID, with its share grants
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var doc document.Document
	if err := r.db.WithContext(ctx).
		Preload("Shares").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// List returns the page of documents matching the query
func (r *GormDocumentRepository) List(ctx context.Context, query document.ListQuery) ([]document.Document, error) {
	var docs []document.Document
	tx := docscope.Apply(r.db.WithContext(ctx).Model(&document.Document{}), query)

	orderBy := ValidateSortField(query.OrderBy, DocumentSortFields, "created_at")
	tx = tx.Order("documents." + orderBy + " " + ValidateSortOrder(query.OrderDir))

	if query.Page > 0 && query.Limit > 0 {
		tx = tx.Offset(query.Skip()).Limit(query.Limit)
	}

	if err := tx.Preload("Shares").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountMatching counts the documents matching the query, ignoring
// pagination.
func (r *GormDocumentRepository) CountMatching(ctx context.Context, query document.ListQuery) (int64, error) {
	var count int64
	tx := docscope.Apply(r.db.WithContext(ctx).Model(&document.Document{}), query)
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// AddShare records a share grant. Duplicate grants are ignored so the
// call is safe to repeat.
func (r *GormDocumentRepository) AddShare(ctx context.Context, share *document.DocumentShare) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(share).Error
}

// RemoveShare revokes a share grant
func (r *GormDocumentRepository) RemoveShare(ctx context.Context, documentID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		Delete(&document.DocumentShare{}).Error
}

// CountByCategory counts matching documents grouped by category
func (r *GormDocumentRepository) CountByCategory(ctx context.Context, query document.ListQuery) (map[document.Category]int64, error) {
	var rows []struct {
		Category document.Category
		Total    int64
	}
	tx := docscope.Apply(r.db.WithContext(ctx).Model(&document.Document{}), query)
	if err := tx.
		Select("documents.category AS category, COUNT(*) AS total").
		Group("documents.category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[document.Category]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Total
	}
	return counts, nil
}

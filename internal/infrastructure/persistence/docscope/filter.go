// Package docscope translates a document listing query into a GORM
// predicate. The predicate carries the requester's visibility boundary,
// so repositories never list documents the caller may not see.
//
// Usage:
//
//	scoped := docscope.Apply(db, query)
//	scoped.Find(&documents)
package docscope

import (
	"strings"

	"gorm.io/gorm"

	"github.com/trackle/backend/internal/domain/document"
)

// Apply returns db narrowed to the documents matching the query.
// Scalar filters AND together; the visibility disjunction and the search
// disjunction are each grouped before being ANDed, so a search match can
// never widen a non-privileged requester's access boundary.
func Apply(db *gorm.DB, q document.ListQuery) *gorm.DB {
	tx := db.Where("documents.deleted = ?", false)

	if q.Category != "" {
		tx = tx.Where("documents.category = ?", string(q.Category))
	}
	if q.Status != "" {
		tx = tx.Where("documents.status = ?", string(q.Status))
	}
	if q.FileType != "" {
		tx = tx.Where("documents.mime_type = ?", q.FileType)
	}
	if q.UploadedBy != nil {
		tx = tx.Where("documents.uploaded_by = ?", *q.UploadedBy)
	}

	if q.ProjectID != nil {
		tx = tx.Where("documents.project_id = ?", *q.ProjectID)
	} else if q.ActiveProjectIDs != nil {
		// Scope to live projects; documents without a project stay
		// visible.
		tx = tx.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("documents.project_id IN ?", q.ActiveProjectIDs).
				Or("documents.project_id IS NULL"),
		)
	}

	if !q.Privileged {
		tx = tx.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("documents.uploaded_by = ?", q.RequesterID).
				Or("EXISTS (SELECT 1 FROM document_shares WHERE document_shares.document_id = documents.id AND document_shares.user_id = ?)", q.RequesterID),
		)
	}

	if q.Search != "" {
		term := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("LOWER(documents.name) LIKE ?", term).
				Or("LOWER(documents.description) LIKE ?", term),
		)
	}

	return tx
}

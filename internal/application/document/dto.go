package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/trackle/backend/internal/domain/document"
)

// ListDocumentsRequest carries the query parameters for a document listing
type ListDocumentsRequest struct {
	Page       int        `form:"page"`
	Limit      int        `form:"limit"`
	Category   string     `form:"category"`
	Status     string     `form:"status"`
	FileType   string     `form:"file_type"`
	UploadedBy *uuid.UUID `form:"uploaded_by"`
	ProjectID  *uuid.UUID `form:"project_id"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// CreateDocumentRequest carries the metadata fields of a document upload.
// The file itself arrives as multipart content.
type CreateDocumentRequest struct {
	Name        string     `form:"name" binding:"required,min=1,max=255"`
	Description string     `form:"description" binding:"max=2000"`
	Category    string     `form:"category" binding:"omitempty,oneof=financial legal compliance tax general"`
	ProjectID   *uuid.UUID `form:"project_id"`
}

// UpdateDocumentRequest carries updatable document fields
type UpdateDocumentRequest struct {
	Name        *string    `form:"name" binding:"omitempty,min=1,max=255"`
	Description *string    `form:"description" binding:"omitempty,max=2000"`
	Category    *string    `form:"category" binding:"omitempty,oneof=financial legal compliance tax general"`
	ProjectID   *uuid.UUID `form:"project_id"`
}

// ShareDocumentRequest lists the users to grant read access to
type ShareDocumentRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" binding:"required,min=1"`
}

// ProjectSummary is the resolved project reference on a document
type ProjectSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
	Project     *ProjectSummary `json:"project,omitempty"`
	UploadedBy  uuid.UUID       `json:"uploaded_by"`
	FileName    string          `json:"file_name"`
	MimeType    string          `json:"mime_type"`
	FileSize    int64           `json:"file_size"`
	SharedWith  []uuid.UUID     `json:"shared_with,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListDocumentsResult is the outcome of a listing: the page of documents
// plus the two counts the envelope reports. Total is the predicate match
// count; Count is the number of documents actually returned, which can be
// lower when a project reference fails to resolve.
type ListDocumentsResult struct {
	Documents []DocumentResponse
	Total     int64
	Count     int
	Page      int
	Limit     int
}

// DownloadResult points the handler at the stored file
type DownloadResult struct {
	FilePath string
	FileName string
	MimeType string
}

func toDocumentResponse(doc *document.Document, project *ProjectSummary) DocumentResponse {
	resp := DocumentResponse{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Category:    doc.Category.String(),
		Status:      string(doc.Status),
		Project:     project,
		UploadedBy:  doc.UploadedBy,
		FileName:    doc.FileName,
		MimeType:    doc.MimeType,
		FileSize:    doc.FileSize,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	for _, s := range doc.Shares {
		resp.SharedWith = append(resp.SharedWith, s.UserID)
	}
	return resp
}

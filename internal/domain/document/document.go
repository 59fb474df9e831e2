package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/trackle/backend/internal/domain/shared"
)

// Category classifies a document
type Category string

const (
	CategoryFinancial  Category = "financial"
	CategoryLegal      Category = "legal"
	CategoryCompliance Category = "compliance"
	CategoryTax        Category = "tax"
	CategoryGeneral    Category = "general"
)

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryFinancial, CategoryLegal, CategoryCompliance, CategoryTax, CategoryGeneral:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Status marks whether a document is live or archived
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Document represents an uploaded file and its metadata
type Document struct {
	shared.BaseAggregateRoot
	Name        string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	Category    Category   `gorm:"type:varchar(20);not null;default:'general';index"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'active'"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index"`
	UploadedBy  uuid.UUID  `gorm:"type:uuid;not null;index"`
	FilePath    string     `gorm:"type:varchar(500);not null"`
	FileName    string     `gorm:"type:varchar(255);not null"`
	MimeType    string     `gorm:"type:varchar(100)"`
	FileSize    int64      `gorm:"not null;default:0"`
	Deleted     bool       `gorm:"not null;default:false;index"`

	Shares []DocumentShare `gorm:"foreignKey:DocumentID"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a new document record for an uploaded file
func NewDocument(name string, category Category, uploadedBy uuid.UUID) (*Document, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 255 characters")
	}
	if category == "" {
		category = CategoryGeneral
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown document category")
	}
	return &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(uploadedBy),
		Name:              name,
		Category:          category,
		Status:            StatusActive,
		UploadedBy:        uploadedBy,
	}, nil
}

// MarkDeleted soft-deletes the document
func (d *Document) MarkDeleted() {
	d.Deleted = true
	d.UpdatedAt = time.Now()
}

// AttachFile sets the stored file metadata
func (d *Document) AttachFile(path, fileName, mimeType string, size int64) {
	d.FilePath = path
	d.FileName = fileName
	d.MimeType = mimeType
	d.FileSize = size
	d.UpdatedAt = time.Now()
}

// AssignProject attaches the document to a project
func (d *Document) AssignProject(projectID uuid.UUID) {
	d.ProjectID = &projectID
	d.UpdatedAt = time.Now()
}

// IsSharedWith reports whether the loaded shares include the user
func (d *Document) IsSharedWith(userID uuid.UUID) bool {
	for _, s := range d.Shares {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// DocumentShare grants a user read access to a document
type DocumentShare struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_share,priority:1"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_share,priority:2"`
	SharedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (DocumentShare) TableName() string {
	return "document_shares"
}

// NewDocumentShare creates a share grant
func NewDocumentShare(documentID, userID, sharedBy uuid.UUID) *DocumentShare {
	return &DocumentShare{
		ID:         uuid.New(),
		DocumentID: documentID,
		UserID:     userID,
		SharedBy:   sharedBy,
		CreatedAt:  time.Now(),
	}
}

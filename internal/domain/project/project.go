package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/trackle/backend/internal/domain/shared"
)

// RefType classifies what a project reference points at
type RefType string

const (
	RefTypeDocument RefType = "document"
	RefTypeTask     RefType = "task"
)

// Project represents a project that documents and tasks attach to
type Project struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Deleted     bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project
func NewProject(name, description string, createdBy uuid.UUID) (*Project, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		Name:              name,
		Description:       description,
	}, nil
}

// MarkDeleted soft-deletes the project. Documents and tasks keep their
// project id; listings simply stop resolving it.
func (p *Project) MarkDeleted() {
	p.Deleted = true
	p.UpdatedAt = time.Now()
}

// Restore reverses a soft delete
func (p *Project) Restore() {
	p.Deleted = false
	p.UpdatedAt = time.Now()
}

// ProjectRef links a project to a document or task it owns. A
// (project, type, ref) triple is recorded at most once.
type ProjectRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_ref,priority:1"`
	RefType   RefType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_project_ref,priority:2"`
	RefID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_ref,priority:3"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (ProjectRef) TableName() string {
	return "project_refs"
}

// NewProjectRef creates a reference from a project to a document or task
func NewProjectRef(projectID uuid.UUID, refType RefType, refID uuid.UUID) *ProjectRef {
	return &ProjectRef{
		ID:        uuid.New(),
		ProjectID: projectID,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: time.Now(),
	}
}

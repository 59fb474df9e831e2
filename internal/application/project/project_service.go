package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/project"
	"github.com/trackle/backend/internal/domain/shared"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// ListProjectsRequest carries the query parameters for a project listing
type ListProjectsRequest struct {
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"include_deleted"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deleted     bool       `json:"deleted"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListProjectsResult is the outcome of a project listing
type ListProjectsResult struct {
	Projects []ProjectResponse
	Total    int64
	Page     int
	Limit    int
}

func toProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Deleted:     p.Deleted,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectService handles project operations
type ProjectService struct {
	projectRepo project.ProjectRepository
	logger      *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo project.ProjectRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, logger: logger}
}

// Create creates a project
func (s *ProjectService) Create(ctx context.Context, createdBy uuid.UUID, input CreateProjectRequest) (*ProjectResponse, error) {
	p, err := project.NewProject(input.Name, input.Description, createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("project_id", p.ID.String()),
		zap.String("name", p.Name))

	resp := toProjectResponse(p)
	return &resp, nil
}

// Get returns one project
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProjectResponse(p)
	return &resp, nil
}

// List returns a page of projects. Soft-deleted projects are hidden
// unless explicitly requested.
func (s *ProjectService) List(ctx context.Context, q ListProjectsRequest) (*ListProjectsResult, error) {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Search = q.Search
	if !q.IncludeDeleted {
		filter.Filters["deleted"] = false
	}

	total, err := s.projectRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, toProjectResponse(&projects[i]))
	}

	return &ListProjectsResult{
		Projects: responses,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

// Update changes project fields
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, input UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
		}
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	p.UpdatedAt = time.Now()

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := toProjectResponse(p)
	return &resp, nil
}

// Delete soft-deletes a project. Documents and tasks referencing it
// stay in place; listings stop resolving the project.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.MarkDeleted()
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return err
	}

	s.logger.Info("Project deleted", zap.String("project_id", id.String()))
	return nil
}

// Restore brings a soft-deleted project back
func (s *ProjectService) Restore(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Restore()
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := toProjectResponse(p)
	return &resp, nil
}

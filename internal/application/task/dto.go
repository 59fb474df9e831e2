package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/task"
)

// CreateTaskRequest represents a request to create a new task
type CreateTaskRequest struct {
	Title                  string           `json:"title" binding:"required,min=1,max=255"`
	Description            string           `json:"description" binding:"max=2000"`
	Amount                 *decimal.Decimal `json:"amount"`
	IncentivePercentage    *decimal.Decimal `json:"incentive_percentage"`
	VerificationPercentage *decimal.Decimal `json:"verification_percentage"`
	AssignedTo             *uuid.UUID       `json:"assigned_to"`
	ProjectID              *uuid.UUID       `json:"project_id"`
	Team                   []uuid.UUID      `json:"team"`
	DueDate                *time.Time       `json:"due_date"`
}

// UpdateTaskRequest represents a request to update a task
type UpdateTaskRequest struct {
	Title                  *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description            *string          `json:"description" binding:"omitempty,max=2000"`
	Amount                 *decimal.Decimal `json:"amount"`
	IncentivePercentage    *decimal.Decimal `json:"incentive_percentage"`
	VerificationPercentage *decimal.Decimal `json:"verification_percentage"`
	AssignedTo             *uuid.UUID       `json:"assigned_to"`
	DueDate                *time.Time       `json:"due_date"`
}

// ChangeStatusRequest asks for a single lifecycle transition
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListTasksRequest carries the query parameters for a task listing
type ListTasksRequest struct {
	Page       int        `form:"page"`
	Limit      int        `form:"limit"`
	Status     string     `form:"status"`
	AssignedTo *uuid.UUID `form:"assigned_to"`
	ProjectID  *uuid.UUID `form:"project_id"`
	Search     string     `form:"search"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	Status                 string          `json:"status"`
	Amount                 decimal.Decimal `json:"amount"`
	IncentivePercentage    decimal.Decimal `json:"incentive_percentage"`
	VerificationPercentage decimal.Decimal `json:"verification_percentage"`
	IncentiveAwarded       bool            `json:"incentive_awarded"`
	AssignedTo             *uuid.UUID      `json:"assigned_to,omitempty"`
	VerifiedBy             *uuid.UUID      `json:"verified_by,omitempty"`
	ProjectID              *uuid.UUID      `json:"project_id,omitempty"`
	Team                   []uuid.UUID     `json:"team,omitempty"`
	DueDate                *time.Time      `json:"due_date,omitempty"`
	CompletedAt            *time.Time      `json:"completed_at,omitempty"`
	CreatedBy              *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// IncentiveResponse represents an incentive in API responses
type IncentiveResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	TaskID     uuid.UUID       `json:"task_id"`
	ProjectID  *uuid.UUID      `json:"project_id,omitempty"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListTasksResult is the outcome of a task listing
type ListTasksResult struct {
	Tasks []TaskResponse
	Total int64
	Page  int
	Limit int
}

func toTaskResponse(t *task.Task) TaskResponse {
	resp := TaskResponse{
		ID:                     t.ID,
		Title:                  t.Title,
		Description:            t.Description,
		Status:                 t.Status.String(),
		Amount:                 t.Amount,
		IncentivePercentage:    t.IncentivePercentage,
		VerificationPercentage: t.VerificationPercentage,
		IncentiveAwarded:       t.IncentiveAwarded,
		AssignedTo:             t.AssignedTo,
		VerifiedBy:             t.VerifiedBy,
		ProjectID:              t.ProjectID,
		DueDate:                t.DueDate,
		CompletedAt:            t.CompletedAt,
		CreatedBy:              t.CreatedBy,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
	for _, m := range t.Team {
		resp.Team = append(resp.Team, m.UserID)
	}
	return resp
}

func toIncentiveResponse(inc *incentive.Incentive) IncentiveResponse {
	return IncentiveResponse{
		ID:         inc.ID,
		UserID:     inc.UserID,
		TaskID:     inc.TaskID,
		ProjectID:  inc.ProjectID,
		Type:       inc.Type.String(),
		Amount:     inc.Amount,
		Percentage: inc.Percentage,
		CreatedAt:  inc.CreatedAt,
	}
}

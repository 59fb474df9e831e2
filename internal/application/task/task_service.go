package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/domain/project"
	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/domain/task"
)

// TaskService handles task operations
type TaskService struct {
	taskRepo    task.TaskRepository
	projectRepo project.ProjectRepository
	engine      *IncentiveEngine
	logger      *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo task.TaskRepository,
	projectRepo project.ProjectRepository,
	engine *IncentiveEngine,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		engine:      engine,
		logger:      logger,
	}
}

// Create creates a new task in pending status
func (s *TaskService) Create(ctx context.Context, req identity.Requester, input CreateTaskRequest) (*TaskResponse, error) {
	t, err := task.NewTask(input.Title, input.Description, req.ID)
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	incentivePct := decimal.Zero
	verificationPct := decimal.Zero
	if input.Amount != nil {
		amount = *input.Amount
	}
	if input.IncentivePercentage != nil {
		incentivePct = *input.IncentivePercentage
	}
	if input.VerificationPercentage != nil {
		verificationPct = *input.VerificationPercentage
	}
	if err := t.SetBilling(amount, incentivePct, verificationPct); err != nil {
		return nil, err
	}

	if input.AssignedTo != nil {
		t.Assign(*input.AssignedTo)
	}
	t.DueDate = input.DueDate

	if input.ProjectID != nil {
		p, perr := s.projectRepo.FindByID(ctx, *input.ProjectID)
		if perr != nil {
			return nil, perr
		}
		if p.Deleted {
			return nil, shared.NewDomainError("PROJECT_DELETED", "Cannot attach tasks to a deleted project")
		}
		t.ProjectID = input.ProjectID
	}

	for _, member := range input.Team {
		t.Team = append(t.Team, *task.NewTaskMember(t.ID, member))
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if t.ProjectID != nil {
		ref := project.NewProjectRef(*t.ProjectID, project.RefTypeTask, t.ID)
		if err := s.projectRepo.AddRef(ctx, ref); err != nil {
			s.logger.Warn("Failed to record project task reference",
				zap.String("task_id", t.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Task created",
		zap.String("task_id", t.ID.String()),
		zap.String("created_by", req.ID.String()))

	resp := toTaskResponse(t)
	return &resp, nil
}

// List returns a page of tasks
func (s *TaskService) List(ctx context.Context, q ListTasksRequest) (*ListTasksResult, error) {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		filter.OrderDir = q.OrderDir
	}
	filter.Search = q.Search
	filter.Filters = map[string]any{"deleted": false}
	if q.Status != "" {
		filter.Filters["status"] = q.Status
	}
	if q.AssignedTo != nil {
		filter.Filters["assigned_to"] = *q.AssignedTo
	}
	if q.ProjectID != nil {
		filter.Filters["project_id"] = *q.ProjectID
	}

	total, err := s.taskRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}

	return &ListTasksResult{
		Tasks: responses,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Get returns one task
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(t)
	return &resp, nil
}

// Update changes task fields that do not touch the lifecycle
func (s *TaskService) Update(ctx context.Context, req identity.Requester, id uuid.UUID, input UpdateTaskRequest) (*TaskResponse, error) {
	t, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = *input.Description
	}

	if input.Amount != nil || input.IncentivePercentage != nil || input.VerificationPercentage != nil {
		if t.IncentiveAwarded {
			return nil, shared.NewDomainError("BILLING_LOCKED", "Billing cannot change after incentives are awarded")
		}
		amount := t.Amount
		incentivePct := t.IncentivePercentage
		verificationPct := t.VerificationPercentage
		if input.Amount != nil {
			amount = *input.Amount
		}
		if input.IncentivePercentage != nil {
			incentivePct = *input.IncentivePercentage
		}
		if input.VerificationPercentage != nil {
			verificationPct = *input.VerificationPercentage
		}
		if err := t.SetBilling(amount, incentivePct, verificationPct); err != nil {
			return nil, err
		}
	}

	if input.AssignedTo != nil {
		t.Assign(*input.AssignedTo)
	}
	if input.DueDate != nil {
		t.DueDate = input.DueDate
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	resp := toTaskResponse(t)
	return &resp, nil
}

// Delete soft-deletes a task
func (s *TaskService) Delete(ctx context.Context, req identity.Requester, id uuid.UUID) error {
	t, err := s.findLive(ctx, id)
	if err != nil {
		return err
	}

	t.MarkDeleted()
	if err := s.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	if t.ProjectID != nil {
		if rerr := s.projectRepo.RemoveRef(ctx, *t.ProjectID, project.RefTypeTask, t.ID); rerr != nil {
			s.logger.Warn("Failed to remove project reference on delete", zap.Error(rerr))
		}
	}

	s.logger.Info("Task deleted",
		zap.String("task_id", t.ID.String()),
		zap.String("deleted_by", req.ID.String()))
	return nil
}

// ChangeStatus validates and applies one lifecycle transition. Reaching
// completed triggers the incentive engine.
func (s *TaskService) ChangeStatus(ctx context.Context, req identity.Requester, id uuid.UUID, input ChangeStatusRequest) (*TaskResponse, error) {
	t, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}

	target := task.TaskStatus(input.Status)
	if err := t.ChangeStatus(target, req.ID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if target == task.TaskStatusCompleted {
		if err := s.engine.Award(ctx, t); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Task status changed",
		zap.String("task_id", t.ID.String()),
		zap.String("status", target.String()),
		zap.String("changed_by", req.ID.String()))

	resp := toTaskResponse(t)
	return &resp, nil
}

func (s *TaskService) findLive(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Deleted {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

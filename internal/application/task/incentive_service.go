package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/shared"
)

// ListIncentivesRequest carries the query parameters for an incentive listing
type ListIncentivesRequest struct {
	Page   int        `form:"page"`
	Limit  int        `form:"limit"`
	UserID *uuid.UUID `form:"user_id"`
	TaskID *uuid.UUID `form:"task_id"`
}

// ListIncentivesResult is the outcome of an incentive listing
type ListIncentivesResult struct {
	Incentives []IncentiveResponse
	Total      int64
	Page       int
	Limit      int
}

// IncentiveService exposes the append-only incentive ledger
type IncentiveService struct {
	incentiveRepo incentive.IncentiveRepository
}

// NewIncentiveService creates a new incentive service
func NewIncentiveService(incentiveRepo incentive.IncentiveRepository) *IncentiveService {
	return &IncentiveService{incentiveRepo: incentiveRepo}
}

// List returns a page of incentives. Members only see their own records;
// admins and managers may list anyone's.
func (s *IncentiveService) List(ctx context.Context, requesterID uuid.UUID, privileged bool, q ListIncentivesRequest) (*ListIncentivesResult, error) {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Filters = map[string]any{}

	userID := requesterID
	if privileged && q.UserID != nil {
		userID = *q.UserID
	}
	filter.Filters["user_id"] = userID
	if q.TaskID != nil {
		filter.Filters["task_id"] = *q.TaskID
	}

	total, err := s.incentiveRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	records, err := s.incentiveRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]IncentiveResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toIncentiveResponse(&records[i]))
	}

	return &ListIncentivesResult{
		Incentives: responses,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ForTask returns the incentives awarded for a task, newest first
func (s *IncentiveService) ForTask(ctx context.Context, taskID uuid.UUID) ([]IncentiveResponse, error) {
	records, err := s.incentiveRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	responses := make([]IncentiveResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toIncentiveResponse(&records[i]))
	}
	return responses, nil
}

// TotalForUser sums a user's awarded incentives
func (s *IncentiveService) TotalForUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.incentiveRepo.SumByUser(ctx, userID)
}

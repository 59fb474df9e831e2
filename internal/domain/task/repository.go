package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/shared"
)

// TaskRepository defines persistence operations for tasks
type TaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Task, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, task *Task) error

	// AwardIncentives flips the task's awarded flag and inserts the
	// given incentive records in one transaction. The flip is
	// conditional on the flag being unset; when another caller won the
	// race it returns shared.ErrAlreadyAwarded and inserts nothing.
	AwardIncentives(ctx context.Context, taskID uuid.UUID, incentives []*incentive.Incentive) error
}

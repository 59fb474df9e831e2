package task

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/domain/task"
)

// IncentiveEngine awards incentives when a task is completed. Awarding
// happens at most once per task: the repository flips the task's awarded
// flag with a conditional update in the same transaction that inserts the
// records, so concurrent completions cannot double-award.
type IncentiveEngine struct {
	taskRepo task.TaskRepository
	logger   *zap.Logger
}

// NewIncentiveEngine creates a new incentive engine
func NewIncentiveEngine(taskRepo task.TaskRepository, logger *zap.Logger) *IncentiveEngine {
	return &IncentiveEngine{taskRepo: taskRepo, logger: logger}
}

// Award computes and persists the incentive records for a completed task.
// Zero-percentage components produce no record; a verification record is
// created only when a verifier distinct from the assignee exists. A task
// that was already awarded is a no-op, not an error.
func (e *IncentiveEngine) Award(ctx context.Context, t *task.Task) error {
	if t.IncentiveAwarded {
		return nil
	}

	records, err := e.compute(t)
	if err != nil {
		return err
	}

	if err := e.taskRepo.AwardIncentives(ctx, t.ID, records); err != nil {
		if errors.Is(err, shared.ErrAlreadyAwarded) {
			e.logger.Debug("Incentives already awarded",
				zap.String("task_id", t.ID.String()))
			t.IncentiveAwarded = true
			return nil
		}
		return err
	}
	t.IncentiveAwarded = true

	e.logger.Info("Incentives awarded",
		zap.String("task_id", t.ID.String()),
		zap.Int("records", len(records)))
	return nil
}

// compute builds the incentive records for the task. Amounts are the task
// amount times the respective percentage over 100, banker's-rounded to
// two decimal places.
func (e *IncentiveEngine) compute(t *task.Task) ([]*incentive.Incentive, error) {
	var records []*incentive.Incentive

	if t.AssignedTo != nil && t.IncentivePercentage.IsPositive() {
		amount := t.TaskIncentive().Amount()
		rec, err := incentive.NewIncentive(*t.AssignedTo, t.ID, incentive.IncentiveTypeTask, amount, t.IncentivePercentage)
		if err != nil {
			return nil, err
		}
		rec.ProjectID = t.ProjectID
		records = append(records, rec)
	}

	verifier := t.VerifiedBy
	if verifier != nil && t.AssignedTo != nil && *verifier == *t.AssignedTo {
		verifier = nil
	}
	if verifier != nil && t.VerificationPercentage.IsPositive() {
		amount := t.VerificationIncentive().Amount()
		rec, err := incentive.NewIncentive(*verifier, t.ID, incentive.IncentiveTypeVerification, amount, t.VerificationPercentage)
		if err != nil {
			return nil, err
		}
		rec.ProjectID = t.ProjectID
		records = append(records, rec)
	}

	return records, nil
}

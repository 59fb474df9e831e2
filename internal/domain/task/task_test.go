package task

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackle/backend/internal/domain/shared"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	chain := []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusUnderReview,
		TaskStatusCompleted,
		TaskStatusInvoiceable,
		TaskStatusInvoiced,
	}

	t.Run("advances one step at a time", func(t *testing.T) {
		for i := 0; i < len(chain)-1; i++ {
			assert.True(t, chain[i].CanTransitionTo(chain[i+1]),
				"%s -> %s should be allowed", chain[i], chain[i+1])
		}
	})

	t.Run("cannot skip steps", func(t *testing.T) {
		assert.False(t, TaskStatusPending.CanTransitionTo(TaskStatusUnderReview))
		assert.False(t, TaskStatusPending.CanTransitionTo(TaskStatusCompleted))
		assert.False(t, TaskStatusInProgress.CanTransitionTo(TaskStatusInvoiceable))
		assert.False(t, TaskStatusCompleted.CanTransitionTo(TaskStatusInvoiced))
	})

	t.Run("cannot move backwards", func(t *testing.T) {
		assert.False(t, TaskStatusInProgress.CanTransitionTo(TaskStatusPending))
		assert.False(t, TaskStatusCompleted.CanTransitionTo(TaskStatusUnderReview))
		assert.False(t, TaskStatusInvoiced.CanTransitionTo(TaskStatusInvoiceable))
	})

	t.Run("cancel from any non-terminal", func(t *testing.T) {
		for _, s := range chain[:len(chain)-1] {
			assert.True(t, s.CanTransitionTo(TaskStatusCancelled), "%s should be cancellable", s)
		}
	})

	t.Run("terminal statuses accept nothing", func(t *testing.T) {
		for _, terminal := range []TaskStatus{TaskStatusInvoiced, TaskStatusCancelled} {
			for _, target := range append(chain, TaskStatusCancelled, TaskStatusReview) {
				assert.False(t, terminal.CanTransitionTo(target),
					"%s -> %s should be rejected", terminal, target)
			}
		}
	})

	t.Run("legacy review is frozen", func(t *testing.T) {
		assert.True(t, TaskStatusReview.IsValid())
		for _, target := range append(chain, TaskStatusCancelled) {
			assert.False(t, TaskStatusReview.CanTransitionTo(target))
		}
		assert.False(t, TaskStatusUnderReview.CanTransitionTo(TaskStatusReview))
		assert.False(t, TaskStatusInProgress.CanTransitionTo(TaskStatusReview))
	})
}

func TestTask_ChangeStatus(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()
	reviewer := uuid.New()

	newTask := func(t *testing.T) *Task {
		task, err := NewTask("Prepare quarterly filing", "", creator)
		require.NoError(t, err)
		task.Assign(assignee)
		return task
	}

	advance := func(t *testing.T, task *Task, actor uuid.UUID, statuses ...TaskStatus) {
		for _, s := range statuses {
			require.NoError(t, task.ChangeStatus(s, actor))
		}
	}

	t.Run("invalid transition is rejected", func(t *testing.T) {
		task := newTask(t)
		err := task.ChangeStatus(TaskStatusCompleted, assignee)
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		assert.Equal(t, TaskStatusPending, task.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		task := newTask(t)
		err := task.ChangeStatus(TaskStatus("archived"), assignee)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrInvalidTransition)
	})

	t.Run("completion by another user records verifier", func(t *testing.T) {
		task := newTask(t)
		advance(t, task, assignee, TaskStatusInProgress, TaskStatusUnderReview)
		require.NoError(t, task.ChangeStatus(TaskStatusCompleted, reviewer))
		require.NotNil(t, task.VerifiedBy)
		assert.Equal(t, reviewer, *task.VerifiedBy)
		assert.NotNil(t, task.CompletedAt)
	})

	t.Run("self-completion records no verifier", func(t *testing.T) {
		task := newTask(t)
		advance(t, task, assignee, TaskStatusInProgress, TaskStatusUnderReview, TaskStatusCompleted)
		assert.Nil(t, task.VerifiedBy)
	})
}

func TestTask_SetBilling(t *testing.T) {
	task, err := NewTask("Audit prep", "", uuid.New())
	require.NoError(t, err)

	t.Run("rejects percentage above 100", func(t *testing.T) {
		err := task.SetBilling(decimal.NewFromInt(1000), decimal.NewFromInt(101), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		err := task.SetBilling(decimal.NewFromInt(-1), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("incentive amounts follow the percentages", func(t *testing.T) {
		err := task.SetBilling(decimal.NewFromInt(1500), decimal.NewFromInt(4), decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.Equal(t, "60.00", task.TaskIncentive().StringFixed(2))
		assert.Equal(t, "15.00", task.VerificationIncentive().StringFixed(2))
	})
}

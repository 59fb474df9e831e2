package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/domain/task"
)

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]task.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) AwardIncentives(ctx context.Context, taskID uuid.UUID, incentives []*incentive.Incentive) error {
	args := m.Called(ctx, taskID, incentives)
	return args.Error(0)
}

func completedTask(t *testing.T, amount, incentivePct, verificationPct int64, assignee uuid.UUID) *task.Task {
	tk, err := task.NewTask("Close the books", "", uuid.New())
	require.NoError(t, err)
	require.NoError(t, tk.SetBilling(
		decimal.NewFromInt(amount),
		decimal.NewFromInt(incentivePct),
		decimal.NewFromInt(verificationPct)))
	tk.Assign(assignee)
	for _, status := range []task.TaskStatus{task.TaskStatusInProgress, task.TaskStatusUnderReview} {
		require.NoError(t, tk.ChangeStatus(status, assignee))
	}
	return tk
}

func TestIncentiveEngine_Award(t *testing.T) {
	ctx := context.Background()
	assignee := uuid.New()
	verifier := uuid.New()

	t.Run("both components with correct amounts", func(t *testing.T) {
		tk := completedTask(t, 1500, 4, 1, assignee)
		require.NoError(t, tk.ChangeStatus(task.TaskStatusCompleted, verifier))

		repo := new(MockTaskRepository)
		repo.On("AwardIncentives", ctx, tk.ID, mock.MatchedBy(func(recs []*incentive.Incentive) bool {
			if len(recs) != 2 {
				return false
			}
			return recs[0].Type == incentive.IncentiveTypeTask &&
				recs[0].UserID == assignee &&
				recs[0].Amount.Equal(decimal.RequireFromString("60.00")) &&
				recs[1].Type == incentive.IncentiveTypeVerification &&
				recs[1].UserID == verifier &&
				recs[1].Amount.Equal(decimal.RequireFromString("15.00"))
		})).Return(nil)

		engine := NewIncentiveEngine(repo, zap.NewNop())
		require.NoError(t, engine.Award(ctx, tk))
		assert.True(t, tk.IncentiveAwarded)
		repo.AssertExpectations(t)
	})

	t.Run("self-completion yields no verification record", func(t *testing.T) {
		tk := completedTask(t, 1000, 5, 2, assignee)
		require.NoError(t, tk.ChangeStatus(task.TaskStatusCompleted, assignee))

		repo := new(MockTaskRepository)
		repo.On("AwardIncentives", ctx, tk.ID, mock.MatchedBy(func(recs []*incentive.Incentive) bool {
			return len(recs) == 1 && recs[0].Type == incentive.IncentiveTypeTask
		})).Return(nil)

		engine := NewIncentiveEngine(repo, zap.NewNop())
		require.NoError(t, engine.Award(ctx, tk))
		repo.AssertExpectations(t)
	})

	t.Run("zero percentage produces no record", func(t *testing.T) {
		tk := completedTask(t, 1500, 4, 0, assignee)
		require.NoError(t, tk.ChangeStatus(task.TaskStatusCompleted, verifier))

		repo := new(MockTaskRepository)
		repo.On("AwardIncentives", ctx, tk.ID, mock.MatchedBy(func(recs []*incentive.Incentive) bool {
			return len(recs) == 1 && recs[0].Type == incentive.IncentiveTypeTask
		})).Return(nil)

		engine := NewIncentiveEngine(repo, zap.NewNop())
		require.NoError(t, engine.Award(ctx, tk))
		repo.AssertExpectations(t)
	})

	t.Run("already-awarded flag makes award a no-op", func(t *testing.T) {
		tk := completedTask(t, 1500, 4, 1, assignee)
		require.NoError(t, tk.ChangeStatus(task.TaskStatusCompleted, verifier))
		tk.IncentiveAwarded = true

		repo := new(MockTaskRepository)
		engine := NewIncentiveEngine(repo, zap.NewNop())
		require.NoError(t, engine.Award(ctx, tk))
		repo.AssertNotCalled(t, "AwardIncentives", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the storage race is benign", func(t *testing.T) {
		tk := completedTask(t, 1500, 4, 1, assignee)
		require.NoError(t, tk.ChangeStatus(task.TaskStatusCompleted, verifier))

		repo := new(MockTaskRepository)
		repo.On("AwardIncentives", ctx, tk.ID, mock.Anything).Return(shared.ErrAlreadyAwarded)

		engine := NewIncentiveEngine(repo, zap.NewNop())
		require.NoError(t, engine.Award(ctx, tk))
		assert.True(t, tk.IncentiveAwarded)
	})

	t.Run("records carry the task project", func(t *testing.T) {
		tk := completedTask(t, 200, 10, 0, assignee)
		projectID := uuid.New()
		tk.ProjectID = &projectID
		require.NoError(t, tk.ChangeStatus(task.TaskStatusCompleted, verifier))

		repo := new(MockTaskRepository)
		repo.On("AwardIncentives", ctx, tk.ID, mock.MatchedBy(func(recs []*incentive.Incentive) bool {
			return len(recs) == 1 && recs[0].ProjectID != nil && *recs[0].ProjectID == projectID
		})).Return(nil)

		engine := NewIncentiveEngine(repo, zap.NewNop())
		require.NoError(t, engine.Award(ctx, tk))
		repo.AssertExpectations(t)
	})
}

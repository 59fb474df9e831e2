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

	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/domain/project"
	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/domain/task"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) AddRef(ctx context.Context, ref *project.ProjectRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockProjectRepository) RemoveRef(ctx context.Context, projectID uuid.UUID, refType project.RefType, refID uuid.UUID) error {
	args := m.Called(ctx, projectID, refType, refID)
	return args.Error(0)
}

func newTaskService(taskRepo *MockTaskRepository, projectRepo *MockProjectRepository) *TaskService {
	logger := zap.NewNop()
	return NewTaskService(taskRepo, projectRepo, NewIncentiveEngine(taskRepo, logger), logger)
}

func member() identity.Requester {
	return identity.Requester{ID: uuid.New(), Role: identity.RoleMember}
}

func TestTaskService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an illegal transition", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		projectRepo := new(MockProjectRepository)
		svc := newTaskService(taskRepo, projectRepo)

		tk, err := task.NewTask("Draft contract", "", uuid.New())
		require.NoError(t, err)
		taskRepo.On("FindByID", ctx, tk.ID).Return(tk, nil)

		_, err = svc.ChangeStatus(ctx, member(), tk.ID, ChangeStatusRequest{Status: "invoiced"})
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing task yields not found", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		projectRepo := new(MockProjectRepository)
		svc := newTaskService(taskRepo, projectRepo)

		id := uuid.New()
		taskRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.ChangeStatus(ctx, member(), id, ChangeStatusRequest{Status: "in-progress"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("completion awards incentives once", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		projectRepo := new(MockProjectRepository)
		svc := newTaskService(taskRepo, projectRepo)

		assignee := member()
		tk, err := task.NewTask("Reconcile ledger", "", uuid.New())
		require.NoError(t, err)
		require.NoError(t, tk.SetBilling(decimal.NewFromInt(1500), decimal.NewFromInt(4), decimal.NewFromInt(1)))
		tk.Assign(assignee.ID)
		require.NoError(t, tk.ChangeStatus(task.TaskStatusInProgress, assignee.ID))
		require.NoError(t, tk.ChangeStatus(task.TaskStatusUnderReview, assignee.ID))

		taskRepo.On("FindByID", ctx, tk.ID).Return(tk, nil)
		taskRepo.On("Save", ctx, tk).Return(nil)
		taskRepo.On("AwardIncentives", ctx, tk.ID, mock.Anything).Return(nil).Once()

		reviewer := member()
		resp, err := svc.ChangeStatus(ctx, reviewer, tk.ID, ChangeStatusRequest{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.True(t, resp.IncentiveAwarded)
		require.NotNil(t, resp.VerifiedBy)
		assert.Equal(t, reviewer.ID, *resp.VerifiedBy)
		taskRepo.AssertExpectations(t)
	})

	t.Run("non-completion transitions skip the engine", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		projectRepo := new(MockProjectRepository)
		svc := newTaskService(taskRepo, projectRepo)

		tk, err := task.NewTask("Site survey", "", uuid.New())
		require.NoError(t, err)
		taskRepo.On("FindByID", ctx, tk.ID).Return(tk, nil)
		taskRepo.On("Save", ctx, tk).Return(nil)

		_, err = svc.ChangeStatus(ctx, member(), tk.ID, ChangeStatusRequest{Status: "in-progress"})
		require.NoError(t, err)
		taskRepo.AssertNotCalled(t, "AwardIncentives", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("attaching a deleted project fails", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		projectRepo := new(MockProjectRepository)
		svc := newTaskService(taskRepo, projectRepo)

		p, err := project.NewProject("Sunset", "", uuid.New())
		require.NoError(t, err)
		p.MarkDeleted()
		projectRepo.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err = svc.Create(ctx, member(), CreateTaskRequest{Title: "Survey", ProjectID: &p.ID})
		assert.Error(t, err)
		taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("records a project back-reference", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		projectRepo := new(MockProjectRepository)
		svc := newTaskService(taskRepo, projectRepo)

		p, err := project.NewProject("Atlas", "", uuid.New())
		require.NoError(t, err)
		projectRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		taskRepo.On("Save", ctx, mock.Anything).Return(nil)
		projectRepo.On("AddRef", ctx, mock.MatchedBy(func(ref *project.ProjectRef) bool {
			return ref.ProjectID == p.ID && ref.RefType == project.RefTypeTask
		})).Return(nil)

		resp, err := svc.Create(ctx, member(), CreateTaskRequest{Title: "Survey", ProjectID: &p.ID})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		projectRepo.AssertExpectations(t)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("billing locks after award", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		projectRepo := new(MockProjectRepository)
		svc := newTaskService(taskRepo, projectRepo)

		tk, err := task.NewTask("Filing", "", uuid.New())
		require.NoError(t, err)
		tk.IncentiveAwarded = true
		taskRepo.On("FindByID", ctx, tk.ID).Return(tk, nil)

		amount := decimal.NewFromInt(9000)
		_, err = svc.Update(ctx, member(), tk.ID, UpdateTaskRequest{Amount: &amount})
		assert.Error(t, err)
	})
}

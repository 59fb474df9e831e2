package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/domain/task"
)

func setupTaskDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&task.Task{}, &task.TaskMember{}, &incentive.Incentive{}))
	return db
}

func seedTask(t *testing.T, db *gorm.DB) *task.Task {
	tk, err := task.NewTask("Quarterly audit", "Close out the books", uuid.New())
	require.NoError(t, err)
	require.NoError(t, tk.SetBilling(decimal.NewFromInt(1500), decimal.NewFromInt(4), decimal.NewFromInt(1)))
	tk.Assign(uuid.New())
	require.NoError(t, db.Create(tk).Error)
	return tk
}

func TestAwardIncentives_InsertsRecordsOnce(t *testing.T) {
	db := setupTaskDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	tk := seedTask(t, db)
	rec, err := incentive.NewIncentive(*tk.AssignedTo, tk.ID, incentive.IncentiveTypeTask,
		decimal.NewFromInt(60), decimal.NewFromInt(4))
	require.NoError(t, err)

	require.NoError(t, repo.AwardIncentives(ctx, tk.ID, []*incentive.Incentive{rec}))

	stored, err := repo.FindByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, stored.IncentiveAwarded)

	var count int64
	require.NoError(t, db.Model(&incentive.Incentive{}).Where("task_id = ?", tk.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAwardIncentives_SecondCallLosesRace(t *testing.T) {
	db := setupTaskDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	tk := seedTask(t, db)
	rec, err := incentive.NewIncentive(*tk.AssignedTo, tk.ID, incentive.IncentiveTypeTask,
		decimal.NewFromInt(60), decimal.NewFromInt(4))
	require.NoError(t, err)

	require.NoError(t, repo.AwardIncentives(ctx, tk.ID, []*incentive.Incentive{rec}))

	dup, err := incentive.NewIncentive(*tk.AssignedTo, tk.ID, incentive.IncentiveTypeTask,
		decimal.NewFromInt(60), decimal.NewFromInt(4))
	require.NoError(t, err)
	err = repo.AwardIncentives(ctx, tk.ID, []*incentive.Incentive{dup})
	assert.ErrorIs(t, err, shared.ErrAlreadyAwarded)

	var count int64
	require.NoError(t, db.Model(&incentive.Incentive{}).Where("task_id = ?", tk.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "losing caller must not insert")
}

func TestAwardIncentives_EmptyRecordsStillFlipFlag(t *testing.T) {
	db := setupTaskDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	tk := seedTask(t, db)
	require.NoError(t, repo.AwardIncentives(ctx, tk.ID, nil))

	stored, err := repo.FindByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, stored.IncentiveAwarded)
}

func TestGormTaskRepository_FilterByStatus(t *testing.T) {
	db := setupTaskDB(t)
	repo := NewGormTaskRepository(db)
	ctx := context.Background()

	seedTask(t, db)
	active := seedTask(t, db)
	require.NoError(t, active.ChangeStatus(task.TaskStatusInProgress, *active.AssignedTo))
	require.NoError(t, repo.Save(ctx, active))

	filter := shared.DefaultFilter()
	filter.Filters = map[string]interface{}{"status": string(task.TaskStatusInProgress)}

	tasks, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, active.ID, tasks[0].ID)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGormTaskRepository_FindByIDNotFound(t *testing.T) {
	db := setupTaskDB(t)
	repo := NewGormTaskRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/shared"
	"github.com/trackle/backend/internal/domain/task"
)

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by ID, with its team members
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var t task.Task
	if err := r.db.WithContext(ctx).
		Preload("Team").
		First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds all tasks matching the filter
func (r *GormTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]task.Task, error) {
	var tasks []task.Task
	query := r.applyFilter(r.db.WithContext(ctx).Model(&task.Task{}), filter, true)
	if err := query.Preload("Team").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&task.Task{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(t).Error
}

// AwardIncentives atomically marks the task as awarded and inserts its
// incentive records. The flag flip is conditional, so two concurrent
// callers cannot both insert: the loser sees shared.ErrAlreadyAwarded
// and nothing is written.
func (r *GormTaskRepository) AwardIncentives(ctx context.Context, taskID uuid.UUID, incentives []*incentive.Incentive) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&task.Task{}).
			Where("id = ? AND incentive_awarded = ?", taskID, false).
			Updates(map[string]interface{}{
				"incentive_awarded": true,
				"updated_at":        time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrAlreadyAwarded
		}
		if len(incentives) == 0 {
			return nil
		}
		return tx.Create(incentives).Error
	})
}

func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "deleted", "status", "assigned_to", "project_id", "incentive_awarded":
			query = query.Where(key+" = ?", value)
		}
	}

	if !paginate {
		return query
	}

	orderBy := ValidateSortField(filter.OrderBy, TaskSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset(filter.Skip()).Limit(filter.Limit)
	}
	return query
}

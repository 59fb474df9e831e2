package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trackle/backend/internal/domain/incentive"
	"github.com/trackle/backend/internal/domain/shared"
)

// GormIncentiveRepository implements IncentiveRepository using GORM.
// Incentive rows are append-only; all writes happen through the task
// repository's award transaction.
type GormIncentiveRepository struct {
	db *gorm.DB
}

// NewGormIncentiveRepository creates a new GormIncentiveRepository
func NewGormIncentiveRepository(db *gorm.DB) *GormIncentiveRepository {
	return &GormIncentiveRepository{db: db}
}

// FindByTask finds all incentives awarded for a task
func (r *GormIncentiveRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]incentive.Incentive, error) {
	var incentives []incentive.Incentive
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&incentives).Error; err != nil {
		return nil, err
	}
	return incentives, nil
}

// FindAll finds all incentives matching the filter
func (r *GormIncentiveRepository) FindAll(ctx context.Context, filter shared.Filter) ([]incentive.Incentive, error) {
	var incentives []incentive.Incentive
	query := r.applyFilter(r.db.WithContext(ctx).Model(&incentive.Incentive{}), filter, true)
	if err := query.Find(&incentives).Error; err != nil {
		return nil, err
	}
	return incentives, nil
}

// Count counts incentives matching the filter
func (r *GormIncentiveRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&incentive.Incentive{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByUser totals a user's awarded incentives
func (r *GormIncentiveRepository) SumByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&incentive.Incentive{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *GormIncentiveRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "user_id", "task_id", "project_id", "type":
			query = query.Where(key+" = ?", value)
		}
	}

	if !paginate {
		return query
	}

	query = query.Order("created_at " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset(filter.Skip()).Limit(filter.Limit)
	}
	return query
}

package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trackle/backend/internal/domain/event"
	"github.com/trackle/backend/internal/domain/shared"
)

// GormEventRepository implements EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var e event.Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAll finds all events matching the filter, ordered by start time
func (r *GormEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]event.Event, error) {
	var events []event.Event
	query := r.applyFilter(r.db.WithContext(ctx).Model(&event.Event{}), filter)

	query = query.Order("starts_at " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset(filter.Skip()).Limit(filter.Limit)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Count counts events matching the filter
func (r *GormEventRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&event.Event{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, e *event.Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete removes an event
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&event.Event{}, "id = ?", id).Error
}

func (r *GormEventRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if from, ok := filter.Filters["from"]; ok {
		query = query.Where("starts_at >= ?", from)
	}
	if to, ok := filter.Filters["to"]; ok {
		query = query.Where("starts_at < ?", to)
	}
	return query
}

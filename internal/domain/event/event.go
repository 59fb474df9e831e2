package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trackle/backend/internal/domain/shared"
)

// Event is a calendar entry. Plain CRUD, no lifecycle.
type Event struct {
	shared.BaseAggregateRoot
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "events"
}

// NewEvent creates a new calendar event
func NewEvent(title, description string, startsAt, endsAt time.Time, createdBy uuid.UUID) (*Event, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if endsAt.Before(startsAt) {
		return nil, shared.NewDomainError("INVALID_DATES", "Event cannot end before it starts")
	}
	return &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithCreator(createdBy),
		Title:             title,
		Description:       description,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
	}, nil
}

// Reschedule moves the event to a new time window
func (e *Event) Reschedule(startsAt, endsAt time.Time) error {
	if endsAt.Before(startsAt) {
		return shared.NewDomainError("INVALID_DATES", "Event cannot end before it starts")
	}
	e.StartsAt = startsAt
	e.EndsAt = endsAt
	e.UpdatedAt = time.Now()
	return nil
}

// EventRepository defines persistence operations for events
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Event, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

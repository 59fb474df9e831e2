package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/event"
	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/domain/shared"
)

// CreateEventRequest represents a request to create a calendar event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

// UpdateEventRequest represents a request to update a calendar event
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// ListEventsRequest carries the query parameters for an event listing
type ListEventsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListEventsResult is the outcome of an event listing
type ListEventsResult struct {
	Events []EventResponse
	Total  int64
	Page   int
	Limit  int
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EventService handles calendar event operations
type EventService struct {
	eventRepo event.EventRepository
	logger    *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(eventRepo event.EventRepository, logger *zap.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, logger: logger}
}

// Create creates a calendar event
func (s *EventService) Create(ctx context.Context, req identity.Requester, input CreateEventRequest) (*EventResponse, error) {
	e, err := event.NewEvent(input.Title, input.Description, input.StartsAt, input.EndsAt, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("Event created", zap.String("event_id", e.ID.String()))

	resp := toEventResponse(e)
	return &resp, nil
}

// Get returns one event
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	e, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(e)
	return &resp, nil
}

// List returns a page of events ordered by start time
func (s *EventService) List(ctx context.Context, q ListEventsRequest) (*ListEventsResult, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "starts_at"
	filter.OrderDir = "asc"
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}

	total, err := s.eventRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toEventResponse(&events[i]))
	}

	return &ListEventsResult{
		Events: responses,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}, nil
}

// Update changes event fields
func (s *EventService) Update(ctx context.Context, id uuid.UUID, input UpdateEventRequest) (*EventResponse, error) {
	e, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		e.Title = *input.Title
	}
	if input.Description != nil {
		e.Description = *input.Description
	}
	if input.StartsAt != nil || input.EndsAt != nil {
		startsAt := e.StartsAt
		endsAt := e.EndsAt
		if input.StartsAt != nil {
			startsAt = *input.StartsAt
		}
		if input.EndsAt != nil {
			endsAt = *input.EndsAt
		}
		if err := e.Reschedule(startsAt, endsAt); err != nil {
			return nil, err
		}
	}

	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	resp := toEventResponse(e)
	return &resp, nil
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}

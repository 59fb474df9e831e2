package handler

import (
	"github.com/gin-gonic/gin"

	eventapp "github.com/trackle/backend/internal/application/event"
)

// EventHandler handles calendar event endpoints
type EventHandler struct {
	BaseHandler
	eventService *eventapp.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *eventapp.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// RegisterRoutes registers event routes
func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	{
		events.POST("", h.Create)
		events.GET("", h.List)
		events.GET("/:id", h.Get)
		events.PUT("/:id", h.Update)
		events.DELETE("/:id", h.Delete)
	}
}

// Create creates a calendar event
func (h *EventHandler) Create(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input eventapp.CreateEventRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	e, err := h.eventService.Create(c.Request.Context(), req, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, e)
}

// List returns a page of events
func (h *EventHandler) List(c *gin.Context) {
	var input eventapp.ListEventsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.eventService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, result.Events, len(result.Events), result.Total, result.Page, result.Limit)
}

// Get returns one event
func (h *EventHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	e, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// Update changes event fields
func (h *EventHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	var input eventapp.UpdateEventRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	e, err := h.eventService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// Delete removes an event
func (h *EventHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

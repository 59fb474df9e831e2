package handler

import (
	"github.com/gin-gonic/gin"

	taskapp "github.com/trackle/backend/internal/application/task"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	BaseHandler
	taskService      *taskapp.TaskService
	incentiveService *taskapp.IncentiveService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *taskapp.TaskService, incentiveService *taskapp.IncentiveService) *TaskHandler {
	return &TaskHandler{taskService: taskService, incentiveService: incentiveService}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
		tasks.PUT("/:id/status", h.ChangeStatus)
		tasks.GET("/:id/incentives", h.Incentives)
	}
}

// Create creates a task
func (h *TaskHandler) Create(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input taskapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	t, err := h.taskService.Create(c.Request.Context(), req, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// List returns a page of tasks
func (h *TaskHandler) List(c *gin.Context) {
	var input taskapp.ListTasksRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.taskService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, result.Tasks, len(result.Tasks), result.Total, result.Page, result.Limit)
}

// Get returns one task
func (h *TaskHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	t, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Update changes task fields
func (h *TaskHandler) Update(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	var input taskapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	t, err := h.taskService.Update(c.Request.Context(), req, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete soft-deletes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), req, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ChangeStatus advances the task through its lifecycle. Moving into
// completed triggers incentive awarding.
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	var input taskapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	t, err := h.taskService.ChangeStatus(c.Request.Context(), req, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Incentives returns the incentives awarded for a task
func (h *TaskHandler) Incentives(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	if _, err := h.taskService.Get(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	records, err := h.incentiveService.ForTask(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

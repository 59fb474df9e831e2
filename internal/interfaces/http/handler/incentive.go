package handler

import (
	"github.com/gin-gonic/gin"

	taskapp "github.com/trackle/backend/internal/application/task"
)

// IncentiveHandler exposes the incentive ledger
type IncentiveHandler struct {
	BaseHandler
	incentiveService *taskapp.IncentiveService
}

// NewIncentiveHandler creates a new IncentiveHandler
func NewIncentiveHandler(incentiveService *taskapp.IncentiveService) *IncentiveHandler {
	return &IncentiveHandler{incentiveService: incentiveService}
}

// RegisterRoutes registers incentive routes
func (h *IncentiveHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/incentives", h.List)
	rg.GET("/incentives/total", h.Total)
}

// List returns the requester's incentives. Admins and managers may
// query other users.
func (h *IncentiveHandler) List(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input taskapp.ListIncentivesRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.incentiveService.List(c.Request.Context(), req.ID, req.Role.IsPrivileged(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, result.Incentives, len(result.Incentives), result.Total, result.Page, result.Limit)
}

// Total returns the sum of the requester's awarded incentives
func (h *IncentiveHandler) Total(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	total, err := h.incentiveService.TotalForUser(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"total": total})
}

package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/trackle/backend/internal/application/identity"
	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/interfaces/http/middleware"
)

// UserHandler handles the admin-managed user registry
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes. Creation is restricted to
// admins; reads are open to any authenticated user.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", middleware.RequireRoles(identity.RoleAdmin), h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
	}
}

// Create registers a new user
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List returns a page of users
func (h *UserHandler) List(c *gin.Context) {
	var req identityapp.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.userService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, result.Users, len(result.Users), result.Total, result.Page, result.Limit)
}

// Get returns one user
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

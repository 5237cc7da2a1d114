package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summercamp-backend-go/internal/core"
	"summercamp-backend-go/internal/middleware"
	"summercamp-backend-go/internal/models"
)

// UserHandler handles user and role endpoints.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

// ListUsers handles GET /users with an optional ?role= filter.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByEmail handles GET /users/:email.
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.userService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /users. An existing email is reported, not overwritten.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, created, err := h.userService.CreateIfAbsent(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "create user", err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, MessageResponse{Message: "User already exist!"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// CheckRole answers GET /users/{admin,instructor,student}/:email with
// {<key>: bool}. Asking about anyone but the caller yields false.
func (h *UserHandler) CheckRole(role, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			respondError(c, h.logger, "check role", core.ErrUnauthorized)
			return
		}
		email := c.Param("email")
		if email != identity.Email {
			c.JSON(http.StatusOK, gin.H{key: false})
			return
		}

		has, err := h.userService.HasRole(c.Request.Context(), email, role)
		if err != nil {
			respondError(c, h.logger, "check role", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{key: has})
	}
}

// SetRole handles PATCH /users/{admin,instructor}/:id.
func (h *UserHandler) SetRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.userService.SetRole(c.Request.Context(), c.Param("id"), role)
		if err != nil {
			respondError(c, h.logger, "set role", err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	res, err := h.userService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

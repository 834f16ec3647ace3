package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clinicore/user-directory/internal/middleware"
	"github.com/clinicore/user-directory/internal/service"
	"github.com/clinicore/user-directory/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes the five directory operations plus the role list
// as a JSON API. Every route is behind the role gate; handlers still
// pass the acting principal into the service for the record-level
// checks.
type UserHandler struct {
	directory *service.DirectoryService
}

func NewUserHandler(directory *service.DirectoryService) *UserHandler {
	return &UserHandler{
		directory: directory,
	}
}

// Request types. Field-level rules live in the service so failures come
// back per field; binding here only parses the JSON shape.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   uint   `json:"role_id"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	RoleID   *uint   `json:"role_id"`
}

// ListUsers returns one page of users, optionally filtered.
// GET /api/users?search=&page=
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	search := c.Query("search")

	result, err := h.directory.List(service.ListUsersInput{
		Search: search,
		Page:   page,
	})
	if err != nil {
		logger.Log.Error("Failed to list users",
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list users",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateUser persists a new user.
// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Create user request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	actor, _ := middleware.CurrentPrincipal(c)

	user, err := h.directory.Create(actor, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		h.renderError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully.",
		"user":    user,
	})
}

// GetUser returns a single user with its role attached.
// GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	user, err := h.directory.Get(id)
	if err != nil {
		h.renderError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateUser applies a partial update; omitted fields keep their stored
// values.
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Update user request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	actor, _ := middleware.CurrentPrincipal(c)

	user, err := h.directory.Update(actor, id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		h.renderError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully.",
		"user":    user,
	})
}

// DeleteUser permanently removes a user.
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	actor, _ := middleware.CurrentPrincipal(c)

	if err := h.directory.Delete(actor, id); err != nil {
		h.renderError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully.",
	})
}

// ListRoles returns the fixed role set for form selectors.
// GET /api/roles
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.directory.Roles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list roles",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
	})
}

// userID parses the :id path parameter. An unparseable id cannot name a
// user, so it gets the same not-found answer as a missing one.
func (h *UserHandler) userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
		return 0, false
	}
	return uint(id), true
}

// renderError maps service errors onto the response taxonomy: per-field
// validation failures, not-found, the admin-account guard, and
// everything else as an internal error.
func (h *UserHandler) renderError(c *gin.Context, err error, fallback string) {
	if verr, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "The given data was invalid.",
			"errors":  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You do not have permission to access this section.",
		})
	default:
		logger.Log.Error(fallback,
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fallback,
		})
	}
}

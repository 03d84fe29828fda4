package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bony/backend/internal/application/identity"
)

// AdminUserHandler handles staff-only user administration endpoints
type AdminUserHandler struct {
	BaseHandler
	users        *identity.UserService
	requireAuth  gin.HandlerFunc
	requireStaff gin.HandlerFunc
}

// NewAdminUserHandler creates a new AdminUserHandler
func NewAdminUserHandler(users *identity.UserService, requireAuth, requireStaff gin.HandlerFunc) *AdminUserHandler {
	return &AdminUserHandler{users: users, requireAuth: requireAuth, requireStaff: requireStaff}
}

// RegisterRoutes registers admin user routes on the given group
func (h *AdminUserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/admin/users", h.requireAuth, h.requireStaff)
	grp.GET("", h.List)
	grp.GET("/:id", h.Get)
	grp.POST("/:id/toggle-staff", h.ToggleStaff)
	grp.POST("/:id/toggle-premium", h.TogglePremium)
	grp.DELETE("/:id", h.Delete)
}

// List returns a paginated page of accounts, optionally filtered by a
// case-insensitive search over username and email
func (h *AdminUserHandler) List(c *gin.Context) {
	result, err := h.users.List(c.Request.Context(), pageParam(c), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// Get returns a single account by ID
func (h *AdminUserHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ToggleStaff flips the staff flag on an account
func (h *AdminUserHandler) ToggleStaff(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.users.ToggleStaff(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// TogglePremium flips the premium flag on an account
func (h *AdminUserHandler) TogglePremium(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.users.TogglePremium(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete removes an account. Owned dogs are released rather than
// deleted; the user's reviews go with the account.
func (h *AdminUserHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

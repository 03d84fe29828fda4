package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bony/backend/internal/application/identity"
	appregistry "github.com/bony/backend/internal/application/registry"
	"github.com/bony/backend/internal/interfaces/http/middleware"
)

// ProfileHandler handles the authenticated user's profile endpoints
type ProfileHandler struct {
	BaseHandler
	auth        *identity.AuthService
	dogs        *appregistry.DogService
	requireAuth gin.HandlerFunc
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(auth *identity.AuthService, dogs *appregistry.DogService, requireAuth gin.HandlerFunc) *ProfileHandler {
	return &ProfileHandler{auth: auth, dogs: dogs, requireAuth: requireAuth}
}

// RegisterRoutes registers profile routes on the given group
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/profile", h.requireAuth)
	grp.GET("", h.Get)
	grp.PUT("", h.Update)
	grp.GET("/dogs", h.ListDogs)
}

// Get returns the authenticated user's profile
func (h *ProfileHandler) Get(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.auth.GetCurrentUser(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update changes the authenticated user's contact details
func (h *ProfileHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input identity.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.UserID = actor.ID

	user, err := h.auth.UpdateProfile(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ListDogs returns all dogs owned by the authenticated user
func (h *ProfileHandler) ListDogs(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dogs, err := h.dogs.ListByOwner(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dogs)
}

package handler

import (
	"github.com/gin-gonic/gin"

	appregistry "github.com/bony/backend/internal/application/registry"
	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/interfaces/http/middleware"
)

// DogHandler handles the dog registry endpoints
type DogHandler struct {
	BaseHandler
	dogs         *appregistry.DogService
	requireAuth  gin.HandlerFunc
	optionalAuth gin.HandlerFunc
}

// NewDogHandler creates a new DogHandler
func NewDogHandler(dogs *appregistry.DogService, requireAuth, optionalAuth gin.HandlerFunc) *DogHandler {
	return &DogHandler{dogs: dogs, requireAuth: requireAuth, optionalAuth: optionalAuth}
}

// RegisterRoutes registers dog routes on the given group
func (h *DogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/dogs")
	grp.GET("", h.List)
	grp.GET("/:slug", h.optionalAuth, h.Get)

	authed := grp.Group("", h.requireAuth)
	authed.POST("", h.Create)
	authed.PUT("/:id", h.Update)
	authed.DELETE("/:id", h.Delete)
	authed.POST("/:id/claim", h.Claim)
	authed.POST("/:id/release", h.Release)
	authed.POST("/:id/image-upload", h.InitiateImageUpload)
}

// List returns a paginated page of dogs, optionally filtered by a
// case-insensitive search over dog name and owner username
func (h *DogHandler) List(c *gin.Context) {
	result, err := h.dogs.List(c.Request.Context(), pageParam(c), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Dogs, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// Get returns a dog profile by slug with its pedigree and reviews.
// Each fetch counts as a view; the viewer, when signed in, is passed
// along so their own visits are excluded from milestone notifications.
func (h *DogHandler) Get(c *gin.Context) {
	var viewer *registry.Actor
	if actor, ok := middleware.GetActor(c); ok {
		viewer = &actor
	}

	detail, err := h.dogs.GetBySlug(c.Request.Context(), c.Param("slug"), viewer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// Create registers a new dog. New dogs start unowned and can be
// claimed afterwards.
func (h *DogHandler) Create(c *gin.Context) {
	var input appregistry.CreateDogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dog, err := h.dogs.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dog)
}

// Update changes a dog record
func (h *DogHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dog ID")
		return
	}

	var input appregistry.UpdateDogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dog, err := h.dogs.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dog)
}

// Delete removes a dog along with its pedigree and reviews
func (h *DogHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dog ID")
		return
	}

	if err := h.dogs.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Claim makes the authenticated user the owner of an unowned dog
func (h *DogHandler) Claim(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dog ID")
		return
	}

	dog, err := h.dogs.Claim(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dog)
}

// Release gives up ownership of a dog the user currently owns
func (h *DogHandler) Release(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dog ID")
		return
	}

	dog, err := h.dogs.Release(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dog)
}

// InitiateImageUpload returns a presigned URL for uploading a dog image
func (h *DogHandler) InitiateImageUpload(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dog ID")
		return
	}

	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	target, err := h.dogs.InitiateImageUpload(c.Request.Context(), actor, id, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, target)
}

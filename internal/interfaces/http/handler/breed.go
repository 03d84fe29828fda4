package handler

import (
	"github.com/gin-gonic/gin"

	appregistry "github.com/bony/backend/internal/application/registry"
)

// BreedHandler handles the breed catalog endpoints. Reads are public;
// writes require staff access.
type BreedHandler struct {
	BaseHandler
	breeds       *appregistry.BreedService
	requireAuth  gin.HandlerFunc
	requireStaff gin.HandlerFunc
}

// NewBreedHandler creates a new BreedHandler
func NewBreedHandler(breeds *appregistry.BreedService, requireAuth, requireStaff gin.HandlerFunc) *BreedHandler {
	return &BreedHandler{breeds: breeds, requireAuth: requireAuth, requireStaff: requireStaff}
}

// RegisterRoutes registers breed routes on the given group
func (h *BreedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/breeds")
	grp.GET("", h.List)
	grp.GET("/:slug", h.Get)

	staff := grp.Group("", h.requireAuth, h.requireStaff)
	staff.POST("", h.Create)
	staff.PUT("/:id", h.Update)
	staff.DELETE("/:id", h.Delete)
	staff.POST("/:id/image-upload", h.InitiateImageUpload)
}

// List returns a paginated page of breeds, optionally filtered by a
// case-insensitive name search
func (h *BreedHandler) List(c *gin.Context) {
	result, err := h.breeds.List(c.Request.Context(), pageParam(c), c.Query("search"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Breeds, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// Get returns a single breed by slug
func (h *BreedHandler) Get(c *gin.Context) {
	breed, err := h.breeds.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breed)
}

// Create adds a breed to the catalog
func (h *BreedHandler) Create(c *gin.Context) {
	var input appregistry.CreateBreedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	breed, err := h.breeds.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, breed)
}

// Update changes a breed's name or description
func (h *BreedHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid breed ID")
		return
	}

	var input appregistry.UpdateBreedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	breed, err := h.breeds.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breed)
}

// Delete removes a breed; refused while dogs still reference it
func (h *BreedHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid breed ID")
		return
	}

	if err := h.breeds.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type imageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateImageUpload returns a presigned URL for uploading a breed image
func (h *BreedHandler) InitiateImageUpload(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid breed ID")
		return
	}

	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	target, err := h.breeds.InitiateImageUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, target)
}

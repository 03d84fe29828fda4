package handler

import (
	"github.com/gin-gonic/gin"

	appregistry "github.com/bony/backend/internal/application/registry"
	"github.com/bony/backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles review endpoints. Reviews are listed as part
// of the dog profile; this handler covers posting and moderation.
type ReviewHandler struct {
	BaseHandler
	reviews     *appregistry.ReviewService
	requireAuth gin.HandlerFunc
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews *appregistry.ReviewService, requireAuth gin.HandlerFunc) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, requireAuth: requireAuth}
}

// RegisterRoutes registers review routes on the given group
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dogs/:slug/reviews", h.ListByDog)
	rg.POST("/dogs/:id/reviews", h.requireAuth, h.Add)

	grp := rg.Group("/reviews", h.requireAuth)
	grp.PUT("/:id", h.Update)
	grp.DELETE("/:id", h.Delete)
}

// ListByDog lists a dog's reviews, newest first
func (h *ReviewHandler) ListByDog(c *gin.Context) {
	reviews, err := h.reviews.ListByDogSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reviews)
}

// Add posts a review on a dog
func (h *ReviewHandler) Add(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dogID, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid dog ID")
		return
	}

	var input appregistry.AddReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.Add(c.Request.Context(), actor, dogID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, review)
}

// Update edits a review. Only the author or staff may edit; others
// get a 404 so review IDs are not confirmed to exist.
func (h *ReviewHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var input appregistry.UpdateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// Delete removes a review under the same visibility rule as Update
func (h *ReviewHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

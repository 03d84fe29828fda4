package registry

import (
	"context"

	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles the review ledger on dog profiles
type ReviewService struct {
	reviewRepo registry.ReviewRepository
	dogRepo    registry.DogRepository
	policy     registry.AccessPolicy
	logger     *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo registry.ReviewRepository,
	dogRepo registry.DogRepository,
	policy registry.AccessPolicy,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		dogRepo:    dogRepo,
		policy:     policy,
		logger:     logger,
	}
}

// Add posts a review on a dog's profile
func (s *ReviewService) Add(ctx context.Context, actor registry.Actor, dogID uuid.UUID, input AddReviewInput) (*ReviewDTO, error) {
	if _, err := s.dogRepo.FindByID(ctx, dogID); err != nil {
		return nil, shared.ErrNotFound
	}

	review, err := registry.NewReview(dogID, actor.ID, input.Text, input.Rating)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		s.logger.Error("Failed to create review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to post review")
	}

	s.logger.Info("Review posted",
		zap.String("review_id", review.ID.String()),
		zap.String("dog_id", dogID.String()))

	dto := toReviewDTO(review)
	return &dto, nil
}

// Update edits a review. Only the author or a moderator may edit;
// everyone else gets not-found so they cannot probe for the review.
func (s *ReviewService) Update(ctx context.Context, actor registry.Actor, id uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	review, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := review.Update(input.Text, input.Rating); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		s.logger.Error("Failed to update review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update review")
	}

	dto := toReviewDTO(review)
	return &dto, nil
}

// Delete removes a review under the same author-or-moderator rule as
// Update
func (s *ReviewService) Delete(ctx context.Context, actor registry.Actor, id uuid.UUID) error {
	review, err := s.loadAuthorized(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		s.logger.Error("Failed to delete review", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete review")
	}

	s.logger.Info("Review deleted",
		zap.String("review_id", id.String()),
		zap.String("actor_id", actor.ID.String()))
	return nil
}

// ListByDogSlug returns a dog's reviews without touching its view
// counter, for callers that want the ledger alone.
func (s *ReviewService) ListByDogSlug(ctx context.Context, slug string) ([]ReviewDTO, error) {
	dog, err := s.dogRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return s.ListByDog(ctx, dog.ID)
}

// ListByDog returns all reviews for a dog, newest first
func (s *ReviewService) ListByDog(ctx context.Context, dogID uuid.UUID) ([]ReviewDTO, error) {
	reviews, err := s.reviewRepo.FindByDog(ctx, dogID)
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}

	dtos := make([]ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		dtos = append(dtos, toReviewDTO(r))
	}
	return dtos, nil
}

func (s *ReviewService) loadAuthorized(ctx context.Context, actor registry.Actor, id uuid.UUID) (*registry.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if err := s.policy.AuthorizeReviewMutation(review, actor); err != nil {
		// Unauthorized callers see the same answer as a missing review.
		return nil, shared.ErrNotFound
	}
	return review, nil
}

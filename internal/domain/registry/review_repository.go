package registry

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// Create persists a new review
	Create(ctx context.Context, review *Review) error

	// Update persists changes to an existing review
	Update(ctx context.Context, review *Review) error

	// Delete removes a review permanently
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a review by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByDog finds all reviews for a dog, newest first
	FindByDog(ctx context.Context, dogID uuid.UUID) ([]*Review, error)

	// CountByDog counts reviews for a dog
	CountByDog(ctx context.Context, dogID uuid.UUID) (int64, error)
}

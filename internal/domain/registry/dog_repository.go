package registry

import (
	"context"

	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DogRepository defines the interface for dog and pedigree persistence.
// A dog and its pedigree form one aggregate and are written atomically.
type DogRepository interface {
	// Create persists a new dog together with its pedigree in one
	// transaction; if either write fails, neither is committed
	Create(ctx context.Context, dog *Dog, pedigree *Pedigree) error

	// Update persists changes to a dog and replaces its pedigree in
	// one transaction; a nil pedigree removes any existing one
	Update(ctx context.Context, dog *Dog, pedigree *Pedigree) error

	// Delete removes a dog along with its pedigree and reviews
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a dog by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Dog, error)

	// FindBySlug finds a dog by its slug
	FindBySlug(ctx context.Context, slug string) (*Dog, error)

	// FindPedigree finds the pedigree of a dog, or ErrNotFound
	FindPedigree(ctx context.Context, dogID uuid.UUID) (*Pedigree, error)

	// FindAll finds dogs matching the filter, searching dog name and
	// owner username case-insensitively, with the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]*Dog, int64, error)

	// FindByOwner finds all dogs owned by a user
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Dog, error)

	// Claim sets the owner of an unowned dog. The update is
	// conditional on the owner column still being null, so exactly
	// one of two concurrent claims succeeds; the loser gets
	// ErrAlreadyOwned
	Claim(ctx context.Context, dogID, userID uuid.UUID) error

	// Release clears the owner of a dog currently owned by the user;
	// returns ErrNotFound when the user does not own it
	Release(ctx context.Context, dogID, userID uuid.UUID) error

	// IncrementViewCount atomically adds one view and returns the new
	// count
	IncrementViewCount(ctx context.Context, dogID uuid.UUID) (int64, error)

	// ExistsBySlug checks if a dog with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// CountByBreed counts dogs referencing a breed
	CountByBreed(ctx context.Context, breedID uuid.UUID) (int64, error)
}

package registry

import (
	"context"

	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BreedRepository defines the interface for breed persistence
type BreedRepository interface {
	// Create persists a new breed
	Create(ctx context.Context, breed *Breed) error

	// Update persists changes to an existing breed
	Update(ctx context.Context, breed *Breed) error

	// Delete removes a breed; fails while dogs still reference it
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a breed by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Breed, error)

	// FindBySlug finds a breed by its slug
	FindBySlug(ctx context.Context, slug string) (*Breed, error)

	// FindAll finds breeds matching the filter, searching the name
	// case-insensitively, with the total count for pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*Breed, int64, error)

	// ExistsByName checks if a breed with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsBySlug checks if a breed with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

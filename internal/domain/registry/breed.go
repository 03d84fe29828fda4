package registry

import (
	"strings"

	"github.com/bony/backend/internal/domain/shared"
	"github.com/gosimple/slug"
)

// Breed is reference data describing a dog breed. Dogs reference breeds
// many-to-one; a breed cannot be removed while dogs still reference it.
type Breed struct {
	shared.BaseEntity
	Name        string
	Slug        string
	Description string
	ImageKey    string
}

// NewBreed creates a breed with a slug derived from the name.
// Slug uniqueness is enforced by the application layer.
func NewBreed(name, description string) (*Breed, error) {
	name = strings.TrimSpace(name)
	if err := validateBreedName(name); err != nil {
		return nil, err
	}

	return &Breed{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(description),
	}, nil
}

// Update changes the breed's descriptive fields. The slug follows the
// name so published URLs stay readable.
func (b *Breed) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateBreedName(name); err != nil {
		return err
	}

	b.Name = name
	b.Slug = slug.Make(name)
	b.Description = strings.TrimSpace(description)
	b.Touch()

	return nil
}

// SetImage records the storage key of the breed's picture.
func (b *Breed) SetImage(key string) {
	b.ImageKey = key
	b.Touch()
}

func validateBreedName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "breed name is required")
	}
	if len(name) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "breed name must not exceed 100 characters")
	}
	return nil
}

package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const milestoneInterval = 100

// Dog is the aggregate root of the registry. It references its breed,
// at most one owner, and carries a monotonically non-decreasing view
// counter used for milestone notifications.
type Dog struct {
	shared.BaseEntity
	Name        string
	Slug        string
	BreedID     uuid.UUID
	OwnerID     *uuid.UUID
	Age         int
	Description string
	ImageKey    string
	BirthDate   *time.Time
	ViewCount   int64
}

// NewDog creates a dog record. The slug is derived from the name;
// uniqueness suffixing is handled by the application layer.
func NewDog(name string, breedID uuid.UUID, age int, description string, birthDate *time.Time) (*Dog, error) {
	name = strings.TrimSpace(name)
	if err := validateDogName(name); err != nil {
		return nil, err
	}
	if breedID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "breed is required")
	}
	if err := validateAge(age, birthDate); err != nil {
		return nil, err
	}

	return &Dog{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        slug.Make(name),
		BreedID:     breedID,
		Age:         age,
		Description: strings.TrimSpace(description),
		BirthDate:   birthDate,
	}, nil
}

// Update changes the dog's descriptive fields and re-validates the
// birth date against the declared age.
func (d *Dog) Update(name string, breedID uuid.UUID, age int, description string, birthDate *time.Time) error {
	name = strings.TrimSpace(name)
	if err := validateDogName(name); err != nil {
		return err
	}
	if breedID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "breed is required")
	}
	if err := validateAge(age, birthDate); err != nil {
		return err
	}

	d.Name = name
	d.Slug = slug.Make(name)
	d.BreedID = breedID
	d.Age = age
	d.Description = strings.TrimSpace(description)
	d.BirthDate = birthDate
	d.Touch()

	return nil
}

// SetImage records the storage key of the dog's picture.
func (d *Dog) SetImage(key string) {
	d.ImageKey = key
	d.Touch()
}

// Claim assigns the dog to a user. The repository's conditional update
// is the authoritative gate under concurrency; this method states the
// same rule for an already-loaded aggregate and must mirror it.
func (d *Dog) Claim(userID uuid.UUID) error {
	if d.OwnerID != nil {
		return shared.ErrAlreadyOwned
	}
	owner := userID
	d.OwnerID = &owner
	d.Touch()
	return nil
}

// Release clears the owner. Only the current owner may release. As with
// Claim, the repository's owner-scoped update is the authoritative gate;
// this method must mirror its rule.
func (d *Dog) Release(userID uuid.UUID) error {
	if !d.IsOwnedBy(userID) {
		return shared.ErrNotOwner
	}
	d.OwnerID = nil
	d.Touch()
	return nil
}

// IsOwnedBy reports whether the given user currently owns the dog.
func (d *Dog) IsOwnedBy(userID uuid.UUID) bool {
	return d.OwnerID != nil && *d.OwnerID == userID
}

// CountsViewFrom reports whether a view by the given visitor increments
// the counter. Owner views never count; anonymous visitors always do.
func (d *Dog) CountsViewFrom(viewerID *uuid.UUID) bool {
	if viewerID == nil {
		return true
	}
	return !d.IsOwnedBy(*viewerID)
}

// AtMilestone reports whether the current view count sits exactly on a
// notification threshold.
func (d *Dog) AtMilestone() bool {
	return d.ViewCount > 0 && d.ViewCount%milestoneInterval == 0
}

func validateDogName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "dog name is required")
	}
	if len(name) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "dog name must not exceed 100 characters")
	}
	return nil
}

// validateAge rejects future birth dates and declared ages that
// contradict the birth date by more than a year.
func validateAge(age int, birthDate *time.Time) error {
	if age < 0 || age > 40 {
		return shared.NewDomainError("VALIDATION_ERROR", "age must be between 0 and 40")
	}
	if birthDate == nil {
		return nil
	}

	now := time.Now()
	if birthDate.After(now) {
		return shared.NewDomainError("VALIDATION_ERROR", "birth date must not be in the future")
	}

	years := int(now.Sub(*birthDate).Hours() / (24 * 365.25))
	if age < years-1 || age > years+1 {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("age %d is inconsistent with birth date (about %d years)", age, years))
	}
	return nil
}

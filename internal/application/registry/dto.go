package registry

import (
	"time"

	"github.com/bony/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// CreateBreedInput contains input for creating a breed
type CreateBreedInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateBreedInput contains input for updating a breed
type UpdateBreedInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// BreedDTO represents breed data returned to callers
type BreedDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	DogCount    int64     `json:"dog_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BreedListResult represents a paginated breed list
type BreedListResult struct {
	Breeds     []BreedDTO `json:"breeds"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// PedigreeInput carries the six optional ancestor slots. Each slot
// takes a registered dog reference, a free-text name for an ancestor
// outside the registry, or both.
type PedigreeInput struct {
	FatherID              *uuid.UUID `json:"father_id"`
	FatherName            string     `json:"father_name" binding:"max=100"`
	MotherID              *uuid.UUID `json:"mother_id"`
	MotherName            string     `json:"mother_name" binding:"max=100"`
	PaternalGrandsireID   *uuid.UUID `json:"paternal_grandsire_id"`
	PaternalGrandsireName string     `json:"paternal_grandsire_name" binding:"max=100"`
	PaternalGranddamID    *uuid.UUID `json:"paternal_granddam_id"`
	PaternalGranddamName  string     `json:"paternal_granddam_name" binding:"max=100"`
	MaternalGrandsireID   *uuid.UUID `json:"maternal_grandsire_id"`
	MaternalGrandsireName string     `json:"maternal_grandsire_name" binding:"max=100"`
	MaternalGranddamID    *uuid.UUID `json:"maternal_granddam_id"`
	MaternalGranddamName  string     `json:"maternal_granddam_name" binding:"max=100"`
}

func (p *PedigreeInput) toSlots() registry.PedigreeSlots {
	return registry.PedigreeSlots{
		FatherID:              p.FatherID,
		FatherName:            p.FatherName,
		MotherID:              p.MotherID,
		MotherName:            p.MotherName,
		PaternalGrandsireID:   p.PaternalGrandsireID,
		PaternalGrandsireName: p.PaternalGrandsireName,
		PaternalGranddamID:    p.PaternalGranddamID,
		PaternalGranddamName:  p.PaternalGranddamName,
		MaternalGrandsireID:   p.MaternalGrandsireID,
		MaternalGrandsireName: p.MaternalGrandsireName,
		MaternalGranddamID:    p.MaternalGranddamID,
		MaternalGranddamName:  p.MaternalGranddamName,
	}
}

// CreateDogInput contains input for registering a dog
type CreateDogInput struct {
	Name        string         `json:"name" binding:"required,max=100"`
	BreedID     uuid.UUID      `json:"breed_id" binding:"required"`
	Age         int            `json:"age" binding:"min=0,max=40"`
	Description string         `json:"description" binding:"max=2000"`
	BirthDate   *time.Time     `json:"birth_date"`
	Pedigree    *PedigreeInput `json:"pedigree"`
}

// UpdateDogInput contains input for updating a dog record
type UpdateDogInput struct {
	Name        string         `json:"name" binding:"required,max=100"`
	BreedID     uuid.UUID      `json:"breed_id" binding:"required"`
	Age         int            `json:"age" binding:"min=0,max=40"`
	Description string         `json:"description" binding:"max=2000"`
	BirthDate   *time.Time     `json:"birth_date"`
	Pedigree    *PedigreeInput `json:"pedigree"`
}

// PedigreeDTO represents a dog's recorded ancestry
type PedigreeDTO struct {
	FatherID              *uuid.UUID `json:"father_id,omitempty"`
	FatherName            string     `json:"father_name,omitempty"`
	MotherID              *uuid.UUID `json:"mother_id,omitempty"`
	MotherName            string     `json:"mother_name,omitempty"`
	PaternalGrandsireID   *uuid.UUID `json:"paternal_grandsire_id,omitempty"`
	PaternalGrandsireName string     `json:"paternal_grandsire_name,omitempty"`
	PaternalGranddamID    *uuid.UUID `json:"paternal_granddam_id,omitempty"`
	PaternalGranddamName  string     `json:"paternal_granddam_name,omitempty"`
	MaternalGrandsireID   *uuid.UUID `json:"maternal_grandsire_id,omitempty"`
	MaternalGrandsireName string     `json:"maternal_grandsire_name,omitempty"`
	MaternalGranddamID    *uuid.UUID `json:"maternal_granddam_id,omitempty"`
	MaternalGranddamName  string     `json:"maternal_granddam_name,omitempty"`
}

// DogDTO represents dog data returned to callers
type DogDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	BreedID     uuid.UUID  `json:"breed_id"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	Age         int        `json:"age"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	ViewCount   int64      `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DogDetailResult bundles a dog with its pedigree and reviews for the
// profile page
type DogDetailResult struct {
	Dog      DogDTO       `json:"dog"`
	Pedigree *PedigreeDTO `json:"pedigree,omitempty"`
	Reviews  []ReviewDTO  `json:"reviews"`
}

// DogListResult represents a paginated dog list
type DogListResult struct {
	Dogs       []DogDTO `json:"dogs"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

// AddReviewInput contains input for posting a review
type AddReviewInput struct {
	Text   string `json:"text" binding:"required,max=2000"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

// UpdateReviewInput contains input for editing a review
type UpdateReviewInput struct {
	Text   string `json:"text" binding:"required,max=2000"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

// ReviewDTO represents review data returned to callers
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	DogID     uuid.UUID `json:"dog_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadTarget is a presigned upload slot for an image
type UploadTarget struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func toBreedDTO(b *registry.Breed, imageURL string, dogCount int64) BreedDTO {
	return BreedDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		ImageURL:    imageURL,
		DogCount:    dogCount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toDogDTO(d *registry.Dog, imageURL string) DogDTO {
	return DogDTO{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		BreedID:     d.BreedID,
		OwnerID:     d.OwnerID,
		Age:         d.Age,
		Description: d.Description,
		ImageURL:    imageURL,
		BirthDate:   d.BirthDate,
		ViewCount:   d.ViewCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toPedigreeDTO(p *registry.Pedigree) *PedigreeDTO {
	if p == nil {
		return nil
	}
	return &PedigreeDTO{
		FatherID:              p.FatherID,
		FatherName:            p.FatherName,
		MotherID:              p.MotherID,
		MotherName:            p.MotherName,
		PaternalGrandsireID:   p.PaternalGrandsireID,
		PaternalGrandsireName: p.PaternalGrandsireName,
		PaternalGranddamID:    p.PaternalGranddamID,
		PaternalGranddamName:  p.PaternalGranddamName,
		MaternalGrandsireID:   p.MaternalGrandsireID,
		MaternalGrandsireName: p.MaternalGrandsireName,
		MaternalGranddamID:    p.MaternalGranddamID,
		MaternalGranddamName:  p.MaternalGranddamName,
	}
}

func toReviewDTO(r *registry.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		DogID:     r.DogID,
		AuthorID:  r.AuthorID,
		Text:      r.Text,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

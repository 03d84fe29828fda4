package models

import (
	"time"

	"github.com/bony/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// BreedModel is the persistence model for the Breed domain entity.
type BreedModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ImageKey    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (BreedModel) TableName() string {
	return "breeds"
}

// ToDomain converts the persistence model to a domain Breed entity.
func (m *BreedModel) ToDomain() *registry.Breed {
	return &registry.Breed{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ImageKey:    m.ImageKey,
	}
}

// FromDomain populates the persistence model from a domain Breed entity.
func (m *BreedModel) FromDomain(b *registry.Breed) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Name = b.Name
	m.Slug = b.Slug
	m.Description = b.Description
	m.ImageKey = b.ImageKey
}

// DogModel is the persistence model for the Dog domain entity.
type DogModel struct {
	BaseModel
	Name        string     `gorm:"type:varchar(100);not null;index"`
	Slug        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	BreedID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index"`
	Age         int        `gorm:"not null;default:0"`
	Description string     `gorm:"type:text"`
	ImageKey    string     `gorm:"type:varchar(500)"`
	BirthDate   *time.Time
	ViewCount   int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DogModel) TableName() string {
	return "dogs"
}

// ToDomain converts the persistence model to a domain Dog entity.
func (m *DogModel) ToDomain() *registry.Dog {
	return &registry.Dog{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Slug:        m.Slug,
		BreedID:     m.BreedID,
		OwnerID:     m.OwnerID,
		Age:         m.Age,
		Description: m.Description,
		ImageKey:    m.ImageKey,
		BirthDate:   m.BirthDate,
		ViewCount:   m.ViewCount,
	}
}

// FromDomain populates the persistence model from a domain Dog entity.
func (m *DogModel) FromDomain(d *registry.Dog) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.Name = d.Name
	m.Slug = d.Slug
	m.BreedID = d.BreedID
	m.OwnerID = d.OwnerID
	m.Age = d.Age
	m.Description = d.Description
	m.ImageKey = d.ImageKey
	m.BirthDate = d.BirthDate
	m.ViewCount = d.ViewCount
}

// PedigreeModel is the persistence model for the Pedigree domain entity.
// The one-to-one relation with a dog is enforced by the unique index.
type PedigreeModel struct {
	BaseModel
	DogID                 uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	FatherID              *uuid.UUID `gorm:"type:uuid"`
	FatherName            string     `gorm:"size:100;not null;default:''"`
	MotherID              *uuid.UUID `gorm:"type:uuid"`
	MotherName            string     `gorm:"size:100;not null;default:''"`
	PaternalGrandsireID   *uuid.UUID `gorm:"type:uuid"`
	PaternalGrandsireName string     `gorm:"size:100;not null;default:''"`
	PaternalGranddamID    *uuid.UUID `gorm:"type:uuid"`
	PaternalGranddamName  string     `gorm:"size:100;not null;default:''"`
	MaternalGrandsireID   *uuid.UUID `gorm:"type:uuid"`
	MaternalGrandsireName string     `gorm:"size:100;not null;default:''"`
	MaternalGranddamID    *uuid.UUID `gorm:"type:uuid"`
	MaternalGranddamName  string     `gorm:"size:100;not null;default:''"`
}

// TableName returns the table name for GORM
func (PedigreeModel) TableName() string {
	return "pedigrees"
}

// ToDomain converts the persistence model to a domain Pedigree entity.
func (m *PedigreeModel) ToDomain() *registry.Pedigree {
	return &registry.Pedigree{
		BaseEntity:            m.BaseModel.ToDomain(),
		DogID:                 m.DogID,
		FatherID:              m.FatherID,
		FatherName:            m.FatherName,
		MotherID:              m.MotherID,
		MotherName:            m.MotherName,
		PaternalGrandsireID:   m.PaternalGrandsireID,
		PaternalGrandsireName: m.PaternalGrandsireName,
		PaternalGranddamID:    m.PaternalGranddamID,
		PaternalGranddamName:  m.PaternalGranddamName,
		MaternalGrandsireID:   m.MaternalGrandsireID,
		MaternalGrandsireName: m.MaternalGrandsireName,
		MaternalGranddamID:    m.MaternalGranddamID,
		MaternalGranddamName:  m.MaternalGranddamName,
	}
}

// FromDomain populates the persistence model from a domain Pedigree entity.
func (m *PedigreeModel) FromDomain(p *registry.Pedigree) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.DogID = p.DogID
	m.FatherID = p.FatherID
	m.FatherName = p.FatherName
	m.MotherID = p.MotherID
	m.MotherName = p.MotherName
	m.PaternalGrandsireID = p.PaternalGrandsireID
	m.PaternalGrandsireName = p.PaternalGrandsireName
	m.PaternalGranddamID = p.PaternalGranddamID
	m.PaternalGranddamName = p.PaternalGranddamName
	m.MaternalGrandsireID = p.MaternalGrandsireID
	m.MaternalGrandsireName = p.MaternalGrandsireName
	m.MaternalGranddamID = p.MaternalGranddamID
	m.MaternalGranddamName = p.MaternalGranddamName
}

// ReviewModel is the persistence model for the Review domain entity.
type ReviewModel struct {
	BaseModel
	DogID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index"`
	Text     string    `gorm:"type:text;not null"`
	Rating   int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review entity.
func (m *ReviewModel) ToDomain() *registry.Review {
	return &registry.Review{
		BaseEntity: m.BaseModel.ToDomain(),
		DogID:      m.DogID,
		AuthorID:   m.AuthorID,
		Text:       m.Text,
		Rating:     m.Rating,
	}
}

// FromDomain populates the persistence model from a domain Review entity.
func (m *ReviewModel) FromDomain(r *registry.Review) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.DogID = r.DogID
	m.AuthorID = r.AuthorID
	m.Text = r.Text
	m.Rating = r.Rating
}

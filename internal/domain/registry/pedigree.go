package registry

import (
	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Pedigree records two generations of ancestry for a single dog. Every
// slot is optional and carries either a reference to a registered dog,
// a free-text name for an unregistered ancestor, or both; the registry
// does not guard against self-reference or cycles.
type Pedigree struct {
	shared.BaseEntity
	DogID                 uuid.UUID
	FatherID              *uuid.UUID
	FatherName            string
	MotherID              *uuid.UUID
	MotherName            string
	PaternalGrandsireID   *uuid.UUID
	PaternalGrandsireName string
	PaternalGranddamID    *uuid.UUID
	PaternalGranddamName  string
	MaternalGrandsireID   *uuid.UUID
	MaternalGrandsireName string
	MaternalGranddamID    *uuid.UUID
	MaternalGranddamName  string
}

// PedigreeSlots carries the six ancestor slots used when creating or
// updating a pedigree alongside its dog. Each slot is independent and
// takes a dog reference, a free-text name, or neither.
type PedigreeSlots struct {
	FatherID              *uuid.UUID
	FatherName            string
	MotherID              *uuid.UUID
	MotherName            string
	PaternalGrandsireID   *uuid.UUID
	PaternalGrandsireName string
	PaternalGranddamID    *uuid.UUID
	PaternalGranddamName  string
	MaternalGrandsireID   *uuid.UUID
	MaternalGrandsireName string
	MaternalGranddamID    *uuid.UUID
	MaternalGranddamName  string
}

// NewPedigree creates the pedigree for a dog. At most one pedigree
// exists per dog, enforced by the repository.
func NewPedigree(dogID uuid.UUID, slots PedigreeSlots) (*Pedigree, error) {
	if dogID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "pedigree requires a dog")
	}

	p := &Pedigree{
		BaseEntity: shared.NewBaseEntity(),
		DogID:      dogID,
	}
	p.apply(slots)
	return p, nil
}

// Update replaces all six ancestor slots.
func (p *Pedigree) Update(slots PedigreeSlots) {
	p.apply(slots)
	p.Touch()
}

// IsEmpty reports whether no ancestor slot carries a reference or a
// free-text name.
func (p *Pedigree) IsEmpty() bool {
	return p.FatherID == nil && p.FatherName == "" &&
		p.MotherID == nil && p.MotherName == "" &&
		p.PaternalGrandsireID == nil && p.PaternalGrandsireName == "" &&
		p.PaternalGranddamID == nil && p.PaternalGranddamName == "" &&
		p.MaternalGrandsireID == nil && p.MaternalGrandsireName == "" &&
		p.MaternalGranddamID == nil && p.MaternalGranddamName == ""
}

func (p *Pedigree) apply(slots PedigreeSlots) {
	p.FatherID = slots.FatherID
	p.FatherName = slots.FatherName
	p.MotherID = slots.MotherID
	p.MotherName = slots.MotherName
	p.PaternalGrandsireID = slots.PaternalGrandsireID
	p.PaternalGrandsireName = slots.PaternalGrandsireName
	p.PaternalGranddamID = slots.PaternalGranddamID
	p.PaternalGranddamName = slots.PaternalGranddamName
	p.MaternalGrandsireID = slots.MaternalGrandsireID
	p.MaternalGrandsireName = slots.MaternalGrandsireName
	p.MaternalGranddamID = slots.MaternalGranddamID
	p.MaternalGranddamName = slots.MaternalGranddamName
}

package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/bony/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBreedRepository implements registry.BreedRepository using GORM
type GormBreedRepository struct {
	db *gorm.DB
}

// NewGormBreedRepository creates a new GormBreedRepository
func NewGormBreedRepository(db *gorm.DB) *GormBreedRepository {
	return &GormBreedRepository{db: db}
}

// Create persists a new breed
func (r *GormBreedRepository) Create(ctx context.Context, breed *registry.Breed) error {
	model := &models.BreedModel{}
	model.FromDomain(breed)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changes to an existing breed
func (r *GormBreedRepository) Update(ctx context.Context, breed *registry.Breed) error {
	model := &models.BreedModel{}
	model.FromDomain(breed)
	result := r.db.WithContext(ctx).Model(&models.BreedModel{}).
		Where("id = ?", breed.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"slug":        model.Slug,
			"description": model.Description,
			"image_key":   model.ImageKey,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a breed unless dogs still reference it
func (r *GormBreedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dogs int64
		if err := tx.Model(&models.DogModel{}).
			Where("breed_id = ?", id).
			Count(&dogs).Error; err != nil {
			return err
		}
		if dogs > 0 {
			return shared.NewDomainError("VALIDATION_ERROR", "breed still has dogs registered")
		}

		result := tx.Where("id = ?", id).Delete(&models.BreedModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a breed by ID
func (r *GormBreedRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Breed, error) {
	var model models.BreedModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a breed by slug
func (r *GormBreedRepository) FindBySlug(ctx context.Context, slug string) (*registry.Breed, error) {
	var model models.BreedModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds breeds matching the filter together with the total count.
// The requested page is clamped into range before the window query runs.
func (r *GormBreedRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*registry.Breed, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.BreedModel{})
	if filter.Search != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	filter = filter.ClampPage(total)

	var breedModels []models.BreedModel
	if err := base.Order("name ASC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&breedModels).Error; err != nil {
		return nil, 0, err
	}

	breeds := make([]*registry.Breed, len(breedModels))
	for i := range breedModels {
		breeds[i] = breedModels[i].ToDomain()
	}
	return breeds, total, nil
}

// ExistsByName checks if a breed with the given name exists
func (r *GormBreedRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BreedModel{}).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Count(&count).Error
	return count > 0, err
}

// ExistsBySlug checks if a breed with the given slug exists
func (r *GormBreedRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BreedModel{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

var _ registry.BreedRepository = (*GormBreedRepository)(nil)

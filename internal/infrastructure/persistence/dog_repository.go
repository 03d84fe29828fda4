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
	"gorm.io/gorm/clause"
)

// GormDogRepository implements registry.DogRepository using GORM
type GormDogRepository struct {
	db *gorm.DB
}

// NewGormDogRepository creates a new GormDogRepository
func NewGormDogRepository(db *gorm.DB) *GormDogRepository {
	return &GormDogRepository{db: db}
}

// Create persists a dog and its pedigree in one transaction
func (r *GormDogRepository) Create(ctx context.Context, dog *registry.Dog, pedigree *registry.Pedigree) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dogModel := &models.DogModel{}
		dogModel.FromDomain(dog)
		if err := tx.Create(dogModel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		if pedigree != nil {
			pedigreeModel := &models.PedigreeModel{}
			pedigreeModel.FromDomain(pedigree)
			if err := tx.Create(pedigreeModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update persists changes to a dog and replaces its pedigree in one
// transaction. A nil pedigree removes any stored one.
func (r *GormDogRepository) Update(ctx context.Context, dog *registry.Dog, pedigree *registry.Pedigree) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dogModel := &models.DogModel{}
		dogModel.FromDomain(dog)
		result := tx.Model(&models.DogModel{}).
			Where("id = ?", dog.ID).
			Updates(map[string]any{
				"name":        dogModel.Name,
				"slug":        dogModel.Slug,
				"breed_id":    dogModel.BreedID,
				"age":         dogModel.Age,
				"description": dogModel.Description,
				"image_key":   dogModel.ImageKey,
				"birth_date":  dogModel.BirthDate,
				"updated_at":  dogModel.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("dog_id = ?", dog.ID).
			Delete(&models.PedigreeModel{}).Error; err != nil {
			return err
		}
		if pedigree != nil {
			pedigreeModel := &models.PedigreeModel{}
			pedigreeModel.FromDomain(pedigree)
			if err := tx.Create(pedigreeModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a dog along with its pedigree and reviews
func (r *GormDogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dog_id = ?", id).Delete(&models.ReviewModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dog_id = ?", id).Delete(&models.PedigreeModel{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.DogModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a dog by ID
func (r *GormDogRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Dog, error) {
	var model models.DogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a dog by slug
func (r *GormDogRepository) FindBySlug(ctx context.Context, slug string) (*registry.Dog, error) {
	var model models.DogModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPedigree finds the pedigree of a dog
func (r *GormDogRepository) FindPedigree(ctx context.Context, dogID uuid.UUID) (*registry.Pedigree, error) {
	var model models.PedigreeModel
	if err := r.db.WithContext(ctx).Where("dog_id = ?", dogID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds dogs matching the filter together with the total count.
// The search text matches the dog name or the owner's username; the
// requested page is clamped into range before the window query runs.
func (r *GormDogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*registry.Dog, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.DogModel{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		base = base.
			Joins("LEFT JOIN users ON users.id = dogs.owner_id").
			Where("LOWER(dogs.name) LIKE ? OR LOWER(users.username) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	filter = filter.ClampPage(total)

	var dogModels []models.DogModel
	if err := base.Order("dogs.created_at DESC").
		Limit(filter.PageSize).
		Offset(filter.Offset()).
		Find(&dogModels).Error; err != nil {
		return nil, 0, err
	}

	dogs := make([]*registry.Dog, len(dogModels))
	for i := range dogModels {
		dogs[i] = dogModels[i].ToDomain()
	}
	return dogs, total, nil
}

// FindByOwner finds all dogs owned by a user
func (r *GormDogRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*registry.Dog, error) {
	var dogModels []models.DogModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&dogModels).Error; err != nil {
		return nil, err
	}

	dogs := make([]*registry.Dog, len(dogModels))
	for i := range dogModels {
		dogs[i] = dogModels[i].ToDomain()
	}
	return dogs, nil
}

// Claim sets the owner of an unowned dog. The update is conditional on
// the owner column still being null so concurrent claims cannot both
// win; the loser sees zero rows affected and gets ErrAlreadyOwned.
func (r *GormDogRepository) Claim(ctx context.Context, dogID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.DogModel{}).
		Where("id = ? AND owner_id IS NULL", dogID).
		Update("owner_id", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the dog is gone or someone else owns it now.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.DogModel{}).
			Where("id = ?", dogID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrAlreadyOwned
	}
	return nil
}

// Release clears the owner of a dog the user currently owns. A request
// for a dog the user does not own reads as not-found so ownership state
// does not leak.
func (r *GormDogRepository) Release(ctx context.Context, dogID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.DogModel{}).
		Where("id = ? AND owner_id = ?", dogID, userID).
		Update("owner_id", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViewCount atomically adds one view and returns the new count
func (r *GormDogRepository) IncrementViewCount(ctx context.Context, dogID uuid.UUID) (int64, error) {
	var model models.DogModel
	result := r.db.WithContext(ctx).Model(&model).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "view_count"}}}).
		Where("id = ?", dogID).
		Update("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrNotFound
	}
	return model.ViewCount, nil
}

// ExistsBySlug checks if a dog with the given slug exists
func (r *GormDogRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DogModel{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// CountByBreed counts dogs referencing a breed
func (r *GormDogRepository) CountByBreed(ctx context.Context, breedID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DogModel{}).
		Where("breed_id = ?", breedID).
		Count(&count).Error
	return count, err
}

var _ registry.DogRepository = (*GormDogRepository)(nil)

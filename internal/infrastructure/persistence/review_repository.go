package persistence

import (
	"context"
	"errors"

	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/bony/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements registry.ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create persists a new review
func (r *GormReviewRepository) Create(ctx context.Context, review *registry.Review) error {
	model := &models.ReviewModel{}
	model.FromDomain(review)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing review
func (r *GormReviewRepository) Update(ctx context.Context, review *registry.Review) error {
	model := &models.ReviewModel{}
	model.FromDomain(review)
	result := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"text":       model.Text,
			"rating":     model.Rating,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a review permanently
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ReviewModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a review by ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDog finds all reviews for a dog, newest first
func (r *GormReviewRepository) FindByDog(ctx context.Context, dogID uuid.UUID) ([]*registry.Review, error) {
	var reviewModels []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("dog_id = ?", dogID).
		Order("created_at DESC").
		Find(&reviewModels).Error; err != nil {
		return nil, err
	}

	reviews := make([]*registry.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = reviewModels[i].ToDomain()
	}
	return reviews, nil
}

// CountByDog counts reviews for a dog
func (r *GormReviewRepository) CountByDog(ctx context.Context, dogID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("dog_id = ?", dogID).
		Count(&count).Error
	return count, err
}

var _ registry.ReviewRepository = (*GormReviewRepository)(nil)

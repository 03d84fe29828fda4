package registry

import (
	"context"
	"errors"

	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BreedPageSize is the fixed page size for breed listings
const BreedPageSize = 6

// BreedService handles the breed catalog
type BreedService struct {
	breedRepo registry.BreedRepository
	dogRepo   registry.DogRepository
	storage   ObjectStorageService
	media     MediaConfig
	logger    *zap.Logger
}

// NewBreedService creates a new breed service
func NewBreedService(
	breedRepo registry.BreedRepository,
	dogRepo registry.DogRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *BreedService {
	return &BreedService{
		breedRepo: breedRepo,
		dogRepo:   dogRepo,
		storage:   storage,
		media:     DefaultMediaConfig(),
		logger:    logger,
	}
}

// SetMediaConfig overrides the presigned URL lifetimes
func (s *BreedService) SetMediaConfig(cfg MediaConfig) {
	s.media = cfg
}

// Create adds a breed to the catalog
func (s *BreedService) Create(ctx context.Context, input CreateBreedInput) (*BreedDTO, error) {
	exists, err := s.breedRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		s.logger.Error("Failed to check breed name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create breed")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Breed already exists")
	}

	breed, err := registry.NewBreed(input.Name, input.Description)
	if err != nil {
		return nil, err
	}

	breed.Slug, err = uniqueSlug(ctx, breed.Slug, s.breedRepo.ExistsBySlug)
	if err != nil {
		s.logger.Error("Failed to resolve breed slug", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create breed")
	}

	if err := s.breedRepo.Create(ctx, breed); err != nil {
		s.logger.Error("Failed to create breed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create breed")
	}

	s.logger.Info("Breed created",
		zap.String("breed_id", breed.ID.String()),
		zap.String("slug", breed.Slug))

	dto := s.toDTO(ctx, breed, 0)
	return &dto, nil
}

// Update changes a breed's name and description. The slug follows the
// name, suffixed if the new name collides with another breed.
func (s *BreedService) Update(ctx context.Context, id uuid.UUID, input UpdateBreedInput) (*BreedDTO, error) {
	breed, err := s.breedRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	oldSlug := breed.Slug
	if err := breed.Update(input.Name, input.Description); err != nil {
		return nil, err
	}

	if breed.Slug != oldSlug {
		breed.Slug, err = uniqueSlug(ctx, breed.Slug, s.breedRepo.ExistsBySlug)
		if err != nil {
			s.logger.Error("Failed to resolve breed slug", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update breed")
		}
	}

	if err := s.breedRepo.Update(ctx, breed); err != nil {
		s.logger.Error("Failed to update breed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update breed")
	}

	count, _ := s.dogRepo.CountByBreed(ctx, breed.ID)
	dto := s.toDTO(ctx, breed, count)
	return &dto, nil
}

// Delete removes a breed. Fails while dogs still reference it.
func (s *BreedService) Delete(ctx context.Context, id uuid.UUID) error {
	breed, err := s.breedRepo.FindByID(ctx, id)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := s.breedRepo.Delete(ctx, id); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		s.logger.Error("Failed to delete breed", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete breed")
	}

	if breed.ImageKey != "" {
		if err := s.storage.DeleteObject(ctx, breed.ImageKey); err != nil {
			s.logger.Warn("Failed to delete breed image",
				zap.String("storage_key", breed.ImageKey),
				zap.Error(err))
		}
	}

	s.logger.Info("Breed deleted", zap.String("breed_id", id.String()))
	return nil
}

// Get returns a breed by slug
func (s *BreedService) Get(ctx context.Context, slug string) (*BreedDTO, error) {
	breed, err := s.breedRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	count, err := s.dogRepo.CountByBreed(ctx, breed.ID)
	if err != nil {
		s.logger.Error("Failed to count dogs for breed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load breed")
	}

	dto := s.toDTO(ctx, breed, count)
	return &dto, nil
}

// List returns a page of breeds ordered by name. Out-of-range pages
// resolve to the nearest valid page.
func (s *BreedService) List(ctx context.Context, page int, search string) (*BreedListResult, error) {
	filter := shared.NewFilter(page, BreedPageSize, search)

	breeds, total, err := s.breedRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list breeds", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list breeds")
	}
	filter = filter.ClampPage(total)

	dtos := make([]BreedDTO, 0, len(breeds))
	for _, b := range breeds {
		count, err := s.dogRepo.CountByBreed(ctx, b.ID)
		if err != nil {
			s.logger.Error("Failed to count dogs for breed", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list breeds")
		}
		dtos = append(dtos, s.toDTO(ctx, b, count))
	}

	return &BreedListResult{
		Breeds:     dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: shared.TotalPages(total, filter.PageSize),
	}, nil
}

// InitiateImageUpload presigns an upload slot for a breed image and
// records the key. The previous image, if any, is removed from storage.
func (s *BreedService) InitiateImageUpload(ctx context.Context, id uuid.UUID, contentType string) (*UploadTarget, error) {
	breed, err := s.breedRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	key, err := imageStorageKey("breeds", breed.ID, contentType)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.media.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign breed image upload", zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	oldKey := breed.ImageKey
	breed.SetImage(key)
	if err := s.breedRepo.Update(ctx, breed); err != nil {
		s.logger.Error("Failed to record breed image key", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record image")
	}
	if oldKey != "" {
		if err := s.storage.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete replaced breed image", zap.Error(err))
		}
	}

	return &UploadTarget{StorageKey: key, UploadURL: uploadURL, ExpiresAt: expiresAt}, nil
}

func (s *BreedService) toDTO(ctx context.Context, breed *registry.Breed, dogCount int64) BreedDTO {
	return toBreedDTO(breed, s.imageURL(ctx, breed.ImageKey), dogCount)
}

func (s *BreedService) imageURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, s.media.DownloadURLExpiry)
	if err != nil {
		s.logger.Warn("Failed to presign image download", zap.String("storage_key", key), zap.Error(err))
		return ""
	}
	return url
}

package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DogPageSize is the fixed page size for dog listings
const DogPageSize = 6

const notifyTimeout = 10 * time.Second

// DogService handles the dog registry: records, pedigree, ownership
// and profile views
type DogService struct {
	dogRepo    registry.DogRepository
	breedRepo  registry.BreedRepository
	reviewRepo registry.ReviewRepository
	userRepo   identity.UserRepository
	storage    ObjectStorageService
	notifier   MilestoneNotifier
	policy     registry.AccessPolicy
	media      MediaConfig
	logger     *zap.Logger
}

// NewDogService creates a new dog service
func NewDogService(
	dogRepo registry.DogRepository,
	breedRepo registry.BreedRepository,
	reviewRepo registry.ReviewRepository,
	userRepo identity.UserRepository,
	storage ObjectStorageService,
	notifier MilestoneNotifier,
	policy registry.AccessPolicy,
	logger *zap.Logger,
) *DogService {
	return &DogService{
		dogRepo:    dogRepo,
		breedRepo:  breedRepo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		storage:    storage,
		notifier:   notifier,
		policy:     policy,
		media:      DefaultMediaConfig(),
		logger:     logger,
	}
}

// SetMediaConfig overrides the presigned URL lifetimes
func (s *DogService) SetMediaConfig(cfg MediaConfig) {
	s.media = cfg
}

// Create registers a dog, together with its pedigree when one is given
func (s *DogService) Create(ctx context.Context, input CreateDogInput) (*DogDTO, error) {
	if _, err := s.breedRepo.FindByID(ctx, input.BreedID); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown breed")
	}

	dog, err := registry.NewDog(input.Name, input.BreedID, input.Age, input.Description, input.BirthDate)
	if err != nil {
		return nil, err
	}

	dog.Slug, err = uniqueSlug(ctx, dog.Slug, s.dogRepo.ExistsBySlug)
	if err != nil {
		s.logger.Error("Failed to resolve dog slug", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register dog")
	}

	pedigree, err := s.buildPedigree(dog.ID, input.Pedigree)
	if err != nil {
		return nil, err
	}

	if err := s.dogRepo.Create(ctx, dog, pedigree); err != nil {
		s.logger.Error("Failed to register dog", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register dog")
	}

	s.logger.Info("Dog registered",
		zap.String("dog_id", dog.ID.String()),
		zap.String("slug", dog.Slug))

	dto := s.toDTO(ctx, dog)
	return &dto, nil
}

// Update changes a dog's record and replaces its pedigree. A nil
// pedigree input removes any recorded ancestry.
func (s *DogService) Update(ctx context.Context, actor registry.Actor, id uuid.UUID, input UpdateDogInput) (*DogDTO, error) {
	dog, err := s.dogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if err := s.policy.AuthorizeDogMutation(dog, actor); err != nil {
		// Hide the record from users who may not touch it.
		return nil, shared.ErrNotFound
	}

	if dog.BreedID != input.BreedID {
		if _, err := s.breedRepo.FindByID(ctx, input.BreedID); err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown breed")
		}
	}

	if err := dog.Update(input.Name, input.BreedID, input.Age, input.Description, input.BirthDate); err != nil {
		return nil, err
	}

	pedigree, err := s.buildPedigree(dog.ID, input.Pedigree)
	if err != nil {
		return nil, err
	}

	if err := s.dogRepo.Update(ctx, dog, pedigree); err != nil {
		s.logger.Error("Failed to update dog", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update dog")
	}

	dto := s.toDTO(ctx, dog)
	return &dto, nil
}

// Delete removes a dog along with its pedigree and reviews
func (s *DogService) Delete(ctx context.Context, actor registry.Actor, id uuid.UUID) error {
	dog, err := s.dogRepo.FindByID(ctx, id)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := s.policy.AuthorizeDogMutation(dog, actor); err != nil {
		return shared.ErrNotFound
	}

	if err := s.dogRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete dog", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete dog")
	}

	if dog.ImageKey != "" {
		if err := s.storage.DeleteObject(ctx, dog.ImageKey); err != nil {
			s.logger.Warn("Failed to delete dog image",
				zap.String("storage_key", dog.ImageKey),
				zap.Error(err))
		}
	}

	s.logger.Info("Dog deleted", zap.String("dog_id", id.String()))
	return nil
}

// List returns a page of dogs, newest first. Search matches the dog's
// name or its owner's username.
func (s *DogService) List(ctx context.Context, page int, search string) (*DogListResult, error) {
	filter := shared.NewFilter(page, DogPageSize, search)

	dogs, total, err := s.dogRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list dogs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list dogs")
	}
	filter = filter.ClampPage(total)

	dtos := make([]DogDTO, 0, len(dogs))
	for _, d := range dogs {
		dtos = append(dtos, s.toDTO(ctx, d))
	}

	return &DogListResult{
		Dogs:       dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: shared.TotalPages(total, filter.PageSize),
	}, nil
}

// ListByOwner returns all dogs owned by a user
func (s *DogService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]DogDTO, error) {
	dogs, err := s.dogRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Failed to list owned dogs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list dogs")
	}

	dtos := make([]DogDTO, 0, len(dogs))
	for _, d := range dogs {
		dtos = append(dtos, s.toDTO(ctx, d))
	}
	return dtos, nil
}

// GetBySlug loads a dog profile with pedigree and reviews, and records
// the view. Views by the current owner do not count; every time the
// counter crosses a multiple of one hundred the owner is notified.
func (s *DogService) GetBySlug(ctx context.Context, slug string, viewer *registry.Actor) (*DogDetailResult, error) {
	dog, err := s.dogRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	var viewerID *uuid.UUID
	if viewer != nil {
		viewerID = &viewer.ID
	}
	if dog.CountsViewFrom(viewerID) {
		views, err := s.dogRepo.IncrementViewCount(ctx, dog.ID)
		if err != nil {
			// The profile still renders; only the counter is stale.
			s.logger.Error("Failed to record view",
				zap.String("dog_id", dog.ID.String()),
				zap.Error(err))
		} else {
			dog.ViewCount = views
			if dog.AtMilestone() {
				s.notifyMilestone(ctx, dog)
			}
		}
	}

	pedigree, err := s.dogRepo.FindPedigree(ctx, dog.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load pedigree", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load dog")
	}

	reviews, err := s.reviewRepo.FindByDog(ctx, dog.ID)
	if err != nil {
		s.logger.Error("Failed to load reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load dog")
	}

	reviewDTOs := make([]ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		reviewDTOs = append(reviewDTOs, toReviewDTO(r))
	}

	return &DogDetailResult{
		Dog:      s.toDTO(ctx, dog),
		Pedigree: toPedigreeDTO(pedigree),
		Reviews:  reviewDTOs,
	}, nil
}

// Claim makes the caller the owner of an unowned dog. Exactly one of
// two concurrent claims wins; the loser gets ALREADY_OWNED.
func (s *DogService) Claim(ctx context.Context, actor registry.Actor, id uuid.UUID) (*DogDTO, error) {
	if err := s.dogRepo.Claim(ctx, id, actor.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if errors.Is(err, shared.ErrAlreadyOwned) {
			return nil, s.alreadyOwnedError(ctx, id)
		}
		s.logger.Error("Failed to claim dog", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to claim dog")
	}

	s.logger.Info("Dog claimed",
		zap.String("dog_id", id.String()),
		zap.String("user_id", actor.ID.String()))

	dog, err := s.dogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	dto := s.toDTO(ctx, dog)
	return &dto, nil
}

// alreadyOwnedError names the current owner in the claim conflict. The
// lookup is best effort; on any miss the plain conflict is returned.
func (s *DogService) alreadyOwnedError(ctx context.Context, dogID uuid.UUID) error {
	dog, err := s.dogRepo.FindByID(ctx, dogID)
	if err != nil || dog.OwnerID == nil {
		return shared.ErrAlreadyOwned
	}
	owner, err := s.userRepo.FindByID(ctx, *dog.OwnerID)
	if err != nil {
		return shared.ErrAlreadyOwned
	}
	return shared.NewDomainError("ALREADY_OWNED",
		fmt.Sprintf("Dog is already owned by %s", owner.Username))
}

// Release clears the caller's ownership of a dog. Callers who do not
// own the dog get not-found, never a hint that the record exists.
func (s *DogService) Release(ctx context.Context, actor registry.Actor, id uuid.UUID) (*DogDTO, error) {
	if err := s.dogRepo.Release(ctx, id, actor.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to release dog", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to release dog")
	}

	s.logger.Info("Dog released",
		zap.String("dog_id", id.String()),
		zap.String("user_id", actor.ID.String()))

	dog, err := s.dogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	dto := s.toDTO(ctx, dog)
	return &dto, nil
}

// InitiateImageUpload presigns an upload slot for a dog's photo and
// records the key. The previous photo, if any, is removed from storage.
func (s *DogService) InitiateImageUpload(ctx context.Context, actor registry.Actor, id uuid.UUID, contentType string) (*UploadTarget, error) {
	dog, err := s.dogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if err := s.policy.AuthorizeDogMutation(dog, actor); err != nil {
		return nil, shared.ErrNotFound
	}

	key, err := imageStorageKey("dogs", dog.ID, contentType)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.media.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign dog image upload", zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	oldKey := dog.ImageKey
	dog.SetImage(key)
	pedigree, err := s.dogRepo.FindPedigree(ctx, dog.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load pedigree", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record image")
	}
	if err := s.dogRepo.Update(ctx, dog, pedigree); err != nil {
		s.logger.Error("Failed to record dog image key", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record image")
	}
	if oldKey != "" {
		if err := s.storage.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete replaced dog image", zap.Error(err))
		}
	}

	return &UploadTarget{StorageKey: key, UploadURL: uploadURL, ExpiresAt: expiresAt}, nil
}

// notifyMilestone sends the owner an email about the round view count.
// Delivery runs in the background so the profile request is not held
// up by SMTP.
func (s *DogService) notifyMilestone(ctx context.Context, dog *registry.Dog) {
	if dog.OwnerID == nil {
		return
	}

	owner, err := s.userRepo.FindByID(ctx, *dog.OwnerID)
	if err != nil {
		s.logger.Warn("Milestone reached but owner lookup failed",
			zap.String("dog_id", dog.ID.String()),
			zap.Error(err))
		return
	}

	milestone := ViewMilestone{
		DogID:      dog.ID,
		DogName:    dog.Name,
		DogSlug:    dog.Slug,
		Views:      dog.ViewCount,
		OwnerName:  owner.Username,
		OwnerEmail: owner.Email,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyViewMilestone(ctx, milestone); err != nil {
			s.logger.Error("Failed to send milestone notification",
				zap.String("dog_id", milestone.DogID.String()),
				zap.Int64("views", milestone.Views),
				zap.Error(err))
		}
	}()
}

func (s *DogService) buildPedigree(dogID uuid.UUID, input *PedigreeInput) (*registry.Pedigree, error) {
	if input == nil {
		return nil, nil
	}
	pedigree, err := registry.NewPedigree(dogID, input.toSlots())
	if err != nil {
		return nil, err
	}
	if pedigree.IsEmpty() {
		return nil, nil
	}
	return pedigree, nil
}

func (s *DogService) toDTO(ctx context.Context, dog *registry.Dog) DogDTO {
	return toDogDTO(dog, s.imageURL(ctx, dog.ImageKey))
}

func (s *DogService) imageURL(ctx context.Context, key string) string {
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

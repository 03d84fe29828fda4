package registry

import (
	"context"
	"time"

	identitydomain "github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBreedRepository is a mock implementation of registry.BreedRepository
type MockBreedRepository struct {
	mock.Mock
}

func (m *MockBreedRepository) Create(ctx context.Context, breed *registry.Breed) error {
	args := m.Called(ctx, breed)
	return args.Error(0)
}

func (m *MockBreedRepository) Update(ctx context.Context, breed *registry.Breed) error {
	args := m.Called(ctx, breed)
	return args.Error(0)
}

func (m *MockBreedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBreedRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Breed, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Breed), args.Error(1)
}

func (m *MockBreedRepository) FindBySlug(ctx context.Context, slug string) (*registry.Breed, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Breed), args.Error(1)
}

func (m *MockBreedRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*registry.Breed, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*registry.Breed), args.Get(1).(int64), args.Error(2)
}

func (m *MockBreedRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockBreedRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockDogRepository is a mock implementation of registry.DogRepository
type MockDogRepository struct {
	mock.Mock
}

func (m *MockDogRepository) Create(ctx context.Context, dog *registry.Dog, pedigree *registry.Pedigree) error {
	args := m.Called(ctx, dog, pedigree)
	return args.Error(0)
}

func (m *MockDogRepository) Update(ctx context.Context, dog *registry.Dog, pedigree *registry.Pedigree) error {
	args := m.Called(ctx, dog, pedigree)
	return args.Error(0)
}

func (m *MockDogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDogRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Dog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Dog), args.Error(1)
}

func (m *MockDogRepository) FindBySlug(ctx context.Context, slug string) (*registry.Dog, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Dog), args.Error(1)
}

func (m *MockDogRepository) FindPedigree(ctx context.Context, dogID uuid.UUID) (*registry.Pedigree, error) {
	args := m.Called(ctx, dogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Pedigree), args.Error(1)
}

func (m *MockDogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*registry.Dog, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*registry.Dog), args.Get(1).(int64), args.Error(2)
}

func (m *MockDogRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*registry.Dog, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*registry.Dog), args.Error(1)
}

func (m *MockDogRepository) Claim(ctx context.Context, dogID, userID uuid.UUID) error {
	args := m.Called(ctx, dogID, userID)
	return args.Error(0)
}

func (m *MockDogRepository) Release(ctx context.Context, dogID, userID uuid.UUID) error {
	args := m.Called(ctx, dogID, userID)
	return args.Error(0)
}

func (m *MockDogRepository) IncrementViewCount(ctx context.Context, dogID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dogID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDogRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockDogRepository) CountByBreed(ctx context.Context, breedID uuid.UUID) (int64, error) {
	args := m.Called(ctx, breedID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewRepository is a mock implementation of registry.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *registry.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *registry.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByDog(ctx context.Context, dogID uuid.UUID) ([]*registry.Review, error) {
	args := m.Called(ctx, dogID)
	return args.Get(0).([]*registry.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByDog(ctx context.Context, dogID uuid.UUID) (int64, error) {
	args := m.Called(ctx, dogID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identitydomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identitydomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identitydomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identitydomain.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identitydomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identitydomain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identitydomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identitydomain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identitydomain.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identitydomain.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorageService is a mock implementation of ObjectStorageService
type MockObjectStorageService struct {
	mock.Mock
}

func (m *MockObjectStorageService) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorageService) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorageService) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

// MockMilestoneNotifier is a mock implementation of MilestoneNotifier
type MockMilestoneNotifier struct {
	mock.Mock
	done chan struct{}
}

// NewMockMilestoneNotifier returns a notifier that signals done after
// each delivery, so tests can wait for the background send.
func NewMockMilestoneNotifier() *MockMilestoneNotifier {
	return &MockMilestoneNotifier{done: make(chan struct{}, 1)}
}

func (m *MockMilestoneNotifier) NotifyViewMilestone(ctx context.Context, milestone ViewMilestone) error {
	args := m.Called(ctx, milestone)
	if m.done != nil {
		m.done <- struct{}{}
	}
	return args.Error(0)
}

// WaitForDelivery blocks until a notification lands or the timeout
// expires; it reports whether one arrived.
func (m *MockMilestoneNotifier) WaitForDelivery(timeout time.Duration) bool {
	select {
	case <-m.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func timeNowPlusHour() time.Time {
	return time.Now().Add(time.Hour)
}

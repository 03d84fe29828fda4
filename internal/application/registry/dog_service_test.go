package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	identitydomain "github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dogServiceMocks struct {
	dogRepo    *MockDogRepository
	breedRepo  *MockBreedRepository
	reviewRepo *MockReviewRepository
	userRepo   *MockUserRepository
	storage    *MockObjectStorageService
	notifier   *MockMilestoneNotifier
}

func createDogService(policy registry.AccessPolicy) (*DogService, *dogServiceMocks) {
	m := &dogServiceMocks{
		dogRepo:    new(MockDogRepository),
		breedRepo:  new(MockBreedRepository),
		reviewRepo: new(MockReviewRepository),
		userRepo:   new(MockUserRepository),
		storage:    new(MockObjectStorageService),
		notifier:   NewMockMilestoneNotifier(),
	}
	service := NewDogService(
		m.dogRepo, m.breedRepo, m.reviewRepo, m.userRepo,
		m.storage, m.notifier, policy, zap.NewNop(),
	)
	return service, m
}

func createTestDog(t *testing.T, name string) *registry.Dog {
	t.Helper()
	dog, err := registry.NewDog(name, uuid.New(), 3, "good dog", nil)
	require.NoError(t, err)
	return dog
}

func TestDogService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("with pedigree", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		breed := createTestBreed(t, "Beagle")
		father := uuid.New()

		m.breedRepo.On("FindByID", ctx, breed.ID).Return(breed, nil)
		m.dogRepo.On("ExistsBySlug", ctx, "rex").Return(false, nil)
		m.dogRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := service.Create(ctx, CreateDogInput{
			Name:     "Rex",
			BreedID:  breed.ID,
			Age:      3,
			Pedigree: &PedigreeInput{FatherID: &father},
		})

		require.NoError(t, err)
		assert.Equal(t, "rex", result.Slug)
		assert.Nil(t, result.OwnerID)

		// The pedigree travels with the dog in a single repo call.
		pedigree := m.dogRepo.Calls[1].Arguments.Get(2).(*registry.Pedigree)
		require.NotNil(t, pedigree)
		assert.Equal(t, &father, pedigree.FatherID)
	})

	t.Run("empty pedigree is not stored", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		breed := createTestBreed(t, "Beagle")

		m.breedRepo.On("FindByID", ctx, breed.ID).Return(breed, nil)
		m.dogRepo.On("ExistsBySlug", ctx, "rex").Return(false, nil)
		m.dogRepo.On("Create", ctx, mock.Anything, (*registry.Pedigree)(nil)).Return(nil)

		_, err := service.Create(ctx, CreateDogInput{
			Name:     "Rex",
			BreedID:  breed.ID,
			Age:      3,
			Pedigree: &PedigreeInput{},
		})
		require.NoError(t, err)
		m.dogRepo.AssertExpectations(t)
	})

	t.Run("unknown breed", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		breedID := uuid.New()
		m.breedRepo.On("FindByID", ctx, breedID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateDogInput{Name: "Rex", BreedID: breedID, Age: 3})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("slug collision gets a suffix", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		breed := createTestBreed(t, "Beagle")

		m.breedRepo.On("FindByID", ctx, breed.ID).Return(breed, nil)
		m.dogRepo.On("ExistsBySlug", ctx, "rex").Return(true, nil)
		m.dogRepo.On("ExistsBySlug", ctx, "rex-2").Return(true, nil)
		m.dogRepo.On("ExistsBySlug", ctx, "rex-3").Return(false, nil)
		m.dogRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := service.Create(ctx, CreateDogInput{Name: "Rex", BreedID: breed.ID, Age: 3})
		require.NoError(t, err)
		assert.Equal(t, "rex-3", result.Slug)
	})
}

func TestDogService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("open policy lets anyone edit", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		dog := createTestDog(t, "Rex")

		m.dogRepo.On("FindByID", ctx, dog.ID).Return(dog, nil)
		m.dogRepo.On("Update", ctx, dog, mock.Anything).Return(nil)

		result, err := service.Update(ctx, registry.Actor{ID: uuid.New()}, dog.ID, UpdateDogInput{
			Name:    "Rexy",
			BreedID: dog.BreedID,
			Age:     4,
		})
		require.NoError(t, err)
		assert.Equal(t, "Rexy", result.Name)
		assert.Equal(t, 4, result.Age)
	})

	t.Run("owner-only policy hides the record from strangers", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{OwnerOnlyDogMutation: true})
		dog := createTestDog(t, "Rex")
		owner := uuid.New()
		dog.OwnerID = &owner

		m.dogRepo.On("FindByID", ctx, dog.ID).Return(dog, nil)

		_, err := service.Update(ctx, registry.Actor{ID: uuid.New()}, dog.ID, UpdateDogInput{
			Name:    "Stolen",
			BreedID: dog.BreedID,
			Age:     4,
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		m.dogRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("moderator passes the owner-only policy", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{OwnerOnlyDogMutation: true})
		dog := createTestDog(t, "Rex")
		owner := uuid.New()
		dog.OwnerID = &owner

		m.dogRepo.On("FindByID", ctx, dog.ID).Return(dog, nil)
		m.dogRepo.On("Update", ctx, dog, mock.Anything).Return(nil)

		_, err := service.Update(ctx, registry.Actor{ID: uuid.New(), Moderator: true}, dog.ID, UpdateDogInput{
			Name:    "Rexy",
			BreedID: dog.BreedID,
			Age:     4,
		})
		require.NoError(t, err)
	})
}

func TestDogService_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous view increments the counter", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		dog := createTestDog(t, "Rex")

		m.dogRepo.On("FindBySlug", ctx, "rex").Return(dog, nil)
		m.dogRepo.On("IncrementViewCount", ctx, dog.ID).Return(int64(7), nil)
		m.dogRepo.On("FindPedigree", ctx, dog.ID).Return(nil, shared.ErrNotFound)
		m.reviewRepo.On("FindByDog", ctx, dog.ID).Return([]*registry.Review{}, nil)

		result, err := service.GetBySlug(ctx, "rex", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(7), result.Dog.ViewCount)
		assert.Nil(t, result.Pedigree)
		assert.Empty(t, result.Reviews)
	})

	t.Run("owner view does not count", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		dog := createTestDog(t, "Rex")
		owner := uuid.New()
		dog.OwnerID = &owner
		dog.ViewCount = 5

		m.dogRepo.On("FindBySlug", ctx, "rex").Return(dog, nil)
		m.dogRepo.On("FindPedigree", ctx, dog.ID).Return(nil, shared.ErrNotFound)
		m.reviewRepo.On("FindByDog", ctx, dog.ID).Return([]*registry.Review{}, nil)

		result, err := service.GetBySlug(ctx, "rex", &registry.Actor{ID: owner})
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.Dog.ViewCount)
		m.dogRepo.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
	})

	t.Run("hundredth view notifies the owner", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		dog := createTestDog(t, "Rex")
		owner, err := identitydomain.NewUser("ownerperson", "owner@example.com", "Password123")
		require.NoError(t, err)
		dog.OwnerID = &owner.ID
		dog.ViewCount = 99

		m.dogRepo.On("FindBySlug", ctx, "rex").Return(dog, nil)
		m.dogRepo.On("IncrementViewCount", ctx, dog.ID).Return(int64(100), nil)
		m.dogRepo.On("FindPedigree", ctx, dog.ID).Return(nil, shared.ErrNotFound)
		m.reviewRepo.On("FindByDog", ctx, dog.ID).Return([]*registry.Review{}, nil)
		m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
		m.notifier.On("NotifyViewMilestone", mock.Anything, mock.MatchedBy(func(v ViewMilestone) bool {
			return v.Views == 100 && v.OwnerEmail == "owner@example.com" && v.DogName == "Rex"
		})).Return(nil)

		result, err := service.GetBySlug(ctx, "rex", &registry.Actor{ID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, int64(100), result.Dog.ViewCount)
		assert.True(t, m.notifier.WaitForDelivery(2*time.Second))
	})

	t.Run("ordinary view sends nothing", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		dog := createTestDog(t, "Rex")

		m.dogRepo.On("FindBySlug", ctx, "rex").Return(dog, nil)
		m.dogRepo.On("IncrementViewCount", ctx, dog.ID).Return(int64(42), nil)
		m.dogRepo.On("FindPedigree", ctx, dog.ID).Return(nil, shared.ErrNotFound)
		m.reviewRepo.On("FindByDog", ctx, dog.ID).Return([]*registry.Review{}, nil)

		_, err := service.GetBySlug(ctx, "rex", nil)
		require.NoError(t, err)
		m.notifier.AssertNotCalled(t, "NotifyViewMilestone", mock.Anything, mock.Anything)
	})
}

func TestDogService_ClaimRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("claim success", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		dog := createTestDog(t, "Rex")
		actor := registry.Actor{ID: uuid.New()}
		dog.OwnerID = &actor.ID

		m.dogRepo.On("Claim", ctx, dog.ID, actor.ID).Return(nil)
		m.dogRepo.On("FindByID", ctx, dog.ID).Return(dog, nil)

		result, err := service.Claim(ctx, actor, dog.ID)
		require.NoError(t, err)
		assert.Equal(t, &actor.ID, result.OwnerID)
	})

	t.Run("claim loses the race and names the winner", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		actor := registry.Actor{ID: uuid.New()}
		winner, err := identitydomain.NewUser("bob", "bob@example.com", "sup3r-secret-pw")
		require.NoError(t, err)
		dog := createTestDog(t, "Rex")
		dog.OwnerID = &winner.ID

		m.dogRepo.On("Claim", ctx, dog.ID, actor.ID).Return(shared.ErrAlreadyOwned)
		m.dogRepo.On("FindByID", ctx, dog.ID).Return(dog, nil)
		m.userRepo.On("FindByID", ctx, winner.ID).Return(winner, nil)

		_, err = service.Claim(ctx, actor, dog.ID)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_OWNED", domainErr.Code)
		assert.Contains(t, domainErr.Message, "bob")
	})

	t.Run("claim conflict falls back when the dog vanished", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		id := uuid.New()
		actor := registry.Actor{ID: uuid.New()}
		m.dogRepo.On("Claim", ctx, id, actor.ID).Return(shared.ErrAlreadyOwned)
		m.dogRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Claim(ctx, actor, id)
		assert.True(t, errors.Is(err, shared.ErrAlreadyOwned))
	})

	t.Run("release by non-owner looks like a missing record", func(t *testing.T) {
		service, m := createDogService(registry.AccessPolicy{})
		id := uuid.New()
		actor := registry.Actor{ID: uuid.New()}
		m.dogRepo.On("Release", ctx, id, actor.ID).Return(shared.ErrNotFound)

		_, err := service.Release(ctx, actor, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestDogService_Delete(t *testing.T) {
	ctx := context.Background()
	service, m := createDogService(registry.AccessPolicy{})
	dog := createTestDog(t, "Rex")
	dog.ImageKey = "dogs/abc/photo.jpg"

	m.dogRepo.On("FindByID", ctx, dog.ID).Return(dog, nil)
	m.dogRepo.On("Delete", ctx, dog.ID).Return(nil)
	m.storage.On("DeleteObject", ctx, "dogs/abc/photo.jpg").Return(nil)

	require.NoError(t, service.Delete(ctx, registry.Actor{ID: uuid.New()}, dog.ID))
	m.storage.AssertExpectations(t)
}

func TestDogService_List(t *testing.T) {
	ctx := context.Background()
	service, m := createDogService(registry.AccessPolicy{})

	dogs := []*registry.Dog{createTestDog(t, "Rex"), createTestDog(t, "Fido")}
	filter := shared.NewFilter(1, DogPageSize, "re")
	m.dogRepo.On("FindAll", ctx, filter).Return(dogs, int64(2), nil)

	result, err := service.List(ctx, 1, "re")
	require.NoError(t, err)
	assert.Len(t, result.Dogs, 2)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, DogPageSize, result.PageSize)
}

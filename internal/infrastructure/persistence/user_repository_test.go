package persistence

import (
	"context"
	"testing"

	"github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
	})

	t.Run("find by username ignores case", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("find by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("exists checks", func(t *testing.T) {
		exists, err := repo.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		dup, err := identity.NewUser("alice", "other@example.com", "Password123")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})
}

func TestGormUserRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "bob")
	user.ToggleStaff()
	user.TogglePremium()
	require.NoError(t, user.UpdateProfile("555-0101", "Oak Ave 2", "Portland", nil))

	require.NoError(t, repo.Update(ctx, user))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsStaff)
	assert.True(t, stored.IsPremium)
	assert.Equal(t, "Portland", stored.City)
}

func TestGormUserRepository_DeleteReleasesDogsAndDropsReviews(t *testing.T) {
	db := setupTestDB(t)
	users := NewGormUserRepository(db)
	dogs := NewGormDogRepository(db)
	reviews := NewGormReviewRepository(db)
	ctx := context.Background()

	breed := seedBreed(t, db, "Dalmatian")
	owner := seedUser(t, db, "owner")

	owned := make([]*registry.Dog, 3)
	for i, name := range []string{"Dot", "Spot", "Patch"} {
		owned[i] = seedDog(t, db, name, breed)
		require.NoError(t, dogs.Claim(ctx, owned[i].ID, owner.ID))
	}

	review, err := registry.NewReview(owned[0].ID, owner.ID, "my own dog", 5)
	require.NoError(t, err)
	require.NoError(t, reviews.Create(ctx, review))

	require.NoError(t, users.Delete(ctx, owner.ID))

	_, err = users.FindByID(ctx, owner.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	for _, dog := range owned {
		stored, err := dogs.FindByID(ctx, dog.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.OwnerID, "dog %s should survive ownerless", stored.Name)
	}

	left, err := reviews.FindByDog(ctx, owned[0].ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, users.Delete(ctx, owner.ID), shared.ErrNotFound)
}

func TestGormUserRepository_FindAllSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "carol")
	seedUser(t, db, "caroline")
	seedUser(t, db, "dave")

	t.Run("matches username substring", func(t *testing.T) {
		total, err := repo.Count(ctx, shared.NewFilter(1, 10, "carol"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		users, err := repo.FindAll(ctx, shared.NewFilter(1, 10, "carol"))
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("matches email substring", func(t *testing.T) {
		users, err := repo.FindAll(ctx, shared.NewFilter(1, 10, "dave@example"))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "dave", users[0].Username)
	})

	t.Run("pagination windows results", func(t *testing.T) {
		users, err := repo.FindAll(ctx, shared.NewFilter(2, 2, ""))
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}

package persistence

import (
	"context"
	"testing"

	"github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.BreedModel{},
		&models.DogModel{},
		&models.PedigreeModel{},
		&models.ReviewModel{},
	)
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, username+"@example.com", "Password123")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), user))
	return user
}

func seedBreed(t *testing.T, db *gorm.DB, name string) *registry.Breed {
	t.Helper()
	breed, err := registry.NewBreed(name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormBreedRepository(db).Create(context.Background(), breed))
	return breed
}

func seedDog(t *testing.T, db *gorm.DB, name string, breed *registry.Breed) *registry.Dog {
	t.Helper()
	dog, err := registry.NewDog(name, breed.ID, 2, "", nil)
	require.NoError(t, err)
	require.NoError(t, NewGormDogRepository(db).Create(context.Background(), dog, nil))
	return dog
}

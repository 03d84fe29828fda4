package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domregistry "github.com/bony/backend/internal/domain/registry"
)

func (env *testEnv) seedBreed(t *testing.T, name string) uuid.UUID {
	t.Helper()
	breed, err := domregistry.NewBreed(name, "")
	require.NoError(t, err)
	require.NoError(t, env.breeds.Create(context.Background(), breed))
	return breed.ID
}

type dogResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	OwnerID   *uuid.UUID `json:"owner_id"`
	ViewCount int64      `json:"view_count"`
}

func (env *testEnv) createDog(t *testing.T, token, name string, breedID uuid.UUID) dogResponse {
	t.Helper()
	w := env.request(t, http.MethodPost, "/api/v1/dogs", token, map[string]interface{}{
		"name":     name,
		"breed_id": breedID,
		"age":      3,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var dog dogResponse
	decodeData(t, w, &dog)
	return dog
}

func TestCreateDog(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")

	dog := env.createDog(t, token, "Rex", breedID)

	assert.Equal(t, "Rex", dog.Name)
	assert.Equal(t, "rex", dog.Slug)
	assert.Nil(t, dog.OwnerID, "new dogs start unowned")
}

func TestCreateDog_FreeTextPedigree(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	sire := env.createDog(t, token, "Storm", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs", token, map[string]interface{}{
		"name":     "Rex",
		"breed_id": breedID,
		"age":      3,
		"pedigree": map[string]interface{}{
			"father_id":               sire.ID,
			"mother_name":             "Luna vom Walde",
			"maternal_grandsire_name": "Odin (unregistered)",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var detail struct {
		Pedigree *struct {
			FatherID              *uuid.UUID `json:"father_id"`
			FatherName            string     `json:"father_name"`
			MotherID              *uuid.UUID `json:"mother_id"`
			MotherName            string     `json:"mother_name"`
			MaternalGrandsireName string     `json:"maternal_grandsire_name"`
		} `json:"pedigree"`
	}
	w = env.request(t, http.MethodGet, "/api/v1/dogs/rex", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &detail)
	require.NotNil(t, detail.Pedigree)
	require.NotNil(t, detail.Pedigree.FatherID)
	assert.Equal(t, sire.ID, *detail.Pedigree.FatherID)
	assert.Empty(t, detail.Pedigree.FatherName)
	assert.Nil(t, detail.Pedigree.MotherID)
	assert.Equal(t, "Luna vom Walde", detail.Pedigree.MotherName)
	assert.Equal(t, "Odin (unregistered)", detail.Pedigree.MaternalGrandsireName)
}

func TestCreateDog_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	breedID := env.seedBreed(t, "Border Collie")

	w := env.request(t, http.MethodPost, "/api/v1/dogs", "", map[string]interface{}{
		"name":     "Rex",
		"breed_id": breedID,
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateDog_UnknownBreed(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")

	w := env.request(t, http.MethodPost, "/api/v1/dogs", token, map[string]interface{}{
		"name":     "Rex",
		"breed_id": uuid.New(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDog_CountsAnonymousViews(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	env.createDog(t, token, "Rex", breedID)

	var detail struct {
		Dog dogResponse `json:"dog"`
	}

	w := env.request(t, http.MethodGet, "/api/v1/dogs/rex", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &detail)
	assert.Equal(t, int64(1), detail.Dog.ViewCount)

	w = env.request(t, http.MethodGet, "/api/v1/dogs/rex", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &detail)
	assert.Equal(t, int64(2), detail.Dog.ViewCount)
}

func TestGetDog_OwnerViewNotCounted(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	dog := env.createDog(t, token, "Rex", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Dog dogResponse `json:"dog"`
	}
	w = env.request(t, http.MethodGet, "/api/v1/dogs/rex", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &detail)
	assert.Equal(t, int64(0), detail.Dog.ViewCount)
}

func TestGetDog_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/dogs/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDog_MilestoneNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	dog := env.createDog(t, ownerToken, "Rex", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Put the counter one view short of the threshold.
	env.dogs.mu.Lock()
	d := env.dogs.dogs[dog.ID]
	d.ViewCount = 99
	env.dogs.dogs[dog.ID] = d
	env.dogs.mu.Unlock()

	w = env.request(t, http.MethodGet, "/api/v1/dogs/rex", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Delivery runs on a background goroutine.
	require.Eventually(t, func() bool {
		env.notifier.mu.Lock()
		defer env.notifier.mu.Unlock()
		return len(env.notifier.milestones) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Rex@100", env.notifier.milestones[0])
}

func TestClaimDog(t *testing.T) {
	env := newTestEnv(t)
	adaID, adaToken := env.registerUser(t, "ada")
	_, bobToken := env.registerUser(t, "bob")
	breedID := env.seedBreed(t, "Border Collie")
	dog := env.createDog(t, adaToken, "Rex", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var claimed dogResponse
	decodeData(t, w, &claimed)
	require.NotNil(t, claimed.OwnerID)
	assert.Equal(t, adaID, claimed.OwnerID.String())

	// Second claim loses.
	w = env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", bobToken, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_OWNED", resp.Error.Code)
}

func TestReleaseDog(t *testing.T) {
	env := newTestEnv(t)
	_, adaToken := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	dog := env.createDog(t, adaToken, "Rex", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/release", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var released dogResponse
	decodeData(t, w, &released)
	assert.Nil(t, released.OwnerID)
}

func TestReleaseDog_NonOwnerGetsNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, adaToken := env.registerUser(t, "ada")
	_, bobToken := env.registerUser(t, "bob")
	breedID := env.seedBreed(t, "Border Collie")
	dog := env.createDog(t, adaToken, "Rex", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Non-owners learn nothing, not even that the dog exists.
	w = env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/release", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateDog_NonOwnerGetsNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, adaToken := env.registerUser(t, "ada")
	_, bobToken := env.registerUser(t, "bob")
	breedID := env.seedBreed(t, "Border Collie")
	dog := env.createDog(t, adaToken, "Rex", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Unauthorized mutation reads as a missing record, the same
	// answer review moderation gives.
	w = env.request(t, http.MethodPut, "/api/v1/dogs/"+dog.ID.String(), bobToken, map[string]interface{}{
		"name":     "Not Rex",
		"breed_id": breedID,
		"age":      4,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDog_Owner(t *testing.T) {
	env := newTestEnv(t)
	_, adaToken := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	dog := env.createDog(t, adaToken, "Rex", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+dog.ID.String()+"/claim", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/dogs/"+dog.ID.String(), adaToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/dogs/rex", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDogs(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	env.createDog(t, token, "Rex", breedID)
	env.createDog(t, token, "Bella", breedID)
	env.createDog(t, token, "Luna", breedID)

	w := env.request(t, http.MethodGet, "/api/v1/dogs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 1, resp.Meta.TotalPages)
}

func TestListDogs_Search(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	env.createDog(t, token, "Rex", breedID)
	env.createDog(t, token, "Bella", breedID)

	w := env.request(t, http.MethodGet, "/api/v1/dogs?search=bel", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestListDogs_PageClampedToLast(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")
	breedID := env.seedBreed(t, "Border Collie")
	env.createDog(t, token, "Rex", breedID)

	w := env.request(t, http.MethodGet, "/api/v1/dogs?page=99", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Page, "out-of-range pages clamp to the last page")
}

func TestProfileDogs(t *testing.T) {
	env := newTestEnv(t)
	_, adaToken := env.registerUser(t, "ada")
	_, bobToken := env.registerUser(t, "bob")
	breedID := env.seedBreed(t, "Border Collie")
	rex := env.createDog(t, adaToken, "Rex", breedID)
	env.createDog(t, adaToken, "Bella", breedID)

	w := env.request(t, http.MethodPost, "/api/v1/dogs/"+rex.ID.String()+"/claim", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/profile/dogs", adaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dogs []dogResponse
	decodeData(t, w, &dogs)
	require.Len(t, dogs, 1)
	assert.Equal(t, "Rex", dogs[0].Name)

	w = env.request(t, http.MethodGet, "/api/v1/profile/dogs", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &dogs)
	assert.Empty(t, dogs)
}

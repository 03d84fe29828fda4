package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	IsStaff   bool      `json:"is_staff"`
	IsPremium bool      `json:"is_premium"`
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "ada")
	env.registerUser(t, "bob")
	_, staffToken := env.registerStaff(t, "mod")

	w := env.request(t, http.MethodGet, "/api/v1/admin/users", staffToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
}

func TestAdminListUsers_Search(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "ada")
	env.registerUser(t, "adrian")
	env.registerUser(t, "bob")
	_, staffToken := env.registerStaff(t, "mod")

	w := env.request(t, http.MethodGet, "/api/v1/admin/users?search=ad", staffToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestAdminListUsers_NonStaffForbidden(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "ada")

	w := env.request(t, http.MethodGet, "/api/v1/admin/users", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminListUsers_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/v1/admin/users", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminGetUser(t *testing.T) {
	env := newTestEnv(t)
	adaID, _ := env.registerUser(t, "ada")
	_, staffToken := env.registerStaff(t, "mod")

	w := env.request(t, http.MethodGet, "/api/v1/admin/users/"+adaID, staffToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var user userResponse
	decodeData(t, w, &user)
	assert.Equal(t, "ada", user.Username)
}

func TestAdminGetUser_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	_, staffToken := env.registerStaff(t, "mod")

	w := env.request(t, http.MethodGet, "/api/v1/admin/users/not-a-uuid", staffToken, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminToggleStaff(t *testing.T) {
	env := newTestEnv(t)
	adaID, _ := env.registerUser(t, "ada")
	_, staffToken := env.registerStaff(t, "mod")

	w := env.request(t, http.MethodPost, "/api/v1/admin/users/"+adaID+"/toggle-staff", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user userResponse
	decodeData(t, w, &user)
	assert.True(t, user.IsStaff)

	// Toggling again reverts.
	w = env.request(t, http.MethodPost, "/api/v1/admin/users/"+adaID+"/toggle-staff", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &user)
	assert.False(t, user.IsStaff)
}

func TestAdminTogglePremium(t *testing.T) {
	env := newTestEnv(t)
	adaID, _ := env.registerUser(t, "ada")
	_, staffToken := env.registerStaff(t, "mod")

	w := env.request(t, http.MethodPost, "/api/v1/admin/users/"+adaID+"/toggle-premium", staffToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var user userResponse
	decodeData(t, w, &user)
	assert.True(t, user.IsPremium)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	adaID, _ := env.registerUser(t, "ada")
	_, staffToken := env.registerStaff(t, "mod")

	w := env.request(t, http.MethodDelete, "/api/v1/admin/users/"+adaID, staffToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/admin/users/"+adaID, staffToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

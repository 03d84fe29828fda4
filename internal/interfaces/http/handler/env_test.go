package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/bony/backend/internal/application/identity"
	appregistry "github.com/bony/backend/internal/application/registry"
	domregistry "github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/infrastructure/auth"
	"github.com/bony/backend/internal/infrastructure/config"
	"github.com/bony/backend/internal/interfaces/http/dto"
	"github.com/bony/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// testEnv runs the real services behind a gin engine, backed by the
// in-memory fakes.
type testEnv struct {
	engine   *gin.Engine
	users    *fakeUserRepo
	breeds   *fakeBreedRepo
	dogs     *fakeDogRepo
	reviews  *fakeReviewRepo
	mailer   *fakeMailer
	notifier *fakeNotifier
	auth     *identityapp.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	env := &testEnv{
		users:    newFakeUserRepo(),
		breeds:   newFakeBreedRepo(),
		dogs:     newFakeDogRepo(),
		reviews:  newFakeReviewRepo(),
		mailer:   &fakeMailer{},
		notifier: &fakeNotifier{},
	}

	policy := domregistry.AccessPolicy{OwnerOnlyDogMutation: true}
	env.auth = identityapp.NewAuthService(env.users, jwtService, blacklist, env.mailer, log)
	userService := identityapp.NewUserService(env.users, jwtService, blacklist, log)
	breedService := appregistry.NewBreedService(env.breeds, env.dogs, fakeStorage{}, log)
	dogService := appregistry.NewDogService(env.dogs, env.breeds, env.reviews, env.users, fakeStorage{}, env.notifier, policy, log)
	reviewService := appregistry.NewReviewService(env.reviews, env.dogs, policy, log)

	requireAuth := middleware.RequireAuth(env.auth)
	optionalAuth := middleware.OptionalAuth(env.auth)
	requireStaff := middleware.RequireStaff()

	cookie := CookieSettings{Path: "/", SameSite: http.SameSiteLaxMode, MaxAge: 7 * 24 * time.Hour}

	env.engine = gin.New()
	api := env.engine.Group("/api/v1")
	NewAuthHandler(env.auth, cookie, requireAuth).RegisterRoutes(api)
	NewProfileHandler(env.auth, dogService, requireAuth).RegisterRoutes(api)
	NewBreedHandler(breedService, requireAuth, requireStaff).RegisterRoutes(api)
	NewDogHandler(dogService, requireAuth, optionalAuth).RegisterRoutes(api)
	NewReviewHandler(reviewService, requireAuth).RegisterRoutes(api)
	NewAdminUserHandler(userService, requireAuth, requireStaff).RegisterRoutes(api)
	return env
}

// registerUser creates an account through the service layer and
// returns the user ID with a valid access token.
func (env *testEnv) registerUser(t *testing.T, username string) (string, string) {
	t.Helper()
	result, err := env.auth.Register(context.Background(), identityapp.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "sup3r-secret-pw",
	})
	require.NoError(t, err)
	return result.User.ID.String(), result.Tokens.AccessToken
}

// registerStaff creates an account and promotes it to staff. A fresh
// token is issued afterwards so the claims carry the staff flag.
func (env *testEnv) registerStaff(t *testing.T, username string) (string, string) {
	t.Helper()
	id, _ := env.registerUser(t, username)
	user, err := env.users.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	user.ToggleStaff()
	require.NoError(t, env.users.Update(context.Background(), user))

	result, err := env.auth.Login(context.Background(), identityapp.LoginInput{
		Username: username,
		Password: "sup3r-secret-pw",
	})
	require.NoError(t, err)
	return id, result.Tokens.AccessToken
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

// envelope mirrors the response structure for assertions
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

package middleware

import (
	"net/http"
	"strings"

	identityapp "github.com/bony/backend/internal/application/identity"
	"github.com/bony/backend/internal/domain/registry"
	"github.com/bony/backend/internal/infrastructure/auth"
	"github.com/bony/backend/internal/infrastructure/logger"
	"github.com/bony/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// RequireAuth authenticates the request with a bearer access token.
// Validation and revocation checks go through the auth service so a
// logged-out or force-revoked session is rejected here.
func RequireAuth(authService *identityapp.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := authService.CheckAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, authErrorMessage(err))
			return
		}

		storeClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth extracts claims when a valid bearer token is present and
// passes the request through anonymously otherwise. Used on public
// endpoints where the viewer's identity changes behavior, like the view
// counter on dog profiles.
func OptionalAuth(authService *identityapp.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := authService.CheckAccessToken(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		storeClaims(c, claims)
		c.Next()
	}
}

// RequireStaff rejects requests from non-staff accounts. Must run after
// RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortUnauthorized(c, "Authentication required")
			return
		}
		if !claims.IsStaff && !claims.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Staff access required"))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	return token, token != ""
}

func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTUsernameKey, claims.Username)

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

func authErrorMessage(err error) string {
	switch err {
	case auth.ErrExpiredToken:
		return "Token has expired"
	case auth.ErrTokenBlacklisted:
		return "Token has been revoked"
	default:
		return "Authentication required"
	}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetActor builds the access-policy actor from the authenticated claims.
// Returns false when the request is anonymous.
func GetActor(c *gin.Context) (registry.Actor, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return registry.Actor{}, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return registry.Actor{}, false
	}
	return registry.Actor{
		ID:        id,
		Moderator: claims.IsStaff || claims.IsSuperuser,
	}, true
}

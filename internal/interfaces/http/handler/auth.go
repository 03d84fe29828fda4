package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bony/backend/internal/application/identity"
	"github.com/bony/backend/internal/interfaces/http/middleware"
)

const refreshTokenCookie = "refresh_token"

// CookieSettings controls the refresh token cookie issued on login
type CookieSettings struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// AuthHandler handles registration, login and session endpoints
type AuthHandler struct {
	BaseHandler
	auth        *identity.AuthService
	cookie      CookieSettings
	requireAuth gin.HandlerFunc
	extra       []gin.HandlerFunc
}

// NewAuthHandler creates a new AuthHandler. Extra middleware, such as
// a stricter rate limit for credential endpoints, applies to the whole
// auth group.
func NewAuthHandler(auth *identity.AuthService, cookie CookieSettings, requireAuth gin.HandlerFunc, extra ...gin.HandlerFunc) *AuthHandler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{auth: auth, cookie: cookie, requireAuth: requireAuth, extra: extra}
}

// RegisterRoutes registers auth routes on the given group
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/auth", h.extra...)
	grp.POST("/register", h.Register)
	grp.POST("/login", h.Login)
	grp.POST("/refresh", h.Refresh)
	grp.POST("/password-reset", h.ResetPassword)

	authed := grp.Group("", h.requireAuth)
	authed.POST("/logout", h.Logout)
	authed.GET("/me", h.Me)
	authed.PUT("/password", h.ChangePassword)
}

// Register creates a new account and signs the user in
func (h *AuthHandler) Register(c *gin.Context) {
	var input identity.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	h.Created(c, result)
}

// Login authenticates a user and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var input identity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	h.Success(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a new token pair. The token is
// taken from the request body, falling back to the session cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshTokenCookie)
	}
	if req.RefreshToken == "" {
		h.Unauthorized(c, "Refresh token required")
		return
	}

	result, err := h.auth.RefreshToken(c.Request.Context(), identity.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	h.Success(c, result)
}

// Logout revokes the current access token and, when available, the
// refresh token, then clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshTokenCookie)
	}

	input := identity.LogoutInput{
		AccessToken:  bearerToken(c),
		RefreshToken: req.RefreshToken,
	}
	if err := h.auth.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.Success(c, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's account
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.auth.GetCurrentUser(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword updates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input identity.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.UserID = actor.ID

	if err := h.auth.ChangePassword(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password changed"})
}

// ResetPassword sends a new password to the account's email address.
// The response is the same whether or not the address is registered.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input identity.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "If the address is registered, a new password has been sent"})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Domain:   h.cookie.Domain,
		Path:     h.cookie.Path,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: h.cookie.SameSite,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshTokenCookie,
		Domain:   h.cookie.Domain,
		Path:     h.cookie.Path,
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: h.cookie.SameSite,
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(middleware.AuthHeaderKey)
	if strings.HasPrefix(header, middleware.BearerPrefix) {
		return strings.TrimPrefix(header, middleware.BearerPrefix)
	}
	return ""
}

package identity

import (
	"context"

	"github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/bony/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

const resetPasswordLength = 14

// PasswordMailer delivers generated reset passwords. Delivery failures
// are logged, never surfaced, so the endpoint cannot be used to probe
// for registered addresses.
type PasswordMailer interface {
	SendPasswordReset(ctx context.Context, to, username, password string) error
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	mailer     PasswordMailer
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer PasswordMailer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register creates a new account and returns a logged-in session
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already taken")
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email already registered")
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.issueTokens(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Login for unknown username", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	return s.issueTokens(user)
}

// RefreshToken rotates a token pair. Role flags are re-read from the
// store so revoked privileges do not survive a refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	if err := s.checkRevocation(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
	}

	tokens, err := s.jwtService.RefreshTokenPair(input.RefreshToken, auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		IsPremium:   user.IsPremium,
	})
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Failed to refresh session")
	}

	return &LoginResult{User: toUserDTO(user), Tokens: tokens}, nil
}

// Logout revokes the current access token, and the refresh token when
// the client sends it along
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	claims, err := s.jwtService.ValidateAccessToken(input.AccessToken)
	if err != nil {
		// An expired token has nothing left to revoke.
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to blacklist access token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	if input.RefreshToken != "" {
		if refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil {
			if err := s.blacklist.AddToBlacklist(ctx, refreshClaims.ID, refreshClaims.GetRemainingTTL()); err != nil {
				s.logger.Error("Failed to blacklist refresh token", zap.Error(err))
			}
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

// GetCurrentUser returns the account behind a set of claims
func (s *AuthService) GetCurrentUser(ctx context.Context, claims *auth.Claims) (*UserDTO, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// ChangePassword changes a password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword generates a random password for the account behind the
// email and mails it. The response is identical whether or not the
// address is registered.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Info("Password reset for unknown email")
		return nil
	}

	password, err := auth.GeneratePassword(resetPasswordLength)
	if err != nil {
		s.logger.Error("Failed to generate reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	if err := user.SetPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, password); err != nil {
		s.logger.Error("Failed to send reset mail",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Password reset issued", zap.String("user_id", user.ID.String()))
	return nil
}

// UpdateProfile updates the caller's profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := user.UpdateProfile(input.Phone, input.Address, input.City, input.BirthDate); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist profile update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// CheckAccessToken validates an access token against signature, expiry
// and revocation state. Middleware calls this on every request.
func (s *AuthService) CheckAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid or expired token")
	}
	if err := s.checkRevocation(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevocation(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate session")
	}
	if revoked {
		return shared.NewDomainError("UNAUTHORIZED", "Session has been revoked")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("Failed to check user invalidation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to validate session")
	}
	if invalidated {
		return shared.NewDomainError("UNAUTHORIZED", "Session has been revoked")
	}
	return nil
}

func (s *AuthService) issueTokens(user *identity.User) (*LoginResult, error) {
	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		IsPremium:   user.IsPremium,
	})
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session")
	}

	return &LoginResult{User: toUserDTO(user), Tokens: tokens}, nil
}

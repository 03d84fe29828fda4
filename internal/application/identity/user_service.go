package identity

import (
	"context"

	"github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/domain/shared"
	"github.com/bony/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserPageSize is the fixed page size for admin user listings
const UserPageSize = 10

// UserService handles administrative user management
type UserService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewUserService creates a new user management service
func NewUserService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// List returns a page of users ordered by username. Out-of-range pages
// resolve to the nearest valid page.
func (s *UserService) List(ctx context.Context, page int, search string) (*UserListResult, error) {
	filter := shared.NewFilter(page, UserPageSize, search)

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	filter = filter.ClampPage(total)
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}

	return &UserListResult{
		Users:      dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: shared.TotalPages(total, filter.PageSize),
	}, nil
}

// Get returns a single user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// ToggleStaff flips a user's staff flag. Existing sessions are revoked
// so stale role claims cannot outlive the change.
func (s *UserService) ToggleStaff(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	return s.toggleFlag(ctx, id, func(u *identity.User) { u.ToggleStaff() })
}

// TogglePremium flips a user's premium flag
func (s *UserService) TogglePremium(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	return s.toggleFlag(ctx, id, func(u *identity.User) { u.TogglePremium() })
}

func (s *UserService) toggleFlag(ctx context.Context, id uuid.UUID, toggle func(*identity.User)) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	toggle(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user flags",
			zap.String("user_id", id.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after flag change",
			zap.String("user_id", id.String()),
			zap.Error(err))
	}

	s.logger.Info("User flags updated",
		zap.String("user_id", id.String()),
		zap.Bool("is_staff", user.IsStaff),
		zap.Bool("is_premium", user.IsPremium))

	dto := toUserDTO(user)
	return &dto, nil
}

// Delete removes a user. Their dogs go back to unowned, their reviews
// are dropped, and every outstanding session is revoked.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete user",
			zap.String("user_id", id.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after deletion",
			zap.String("user_id", id.String()),
			zap.Error(err))
	}

	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

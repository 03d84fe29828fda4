package identity

import (
	"time"

	"github.com/bony/backend/internal/domain/identity"
	"github.com/bony/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterInput contains input for account registration
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=150,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginInput contains input for login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult contains tokens and user info after successful authentication
type LoginResult struct {
	User   UserDTO         `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// RefreshTokenInput contains input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput contains input for logout
type LogoutInput struct {
	AccessToken  string
	RefreshToken string
}

// ChangePasswordInput contains input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ResetPasswordInput contains input for a password reset request
type ResetPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdateProfileInput contains input for profile updates
type UpdateProfileInput struct {
	UserID    uuid.UUID
	Phone     string     `json:"phone" binding:"max=20"`
	Address   string     `json:"address" binding:"max=255"`
	City      string     `json:"city" binding:"max=100"`
	BirthDate *time.Time `json:"birth_date"`
}

// UserDTO represents user data returned to callers
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	IsPremium   bool       `json:"is_premium"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResult represents a paginated user list
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

func toUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsPremium:   u.IsPremium,
		Phone:       u.Phone,
		Address:     u.Address,
		City:        u.City,
		BirthDate:   u.BirthDate,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

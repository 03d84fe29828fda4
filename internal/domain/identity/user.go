package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bony/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User represents a registered account.
// Staff users may moderate any review; superusers additionally manage accounts.
type User struct {
	shared.BaseEntity
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
	IsPremium    bool
	Phone        string
	Address      string
	City         string
	BirthDate    *time.Time
}

// NewUser creates a new user with required fields
func NewUser(username, email, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     strings.ToLower(strings.TrimSpace(username)),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	}, nil
}

// NewSuperuser creates a user with both staff and superuser flags set.
// Used by the bootstrap command, never by regular registration.
func NewSuperuser(username, email, password string) (*User, error) {
	user, err := NewUser(username, email, password)
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	return user, nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = strings.ToLower(strings.TrimSpace(email))
	u.Touch()
	return nil
}

// UpdateProfile replaces the optional profile fields
func (u *User) UpdateProfile(phone, address, city string, birthDate *time.Time) error {
	if len(phone) > 20 {
		return shared.NewDomainError("VALIDATION_ERROR", "Phone cannot exceed 20 characters")
	}
	if len(address) > 255 {
		return shared.NewDomainError("VALIDATION_ERROR", "Address cannot exceed 255 characters")
	}
	if len(city) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "City cannot exceed 100 characters")
	}
	if birthDate != nil && birthDate.After(time.Now()) {
		return shared.NewDomainError("VALIDATION_ERROR", "Birth date cannot be in the future")
	}
	u.Phone = strings.TrimSpace(phone)
	u.Address = strings.TrimSpace(address)
	u.City = strings.TrimSpace(city)
	u.BirthDate = birthDate
	u.Touch()
	return nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one (reset flows)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ToggleStaff flips the staff flag
func (u *User) ToggleStaff() {
	u.IsStaff = !u.IsStaff
	u.Touch()
}

// TogglePremium flips the premium flag
func (u *User) TogglePremium() {
	u.IsPremium = !u.IsPremium
	u.Touch()
}

// CanModerateReviews reports whether the user may edit or delete any review
func (u *User) CanModerateReviews() bool {
	return u.IsStaff || u.IsSuperuser
}

// CanManageUsers reports whether the user may administer other accounts
func (u *User) CanManageUsers() bool {
	return u.IsSuperuser
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("VALIDATION_ERROR", "Username must be at least 3 characters")
	}
	if len(username) > 150 {
		return shared.NewDomainError("VALIDATION_ERROR", "Username cannot exceed 150 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("VALIDATION_ERROR", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("VALIDATION_ERROR", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

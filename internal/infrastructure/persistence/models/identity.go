package models

import (
	"time"

	"github.com/bony/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsStaff      bool   `gorm:"not null;default:false"`
	IsSuperuser  bool   `gorm:"not null;default:false"`
	IsPremium    bool   `gorm:"not null;default:false"`
	Phone        string `gorm:"type:varchar(20)"`
	Address      string `gorm:"type:varchar(255)"`
	City         string `gorm:"type:varchar(100)"`
	BirthDate    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		IsSuperuser:  m.IsSuperuser,
		IsPremium:    m.IsPremium,
		Phone:        m.Phone,
		Address:      m.Address,
		City:         m.City,
		BirthDate:    m.BirthDate,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.IsStaff = u.IsStaff
	m.IsSuperuser = u.IsSuperuser
	m.IsPremium = u.IsPremium
	m.Phone = u.Phone
	m.Address = u.Address
	m.City = u.City
	m.BirthDate = u.BirthDate
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

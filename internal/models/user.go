package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of a portal user
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User represents a portal account. Most content is public; the books
// category additionally requires HasBookAccess (or the admin role).
type User struct {
	ID       uint     `gorm:"column:id;primaryKey" json:"id"`
	Email    string   `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	Name     string   `gorm:"column:name;size:255" json:"name"`
	Password string   `gorm:"column:password;size:255;not null" json:"-"`
	Role     UserRole `gorm:"column:role;size:20;default:USER" json:"role"`

	HasBookAccess bool `gorm:"column:has_book_access;default:false" json:"has_book_access"`
	IsActive      bool `gorm:"column:is_active;default:true" json:"is_active"`

	// 2FA fields
	TwoFactorEnabled bool   `gorm:"column:two_factor_enabled;default:false" json:"two_factor_enabled"`
	TwoFactorSecret  string `gorm:"column:two_factor_secret;size:255" json:"-"`

	LastLogin *time.Time     `gorm:"column:last_login" json:"last_login"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccessBooks reports whether the user may list and download books.
func (u *User) CanAccessBooks() bool {
	return u.HasBookAccess || u.Role == RoleAdmin
}

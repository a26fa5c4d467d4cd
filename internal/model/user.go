package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles checked by the route guards.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User stores system users with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PhoneNumber  string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'staff'"`
	IsVerified   bool      `gorm:"not null;default:false"`
	// ResetToken/ResetExpires back the forgot-password flow; cleared on use.
	ResetToken   *string
	ResetExpires *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

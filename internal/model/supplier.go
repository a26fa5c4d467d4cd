package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a vendor purchase orders are placed with.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Address   *string
	Contact   *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Customer is the buyer on a sale.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	ContactNo string    `gorm:"not null"`
	Email     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

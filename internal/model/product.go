package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Identity (ID, SKU) is immutable; prices and
// description are mutable through the update endpoint.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	SKU           string    `gorm:"column:sku;uniqueIndex;not null"`
	BrandID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	Description   *string
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImageURL      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Brand    *Brand    `gorm:"foreignKey:BrandID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
}

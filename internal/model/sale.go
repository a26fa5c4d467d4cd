package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses. pending → partly-paid → completed is the payment-driven path;
// delivered and cancelled are side states. refunded/exchanged exist in the
// enum but their workflows are not supported yet.
const (
	SaleStatusPending    = "pending"
	SaleStatusPartlyPaid = "partly-paid"
	SaleStatusCompleted  = "completed"
	SaleStatusDelivered  = "delivered"
	SaleStatusCancelled  = "cancelled"
	SaleStatusRefunded   = "refunded"
	SaleStatusExchanged  = "exchanged"
)

// Sale is the aggregate root for a customer sale. TotalAmount is derived:
// Σ(quantity × selling price) − Discount, recomputed on every item mutation.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Payment     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending'"`
	SaleDate    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID"`
}

// ItemsMutable reports whether line items may be added or removed.
func (s *Sale) ItemsMutable() bool {
	return s.Status == SaleStatusPending || s.Status == SaleStatusPartlyPaid
}

// Completable reports whether the sale is in the pre-completion set.
func (s *Sale) Completable() bool {
	return s.Status == SaleStatusPending || s.Status == SaleStatusPartlyPaid
}

// SaleItem is one line item. StockID pins the ledger record the completion
// decrement applies to; SellingPrice is captured at add time so later catalog
// price changes do not rewrite history.
type SaleItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockID      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     int             `gorm:"not null;check:quantity > 0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Stock   *Stock   `gorm:"foreignKey:StockID"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock statuses. in-stock/low-stock/out-of-stock are derived from quantity;
// reserved and damaged are manual administrative states that quantity writes
// never overwrite.
const (
	StockInStock    = "in-stock"
	StockLowStock   = "low-stock"
	StockOutOfStock = "out-of-stock"
	StockReserved   = "reserved"
	StockDamaged    = "damaged"
)

// Stock is one ledger record per (product, supplier, location) tuple.
// The composite unique index enforces that tuple's uniqueness.
type Stock struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tuple"`
	SupplierID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_tuple"`
	LocationID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_stock_tuple"`
	Quantity    int        `gorm:"not null;default:0;check:quantity >= 0"`
	Status      string     `gorm:"type:varchar(20);not null;default:'in-stock'"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
	Location *Location `gorm:"foreignKey:LocationID"`
}

// ManualStatus reports whether s carries an administrative status that the
// quantity-derived recomputation must not touch.
func (s *Stock) ManualStatus() bool {
	return s.Status == StockReserved || s.Status == StockDamaged
}

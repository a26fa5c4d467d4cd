package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder statuses.
// Lifecycle: draft → approved → ordered → [partly-paid →] paid → received,
// with cancelled reachable from any non-terminal state.
const (
	POStatusDraft      = "draft"
	POStatusApproved   = "approved"
	POStatusOrdered    = "ordered"
	POStatusPartlyPaid = "partly-paid"
	POStatusPaid       = "paid"
	POStatusReceived   = "received"
	POStatusCancelled  = "cancelled"
)

// poTransitions lists the allowed explicit status transitions. Payment-derived
// transitions (ordered → partly-paid/paid) and completion (paid → received)
// happen through their dedicated operations, not the generic status update.
var poTransitions = map[string][]string{
	POStatusDraft:      {POStatusApproved, POStatusCancelled},
	POStatusApproved:   {POStatusOrdered, POStatusCancelled},
	POStatusOrdered:    {POStatusCancelled},
	POStatusPartlyPaid: {POStatusCancelled},
	POStatusPaid:       {POStatusCancelled},
}

// POTransitionAllowed reports whether from → to is a legal explicit transition.
func POTransitionAllowed(from, to string) bool {
	for _, t := range poTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// PurchaseOrder is the aggregate root; Items are persisted with it in a single
// write and TotalAmount is always recomputed from the current items.
type PurchaseOrder struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaidAmount           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status               string          `gorm:"type:varchar(20);not null;default:'draft'"`
	ExpectedDeliveryDate *time.Time
	ReceivedDate         *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
}

// ItemsMutable reports whether line items may be added or removed.
// Draft only — the looser draft+approved rule from a legacy schema revision
// was rejected; see DESIGN.md.
func (po *PurchaseOrder) ItemsMutable() bool { return po.Status == POStatusDraft }

// Terminal reports whether the order reached a final state.
func (po *PurchaseOrder) Terminal() bool {
	return po.Status == POStatusReceived || po.Status == POStatusCancelled
}

// PurchaseOrderItem is one line item: product, quantity, and the unit purchase
// price agreed at order time.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        int             `gorm:"not null;check:quantity > 0"`
	PurchasingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt       time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

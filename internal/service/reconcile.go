package service

import (
	"errors"

	"github.com/fadesignlk/stock-master-api/internal/apierror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reconciliation primitives shared by the purchase-order and sale services.
// Totals are never stored independently: every line-item or payment mutation
// recomputes them through these functions before the aggregate is persisted.

// LineItem is the minimal shape the total computation needs.
type LineItem struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// RecomputeTotal returns Σ(quantity × unit price) − discount.
// A non-positive quantity, a negative unit price, or a discount that would
// push the total below zero is rejected — totals are never clamped.
func RecomputeTotal(items []LineItem, discount decimal.Decimal) (decimal.Decimal, error) {
	if discount.IsNegative() {
		return decimal.Zero, apierror.Validation("discount must not be negative")
	}
	total := decimal.Zero
	for i, item := range items {
		if item.Quantity <= 0 {
			return decimal.Zero, apierror.Validation("line item %d: quantity must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return decimal.Zero, apierror.Validation("line item %d: unit price must not be negative", i+1)
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total = total.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero, apierror.Validation("discount %s exceeds the item total", discount.StringFixed(2))
	}
	return total, nil
}

// PaymentState classifies how far payments cover the total.
type PaymentState int

const (
	PaymentOpen    PaymentState = iota // nothing paid
	PaymentPartial                     // 0 < paid < total
	PaymentSettled                     // paid == total
)

// DerivePaymentState compares paid against total. Overpayment is an error,
// never a silent fall-through to the current status.
func DerivePaymentState(total, paid decimal.Decimal) (PaymentState, error) {
	if paid.IsNegative() {
		return PaymentOpen, apierror.Validation("paid amount must not be negative")
	}
	switch {
	case paid.GreaterThan(total):
		return PaymentOpen, apierror.Validation("overpayment: paid %s exceeds total %s",
			paid.StringFixed(2), total.StringFixed(2))
	case paid.Equal(total):
		return PaymentSettled, nil
	case paid.IsPositive():
		return PaymentPartial, nil
	default:
		return PaymentOpen, nil
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.Transaction(fn)
}

// wrapStorage passes already classified errors through untouched and converts
// raw storage failures into validation errors so they surface with a 4xx
// instead of leaking driver details in a 500.
func wrapStorage(err error, operation string) error {
	var ae *apierror.Error
	if errors.As(err, &ae) {
		return err
	}
	return apierror.Validation("storage rejected the %s: %v", operation, err)
}

// dbErr translates persistence-layer failures into the API error taxonomy.
// Missing rows map to not_found; everything else (constraint violations,
// malformed references) surfaces as a validation error at this boundary.
func dbErr(err error, notFoundFormat string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(notFoundFormat, args...)
	}
	return apierror.Validation("storage rejected the operation: %v", err)
}

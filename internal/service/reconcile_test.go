package service

import (
	"testing"

	"github.com/fadesignlk/stock-master-api/internal/apierror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestRecomputeTotal_SumsItemsMinusDiscount(t *testing.T) {
	items := []LineItem{
		{Quantity: 2, UnitPrice: d(150)},  // 300
		{Quantity: 3, UnitPrice: d(49.5)}, // 148.50
	}
	total, err := RecomputeTotal(items, d(48.5))
	require.NoError(t, err)
	assert.Equal(t, "400", total.String())
}

func TestRecomputeTotal_EmptyItems(t *testing.T) {
	total, err := RecomputeTotal(nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestRecomputeTotal_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := RecomputeTotal([]LineItem{{Quantity: 0, UnitPrice: d(10)}}, decimal.Zero)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	_, err = RecomputeTotal([]LineItem{{Quantity: -3, UnitPrice: d(10)}}, decimal.Zero)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestRecomputeTotal_RejectsNegativePrice(t *testing.T) {
	_, err := RecomputeTotal([]LineItem{{Quantity: 1, UnitPrice: d(-5)}}, decimal.Zero)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestRecomputeTotal_RejectsNegativeDiscount(t *testing.T) {
	_, err := RecomputeTotal([]LineItem{{Quantity: 1, UnitPrice: d(10)}}, d(-1))
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestRecomputeTotal_DiscountExceedingTotal(t *testing.T) {
	// Totals are never clamped to zero; an oversized discount is an error.
	_, err := RecomputeTotal([]LineItem{{Quantity: 1, UnitPrice: d(10)}}, d(10.01))
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	// Discount equal to the total is fine: a free sale.
	total, err := RecomputeTotal([]LineItem{{Quantity: 1, UnitPrice: d(10)}}, d(10))
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestDerivePaymentState(t *testing.T) {
	state, err := DerivePaymentState(d(100), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, PaymentOpen, state)

	state, err = DerivePaymentState(d(100), d(40))
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, state)

	state, err = DerivePaymentState(d(100), d(100))
	require.NoError(t, err)
	assert.Equal(t, PaymentSettled, state)
}

func TestDerivePaymentState_Overpayment(t *testing.T) {
	_, err := DerivePaymentState(d(100), d(100.01))
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Contains(t, err.Error(), "overpayment")
}

func TestDerivePaymentState_NegativePaid(t *testing.T) {
	_, err := DerivePaymentState(d(100), d(-1))
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestDerivePaymentState_ZeroTotalZeroPaid(t *testing.T) {
	// 0 == 0 settles; callers that must not auto-complete guard this case.
	state, err := DerivePaymentState(decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, PaymentSettled, state)
}

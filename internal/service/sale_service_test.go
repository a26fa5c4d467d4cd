package service

import (
	"context"
	"testing"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures dispatched notifications for assertions.
type recordingNotifier struct {
	receipts []string
	lowStock [][]LowStockLine
}

func (n *recordingNotifier) NotifyReceipt(_ uuid.UUID, email string) {
	n.receipts = append(n.receipts, email)
}

func (n *recordingNotifier) NotifyLowStock(lines []LowStockLine) {
	n.lowStock = append(n.lowStock, lines)
}

type saleFixture struct {
	svc       SaleService
	sales     *stubSaleRepo
	stocks    *stubStockRepo
	products  *stubProductRepo
	customers *stubCustomerRepo
	notifier  *recordingNotifier
}

func buildSaleSvc(t *testing.T, threshold int) *saleFixture {
	t.Helper()
	saleRepo := newStubSaleRepo()
	customerRepo := newStubCustomerRepo()
	productRepo := newStubProductRepo()
	stockRepo := newStubStockRepo()
	supplierRepo := newStubSupplierRepo()
	notifier := &recordingNotifier{}
	stockSvc := NewStockService(stockRepo, productRepo, supplierRepo, newStubLocationRepo(), threshold)
	svc := NewSaleService(saleRepo, customerRepo, productRepo, stockRepo, stockSvc, notifier)
	return &saleFixture{
		svc: svc, sales: saleRepo, stocks: stockRepo,
		products: productRepo, customers: customerRepo, notifier: notifier,
	}
}

func (f *saleFixture) seed(t *testing.T, price float64, quantity int) (*model.Customer, *model.Stock) {
	t.Helper()
	customer := seedCustomer(f.customers, "Jane Perera", nil)
	product := seedProduct(f.products, "LED Bulb 9W", "EL-001", price)
	stock := seedStock(f.stocks, product, uuid.New(), quantity, model.StockInStock)
	return customer, stock
}

func TestCreateSale_PendingWhenUnpaid(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 150, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusPending, sale.Status)
	assert.Equal(t, "300", sale.TotalAmount.String())
	// No payment settled, so no stock left the ledger.
	assert.Equal(t, 20, f.stocks.stocks[stock.ID].Quantity)
	assert.Empty(t, f.notifier.receipts)
}

func TestCreateSale_FullPaymentCompletesImmediately(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 150, 20)
	email := "jane@example.com"

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 2},
		},
		Payment:       d(300),
		CustomerEmail: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusCompleted, sale.Status)
	require.NotNil(t, sale.SaleDate)
	// Stock moved exactly once, in the same commit as the creation.
	assert.Equal(t, 18, f.stocks.stocks[stock.ID].Quantity)
	assert.Equal(t, []string{"jane@example.com"}, f.notifier.receipts)
}

func TestCreateSale_DiscountAppliedBeforePaymentCheck(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 3},
		},
		Discount: d(50),
		Payment:  d(250), // settles the discounted total
	})
	require.NoError(t, err)
	assert.Equal(t, "250", sale.TotalAmount.String())
	assert.Equal(t, model.SaleStatusCompleted, sale.Status)
}

func TestCreateSale_OverpaymentRejected(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	_, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 1},
		},
		Payment: d(100.01),
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Empty(t, f.sales.sales)
	assert.Equal(t, 20, f.stocks.stocks[stock.ID].Quantity)
}

func TestCreateSale_InsufficientStockRejected(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 3)

	_, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 5},
		},
	})
	assert.True(t, apierror.IsKind(err, apierror.KindInsufficientStock))
}

func TestCreateSale_ReservedStockRejected(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer := seedCustomer(f.customers, "Jane Perera", nil)
	product := seedProduct(f.products, "Cable Roll", "EL-002", 40)
	stock := seedStock(f.stocks, product, uuid.New(), 10, model.StockReserved)

	_, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 1},
		},
	})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestRecordPayment_PartialThenSettled(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)

	updated, err := f.svc.RecordPayment(context.Background(), sale.ID, dto.RecordSalePaymentRequest{Amount: d(150)})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusPartlyPaid, updated.Status)
	assert.Equal(t, 20, f.stocks.stocks[stock.ID].Quantity)

	updated, err = f.svc.RecordPayment(context.Background(), sale.ID, dto.RecordSalePaymentRequest{Amount: d(250)})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusCompleted, updated.Status)
	assert.Equal(t, 16, f.stocks.stocks[stock.ID].Quantity)
}

func TestRecordPayment_OverpaymentRejected(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), sale.ID, dto.RecordSalePaymentRequest{Amount: d(120)})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	stored, _ := f.sales.FindByID(context.Background(), sale.ID)
	assert.Equal(t, model.SaleStatusPending, stored.Status)
}

func TestComplete_BalanceRemaining(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 2}},
		Payment:    d(50),
	})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), sale.ID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindPaymentIncomplete))
	assert.Equal(t, 20, f.stocks.stocks[stock.ID].Quantity)
}

func TestComplete_SecondCallFailsIdempotencyGuard(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 2}},
		Payment:    d(200),
	})
	require.NoError(t, err)
	require.Equal(t, model.SaleStatusCompleted, sale.Status)

	_, err = f.svc.Complete(context.Background(), sale.ID)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
	// Quantity decremented exactly once.
	assert.Equal(t, 18, f.stocks.stocks[stock.ID].Quantity)
}

func TestCompletion_EmitsLowStockAlert(t *testing.T) {
	f := buildSaleSvc(t, 5)
	customer, stock := f.seed(t, 100, 6)

	_, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 2}},
		Payment:    d(200),
	})
	require.NoError(t, err)

	// 6 − 2 = 4 ≤ threshold 5
	require.Len(t, f.notifier.lowStock, 1)
	require.Len(t, f.notifier.lowStock[0], 1)
	assert.Equal(t, "LED Bulb 9W", f.notifier.lowStock[0][0].ProductName)
	assert.Equal(t, 4, f.notifier.lowStock[0][0].Quantity)
}

func TestAddItems_RecomputesTotal(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := f.svc.AddItems(context.Background(), sale.ID, dto.AddSaleItemsRequest{
		Items: []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "300", updated.TotalAmount.String())
	assert.Len(t, updated.Items, 2)
}

func TestAddItems_CompletedSaleFrozen(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
		Payment:    d(100),
	})
	require.NoError(t, err)

	_, err = f.svc.AddItems(context.Background(), sale.ID, dto.AddSaleItemsRequest{
		Items: []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
	})
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestRemoveItem_RecomputesTotal(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 1},
			{StockID: stock.ID.String(), Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 2)

	updated, err := f.svc.RemoveItem(context.Background(), sale.ID, sale.Items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "100", updated.TotalAmount.String())
	assert.Len(t, updated.Items, 1)
}

func TestRemoveItem_EmptyUnpaidSaleStaysPending(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	// Removing the last item settles at zero (0 == 0) but the empty sale must
	// not slip into completed.
	updated, err := f.svc.RemoveItem(context.Background(), sale.ID, sale.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusPending, updated.Status)
	assert.True(t, updated.TotalAmount.IsZero())
	assert.Equal(t, 20, f.stocks.stocks[stock.ID].Quantity)
}

func TestRemoveItem_PaymentAboveNewTotalRejected(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 1},
			{StockID: stock.ID.String(), Quantity: 2},
		},
		Payment: d(150),
	})
	require.NoError(t, err)

	// New total would be 200 with 150 already paid: fine. Removing the big
	// line instead would leave total 100 < paid 150, which must fail.
	_, err = f.svc.RemoveItem(context.Background(), sale.ID, sale.Items[1].ID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestDeleteSale_CompletedRejected(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
		Payment:    d(100),
	})
	require.NoError(t, err)

	err = f.svc.DeleteSale(context.Background(), sale.ID)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestUpdateStatus_DeliveredOnlyFromCompleted(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), sale.ID, model.SaleStatusDelivered)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))

	_, err = f.svc.RecordPayment(context.Background(), sale.ID, dto.RecordSalePaymentRequest{Amount: d(100)})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), sale.ID, model.SaleStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusDelivered, updated.Status)
}

func TestUpdateStatus_RefundNotSupported(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), sale.ID, model.SaleStatusRefunded)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
	_, err = f.svc.UpdateStatus(context.Background(), sale.ID, model.SaleStatusExchanged)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestCreateSale_ReceiptFallsBackToCustomerEmail(t *testing.T) {
	f := buildSaleSvc(t, 2)
	email := "stored@example.com"
	customer := seedCustomer(f.customers, "Nimal Silva", &email)
	product := seedProduct(f.products, "Extension Cord", "EL-003", 75)
	stock := seedStock(f.stocks, product, uuid.New(), 10, model.StockInStock)

	_, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items:      []dto.SaleItemRequest{{StockID: stock.ID.String(), Quantity: 1}},
		Payment:    decimal.NewFromInt(75),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"stored@example.com"}, f.notifier.receipts)
}

func TestUpdateSale_DiscountRecomputesTotal(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "300", sale.TotalAmount.String())

	discount := d(40)
	updated, err := f.svc.UpdateSale(context.Background(), sale.ID, dto.UpdateSaleRequest{
		Discount: &discount,
	})
	require.NoError(t, err)
	assert.Equal(t, "260", updated.TotalAmount.String())
	assert.Equal(t, model.SaleStatusPending, updated.Status)
}

func TestUpdateSale_DiscountSettlingPaymentCompletes(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 3},
		},
		Payment: d(250),
	})
	require.NoError(t, err)
	require.Equal(t, model.SaleStatusPartlyPaid, sale.Status)

	// Raising the discount to 50 drops the total to the recorded payment;
	// the sale settles and stock leaves the ledger in the same commit.
	discount := d(50)
	updated, err := f.svc.UpdateSale(context.Background(), sale.ID, dto.UpdateSaleRequest{
		Discount: &discount,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusCompleted, updated.Status)
	assert.Equal(t, 17, f.stocks.stocks[stock.ID].Quantity)
}

func TestUpdateSale_DiscountBelowPaymentRejected(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 3},
		},
		Payment: d(250),
	})
	require.NoError(t, err)

	// A discount of 60 would push the total below the recorded payment.
	discount := d(60)
	_, err = f.svc.UpdateSale(context.Background(), sale.ID, dto.UpdateSaleRequest{
		Discount: &discount,
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Equal(t, 20, f.stocks.stocks[stock.ID].Quantity)
}

func TestUpdateSale_CompletedSaleFrozen(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 1},
		},
		Payment: d(100),
	})
	require.NoError(t, err)
	require.Equal(t, model.SaleStatusCompleted, sale.Status)

	discount := d(10)
	_, err = f.svc.UpdateSale(context.Background(), sale.ID, dto.UpdateSaleRequest{
		Discount: &discount,
	})
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestUpdateSale_ReassignsCustomer(t *testing.T) {
	f := buildSaleSvc(t, 2)
	customer, stock := f.seed(t, 100, 20)
	other := seedCustomer(f.customers, "Nimal Silva", nil)

	sale, err := f.svc.CreateSale(context.Background(), dto.CreateSaleRequest{
		CustomerID: customer.ID.String(),
		Items: []dto.SaleItemRequest{
			{StockID: stock.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	otherID := other.ID.String()
	updated, err := f.svc.UpdateSale(context.Background(), sale.ID, dto.UpdateSaleRequest{
		CustomerID: &otherID,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.CustomerID)

	unknown := uuid.NewString()
	_, err = f.svc.UpdateSale(context.Background(), sale.ID, dto.UpdateSaleRequest{
		CustomerID: &unknown,
	})
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

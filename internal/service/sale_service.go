package service

import (
	"context"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier enqueues background notification jobs. Implementations must not
// block the request path; a sale never fails because a mail could not be sent.
type Notifier interface {
	NotifyReceipt(saleID uuid.UUID, email string)
	NotifyLowStock(lines []LowStockLine)
}

// NopNotifier discards notifications. Used in tests and in tools that run
// without the worker pool.
type NopNotifier struct{}

func (NopNotifier) NotifyReceipt(uuid.UUID, string) {}
func (NopNotifier) NotifyLowStock([]LowStockLine)   {}

// SaleService is the sale-side reconciliation engine. Every item or payment
// mutation recomputes the total, derives the payment status, and rejects
// overpayment. Stock leaves the ledger exactly once, on the transition into
// completed, inside a single transaction.
type SaleService interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*model.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListSales(ctx context.Context) ([]model.Sale, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) (*model.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error

	AddItems(ctx context.Context, id uuid.UUID, req dto.AddSaleItemsRequest) (*model.Sale, error)
	RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*model.Sale, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordSalePaymentRequest) (*model.Sale, error)
	Complete(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Sale, error)

	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error)
}

type saleService struct {
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	stockRepo repository.StockRepository
	stocks    StockService
	notifier  Notifier
}

func NewSaleService(
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	stockRepo repository.StockRepository,
	stocks StockService,
	notifier Notifier,
) SaleService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &saleService{
		sales:     sales,
		customers: customers,
		products:  products,
		stockRepo: stockRepo,
		stocks:    stocks,
		notifier:  notifier,
	}
}

func saleLineItems(items []model.SaleItem) []LineItem {
	lines := make([]LineItem, len(items))
	for i, it := range items {
		lines[i] = LineItem{Quantity: it.Quantity, UnitPrice: it.SellingPrice}
	}
	return lines
}

// buildItems resolves each requested stock record, captures the current
// catalog selling price on the line, and pre-checks availability so obviously
// unfillable sales are rejected before any money changes hands. The
// authoritative quantity check still happens at completion time.
func (s *saleService) buildItems(ctx context.Context, reqs []dto.SaleItemRequest) ([]model.SaleItem, error) {
	items := make([]model.SaleItem, 0, len(reqs))
	for _, r := range reqs {
		stockID, err := uuid.Parse(r.StockID)
		if err != nil {
			return nil, apierror.Validation("stock_id %q is not a valid UUID", r.StockID)
		}
		stock, err := s.stockRepo.FindByID(ctx, stockID)
		if err != nil {
			return nil, dbErr(err, "stock record %s not found", stockID)
		}
		if stock.ManualStatus() {
			return nil, apierror.Validation("stock record %s is %s and cannot be sold", stockID, stock.Status)
		}
		if stock.Quantity < r.Quantity {
			return nil, apierror.InsufficientStock(
				"stock record %s holds %d units, %d requested", stockID, stock.Quantity, r.Quantity)
		}

		product := stock.Product
		if product == nil {
			product, err = s.products.FindByID(ctx, stock.ProductID)
			if err != nil {
				return nil, dbErr(err, "product %s not found", stock.ProductID)
			}
		}
		items = append(items, model.SaleItem{
			StockID:      stockID,
			ProductID:    stock.ProductID,
			Quantity:     r.Quantity,
			SellingPrice: product.SellingPrice,
			Product:      product,
		})
	}
	return items, nil
}

// statusFor maps a payment state onto the pre-completion statuses. The settled
// case never reaches here; it goes through completeTx.
func statusFor(state PaymentState) string {
	if state == PaymentPartial {
		return model.SaleStatusPartlyPaid
	}
	return model.SaleStatusPending
}

// completeTx is the only code path that moves stock out of the ledger. It runs
// inside the caller's transaction; any failed decrement rolls the whole sale
// back. Returned lines describe records that crossed the low-stock threshold
// and are reported after commit.
func (s *saleService) completeTx(tx *gorm.DB, sale *model.Sale) ([]LowStockLine, error) {
	var lows []LowStockLine
	for _, item := range sale.Items {
		stock, err := s.stocks.DecrementTx(tx, item.StockID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if stock.Status == model.StockLowStock || stock.Status == model.StockOutOfStock {
			name := item.ProductID.String()
			if item.Product != nil {
				name = item.Product.Name
			}
			lows = append(lows, LowStockLine{ProductName: name, Quantity: stock.Quantity})
		}
	}
	if sale.SaleDate == nil {
		now := time.Now()
		sale.SaleDate = &now
	}
	sale.Status = model.SaleStatusCompleted
	return lows, nil
}

// afterCompletion dispatches the post-commit notifications.
func (s *saleService) afterCompletion(sale *model.Sale, email string, lows []LowStockLine) {
	log.Info().Str("sale_id", sale.ID.String()).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Int("low_stock_lines", len(lows)).
		Msg("sale completed, stock decremented")
	if email != "" {
		s.notifier.NotifyReceipt(sale.ID, email)
	}
	if len(lows) > 0 {
		s.notifier.NotifyLowStock(lows)
	}
}

// receiptEmail picks the address the receipt goes to: an explicit override on
// the request wins over the customer record.
func receiptEmail(sale *model.Sale, override *string) string {
	if override != nil && *override != "" {
		return *override
	}
	if sale.Customer != nil && sale.Customer.Email != nil {
		return *sale.Customer.Email
	}
	return ""
}

func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*model.Sale, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id is not a valid UUID")
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, dbErr(err, "customer %s not found", customerID)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	total, err := RecomputeTotal(saleLineItems(items), req.Discount)
	if err != nil {
		return nil, err
	}
	state, err := DerivePaymentState(total, req.Payment)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		CustomerID:  customerID,
		TotalAmount: total,
		Discount:    req.Discount,
		Payment:     req.Payment,
		Status:      statusFor(state),
		Items:       items,
		Customer:    customer,
	}
	if req.SaleDate != nil {
		t, err := time.Parse("2006-01-02", *req.SaleDate)
		if err != nil {
			return nil, apierror.Validation("sale_date must be YYYY-MM-DD")
		}
		sale.SaleDate = &t
	}

	var lows []LowStockLine
	err = runTx(s.sales.DB(), func(tx *gorm.DB) error {
		if state == PaymentSettled {
			// A fully paid sale completes immediately; creation and the
			// stock decrements commit together.
			var cerr error
			if lows, cerr = s.completeTx(tx, sale); cerr != nil {
				return cerr
			}
		}
		if tx == nil {
			return s.sales.Create(ctx, sale)
		}
		return tx.Create(sale).Error
	})
	if err != nil {
		return nil, wrapStorage(err, "sale")
	}

	if sale.Status == model.SaleStatusCompleted {
		s.afterCompletion(sale, receiptEmail(sale, req.CustomerEmail), lows)
	}
	return sale, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context) ([]model.Sale, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, apierror.Internal("listing sales: %v", err)
	}
	return sales, nil
}

// UpdateSale edits the sale header. A discount change reruns the whole
// reconciliation: the total is recomputed from the current items and the
// payment state re-derived, so a discount that settles the recorded payment
// completes the sale, and one that drops the total below it is rejected.
func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	if !sale.ItemsMutable() {
		return nil, apierror.InvalidState("sales can only be edited while pending or partly-paid, current status is %s", sale.Status)
	}

	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apierror.Validation("customer_id is not a valid UUID")
		}
		customer, err := s.customers.FindByID(ctx, customerID)
		if err != nil {
			return nil, dbErr(err, "customer %s not found", customerID)
		}
		sale.CustomerID = customerID
		sale.Customer = customer
	}
	if req.SaleDate != nil {
		t, err := time.Parse("2006-01-02", *req.SaleDate)
		if err != nil {
			return nil, apierror.Validation("sale_date must be YYYY-MM-DD")
		}
		sale.SaleDate = &t
	}
	if req.Discount != nil {
		sale.Discount = *req.Discount
	}

	return s.applyMutation(sale, sale.Items, sale.Payment)
}

func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return dbErr(err, "sale %s not found", id)
	}
	// Completed and delivered sales already moved stock; deleting them would
	// orphan the ledger history.
	if sale.Status == model.SaleStatusCompleted || sale.Status == model.SaleStatusDelivered {
		return apierror.InvalidState("%s sales cannot be deleted", sale.Status)
	}
	return s.sales.Delete(ctx, id)
}

func (s *saleService) AddItems(ctx context.Context, id uuid.UUID, req dto.AddSaleItemsRequest) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	if !sale.ItemsMutable() {
		return nil, apierror.InvalidState("items can only be changed while the sale is pending or partly-paid, current status is %s", sale.Status)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].SaleID = sale.ID
	}
	merged := append(sale.Items, items...)

	return s.applyMutation(sale, merged, sale.Payment)
}

func (s *saleService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	if !sale.ItemsMutable() {
		return nil, apierror.InvalidState("items can only be changed while the sale is pending or partly-paid, current status is %s", sale.Status)
	}

	remaining := make([]model.SaleItem, 0, len(sale.Items))
	found := false
	var removedID uuid.UUID
	for _, it := range sale.Items {
		if it.ID == itemID {
			found = true
			removedID = it.ID
			continue
		}
		remaining = append(remaining, it)
	}
	if !found {
		return nil, apierror.NotFound("item %s not found on sale %s", itemID, id)
	}

	// Validate the new total before touching storage: removing an item must
	// not leave the recorded payment or discount above the total.
	total, err := RecomputeTotal(saleLineItems(remaining), sale.Discount)
	if err != nil {
		return nil, err
	}
	state, err := DerivePaymentState(total, sale.Payment)
	if err != nil {
		return nil, err
	}
	// An empty, unpaid sale settles at zero but must not auto-complete.
	if state == PaymentSettled && len(remaining) == 0 {
		state = PaymentOpen
	}

	sale.Items = remaining
	sale.TotalAmount = total

	var lows []LowStockLine
	err = runTx(s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.DeleteItemTx(tx, removedID); err != nil {
			return err
		}
		if state == PaymentSettled {
			var cerr error
			if lows, cerr = s.completeTx(tx, sale); cerr != nil {
				return cerr
			}
		} else {
			sale.Status = statusFor(state)
		}
		return s.sales.SaveTx(tx, sale)
	})
	if err != nil {
		return nil, wrapStorage(err, "item removal")
	}

	if sale.Status == model.SaleStatusCompleted {
		s.afterCompletion(sale, receiptEmail(sale, nil), lows)
	}
	return sale, nil
}

// applyMutation recomputes the total for the given items, derives the payment
// status, and persists the aggregate, completing it when the payment settles.
func (s *saleService) applyMutation(sale *model.Sale, items []model.SaleItem, paid decimal.Decimal) (*model.Sale, error) {
	total, err := RecomputeTotal(saleLineItems(items), sale.Discount)
	if err != nil {
		return nil, err
	}
	state, err := DerivePaymentState(total, paid)
	if err != nil {
		return nil, err
	}

	sale.Items = items
	sale.TotalAmount = total

	var lows []LowStockLine
	err = runTx(s.sales.DB(), func(tx *gorm.DB) error {
		if state == PaymentSettled {
			var cerr error
			if lows, cerr = s.completeTx(tx, sale); cerr != nil {
				return cerr
			}
		} else {
			sale.Status = statusFor(state)
		}
		return s.sales.SaveTx(tx, sale)
	})
	if err != nil {
		return nil, wrapStorage(err, "sale update")
	}

	if sale.Status == model.SaleStatusCompleted {
		s.afterCompletion(sale, receiptEmail(sale, nil), lows)
	}
	return sale, nil
}

func (s *saleService) RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordSalePaymentRequest) (*model.Sale, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("payment amount must be positive")
	}
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	if !sale.Completable() {
		return nil, apierror.InvalidState("payments can only be recorded on pending or partly-paid sales, current status is %s", sale.Status)
	}

	paid := sale.Payment.Add(req.Amount)
	state, err := DerivePaymentState(sale.TotalAmount, paid)
	if err != nil {
		return nil, err
	}
	sale.Payment = paid

	var lows []LowStockLine
	err = runTx(s.sales.DB(), func(tx *gorm.DB) error {
		if state == PaymentSettled {
			var cerr error
			if lows, cerr = s.completeTx(tx, sale); cerr != nil {
				return cerr
			}
		} else {
			sale.Status = statusFor(state)
		}
		return s.sales.SaveTx(tx, sale)
	})
	if err != nil {
		return nil, wrapStorage(err, "payment")
	}

	log.Info().Str("sale_id", id.String()).
		Str("paid", paid.StringFixed(2)).Str("status", sale.Status).
		Msg("sale payment recorded")
	if sale.Status == model.SaleStatusCompleted {
		s.afterCompletion(sale, receiptEmail(sale, nil), lows)
	}
	return sale, nil
}

// Complete settles a sale explicitly. The sale must carry no outstanding
// balance; calling it twice fails the idempotency guard because the second
// call finds the sale already completed.
func (s *saleService) Complete(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	if sale.Status == model.SaleStatusCompleted {
		return nil, apierror.InvalidState("sale %s is already completed", id)
	}
	if !sale.Completable() {
		return nil, apierror.InvalidState("only pending or partly-paid sales can be completed, current status is %s", sale.Status)
	}
	if balance := sale.TotalAmount.Sub(sale.Payment); balance.IsPositive() {
		return nil, apierror.PaymentIncomplete("a balance of %s remains unpaid", balance.StringFixed(2))
	}

	var lows []LowStockLine
	err = runTx(s.sales.DB(), func(tx *gorm.DB) error {
		var cerr error
		if lows, cerr = s.completeTx(tx, sale); cerr != nil {
			return cerr
		}
		return s.sales.SaveTx(tx, sale)
	})
	if err != nil {
		return nil, wrapStorage(err, "completion")
	}

	s.afterCompletion(sale, receiptEmail(sale, nil), lows)
	return sale, nil
}

func (s *saleService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}

	switch status {
	case model.SaleStatusDelivered:
		if sale.Status != model.SaleStatusCompleted {
			return nil, apierror.InvalidState("only completed sales can be delivered, current status is %s", sale.Status)
		}
	case model.SaleStatusCancelled:
		if !sale.Completable() {
			return nil, apierror.InvalidState("only pending or partly-paid sales can be cancelled, current status is %s", sale.Status)
		}
	case model.SaleStatusRefunded, model.SaleStatusExchanged:
		return nil, apierror.InvalidState("the %s workflow is not supported yet", status)
	default:
		return nil, apierror.Validation("unknown sale status %q", status)
	}

	sale.Status = status
	if err := runTx(s.sales.DB(), func(tx *gorm.DB) error {
		return s.sales.SaveTx(tx, sale)
	}); err != nil {
		return nil, apierror.Validation("storage rejected the status update: %v", err)
	}
	log.Info().Str("sale_id", id.String()).Str("status", status).Msg("sale status updated")
	return sale, nil
}

func (s *saleService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	customer, err := s.customers.FindByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, dbErr(err, "customer %s not found", sale.CustomerID)
	}
	return customer, nil
}

func (s *saleService) GetProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "sale %s not found", id)
	}
	ids := make([]uuid.UUID, len(sale.Items))
	for i, it := range sale.Items {
		ids[i] = it.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apierror.Internal("loading products: %v", err)
	}
	return products, nil
}

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

// PurchaseOrderService drives the replenishment workflow:
// draft → approved → ordered → [partly-paid →] paid → received.
// Totals are recomputed from items on every mutation, payment updates derive
// the partly-paid/paid statuses, and Complete applies the stock increments.
type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest) (*model.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseOrderRequest) (*model.PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, id uuid.UUID) error

	AddItems(ctx context.Context, id uuid.UUID, req dto.AddPurchaseItemsRequest) (*model.PurchaseOrder, error)
	RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*model.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.PurchaseOrder, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordPurchasePaymentRequest) (*model.PurchaseOrder, error)
	Complete(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)

	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	GetProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error)
}

type purchaseOrderService struct {
	orders    repository.PurchaseOrderRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	stocks    StockService
}

func NewPurchaseOrderService(
	orders repository.PurchaseOrderRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	stocks StockService,
) PurchaseOrderService {
	return &purchaseOrderService{
		orders:    orders,
		products:  products,
		suppliers: suppliers,
		stocks:    stocks,
	}
}

// buildItems validates the referenced products and converts request lines into
// model items.
func (s *purchaseOrderService) buildItems(ctx context.Context, reqs []dto.PurchaseItemRequest) ([]model.PurchaseOrderItem, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		id, err := uuid.Parse(r.ProductID)
		if err != nil {
			return nil, apierror.Validation("product_id %q is not a valid UUID", r.ProductID)
		}
		ids = append(ids, id)
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apierror.Internal("loading products: %v", err)
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, p := range found {
		known[p.ID] = true
	}

	items := make([]model.PurchaseOrderItem, 0, len(reqs))
	for i, r := range reqs {
		if !known[ids[i]] {
			return nil, apierror.NotFound("product %s not found", ids[i])
		}
		if r.PurchasingPrice.IsNegative() {
			return nil, apierror.Validation("purchasing_price must not be negative")
		}
		items = append(items, model.PurchaseOrderItem{
			ProductID:       ids[i],
			Quantity:        r.Quantity,
			PurchasingPrice: r.PurchasingPrice,
		})
	}
	return items, nil
}

func poLineItems(items []model.PurchaseOrderItem) []LineItem {
	lines := make([]LineItem, len(items))
	for i, it := range items {
		lines[i] = LineItem{Quantity: it.Quantity, UnitPrice: it.PurchasingPrice}
	}
	return lines
}

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, req dto.CreatePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.Validation("supplier_id is not a valid UUID")
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, dbErr(err, "supplier %s not found", supplierID)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	total, err := RecomputeTotal(poLineItems(items), decimal.Zero)
	if err != nil {
		return nil, err
	}

	po := &model.PurchaseOrder{
		SupplierID:  supplierID,
		TotalAmount: total,
		Status:      model.POStatusDraft,
		Items:       items,
	}
	if req.ExpectedDeliveryDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpectedDeliveryDate)
		if err != nil {
			return nil, apierror.Validation("expected_delivery_date must be YYYY-MM-DD")
		}
		po.ExpectedDeliveryDate = &t
	}

	if err := s.orders.Create(ctx, po); err != nil {
		return nil, apierror.Validation("storage rejected the purchase order: %v", err)
	}
	log.Info().Str("purchase_order_id", po.ID.String()).
		Str("supplier_id", supplierID.String()).
		Str("total", total.StringFixed(2)).
		Msg("purchase order created")
	return po, nil
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	return po, nil
}

func (s *purchaseOrderService) ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apierror.Internal("listing purchase orders: %v", err)
	}
	return orders, nil
}

// UpdatePurchaseOrder edits the order header. Items and payments have their
// own operations; the total is still re-derived from the current items so the
// stored amount can never drift from them.
func (s *purchaseOrderService) UpdatePurchaseOrder(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	if po.Terminal() {
		return nil, apierror.InvalidState("%s purchase orders cannot be edited", po.Status)
	}

	if req.SupplierID != nil {
		if po.Status != model.POStatusDraft {
			return nil, apierror.InvalidState("the supplier can only be changed on a draft order, current status is %s", po.Status)
		}
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.Validation("supplier_id is not a valid UUID")
		}
		supplier, err := s.suppliers.FindByID(ctx, supplierID)
		if err != nil {
			return nil, dbErr(err, "supplier %s not found", supplierID)
		}
		po.SupplierID = supplierID
		po.Supplier = supplier
	}
	if req.ExpectedDeliveryDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExpectedDeliveryDate)
		if err != nil {
			return nil, apierror.Validation("expected_delivery_date must be YYYY-MM-DD")
		}
		po.ExpectedDeliveryDate = &t
	}

	total, err := RecomputeTotal(poLineItems(po.Items), decimal.Zero)
	if err != nil {
		return nil, err
	}
	po.TotalAmount = total

	if err := runTx(s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.SaveTx(tx, po)
	}); err != nil {
		return nil, apierror.Validation("storage rejected the update: %v", err)
	}
	return po, nil
}

func (s *purchaseOrderService) DeletePurchaseOrder(ctx context.Context, id uuid.UUID) error {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return dbErr(err, "purchase order %s not found", id)
	}
	// Received orders already moved stock; deleting them would orphan the
	// ledger history.
	if po.Status == model.POStatusReceived {
		return apierror.InvalidState("received purchase orders cannot be deleted")
	}
	return s.orders.Delete(ctx, id)
}

func (s *purchaseOrderService) AddItems(ctx context.Context, id uuid.UUID, req dto.AddPurchaseItemsRequest) (*model.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	if !po.ItemsMutable() {
		return nil, apierror.InvalidState("items can only be changed while the order is draft, current status is %s", po.Status)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].PurchaseOrderID = po.ID
	}
	merged := append(po.Items, items...)

	total, err := RecomputeTotal(poLineItems(merged), decimal.Zero)
	if err != nil {
		return nil, err
	}

	po.Items = merged
	po.TotalAmount = total
	if err := runTx(s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.SaveTx(tx, po)
	}); err != nil {
		return nil, apierror.Validation("storage rejected the item update: %v", err)
	}
	return po, nil
}

func (s *purchaseOrderService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	if !po.ItemsMutable() {
		return nil, apierror.InvalidState("items can only be changed while the order is draft, current status is %s", po.Status)
	}

	remaining := make([]model.PurchaseOrderItem, 0, len(po.Items))
	found := false
	for _, it := range po.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		remaining = append(remaining, it)
	}
	if !found {
		return nil, apierror.NotFound("item %s not found on purchase order %s", itemID, id)
	}

	total, err := RecomputeTotal(poLineItems(remaining), decimal.Zero)
	if err != nil {
		return nil, err
	}

	po.Items = remaining
	po.TotalAmount = total
	if err := runTx(s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.DeleteItemTx(tx, itemID); err != nil {
			return err
		}
		return s.orders.SaveTx(tx, po)
	}); err != nil {
		return nil, apierror.Validation("storage rejected the item removal: %v", err)
	}
	return po, nil
}

func (s *purchaseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	if !model.POTransitionAllowed(po.Status, status) {
		return nil, apierror.InvalidState("cannot move purchase order from %s to %s", po.Status, status)
	}

	po.Status = status
	if err := runTx(s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.SaveTx(tx, po)
	}); err != nil {
		return nil, apierror.Validation("storage rejected the status update: %v", err)
	}
	log.Info().Str("purchase_order_id", id.String()).Str("status", status).
		Msg("purchase order status updated")
	return po, nil
}

func (s *purchaseOrderService) RecordPayment(ctx context.Context, id uuid.UUID, req dto.RecordPurchasePaymentRequest) (*model.PurchaseOrder, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.Validation("payment amount must be positive")
	}
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	// Payments apply once the order has been placed with the supplier.
	if po.Status != model.POStatusOrdered && po.Status != model.POStatusPartlyPaid {
		return nil, apierror.InvalidState("payments can only be recorded on ordered purchase orders, current status is %s", po.Status)
	}

	paid := po.PaidAmount.Add(req.Amount)
	state, err := DerivePaymentState(po.TotalAmount, paid)
	if err != nil {
		return nil, err
	}
	po.PaidAmount = paid
	switch state {
	case PaymentSettled:
		po.Status = model.POStatusPaid
	case PaymentPartial:
		po.Status = model.POStatusPartlyPaid
	}

	if err := runTx(s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.SaveTx(tx, po)
	}); err != nil {
		return nil, apierror.Validation("storage rejected the payment: %v", err)
	}
	log.Info().Str("purchase_order_id", id.String()).
		Str("paid", paid.StringFixed(2)).Str("status", po.Status).
		Msg("purchase order payment recorded")
	return po, nil
}

// Complete marks a fully paid order as received and increments the matching
// stock records, all inside one transaction. A second call finds the order
// already received and fails the idempotency guard.
func (s *purchaseOrderService) Complete(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	if po.Status == model.POStatusReceived {
		return nil, apierror.InvalidState("purchase order %s is already received", id)
	}
	if po.Status != model.POStatusPaid {
		return nil, apierror.InvalidState("only paid purchase orders can be received, current status is %s", po.Status)
	}

	err = runTx(s.orders.DB(), func(tx *gorm.DB) error {
		for _, item := range po.Items {
			stock, err := s.stocks.FindForReceiptTx(tx, item.ProductID, po.SupplierID)
			if err != nil {
				return err
			}
			if _, err := s.stocks.IncrementTx(tx, stock.ID, item.Quantity); err != nil {
				return err
			}
		}
		now := time.Now()
		po.Status = model.POStatusReceived
		po.ReceivedDate = &now
		return s.orders.SaveTx(tx, po)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("purchase_order_id", id.String()).Int("items", len(po.Items)).
		Msg("purchase order received, stock incremented")
	return po, nil
}

func (s *purchaseOrderService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	supplier, err := s.suppliers.FindByID(ctx, po.SupplierID)
	if err != nil {
		return nil, dbErr(err, "supplier %s not found", po.SupplierID)
	}
	return supplier, nil
}

func (s *purchaseOrderService) GetProducts(ctx context.Context, id uuid.UUID) ([]model.Product, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "purchase order %s not found", id)
	}
	ids := make([]uuid.UUID, len(po.Items))
	for i, it := range po.Items {
		ids[i] = it.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apierror.Internal("loading products: %v", err)
	}
	return products, nil
}

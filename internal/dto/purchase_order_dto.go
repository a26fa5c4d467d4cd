package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseItemRequest struct {
	ProductID       string          `json:"product_id"       validate:"required,uuid"`
	Quantity        int             `json:"quantity"         validate:"required,min=1"`
	PurchasingPrice decimal.Decimal `json:"purchasing_price" validate:"required"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID           string                `json:"supplier_id"            validate:"required,uuid"`
	Items                []PurchaseItemRequest `json:"items"                  validate:"required,min=1,dive"`
	ExpectedDeliveryDate *string               `json:"expected_delivery_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdatePurchaseOrderRequest changes the order header. The supplier can only
// be swapped while the order is still a draft.
type UpdatePurchaseOrderRequest struct {
	SupplierID           *string `json:"supplier_id"            validate:"omitempty,uuid"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date" validate:"omitempty,datetime=2006-01-02"`
}

type AddPurchaseItemsRequest struct {
	Items []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft approved ordered cancelled"`
}

type RecordPurchasePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Product         string          `json:"product,omitempty"`
	Quantity        int             `json:"quantity"`
	PurchasingPrice decimal.Decimal `json:"purchasing_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type PurchaseOrderResponse struct {
	ID                   string                 `json:"id"`
	SupplierID           string                 `json:"supplier_id"`
	Supplier             string                 `json:"supplier,omitempty"`
	Items                []PurchaseItemResponse `json:"items"`
	TotalAmount          decimal.Decimal        `json:"total_amount"`
	PaidAmount           decimal.Decimal        `json:"paid_amount"`
	Status               string                 `json:"status"`
	ExpectedDeliveryDate *string                `json:"expected_delivery_date"`
	ReceivedDate         *string                `json:"received_date"`
	CreatedAt            string                 `json:"created_at"`
}

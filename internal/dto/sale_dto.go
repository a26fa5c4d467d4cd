package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemRequest references a stock ledger record; the unit selling price is
// resolved from the product catalog at add time.
type SaleItemRequest struct {
	StockID  string `json:"stock_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	CustomerID string            `json:"customer_id" validate:"required,uuid"`
	Items      []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
	Discount   decimal.Decimal   `json:"discount"    validate:"min=0"`
	Payment    decimal.Decimal   `json:"payment"     validate:"min=0"`
	SaleDate   *string           `json:"sale_date"   validate:"omitempty,datetime=2006-01-02"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// UpdateSaleRequest changes the financial header of a pending or partly-paid
// sale. Omitted fields keep their value; the total is recomputed from the
// current items whenever the discount moves.
type UpdateSaleRequest struct {
	CustomerID *string          `json:"customer_id" validate:"omitempty,uuid"`
	Discount   *decimal.Decimal `json:"discount"`
	SaleDate   *string          `json:"sale_date"   validate:"omitempty,datetime=2006-01-02"`
}

type AddSaleItemsRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type RecordSalePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type UpdateSaleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=delivered cancelled refunded exchanged"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID           string          `json:"id"`
	StockID      string          `json:"stock_id"`
	ProductID    string          `json:"product_id"`
	Product      string          `json:"product,omitempty"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer_id"`
	Customer    string             `json:"customer,omitempty"`
	Items       []SaleItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Discount    decimal.Decimal    `json:"discount"`
	Payment     decimal.Decimal    `json:"payment"`
	Balance     decimal.Decimal    `json:"balance"`
	Status      string             `json:"status"`
	SaleDate    *string            `json:"sale_date"`
	CreatedAt   string             `json:"created_at"`
}

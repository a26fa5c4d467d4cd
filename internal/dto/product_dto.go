package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /api/product/get-products.
type ProductFilter struct {
	Name       string `form:"name"`
	SKU        string `form:"sku"`
	BrandID    string `form:"brand_id"`
	CategoryID string `form:"category_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Name          string          `json:"name"           validate:"required,min=1,max=200"`
	SKU           string          `json:"sku"            validate:"required,min=1,max=64"`
	BrandID       string          `json:"brand_id"       validate:"required,uuid"`
	CategoryID    *string         `json:"category_id"    validate:"omitempty,uuid"`
	Description   *string         `json:"description"    validate:"omitempty,max=1000"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"min=0"`
	SellingPrice  decimal.Decimal `json:"selling_price"  validate:"min=0"`
	ImageURL      *string         `json:"image_url"      validate:"omitempty,url"`
}

// UpdateProductRequest deliberately omits SKU: product identity is immutable.
type UpdateProductRequest struct {
	Name          string           `json:"name"           validate:"omitempty,min=1,max=200"`
	BrandID       *string          `json:"brand_id"       validate:"omitempty,uuid"`
	CategoryID    *string          `json:"category_id"    validate:"omitempty,uuid"`
	Description   *string          `json:"description"    validate:"omitempty,max=1000"`
	PurchasePrice *decimal.Decimal `json:"purchase_price" validate:"omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price"  validate:"omitempty"`
	ImageURL      *string          `json:"image_url"      validate:"omitempty,url"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Brand         string          `json:"brand,omitempty"`
	BrandID       string          `json:"brand_id"`
	Category      string          `json:"category,omitempty"`
	CategoryID    *string         `json:"category_id"`
	Description   *string         `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	ImageURL      *string         `json:"image_url"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceResponse is the payload of the cached price-check endpoint.
type PriceResponse struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

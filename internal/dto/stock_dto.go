package dto

// StockFilter is bound from the query string of GET /api/stock/get-stocks.
type StockFilter struct {
	ProductID  string `form:"product_id"`
	SupplierID string `form:"supplier_id"`
	LocationID string `form:"location_id"`
	Status     string `form:"status"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateStockRequest struct {
	ProductID   string  `json:"product_id"  validate:"required,uuid"`
	SupplierID  string  `json:"supplier_id" validate:"required,uuid"`
	LocationID  *string `json:"location_id" validate:"omitempty,uuid"`
	Quantity    int     `json:"quantity"    validate:"min=0"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type UpdateStockRequest struct {
	LocationID  *string `json:"location_id" validate:"omitempty,uuid"`
	Quantity    *int    `json:"quantity"    validate:"omitempty,min=0"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	// Status accepts only the manual administrative states; derived states
	// are recomputed from quantity and cannot be set directly.
	Status string `json:"status" validate:"omitempty,oneof=reserved damaged in-stock"`
}

type StockResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	Product     string  `json:"product,omitempty"`
	SupplierID  string  `json:"supplier_id"`
	Supplier    string  `json:"supplier,omitempty"`
	LocationID  *string `json:"location_id"`
	Location    string  `json:"location,omitempty"`
	Quantity    int     `json:"quantity"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
}

type StockListResponse struct {
	Data  []StockResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

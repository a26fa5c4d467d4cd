package service

import (
	"context"
	"fmt"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// StockService manages the stock ledger. The Tx methods are the only way
// quantities change outside administrative edits; the purchase-order and sale
// engines call them inside their own transactions so a completion commits or
// rolls back as a unit.
type StockService interface {
	CreateStock(ctx context.Context, req dto.CreateStockRequest) (*model.Stock, error)
	GetStock(ctx context.Context, id uuid.UUID) (*model.Stock, error)
	ListStocks(ctx context.Context, filter dto.StockFilter) ([]model.Stock, int64, error)
	UpdateStock(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*model.Stock, error)
	DeleteStock(ctx context.Context, id uuid.UUID) error
	ExportStocks(ctx context.Context) ([]byte, error)

	// IncrementTx adds amount to a ledger record and recomputes its status.
	IncrementTx(tx *gorm.DB, stockID uuid.UUID, amount int) (*model.Stock, error)
	// DecrementTx subtracts amount, failing with an insufficient-stock error
	// when the record does not hold enough quantity.
	DecrementTx(tx *gorm.DB, stockID uuid.UUID, amount int) (*model.Stock, error)
	// FindForReceiptTx locates the ledger record a purchase-order receipt
	// increments, keyed by product and supplier.
	FindForReceiptTx(tx *gorm.DB, productID, supplierID uuid.UUID) (*model.Stock, error)
}

type stockService struct {
	stocks    repository.StockRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	locations repository.LocationRepository
	threshold int
}

func NewStockService(
	stocks repository.StockRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	locations repository.LocationRepository,
	lowStockThreshold int,
) StockService {
	return &stockService{
		stocks:    stocks,
		products:  products,
		suppliers: suppliers,
		locations: locations,
		threshold: lowStockThreshold,
	}
}

// deriveStatus maps a quantity to its derived status. Manual statuses
// (reserved, damaged) are handled by the callers and never pass through here.
func (s *stockService) deriveStatus(quantity int) string {
	switch {
	case quantity == 0:
		return model.StockOutOfStock
	case quantity <= s.threshold:
		return model.StockLowStock
	default:
		return model.StockInStock
	}
}

func (s *stockService) CreateStock(ctx context.Context, req dto.CreateStockRequest) (*model.Stock, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("product_id is not a valid UUID")
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.Validation("supplier_id is not a valid UUID")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, dbErr(err, "product %s not found", productID)
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, dbErr(err, "supplier %s not found", supplierID)
	}

	var locationID *uuid.UUID
	if req.LocationID != nil {
		id, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return nil, apierror.Validation("location_id is not a valid UUID")
		}
		if _, err := s.locations.FindByID(ctx, id); err != nil {
			return nil, dbErr(err, "location %s not found", id)
		}
		locationID = &id
	}

	stock := &model.Stock{
		ProductID:   productID,
		SupplierID:  supplierID,
		LocationID:  locationID,
		Quantity:    req.Quantity,
		Status:      s.deriveStatus(req.Quantity),
		Description: req.Description,
	}
	if err := s.stocks.Create(ctx, stock); err != nil {
		// The composite unique index rejects a second record for the same
		// (product, supplier, location) tuple.
		return nil, apierror.Validation("a stock record already exists for this product, supplier and location")
	}
	return stock, nil
}

func (s *stockService) GetStock(ctx context.Context, id uuid.UUID) (*model.Stock, error) {
	stock, err := s.stocks.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "stock record %s not found", id)
	}
	return stock, nil
}

func (s *stockService) ListStocks(ctx context.Context, filter dto.StockFilter) ([]model.Stock, int64, error) {
	stocks, total, err := s.stocks.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Internal("listing stock records: %v", err)
	}
	return stocks, total, nil
}

func (s *stockService) UpdateStock(ctx context.Context, id uuid.UUID, req dto.UpdateStockRequest) (*model.Stock, error) {
	stock, err := s.stocks.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "stock record %s not found", id)
	}

	if req.LocationID != nil {
		locID, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return nil, apierror.Validation("location_id is not a valid UUID")
		}
		if _, err := s.locations.FindByID(ctx, locID); err != nil {
			return nil, dbErr(err, "location %s not found", locID)
		}
		stock.LocationID = &locID
	}
	if req.Description != nil {
		stock.Description = req.Description
	}
	if req.Quantity != nil {
		stock.Quantity = *req.Quantity
	}

	switch {
	case req.Status != "":
		// Setting in-stock explicitly clears a manual state; the derived
		// value wins immediately afterwards.
		if req.Status == model.StockInStock {
			stock.Status = s.deriveStatus(stock.Quantity)
		} else {
			stock.Status = req.Status
		}
	case !stock.ManualStatus():
		stock.Status = s.deriveStatus(stock.Quantity)
	}

	if err := s.stocks.Update(ctx, stock); err != nil {
		return nil, apierror.Validation("storage rejected the stock update: %v", err)
	}
	return stock, nil
}

func (s *stockService) DeleteStock(ctx context.Context, id uuid.UUID) error {
	if _, err := s.stocks.FindByID(ctx, id); err != nil {
		return dbErr(err, "stock record %s not found", id)
	}
	return s.stocks.Delete(ctx, id)
}

// ExportStocks renders the full ledger as an Excel workbook.
func (s *stockService) ExportStocks(ctx context.Context) ([]byte, error) {
	stocks, _, err := s.stocks.List(ctx, dto.StockFilter{Page: 1, Limit: 10000})
	if err != nil {
		return nil, apierror.Internal("listing stock records for export: %v", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("closing export workbook")
		}
	}()

	const sheet = "Stock"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apierror.Internal("creating export sheet: %v", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Product", "SKU", "Supplier", "Location", "Quantity", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, st := range stocks {
		var name, sku, supplier, location string
		if st.Product != nil {
			name, sku = st.Product.Name, st.Product.SKU
		}
		if st.Supplier != nil {
			supplier = st.Supplier.Name
		}
		if st.Location != nil {
			location = st.Location.Name
		}
		values := []interface{}{name, sku, supplier, location, st.Quantity, st.Status}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apierror.Internal("writing export workbook: %v", err)
	}
	return buf.Bytes(), nil
}

func (s *stockService) IncrementTx(tx *gorm.DB, stockID uuid.UUID, amount int) (*model.Stock, error) {
	if amount <= 0 {
		return nil, apierror.Validation("increment amount must be positive")
	}
	return s.applyDeltaTx(tx, stockID, amount)
}

func (s *stockService) DecrementTx(tx *gorm.DB, stockID uuid.UUID, amount int) (*model.Stock, error) {
	if amount <= 0 {
		return nil, apierror.Validation("decrement amount must be positive")
	}
	return s.applyDeltaTx(tx, stockID, -amount)
}

func (s *stockService) FindForReceiptTx(tx *gorm.DB, productID, supplierID uuid.UUID) (*model.Stock, error) {
	stock, err := s.stocks.FindByProductSupplierTx(tx, productID, supplierID)
	if err != nil {
		return nil, dbErr(err, "no stock record for product %s from supplier %s", productID, supplierID)
	}
	return stock, nil
}

// applyDeltaTx is the single write path for quantity changes. The conditional
// update in AdjustTx serializes concurrent decrements on the same row: a zero
// row count means the guard rejected the write, so the caller's transaction
// aborts without ever observing a negative quantity.
func (s *stockService) applyDeltaTx(tx *gorm.DB, stockID uuid.UUID, delta int) (*model.Stock, error) {
	rows, err := s.stocks.AdjustTx(tx, stockID, delta)
	if err != nil {
		return nil, apierror.Internal("adjusting stock %s: %v", stockID, err)
	}
	if rows == 0 {
		if _, ferr := s.stocks.FindByIDTx(tx, stockID); ferr != nil {
			return nil, apierror.NotFound("stock record %s not found", stockID)
		}
		return nil, apierror.InsufficientStock(
			"stock record %s holds less than the requested %d units", stockID, -delta)
	}

	stock, err := s.stocks.FindByIDTx(tx, stockID)
	if err != nil {
		return nil, apierror.Internal("reloading stock %s: %v", stockID, err)
	}
	if !stock.ManualStatus() {
		if status := s.deriveStatus(stock.Quantity); status != stock.Status {
			if err := s.stocks.SetStatusTx(tx, stockID, status); err != nil {
				return nil, apierror.Internal("updating stock status: %v", err)
			}
			stock.Status = status
		}
	}
	return stock, nil
}

// LowStockLine describes a ledger record that crossed the alert threshold,
// formatted for the notification mail.
type LowStockLine struct {
	ProductName string
	Quantity    int
}

func (l LowStockLine) String() string {
	return fmt.Sprintf("%s: %d left", l.ProductName, l.Quantity)
}

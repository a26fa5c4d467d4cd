package repository

import (
	"context"

	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository is the ledger's data access contract. The Tx variants must
// be called with a live transaction so that one order/sale completion commits
// or rolls back as a unit.
type StockRepository interface {
	Create(ctx context.Context, s *model.Stock) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Stock, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Stock, error)
	FindByProductSupplierTx(tx *gorm.DB, productID, supplierID uuid.UUID) (*model.Stock, error)
	List(ctx context.Context, filter dto.StockFilter) ([]model.Stock, int64, error)
	Update(ctx context.Context, s *model.Stock) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustTx applies a quantity delta in a single conditional statement.
	// Negative deltas only touch rows with sufficient quantity; the returned
	// row count is 0 when the guard rejected the write (or the row is gone),
	// which serializes concurrent read-modify-write on the same record.
	AdjustTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error)
	SetStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) Create(ctx context.Context, s *model.Stock) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *stockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Supplier").Preload("Location").
		First(&s, id).Error
	return &s, err
}

func (r *stockRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := tx.First(&s, id).Error
	return &s, err
}

func (r *stockRepo) FindByProductSupplierTx(tx *gorm.DB, productID, supplierID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := tx.Where("product_id = ? AND supplier_id = ?", productID, supplierID).First(&s).Error
	return &s, err
}

func (r *stockRepo) List(ctx context.Context, filter dto.StockFilter) ([]model.Stock, int64, error) {
	var stocks []model.Stock
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Stock{})

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.LocationID != "" {
		q = q.Where("location_id = ?", filter.LocationID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Product").Preload("Supplier").Preload("Location").
		Order("created_at ASC").Limit(filter.Limit).Offset(offset).
		Find(&stocks).Error
	return stocks, total, err
}

func (r *stockRepo) Update(ctx context.Context, s *model.Stock) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *stockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Stock{}, id).Error
}

func (r *stockRepo) AdjustTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	q := tx.Model(&model.Stock{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("quantity >= ?", -delta)
	}
	res := q.Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *stockRepo) SetStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Stock{}).Where("id = ?", id).Update("status", status).Error
}

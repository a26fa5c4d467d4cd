package repository

import (
	"context"

	"github.com/fadesignlk/stock-master-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context) ([]model.Sale, error)
	// SaveTx persists the whole aggregate (sale plus items) in one write.
	SaveTx(tx *gorm.DB, s *model.Sale) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Items.Product").Preload("Items.Stock").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Items.Product").
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SaveTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(s).Error
}

func (r *saleRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.SaleItem{}, itemID).Error
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.Sale{ID: id}).Error
}

package repository

import (
	"context"

	"github.com/fadesignlk/stock-master-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	// SaveTx persists the whole aggregate (order plus items) in one write.
	SaveTx(tx *gorm.DB, po *model.PurchaseOrder) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) DB() *gorm.DB { return r.db }

func (r *purchaseOrderRepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Items.Product").
		First(&po, id).Error
	return &po, err
}

func (r *purchaseOrderRepo) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Items.Product").
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) SaveTx(tx *gorm.DB, po *model.PurchaseOrder) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(po).Error
}

func (r *purchaseOrderRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.PurchaseOrderItem{}, itemID).Error
}

func (r *purchaseOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.PurchaseOrder{ID: id}).Error
}

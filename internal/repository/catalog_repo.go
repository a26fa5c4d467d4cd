package repository

import (
	"context"

	"github.com/fadesignlk/stock-master-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brands, categories, and locations share the same keyed-record shape, so
// their repositories live together.

type BrandRepository interface {
	Create(ctx context.Context, b *model.Brand) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	FindByName(ctx context.Context, name string) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
	Update(ctx context.Context, b *model.Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type brandRepo struct{ db *gorm.DB }

func NewBrandRepository(db *gorm.DB) BrandRepository { return &brandRepo{db: db} }

func (r *brandRepo) Create(ctx context.Context, b *model.Brand) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *brandRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var b model.Brand
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *brandRepo) FindByName(ctx context.Context, name string) (*model.Brand, error) {
	var b model.Brand
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&b).Error
	return &b, err
}

func (r *brandRepo) List(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *brandRepo) Update(ctx context.Context, b *model.Brand) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *brandRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Brand{}, id).Error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	return &c, err
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}

type LocationRepository interface {
	Create(ctx context.Context, l *model.Location) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	FindByName(ctx context.Context, name string) (*model.Location, error)
	List(ctx context.Context) ([]model.Location, error)
	Update(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) Create(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *locationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *locationRepo) FindByName(ctx context.Context, name string) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&l).Error
	return &l, err
}

func (r *locationRepo) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(ctx context.Context, l *model.Location) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *locationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Location{}, id).Error
}

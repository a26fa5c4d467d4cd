package service

import (
	"context"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
)

// Brand, category and location management. The three share the same
// named-record shape, so their services live together.

type BrandService interface {
	CreateBrand(ctx context.Context, req dto.CreateNamedRecordRequest) (*model.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, req dto.UpdateNamedRecordRequest) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

type brandService struct {
	brands repository.BrandRepository
}

func NewBrandService(brands repository.BrandRepository) BrandService {
	return &brandService{brands: brands}
}

func (s *brandService) CreateBrand(ctx context.Context, req dto.CreateNamedRecordRequest) (*model.Brand, error) {
	if _, err := s.brands.FindByName(ctx, req.Name); err == nil {
		return nil, apierror.Validation("brand %q already exists", req.Name)
	}
	brand := &model.Brand{Name: req.Name, Description: req.Description}
	if err := s.brands.Create(ctx, brand); err != nil {
		return nil, apierror.Validation("storage rejected the brand: %v", err)
	}
	return brand, nil
}

func (s *brandService) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "brand %s not found", id)
	}
	return brand, nil
}

func (s *brandService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.brands.List(ctx)
	if err != nil {
		return nil, apierror.Internal("listing brands: %v", err)
	}
	return brands, nil
}

func (s *brandService) UpdateBrand(ctx context.Context, id uuid.UUID, req dto.UpdateNamedRecordRequest) (*model.Brand, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "brand %s not found", id)
	}
	if req.Name != "" {
		brand.Name = req.Name
	}
	if req.Description != nil {
		brand.Description = req.Description
	}
	if err := s.brands.Update(ctx, brand); err != nil {
		return nil, apierror.Validation("storage rejected the brand update: %v", err)
	}
	return brand, nil
}

func (s *brandService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brands.FindByID(ctx, id); err != nil {
		return dbErr(err, "brand %s not found", id)
	}
	return s.brands.Delete(ctx, id)
}

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateNamedRecordRequest) (*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateNamedRecordRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateNamedRecordRequest) (*model.Category, error) {
	if _, err := s.categories.FindByName(ctx, req.Name); err == nil {
		return nil, apierror.Validation("category %q already exists", req.Name)
	}
	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apierror.Validation("storage rejected the category: %v", err)
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "category %s not found", id)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apierror.Internal("listing categories: %v", err)
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateNamedRecordRequest) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "category %s not found", id)
	}
	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apierror.Validation("storage rejected the category update: %v", err)
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return dbErr(err, "category %s not found", id)
	}
	return s.categories.Delete(ctx, id)
}

type LocationService interface {
	CreateLocation(ctx context.Context, req dto.CreateNamedRecordRequest) (*model.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, req dto.UpdateNamedRecordRequest) (*model.Location, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
}

type locationService struct {
	locations repository.LocationRepository
}

func NewLocationService(locations repository.LocationRepository) LocationService {
	return &locationService{locations: locations}
}

func (s *locationService) CreateLocation(ctx context.Context, req dto.CreateNamedRecordRequest) (*model.Location, error) {
	if _, err := s.locations.FindByName(ctx, req.Name); err == nil {
		return nil, apierror.Validation("location %q already exists", req.Name)
	}
	location := &model.Location{Name: req.Name, Description: req.Description}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, apierror.Validation("storage rejected the location: %v", err)
	}
	return location, nil
}

func (s *locationService) GetLocation(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "location %s not found", id)
	}
	return location, nil
}

func (s *locationService) ListLocations(ctx context.Context) ([]model.Location, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, apierror.Internal("listing locations: %v", err)
	}
	return locations, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, id uuid.UUID, req dto.UpdateNamedRecordRequest) (*model.Location, error) {
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "location %s not found", id)
	}
	if req.Name != "" {
		location.Name = req.Name
	}
	if req.Description != nil {
		location.Description = req.Description
	}
	if err := s.locations.Update(ctx, location); err != nil {
		return nil, apierror.Validation("storage rejected the location update: %v", err)
	}
	return location, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.locations.FindByID(ctx, id); err != nil {
		return dbErr(err, "location %s not found", id)
	}
	return s.locations.Delete(ctx, id)
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PriceCache caches SKU price lookups. A nil cache disables caching.
type PriceCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const priceCacheTTL = 5 * time.Minute

func priceCacheKey(sku string) string { return "price:" + sku }

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// GetPriceBySKU serves the price-check endpoint, backed by the cache.
	GetPriceBySKU(ctx context.Context, sku string) (*dto.PriceResponse, error)
}

type productService struct {
	products   repository.ProductRepository
	brands     repository.BrandRepository
	categories repository.CategoryRepository
	cache      PriceCache
}

func NewProductService(
	products repository.ProductRepository,
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
	cache PriceCache,
) ProductService {
	return &productService{
		products:   products,
		brands:     brands,
		categories: categories,
		cache:      cache,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		return nil, apierror.Validation("brand_id is not a valid UUID")
	}
	if _, err := s.brands.FindByID(ctx, brandID); err != nil {
		return nil, dbErr(err, "brand %s not found", brandID)
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apierror.Validation("category_id is not a valid UUID")
		}
		if _, err := s.categories.FindByID(ctx, id); err != nil {
			return nil, dbErr(err, "category %s not found", id)
		}
		categoryID = &id
	}

	if _, err := s.products.FindBySKU(ctx, req.SKU); err == nil {
		return nil, apierror.Validation("a product with SKU %q already exists", req.SKU)
	}
	if req.PurchasePrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, apierror.Validation("prices must not be negative")
	}

	product := &model.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		BrandID:       brandID,
		CategoryID:    categoryID,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		ImageURL:      req.ImageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apierror.Validation("storage rejected the product: %v", err)
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "product %s not found", id)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Internal("listing products: %v", err)
	}
	return products, total, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "product %s not found", id)
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.BrandID != nil {
		brandID, err := uuid.Parse(*req.BrandID)
		if err != nil {
			return nil, apierror.Validation("brand_id is not a valid UUID")
		}
		if _, err := s.brands.FindByID(ctx, brandID); err != nil {
			return nil, dbErr(err, "brand %s not found", brandID)
		}
		product.BrandID = brandID
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apierror.Validation("category_id is not a valid UUID")
		}
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			return nil, dbErr(err, "category %s not found", categoryID)
		}
		product.CategoryID = &categoryID
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.PurchasePrice != nil {
		if req.PurchasePrice.IsNegative() {
			return nil, apierror.Validation("purchase_price must not be negative")
		}
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, apierror.Validation("selling_price must not be negative")
		}
		product.SellingPrice = *req.SellingPrice
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, apierror.Validation("storage rejected the product update: %v", err)
	}
	s.invalidatePrice(ctx, product.SKU)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dbErr(err, "product %s not found", id)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return apierror.Validation("storage rejected the product deletion: %v", err)
	}
	s.invalidatePrice(ctx, product.SKU)
	return nil
}

func (s *productService) GetPriceBySKU(ctx context.Context, sku string) (*dto.PriceResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, priceCacheKey(sku)); err == nil && cached != "" {
			var resp dto.PriceResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		return nil, dbErr(err, "no product with SKU %q", sku)
	}
	resp := &dto.PriceResponse{
		SKU:          product.SKU,
		Name:         product.Name,
		SellingPrice: product.SellingPrice,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, priceCacheKey(sku), string(raw), priceCacheTTL); err != nil {
				log.Warn().Err(err).Str("sku", sku).Msg("caching price lookup failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) invalidatePrice(ctx context.Context, sku string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, priceCacheKey(sku)); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("invalidating price cache failed")
	}
}

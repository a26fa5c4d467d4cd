package service

import (
	"context"
	"testing"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePriceCache is an in-memory PriceCache recording hits and deletions.
type fakePriceCache struct {
	data map[string]string
	gets int
	dels []string
}

func newFakePriceCache() *fakePriceCache {
	return &fakePriceCache{data: make(map[string]string)}
}

func (c *fakePriceCache) Get(_ context.Context, key string) (string, error) {
	c.gets++
	return c.data[key], nil
}

func (c *fakePriceCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakePriceCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.dels = append(c.dels, k)
	}
	return nil
}

var _ PriceCache = (*fakePriceCache)(nil)

type productFixture struct {
	svc      ProductService
	products *stubProductRepo
	brands   *stubBrandRepo
	cache    *fakePriceCache
}

func buildProductSvc(t *testing.T) *productFixture {
	t.Helper()
	productRepo := newStubProductRepo()
	brandRepo := newStubBrandRepo()
	cache := newFakePriceCache()
	svc := NewProductService(productRepo, brandRepo, newStubCategoryRepo(), cache)
	return &productFixture{svc: svc, products: productRepo, brands: brandRepo, cache: cache}
}

func (f *productFixture) seedBrand(name string) *model.Brand {
	b := &model.Brand{ID: uuid.New(), Name: name}
	f.brands.brands[b.ID] = b
	return b
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	f := buildProductSvc(t)
	brand := f.seedBrand("Bosch")

	req := dto.CreateProductRequest{
		Name:         "Angle Grinder",
		SKU:          "PT-001",
		BrandID:      brand.ID.String(),
		SellingPrice: d(199.99),
	}
	_, err := f.svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	req.Name = "Another Grinder"
	_, err = f.svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	assert.Contains(t, err.Error(), "PT-001")
}

func TestCreateProduct_UnknownBrand(t *testing.T) {
	f := buildProductSvc(t)
	_, err := f.svc.CreateProduct(context.Background(), dto.CreateProductRequest{
		Name: "Orphan", SKU: "PT-002", BrandID: uuid.NewString(),
	})
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestGetPriceBySKU_CachesLookup(t *testing.T) {
	f := buildProductSvc(t)
	seedProduct(f.products, "Impact Driver", "PT-003", 249.50)

	resp, err := f.svc.GetPriceBySKU(context.Background(), "PT-003")
	require.NoError(t, err)
	assert.Equal(t, "Impact Driver", resp.Name)
	assert.True(t, resp.SellingPrice.Equal(d(249.50)))

	// Second lookup is served from the cache even if the row disappears.
	for id := range f.products.products {
		delete(f.products.products, id)
	}
	resp, err = f.svc.GetPriceBySKU(context.Background(), "PT-003")
	require.NoError(t, err)
	assert.Equal(t, "PT-003", resp.SKU)
}

func TestGetPriceBySKU_UnknownSKU(t *testing.T) {
	f := buildProductSvc(t)
	_, err := f.svc.GetPriceBySKU(context.Background(), "NOPE")
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestUpdateProduct_InvalidatesPriceCache(t *testing.T) {
	f := buildProductSvc(t)
	p := seedProduct(f.products, "Circular Saw", "PT-004", 320)

	_, err := f.svc.GetPriceBySKU(context.Background(), "PT-004")
	require.NoError(t, err)
	require.Contains(t, f.cache.data, priceCacheKey("PT-004"))

	newPrice := decimal.NewFromInt(350)
	_, err = f.svc.UpdateProduct(context.Background(), p.ID, dto.UpdateProductRequest{
		SellingPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.Contains(t, f.cache.dels, priceCacheKey("PT-004"))

	resp, err := f.svc.GetPriceBySKU(context.Background(), "PT-004")
	require.NoError(t, err)
	assert.True(t, resp.SellingPrice.Equal(newPrice))
}

func TestUpdateProduct_NegativePrice(t *testing.T) {
	f := buildProductSvc(t)
	p := seedProduct(f.products, "Sander", "PT-005", 80)

	bad := decimal.NewFromInt(-1)
	_, err := f.svc.UpdateProduct(context.Background(), p.ID, dto.UpdateProductRequest{
		SellingPrice: &bad,
	})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestDeleteProduct_InvalidatesPriceCache(t *testing.T) {
	f := buildProductSvc(t)
	p := seedProduct(f.products, "Router", "PT-006", 150)

	_, err := f.svc.GetPriceBySKU(context.Background(), "PT-006")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProduct(context.Background(), p.ID))
	assert.Contains(t, f.cache.dels, priceCacheKey("PT-006"))
}

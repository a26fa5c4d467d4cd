package service

// In-memory repository stubs shared by the service tests. The Tx variants
// ignore the transaction handle; runTx passes nil when the repo has no DB.

import (
	"context"
	"sync"

	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stock ─────────────────────────────────────────────────────────────────────

type stubStockRepo struct {
	mu     sync.Mutex
	stocks map[uuid.UUID]*model.Stock
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{stocks: make(map[uuid.UUID]*model.Stock)}
}

func (r *stubStockRepo) Create(_ context.Context, s *model.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.stocks[s.ID] = s
	return nil
}

func (r *stubStockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Stock, error) {
	return r.find(id)
}

func (r *stubStockRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Stock, error) {
	return r.find(id)
}

// find returns a copy so concurrent quantity writes never race with readers.
func (r *stubStockRepo) find(id uuid.UUID) (*model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubStockRepo) FindByProductSupplierTx(_ *gorm.DB, productID, supplierID uuid.UUID) (*model.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stocks {
		if s.ProductID == productID && s.SupplierID == supplierID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStockRepo) List(_ context.Context, _ dto.StockFilter) ([]model.Stock, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Stock, 0, len(r.stocks))
	for _, s := range r.stocks {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubStockRepo) Update(_ context.Context, s *model.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stocks[s.ID] = s
	return nil
}

func (r *stubStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stocks, id)
	return nil
}

func (r *stubStockRepo) AdjustTx(_ *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[id]
	if !ok {
		return 0, nil
	}
	// Mirrors the conditional UPDATE guard: never go negative.
	if delta < 0 && s.Quantity < -delta {
		return 0, nil
	}
	s.Quantity += delta
	return 1, nil
}

func (r *stubStockRepo) SetStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── Product ───────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Brand / Category ──────────────────────────────────────────────────────────

type stubBrandRepo struct {
	brands map[uuid.UUID]*model.Brand
}

func newStubBrandRepo() *stubBrandRepo {
	return &stubBrandRepo{brands: make(map[uuid.UUID]*model.Brand)}
}

func (r *stubBrandRepo) Create(_ context.Context, b *model.Brand) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.brands[b.ID] = b
	return nil
}

func (r *stubBrandRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBrandRepo) FindByName(_ context.Context, name string) (*model.Brand, error) {
	for _, b := range r.brands {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubBrandRepo) List(_ context.Context) ([]model.Brand, error) {
	out := make([]model.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		out = append(out, *b)
	}
	return out, nil
}

func (r *stubBrandRepo) Update(_ context.Context, b *model.Brand) error {
	r.brands[b.ID] = b
	return nil
}

func (r *stubBrandRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.brands, id)
	return nil
}

var _ repository.BrandRepository = (*stubBrandRepo)(nil)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// ── Supplier / Location / Customer ────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) FindByName(_ context.Context, name string) (*model.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

type stubLocationRepo struct {
	locations map[uuid.UUID]*model.Location
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{locations: make(map[uuid.UUID]*model.Location)}
}

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.locations[l.ID] = l
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLocationRepo) FindByName(_ context.Context, name string) (*model.Location, error) {
	for _, l := range r.locations {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLocationRepo) List(_ context.Context) ([]model.Location, error) {
	out := make([]model.Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLocationRepo) Update(_ context.Context, l *model.Location) error {
	r.locations[l.ID] = l
	return nil
}

func (r *stubLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.locations, id)
	return nil
}

var _ repository.LocationRepository = (*stubLocationRepo)(nil)

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Sale ──────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context) ([]model.Sale, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) SaveTx(_ *gorm.DB, s *model.Sale) error {
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) DeleteItemTx(_ *gorm.DB, _ uuid.UUID) error { return nil }

func (r *stubSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Purchase order ────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.PurchaseOrder
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.PurchaseOrder)}
}

func (r *stubOrderRepo) Create(_ context.Context, po *model.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	for i := range po.Items {
		if po.Items[i].ID == uuid.Nil {
			po.Items[i].ID = uuid.New()
		}
		po.Items[i].PurchaseOrderID = po.ID
	}
	r.orders[po.ID] = po
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return po, nil
}

func (r *stubOrderRepo) List(_ context.Context) ([]model.PurchaseOrder, error) {
	out := make([]model.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		out = append(out, *po)
	}
	return out, nil
}

func (r *stubOrderRepo) SaveTx(_ *gorm.DB, po *model.PurchaseOrder) error {
	for i := range po.Items {
		if po.Items[i].ID == uuid.Nil {
			po.Items[i].ID = uuid.New()
		}
		po.Items[i].PurchaseOrderID = po.ID
	}
	r.orders[po.ID] = po
	return nil
}

func (r *stubOrderRepo) DeleteItemTx(_ *gorm.DB, _ uuid.UUID) error { return nil }

func (r *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseOrderRepository = (*stubOrderRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, sku string, sellingPrice float64) *model.Product {
	p := &model.Product{
		ID:           uuid.New(),
		Name:         name,
		SKU:          sku,
		BrandID:      uuid.New(),
		SellingPrice: decimal.NewFromFloat(sellingPrice),
	}
	repo.products[p.ID] = p
	return p
}

func seedStock(repo *stubStockRepo, product *model.Product, supplierID uuid.UUID, quantity int, status string) *model.Stock {
	s := &model.Stock{
		ID:         uuid.New(),
		ProductID:  product.ID,
		SupplierID: supplierID,
		Quantity:   quantity,
		Status:     status,
		Product:    product,
	}
	repo.stocks[s.ID] = s
	return s
}

func seedSupplier(repo *stubSupplierRepo, name string) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), Name: name}
	repo.suppliers[s.ID] = s
	return s
}

func seedCustomer(repo *stubCustomerRepo, name string, email *string) *model.Customer {
	c := &model.Customer{ID: uuid.New(), Name: name, ContactNo: "0771234567", Email: email}
	repo.customers[c.ID] = c
	return c
}

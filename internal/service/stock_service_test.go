package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStockSvc(threshold int) (StockService, *stubStockRepo, *stubProductRepo, *stubSupplierRepo) {
	stockRepo := newStubStockRepo()
	productRepo := newStubProductRepo()
	supplierRepo := newStubSupplierRepo()
	locationRepo := newStubLocationRepo()
	svc := NewStockService(stockRepo, productRepo, supplierRepo, locationRepo, threshold)
	return svc, stockRepo, productRepo, supplierRepo
}

func TestCreateStock_DerivesStatus(t *testing.T) {
	svc, _, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Hammer", "HW-001", 12.50)
	sup := seedSupplier(supplierRepo, "Acme Tools")

	cases := []struct {
		quantity int
		want     string
	}{
		{0, model.StockOutOfStock},
		{3, model.StockLowStock},
		{5, model.StockLowStock},
		{6, model.StockInStock},
	}
	for _, tc := range cases {
		stock, err := svc.CreateStock(context.Background(), dto.CreateStockRequest{
			ProductID:  p.ID.String(),
			SupplierID: sup.ID.String(),
			Quantity:   tc.quantity,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, stock.Status, "quantity %d", tc.quantity)
	}
}

func TestCreateStock_UnknownProduct(t *testing.T) {
	svc, _, _, supplierRepo := buildStockSvc(5)
	sup := seedSupplier(supplierRepo, "Acme Tools")

	_, err := svc.CreateStock(context.Background(), dto.CreateStockRequest{
		ProductID:  uuid.NewString(),
		SupplierID: sup.ID.String(),
		Quantity:   1,
	})
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestDecrementTx_InsufficientStock(t *testing.T) {
	svc, stockRepo, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Drill", "HW-002", 89.90)
	sup := seedSupplier(supplierRepo, "Acme Tools")
	stock := seedStock(stockRepo, p, sup.ID, 2, model.StockLowStock)

	_, err := svc.DecrementTx(nil, stock.ID, 5)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInsufficientStock))
	// Guard rejected the write, nothing changed.
	assert.Equal(t, 2, stockRepo.stocks[stock.ID].Quantity)
}

func TestDecrementTx_MissingRecord(t *testing.T) {
	svc, _, _, _ := buildStockSvc(5)
	_, err := svc.DecrementTx(nil, uuid.New(), 1)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestDecrementTx_RecomputesStatus(t *testing.T) {
	svc, stockRepo, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Saw", "HW-003", 25)
	sup := seedSupplier(supplierRepo, "Acme Tools")
	stock := seedStock(stockRepo, p, sup.ID, 10, model.StockInStock)

	updated, err := svc.DecrementTx(nil, stock.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, model.StockLowStock, updated.Status)

	updated, err = svc.DecrementTx(nil, stock.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, model.StockOutOfStock, updated.Status)
}

func TestDecrementTx_ConcurrentCallersNeverOverdraw(t *testing.T) {
	svc, stockRepo, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Drill Bit Set", "HW-007", 45)
	sup := seedSupplier(supplierRepo, "Acme Tools")
	stock := seedStock(stockRepo, p, sup.ID, 10, model.StockInStock)

	// 25 callers race for 10 units; exactly 10 may win and the quantity
	// must land on zero, never below.
	const callers = 25
	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.DecrementTx(nil, stock.ID, 1); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), successes.Load())
	assert.Equal(t, 0, stockRepo.stocks[stock.ID].Quantity)
}

func TestIncrementTx_RecomputesStatus(t *testing.T) {
	svc, stockRepo, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Wrench", "HW-004", 8)
	sup := seedSupplier(supplierRepo, "Acme Tools")
	stock := seedStock(stockRepo, p, sup.ID, 0, model.StockOutOfStock)

	updated, err := svc.IncrementTx(nil, stock.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)
	assert.Equal(t, model.StockInStock, updated.Status)
}

func TestIncrementTx_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _ := buildStockSvc(5)
	_, err := svc.IncrementTx(nil, uuid.New(), 0)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
	_, err = svc.DecrementTx(nil, uuid.New(), -1)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestAdjust_PreservesManualStatus(t *testing.T) {
	svc, stockRepo, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Ladder", "HW-005", 120)
	sup := seedSupplier(supplierRepo, "Acme Tools")
	stock := seedStock(stockRepo, p, sup.ID, 10, model.StockReserved)

	updated, err := svc.IncrementTx(nil, stock.ID, 5)
	require.NoError(t, err)
	// reserved is administrative; quantity writes never overwrite it.
	assert.Equal(t, model.StockReserved, updated.Status)
	assert.Equal(t, 15, updated.Quantity)
}

func TestUpdateStock_ClearManualStatus(t *testing.T) {
	svc, stockRepo, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Tape", "HW-006", 3)
	sup := seedSupplier(supplierRepo, "Acme Tools")
	stock := seedStock(stockRepo, p, sup.ID, 2, model.StockDamaged)

	// Setting in-stock explicitly clears the manual state; the derived value
	// (low-stock at quantity 2) takes over immediately.
	updated, err := svc.UpdateStock(context.Background(), stock.ID, dto.UpdateStockRequest{
		Status: model.StockInStock,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StockLowStock, updated.Status)
}

func TestFindForReceiptTx_NoRecord(t *testing.T) {
	svc, _, _, _ := buildStockSvc(5)
	_, err := svc.FindForReceiptTx(nil, uuid.New(), uuid.New())
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestExportStocks_ProducesWorkbook(t *testing.T) {
	svc, stockRepo, productRepo, supplierRepo := buildStockSvc(5)
	p := seedProduct(productRepo, "Chisel", "HW-007", 7)
	sup := seedSupplier(supplierRepo, "Acme Tools")
	seedStock(stockRepo, p, sup.ID, 9, model.StockInStock)

	data, err := svc.ExportStocks(context.Background())
	require.NoError(t, err)
	// xlsx files are zip archives; PK marks the header.
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

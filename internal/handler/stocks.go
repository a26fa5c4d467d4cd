package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/service"

	"github.com/gin-gonic/gin"
)

type StocksHandler struct{ svc service.StockService }

func NewStocksHandler(svc service.StockService) *StocksHandler { return &StocksHandler{svc: svc} }

func toStockResponse(s *model.Stock) dto.StockResponse {
	resp := dto.StockResponse{
		ID:          s.ID.String(),
		ProductID:   s.ProductID.String(),
		SupplierID:  s.SupplierID.String(),
		Quantity:    s.Quantity,
		Status:      s.Status,
		Description: s.Description,
	}
	if s.LocationID != nil {
		id := s.LocationID.String()
		resp.LocationID = &id
	}
	if s.Product != nil {
		resp.Product = s.Product.Name
	}
	if s.Supplier != nil {
		resp.Supplier = s.Supplier.Name
	}
	if s.Location != nil {
		resp.Location = s.Location.Name
	}
	return resp
}

// Create godoc
// @Summary      Create a stock ledger record
// @Description  One record per (product, supplier, location) tuple.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateStockRequest true "Ledger record"
// @Success      201  {object} dto.StockResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/stock/create-stock [post]
func (h *StocksHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	stock, err := h.svc.CreateStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStockResponse(stock))
}

func (h *StocksHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stock, err := h.svc.GetStock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStockResponse(stock))
}

func (h *StocksHandler) List(c *gin.Context) {
	var filter dto.StockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	stocks, total, err := h.svc.ListStocks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.StockListResponse{
		Data:  make([]dto.StockResponse, len(stocks)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range stocks {
		resp.Data[i] = toStockResponse(&stocks[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StocksHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	stock, err := h.svc.UpdateStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStockResponse(stock))
}

func (h *StocksHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteStock(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export godoc
// @Summary      Export the stock ledger as an Excel workbook
// @Tags         stock
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} binary
// @Router       /api/stock/export [get]
func (h *StocksHandler) Export(c *gin.Context) {
	data, err := h.svc.ExportStocks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("stock-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

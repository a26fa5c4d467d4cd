package handler

import (
	"net/http"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

func toSaleResponse(s *model.Sale) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:          s.ID.String(),
		CustomerID:  s.CustomerID.String(),
		Items:       make([]dto.SaleItemResponse, len(s.Items)),
		TotalAmount: s.TotalAmount,
		Discount:    s.Discount,
		Payment:     s.Payment,
		Balance:     s.TotalAmount.Sub(s.Payment),
		Status:      s.Status,
		SaleDate:    fmtDate(s.SaleDate),
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
	if s.Customer != nil {
		resp.Customer = s.Customer.Name
	}
	for i, it := range s.Items {
		item := dto.SaleItemResponse{
			ID:           it.ID.String(),
			StockID:      it.StockID.String(),
			ProductID:    it.ProductID.String(),
			Quantity:     it.Quantity,
			SellingPrice: it.SellingPrice,
			Subtotal:     it.SellingPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		if it.Product != nil {
			item.Product = it.Product.Name
		}
		resp.Items[i] = item
	}
	return resp
}

// Create godoc
// @Summary      Create a sale
// @Description  Prices are captured from the catalog at creation. A sale paid
// @Description  in full completes immediately and decrements stock atomically.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Sale details"
// @Success      201  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/sale/create-sale [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.CreateSale(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSaleResponse(sale))
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	sale, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleResponse(sale))
}

func (h *SalesHandler) List(c *gin.Context) {
	sales, err := h.svc.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		resp[i] = toSaleResponse(&sales[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Edit the header of a pending or partly-paid sale
// @Description  A discount change recomputes the total and re-derives the
// @Description  payment status; settling the payment completes the sale.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        saleId path string                true "Sale UUID"
// @Param        body   body dto.UpdateSaleRequest true "Fields to change"
// @Success      200  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/sale/update-sale/{saleId} [put]
func (h *SalesHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	var req dto.UpdateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.UpdateSale(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleResponse(sale))
}

func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	if err := h.svc.DeleteSale(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItems godoc
// @Summary      Add items to a pending or partly-paid sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        saleId path string                  true "Sale UUID"
// @Param        body   body dto.AddSaleItemsRequest true "Items to add"
// @Success      200  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/sale/{saleId}/add-items [post]
func (h *SalesHandler) AddItems(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	var req dto.AddSaleItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.AddItems(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleResponse(sale))
}

// RemoveItem detaches one line item; the total and status are re-derived.
func (h *SalesHandler) RemoveItem(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "saleItemId")
	if !ok {
		return
	}
	sale, err := h.svc.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleResponse(sale))
}

// RecordPayment godoc
// @Summary      Record a customer payment
// @Description  Settling the full total completes the sale and decrements stock.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        saleId path string                       true "Sale UUID"
// @Param        body   body dto.RecordSalePaymentRequest true "Amount"
// @Success      200  {object} dto.SaleResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/sale/record-payment/{saleId} [post]
func (h *SalesHandler) RecordPayment(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	var req dto.RecordSalePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleResponse(sale))
}

// Complete godoc
// @Summary      Complete a sale
// @Description  Requires the balance to be settled; decrements stock atomically.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        saleId path string true "Sale UUID"
// @Success      200  {object} dto.SaleResponse
// @Failure      402  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/sale/complete-sale/{saleId} [put]
func (h *SalesHandler) Complete(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	sale, err := h.svc.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleResponse(sale))
}

// UpdateStatus handles the side transitions: delivered and cancelled.
func (h *SalesHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	var req dto.UpdateSaleStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleResponse(sale))
}

// GetCustomer returns the buyer on a sale.
func (h *SalesHandler) GetCustomer(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	customer, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// GetProducts returns the distinct products on a sale.
func (h *SalesHandler) GetProducts(c *gin.Context) {
	id, ok := pathUUID(c, "saleId")
	if !ok {
		return
	}
	products, err := h.svc.GetProducts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = toProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, resp)
}

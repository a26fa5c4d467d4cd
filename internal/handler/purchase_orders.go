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

type PurchaseOrdersHandler struct{ svc service.PurchaseOrderService }

func NewPurchaseOrdersHandler(svc service.PurchaseOrderService) *PurchaseOrdersHandler {
	return &PurchaseOrdersHandler{svc: svc}
}

func fmtDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toPurchaseOrderResponse(po *model.PurchaseOrder) dto.PurchaseOrderResponse {
	resp := dto.PurchaseOrderResponse{
		ID:                   po.ID.String(),
		SupplierID:           po.SupplierID.String(),
		Items:                make([]dto.PurchaseItemResponse, len(po.Items)),
		TotalAmount:          po.TotalAmount,
		PaidAmount:           po.PaidAmount,
		Status:               po.Status,
		ExpectedDeliveryDate: fmtDate(po.ExpectedDeliveryDate),
		ReceivedDate:         fmtDate(po.ReceivedDate),
		CreatedAt:            po.CreatedAt.Format(time.RFC3339),
	}
	if po.Supplier != nil {
		resp.Supplier = po.Supplier.Name
	}
	for i, it := range po.Items {
		item := dto.PurchaseItemResponse{
			ID:              it.ID.String(),
			ProductID:       it.ProductID.String(),
			Quantity:        it.Quantity,
			PurchasingPrice: it.PurchasingPrice,
			Subtotal:        it.PurchasingPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		if it.Product != nil {
			item.Product = it.Product.Name
		}
		resp.Items[i] = item
	}
	return resp
}

// Create godoc
// @Summary      Create a purchase order
// @Description  Starts in draft; the total is computed from the submitted items.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePurchaseOrderRequest true "Order details"
// @Success      201  {object} dto.PurchaseOrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/purchaseOrder/create-purchase-order [post]
func (h *PurchaseOrdersHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	po, err := h.svc.CreatePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPurchaseOrderResponse(po))
}

func (h *PurchaseOrdersHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	po, err := h.svc.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

func (h *PurchaseOrdersHandler) List(c *gin.Context) {
	orders, err := h.svc.ListPurchaseOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.PurchaseOrderResponse, len(orders))
	for i := range orders {
		resp[i] = toPurchaseOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Edit a purchase order header
// @Description  The supplier can only change on a draft; the total is always
// @Description  re-derived from the current items.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        purchaseOrderId path string                         true "Purchase order UUID"
// @Param        body            body dto.UpdatePurchaseOrderRequest true "Fields to change"
// @Success      200  {object} dto.PurchaseOrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/purchaseOrder/update-purchase-order/{purchaseOrderId} [put]
func (h *PurchaseOrdersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	var req dto.UpdatePurchaseOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	po, err := h.svc.UpdatePurchaseOrder(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

func (h *PurchaseOrdersHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	if err := h.svc.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItems godoc
// @Summary      Add items to a draft purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        purchaseOrderId path string                      true "Purchase order UUID"
// @Param        body            body dto.AddPurchaseItemsRequest true "Items to add"
// @Success      200  {object} dto.PurchaseOrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/purchaseOrder/{purchaseOrderId}/add-items [post]
func (h *PurchaseOrdersHandler) AddItems(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	var req dto.AddPurchaseItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	po, err := h.svc.AddItems(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

// RemoveItem detaches one line item from a draft order.
func (h *PurchaseOrdersHandler) RemoveItem(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "purchaseItemId")
	if !ok {
		return
	}
	po, err := h.svc.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

// UpdateStatus drives the explicit lifecycle transitions (approve, order,
// cancel). Payment-derived statuses and receiving have their own endpoints.
func (h *PurchaseOrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	var req dto.UpdatePurchaseOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	po, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

// RecordPayment godoc
// @Summary      Record a supplier payment
// @Description  Moves the order to partly-paid or paid; overpayment is rejected.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        purchaseOrderId path string                           true "Purchase order UUID"
// @Param        body            body dto.RecordPurchasePaymentRequest true "Amount"
// @Success      200  {object} dto.PurchaseOrderResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/purchaseOrder/record-payment/{purchaseOrderId} [post]
func (h *PurchaseOrdersHandler) RecordPayment(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	var req dto.RecordPurchasePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	po, err := h.svc.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

// Complete godoc
// @Summary      Receive a paid purchase order
// @Description  Marks the order received and increments stock atomically.
// @Tags         purchase-orders
// @Produce      json
// @Security     BearerAuth
// @Param        purchaseOrderId path string true "Purchase order UUID"
// @Success      200  {object} dto.PurchaseOrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/purchaseOrder/complete-purchase-order/{purchaseOrderId} [put]
func (h *PurchaseOrdersHandler) Complete(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	po, err := h.svc.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseOrderResponse(po))
}

// GetSupplier returns the supplier of an order.
func (h *PurchaseOrdersHandler) GetSupplier(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
	if !ok {
		return
	}
	supplier, err := h.svc.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSupplierResponse(supplier))
}

// GetProducts returns the distinct products on an order.
func (h *PurchaseOrdersHandler) GetProducts(c *gin.Context) {
	id, ok := pathUUID(c, "purchaseOrderId")
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

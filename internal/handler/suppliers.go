package handler

import (
	"net/http"

	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/service"

	"github.com/gin-gonic/gin"
)

type SuppliersHandler struct{ svc service.SupplierService }

func NewSuppliersHandler(svc service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{svc: svc}
}

func toSupplierResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Address: s.Address,
		Contact: s.Contact,
		Email:   s.Email,
	}
}

// Create godoc
// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSupplierRequest true "Supplier details"
// @Success      201  {object} dto.SupplierResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/supplier/create-supplier [post]
func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	supplier, err := h.svc.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSupplierResponse(supplier))
}

func (h *SuppliersHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
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

func (h *SuppliersHandler) List(c *gin.Context) {
	suppliers, err := h.svc.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = toSupplierResponse(&suppliers[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	supplier, err := h.svc.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSupplierResponse(supplier))
}

func (h *SuppliersHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

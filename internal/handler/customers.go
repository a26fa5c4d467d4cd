package handler

import (
	"net/http"

	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

func toCustomerResponse(cu *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        cu.ID.String(),
		Name:      cu.Name,
		ContactNo: cu.ContactNo,
		Email:     cu.Email,
		Address:   cu.Address,
	}
}

func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
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

func (h *CustomersHandler) List(c *gin.Context) {
	customers, err := h.svc.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = toCustomerResponse(&customers[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomersHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/service"

	"github.com/gin-gonic/gin"
)

// Brand, category and location handlers. The three expose the same named-record
// CRUD shape under their own route groups.

type BrandsHandler struct{ svc service.BrandService }

func NewBrandsHandler(svc service.BrandService) *BrandsHandler { return &BrandsHandler{svc: svc} }

func toBrandResponse(b *model.Brand) dto.NamedRecordResponse {
	return dto.NamedRecordResponse{ID: b.ID.String(), Name: b.Name, Description: b.Description}
}

func (h *BrandsHandler) Create(c *gin.Context) {
	var req dto.CreateNamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	brand, err := h.svc.CreateBrand(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBrandResponse(brand))
}

func (h *BrandsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	brand, err := h.svc.GetBrand(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBrandResponse(brand))
}

func (h *BrandsHandler) List(c *gin.Context) {
	brands, err := h.svc.ListBrands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.NamedRecordResponse, len(brands))
	for i := range brands {
		resp[i] = toBrandResponse(&brands[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BrandsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	brand, err := h.svc.UpdateBrand(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBrandResponse(brand))
}

func (h *BrandsHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBrand(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func toCategoryResponse(cat *model.Category) dto.NamedRecordResponse {
	return dto.NamedRecordResponse{ID: cat.ID.String(), Name: cat.Name, Description: cat.Description}
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateNamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

func (h *CategoriesHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	category, err := h.svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h *CategoriesHandler) List(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.NamedRecordResponse, len(categories))
	for i := range categories {
		resp[i] = toCategoryResponse(&categories[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	category, err := h.svc.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(category))
}

func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type LocationsHandler struct{ svc service.LocationService }

func NewLocationsHandler(svc service.LocationService) *LocationsHandler {
	return &LocationsHandler{svc: svc}
}

func toLocationResponse(l *model.Location) dto.NamedRecordResponse {
	return dto.NamedRecordResponse{ID: l.ID.String(), Name: l.Name, Description: l.Description}
}

func (h *LocationsHandler) Create(c *gin.Context) {
	var req dto.CreateNamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	location, err := h.svc.CreateLocation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLocationResponse(location))
}

func (h *LocationsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	location, err := h.svc.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLocationResponse(location))
}

func (h *LocationsHandler) List(c *gin.Context) {
	locations, err := h.svc.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.NamedRecordResponse, len(locations))
	for i := range locations {
		resp[i] = toLocationResponse(&locations[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LocationsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	location, err := h.svc.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLocationResponse(location))
}

func (h *LocationsHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLocation(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

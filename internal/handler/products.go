package handler

import (
	"net/http"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		SKU:           p.SKU,
		BrandID:       p.BrandID.String(),
		Description:   p.Description,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		ImageURL:      p.ImageURL,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		resp.CategoryID = &id
	}
	if p.Brand != nil {
		resp.Brand = p.Brand.Name
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
	}
	return resp
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product details"
// @Success      201  {object} dto.ProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/product/create-product [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	product, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// List godoc
// @Summary      List products
// @Description  Paginated, filterable by name, SKU, brand and category.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name        query string false "Substring match on name"
// @Param        sku         query string false "Exact SKU"
// @Param        brand_id    query string false "Brand UUID"
// @Param        category_id query string false "Category UUID"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Records per page (default 50)"
// @Success      200  {object} dto.ProductListResponse
// @Router       /api/product/get-products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	products, total, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data[i] = toProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	product, err := h.svc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Price godoc
// @Summary      Price check by SKU
// @Description  Cached lookup for point-of-sale price displays.
// @Tags         products
// @Produce      json
// @Param        sku path string true "Product SKU"
// @Success      200  {object} dto.PriceResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/product/price/{sku} [get]
func (h *ProductsHandler) Price(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		c.JSON(http.StatusBadRequest, apierror.New("sku is required"))
		return
	}
	resp, err := h.svc.GetPriceBySKU(c.Request.Context(), sku)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

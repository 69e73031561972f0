package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService *catalogapp.Service) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get a product by slug
// @Tags         products
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{slug} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	resp, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        filter query catalogapp.ProductListFilter false "List filter"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	responses, total, err := h.catalogService.ListProducts(c.Request.Context(), &filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, responses, total, page, pageSize)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListProperties godoc
// @Summary      List a product's properties
// @Tags         products
// @Produce      json
// @Param        slug path string true "Product slug"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductPropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{slug}/properties [get]
func (h *ProductHandler) ListProperties(c *gin.Context) {
	resp, err := h.catalogService.ListProperties(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddProperty godoc
// @Summary      Attach a property value to a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        slug path string true "Product slug"
// @Param        request body catalogapp.AddPropertyRequest true "Property request"
// @Success      201 {object} dto.Response{data=catalogapp.ProductPropertyResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{slug}/properties [post]
func (h *ProductHandler) AddProperty(c *gin.Context) {
	var req catalogapp.AddPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.catalogService.AddProperty(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateProperty godoc
// @Summary      Change the value of a product property
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        slug path string true "Product slug"
// @Param        id path string true "Product property ID"
// @Param        request body catalogapp.UpdatePropertyRequest true "Property update request"
// @Success      200 {object} dto.Response{data=catalogapp.ProductPropertyResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{slug}/properties/{id} [put]
func (h *ProductHandler) UpdateProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product property ID")
		return
	}

	var req catalogapp.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.catalogService.UpdateProperty(c.Request.Context(), c.Param("slug"), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveProperty godoc
// @Summary      Detach a product property
// @Tags         products
// @Param        slug path string true "Product slug"
// @Param        id path string true "Product property ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{slug}/properties/{id} [delete]
func (h *ProductHandler) RemoveProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product property ID")
		return
	}

	if err := h.catalogService.RemoveProperty(c.Request.Context(), c.Param("slug"), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetStock godoc
// @Summary      Replenish a variant's stock
// @Tags         products
// @Accept       json
// @Param        id path string true "Variant ID"
// @Param        request body catalogapp.SetStockRequest true "Stock request"
// @Success      204
// @Security     BearerAuth
// @Router       /variants/{id}/stock [post]
func (h *ProductHandler) SetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	var req catalogapp.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.catalogService.SetStock(c.Request.Context(), id, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	returnsapp "github.com/storefront/backend/internal/application/returns"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ReturnsHandler handles return authorization and exchange API endpoints
type ReturnsHandler struct {
	BaseHandler
	returnsService *returnsapp.Service
}

// NewReturnsHandler creates a new ReturnsHandler
func NewReturnsHandler(returnsService *returnsapp.Service) *ReturnsHandler {
	return &ReturnsHandler{returnsService: returnsService}
}

// Create godoc
// @Summary      Open a return authorization
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body returnsapp.CreateReturnAuthorizationRequest true "RMA request"
// @Success      201 {object} dto.Response{data=returnsapp.ReturnAuthorizationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /return-authorizations [post]
func (h *ReturnsHandler) Create(c *gin.Context) {
	var req returnsapp.CreateReturnAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.returnsService.CreateReturnAuthorization(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get a return authorization with its items
// @Tags         returns
// @Produce      json
// @Param        number path string true "RMA number"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /return-authorizations/{number} [get]
func (h *ReturnsHandler) Get(c *gin.Context) {
	rma, items, err := h.returnsService.GetReturnAuthorization(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"return_authorization": rma, "items": items})
}

// List godoc
// @Summary      List return authorizations
// @Tags         returns
// @Produce      json
// @Param        filter query returnsapp.ReturnAuthorizationListFilter false "List filter"
// @Success      200 {object} dto.Response{data=[]returnsapp.ReturnAuthorizationResponse}
// @Router       /return-authorizations [get]
func (h *ReturnsHandler) List(c *gin.Context) {
	var filter returnsapp.ReturnAuthorizationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	responses, total, err := h.returnsService.ListReturnAuthorizations(c.Request.Context(), &filter)
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

// Cancel godoc
// @Summary      Cancel a return authorization
// @Tags         returns
// @Produce      json
// @Param        number path string true "RMA number"
// @Success      200 {object} dto.Response{data=returnsapp.ReturnAuthorizationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /return-authorizations/{number}/cancel [put]
func (h *ReturnsHandler) Cancel(c *gin.Context) {
	resp, err := h.returnsService.CancelReturnAuthorization(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateItems godoc
// @Summary      Register return items under an RMA
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        number path string true "RMA number"
// @Param        request body returnsapp.CreateReturnItemsRequest true "Return items request"
// @Success      201 {object} dto.Response{data=[]returnsapp.ReturnItemResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /return-authorizations/{number}/items [post]
func (h *ReturnsHandler) CreateItems(c *gin.Context) {
	var req returnsapp.CreateReturnItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.returnsService.CreateReturnItems(c.Request.Context(), c.Param("number"), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// EligibleVariants godoc
// @Summary      List the variants a return item can be exchanged into
// @Tags         returns
// @Produce      json
// @Param        id path string true "Return item ID"
// @Success      200 {object} dto.Response{data=[]returnsapp.ExchangeVariantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /return-items/{id}/eligible-variants [get]
func (h *ReturnsHandler) EligibleVariants(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return item ID")
		return
	}

	resp, err := h.returnsService.EligibleExchangeVariants(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PreviewExchange godoc
// @Summary      Preview the exchange for a set of return items
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body returnsapp.PerformExchangeRequest true "Exchange request"
// @Success      200 {object} dto.Response{data=returnsapp.ExchangePreviewResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /exchanges/preview [post]
func (h *ReturnsHandler) PreviewExchange(c *gin.Context) {
	var req returnsapp.PerformExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.returnsService.PreviewExchange(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PerformExchange godoc
// @Summary      Perform the exchange for a set of return items
// @Tags         returns
// @Accept       json
// @Produce      json
// @Param        request body returnsapp.PerformExchangeRequest true "Exchange request"
// @Success      201 {object} dto.Response{data=returnsapp.ExchangeResultResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /exchanges [post]
func (h *ReturnsHandler) PerformExchange(c *gin.Context) {
	var req returnsapp.PerformExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.returnsService.PerformExchange(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

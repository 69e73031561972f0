package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles order and checkout API endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Create godoc
// @Summary      Create a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body checkoutapp.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req checkoutapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkoutService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get an order by number
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{number} [get]
func (h *CheckoutHandler) Get(c *gin.Context) {
	resp, err := h.checkoutService.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        filter query checkoutapp.OrderListFilter false "List filter"
// @Success      200 {object} dto.Response{data=[]checkoutapp.OrderResponse}
// @Router       /orders [get]
func (h *CheckoutHandler) List(c *gin.Context) {
	var filter checkoutapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	responses, total, err := h.checkoutService.List(c.Request.Context(), &filter)
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

// AddLineItem godoc
// @Summary      Add a line item to an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        number path string true "Order number"
// @Param        request body checkoutapp.AddLineItemRequest true "Line item request"
// @Success      200 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{number}/line-items [post]
func (h *CheckoutHandler) AddLineItem(c *gin.Context) {
	var req checkoutapp.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.checkoutService.AddLineItem(c.Request.Context(), c.Param("number"), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddPayment godoc
// @Summary      Attach a payment to an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        number path string true "Order number"
// @Param        request body checkoutapp.AddPaymentRequest false "Payment request"
// @Success      200 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Router       /orders/{number}/payments [post]
func (h *CheckoutHandler) AddPayment(c *gin.Context) {
	var req checkoutapp.AddPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	resp, err := h.checkoutService.AddPayment(c.Request.Context(), c.Param("number"), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Advance godoc
// @Summary      Advance an order one checkout step
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{number}/advance [put]
func (h *CheckoutHandler) Advance(c *gin.Context) {
	resp, err := h.checkoutService.Advance(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete godoc
// @Summary      Advance an order through checkout until completion
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{number}/complete [put]
func (h *CheckoutHandler) Complete(c *gin.Context) {
	resp, err := h.checkoutService.Complete(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel a completed order
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{number}/cancel [put]
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	resp, err := h.checkoutService.Cancel(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Resume godoc
// @Summary      Resume a canceled order
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=checkoutapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{number}/resume [put]
func (h *CheckoutHandler) Resume(c *gin.Context) {
	resp, err := h.checkoutService.Resume(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

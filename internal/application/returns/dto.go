package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/returns"
)

// CreateReturnAuthorizationRequest opens an RMA against a completed order
type CreateReturnAuthorizationRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
	Memo        string `json:"memo" binding:"max=500"`
}

// CreateReturnItemsRequest registers inventory units of an order for return
// under an existing RMA. An item carrying an exchange variant becomes part
// of an exchange instead of a refund.
type CreateReturnItemsRequest struct {
	Items []CreateReturnItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateReturnItemInput is one inventory unit to return, optionally with the
// replacement variant the customer wants instead
type CreateReturnItemInput struct {
	InventoryUnitID   uuid.UUID  `json:"inventory_unit_id" binding:"required"`
	ExchangeVariantID *uuid.UUID `json:"exchange_variant_id"`
}

// PerformExchangeRequest executes the exchange for the given return items
type PerformExchangeRequest struct {
	ReturnItemIDs []uuid.UUID `json:"return_item_ids" binding:"required,min=1"`
}

// ReturnAuthorizationListFilter represents filter options for the RMA list
type ReturnAuthorizationListFilter struct {
	Search   string `form:"search"`
	State    string `form:"state"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// ReturnAuthorizationResponse is the API shape of an RMA
type ReturnAuthorizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	OrderID   uuid.UUID `json:"order_id"`
	State     string    `json:"state"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReturnItemResponse is the API shape of a return item
type ReturnItemResponse struct {
	ID                    uuid.UUID         `json:"id"`
	ReturnAuthorizationID *uuid.UUID        `json:"return_authorization_id,omitempty"`
	InventoryUnitID       uuid.UUID         `json:"inventory_unit_id"`
	VariantID             uuid.UUID         `json:"variant_id"`
	ExchangeVariantID     *uuid.UUID        `json:"exchange_variant_id,omitempty"`
	Amount                decimal.Decimal   `json:"amount"`
	AcceptanceStatus      string            `json:"acceptance_status"`
	EligibilityErrors     map[string]string `json:"eligibility_errors,omitempty"`
	ExchangeProcessed     bool              `json:"exchange_processed"`
}

// ExchangeVariantResponse is one variant a return item may be exchanged into
type ExchangeVariantResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	OptionsText string          `json:"options_text"`
}

// ExchangePreviewResponse describes an exchange before it is performed
type ExchangePreviewResponse struct {
	Description   string               `json:"description"`
	DisplayAmount string               `json:"display_amount"`
	Items         []ReturnItemResponse `json:"items"`
}

// ExchangeResultResponse reports the shipment created by a performed exchange
type ExchangeResultResponse struct {
	ShipmentID     uuid.UUID            `json:"shipment_id"`
	ShipmentNumber string               `json:"shipment_number"`
	ShipmentState  string               `json:"shipment_state"`
	Items          []ReturnItemResponse `json:"items"`
}

// ToReturnAuthorizationResponse maps an RMA to its API shape
func ToReturnAuthorizationResponse(rma *returns.ReturnAuthorization) ReturnAuthorizationResponse {
	return ReturnAuthorizationResponse{
		ID:        rma.ID,
		Number:    rma.Number,
		OrderID:   rma.OrderID,
		State:     string(rma.State),
		Memo:      rma.Memo,
		CreatedAt: rma.CreatedAt,
	}
}

// ToReturnItemResponse maps a return item to its API shape
func ToReturnItemResponse(item *returns.ReturnItem) ReturnItemResponse {
	return ReturnItemResponse{
		ID:                    item.ID,
		ReturnAuthorizationID: item.ReturnAuthorizationID,
		InventoryUnitID:       item.InventoryUnitID,
		VariantID:             item.VariantID,
		ExchangeVariantID:     item.ExchangeVariantID,
		Amount:                item.Amount,
		AcceptanceStatus:      string(item.AcceptanceStatus),
		EligibilityErrors:     item.EligibilityErrors,
		ExchangeProcessed:     item.ExchangeProcessed,
	}
}

// ToExchangeVariantResponse maps a variant to the exchange option shape
func ToExchangeVariantResponse(v *catalog.Variant) ExchangeVariantResponse {
	return ExchangeVariantResponse{
		ID:          v.ID,
		SKU:         v.SKU,
		Price:       v.Price,
		OptionsText: v.OptionsText(),
	}
}

func toReturnItemResponses(items []*returns.ReturnItem) []ReturnItemResponse {
	responses := make([]ReturnItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToReturnItemResponse(item)
	}
	return responses
}

package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// CreateOrderRequest starts a new cart
type CreateOrderRequest struct {
	Email string                `json:"email" binding:"required,email"`
	Items []CreateLineItemInput `json:"items"`
}

// CreateLineItemInput is one variant and quantity in a create request
type CreateLineItemInput struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// AddLineItemRequest puts a variant into an existing cart
type AddLineItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// AddPaymentRequest attaches a payment covering the outstanding balance
type AddPaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search   string `form:"search"`
	State    string `form:"state"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// LineItemResponse is the API shape of a line item
type LineItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
}

// ShipmentResponse is the API shape of a shipment
type ShipmentResponse struct {
	ID     uuid.UUID       `json:"id"`
	Number string          `json:"number"`
	State  string          `json:"state"`
	Cost   decimal.Decimal `json:"cost"`
}

// PaymentResponse is the API shape of a payment
type PaymentResponse struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	State  string          `json:"state"`
}

// OrderResponse is the API shape of an order
type OrderResponse struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"number"`
	Email         string             `json:"email"`
	GuestToken    string             `json:"guest_token,omitempty"`
	State         string             `json:"state"`
	PaymentState  string             `json:"payment_state"`
	ShipmentState string             `json:"shipment_state,omitempty"`
	ItemTotal     decimal.Decimal    `json:"item_total"`
	ShipTotal     decimal.Decimal    `json:"ship_total"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	PaymentTotal  decimal.Decimal    `json:"payment_total"`
	DisplayTotal  string             `json:"display_total"`
	LineItems     []LineItemResponse `json:"line_items"`
	Shipments     []ShipmentResponse `json:"shipments"`
	Payments      []PaymentResponse  `json:"payments"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	CanceledAt    *time.Time         `json:"canceled_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToOrderResponse maps an order aggregate to its API shape
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.LineItems))
	for i, li := range o.LineItems {
		items[i] = LineItemResponse{
			ID:        li.ID,
			VariantID: li.VariantID,
			Quantity:  li.Quantity,
			Price:     li.Price,
			Amount:    li.Amount,
		}
	}

	shipments := make([]ShipmentResponse, len(o.Shipments))
	for i, s := range o.Shipments {
		shipments[i] = ShipmentResponse{
			ID:     s.ID,
			Number: s.Number,
			State:  string(s.State),
			Cost:   s.Cost,
		}
	}

	payments := make([]PaymentResponse, len(o.Payments))
	for i, p := range o.Payments {
		payments[i] = PaymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			State:  string(p.State),
		}
	}

	return OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		Email:         o.Email,
		GuestToken:    o.GuestToken,
		State:         string(o.State),
		PaymentState:  string(o.PaymentState),
		ShipmentState: string(o.ShipmentState),
		ItemTotal:     o.ItemTotal,
		ShipTotal:     o.ShipTotal,
		TaxTotal:      o.TaxTotal,
		Total:         o.Total,
		PaymentTotal:  o.PaymentTotal,
		DisplayTotal:  o.GetTotalMoney().Display(),
		LineItems:     items,
		Shipments:     shipments,
		Payments:      payments,
		CompletedAt:   o.CompletedAt,
		CanceledAt:    o.CanceledAt,
		CreatedAt:     o.CreatedAt,
	}
}

package returns

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReturnAuthorizationState is the lifecycle state of an RMA
type ReturnAuthorizationState string

const (
	ReturnAuthorizationAuthorized ReturnAuthorizationState = "authorized"
	ReturnAuthorizationCanceled   ReturnAuthorizationState = "canceled"
)

// ReturnAuthorization is the RMA credential a customer obtains before
// returning merchandise
type ReturnAuthorization struct {
	shared.BaseAggregateRoot
	Number  string
	OrderID uuid.UUID
	State   ReturnAuthorizationState
	Memo    string
}

// NewReturnAuthorization creates an authorized RMA for an order
func NewReturnAuthorization(number string, orderID uuid.UUID, memo string) (*ReturnAuthorization, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_RMA_NUMBER", "Return authorization number cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}

	return &ReturnAuthorization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		OrderID:           orderID,
		State:             ReturnAuthorizationAuthorized,
		Memo:              memo,
	}, nil
}

// Cancel revokes the authorization
func (ra *ReturnAuthorization) Cancel() error {
	if ra.State == ReturnAuthorizationCanceled {
		return shared.NewDomainError("INVALID_STATE", "Return authorization is already canceled")
	}
	ra.State = ReturnAuthorizationCanceled
	ra.Touch()
	return nil
}

// Active reports whether the RMA can still back a return
func (ra *ReturnAuthorization) Active() bool {
	return ra.State == ReturnAuthorizationAuthorized
}

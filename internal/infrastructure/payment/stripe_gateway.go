// Package payment adapts external payment gateways to the order domain's
// payment ports.
package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"go.uber.org/zap"
)

// StripeGateway implements order.PaymentProcessor against Stripe payment
// intents. Amounts are converted to cents; every payment carries the order
// number in its metadata for reconciliation.
type StripeGateway struct {
	captureOnOrder bool
	logger         *zap.Logger
}

// NewStripeGateway creates the gateway and installs the API key. With
// captureOnOrder the intent is captured on confirmation; otherwise funds are
// authorized first and captured in a second call.
func NewStripeGateway(apiKey string, captureOnOrder bool, logger *zap.Logger) (*StripeGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe: API key is required")
	}
	stripe.Key = apiKey
	return &StripeGateway{captureOnOrder: captureOnOrder, logger: logger}, nil
}

// ProcessPayments captures every valid pending payment on the order. The
// first failure marks that payment failed and aborts; already completed
// payments are skipped.
func (g *StripeGateway) ProcessPayments(ctx context.Context, o *order.Order) error {
	for i := range o.Payments {
		p := &o.Payments[i]
		if !p.Valid() || p.State == order.PaymentStatusCompleted {
			continue
		}

		intent, err := g.createAndConfirmIntent(ctx, o, p)
		if err != nil {
			if failErr := p.Fail(); failErr != nil {
				g.logger.Warn("Could not mark payment failed",
					zap.String("payment_id", p.ID.String()), zap.Error(failErr))
			}
			g.logger.Error("Payment capture failed",
				zap.String("order_number", o.Number),
				zap.String("payment_id", p.ID.String()),
				zap.Error(err))
			return err
		}

		if err := p.Complete(); err != nil {
			return err
		}
		p.GatewayPaymentID = intent.ID

		g.logger.Info("Payment captured",
			zap.String("order_number", o.Number),
			zap.String("payment_id", p.ID.String()),
			zap.String("intent_id", intent.ID))
	}

	o.RecalculateTotals()
	if !o.PaymentRequired() {
		o.PaymentState = order.PaymentStatePaid
	}
	return nil
}

func (g *StripeGateway) createAndConfirmIntent(ctx context.Context, o *order.Order, p *order.Payment) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(p.Amount)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Confirm:  stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.Metadata = map[string]string{
		"order_number": o.Number,
		"payment_id":   p.ID.String(),
	}
	if !g.captureOnOrder {
		params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to capture payment: %w", err)
	}

	if !g.captureOnOrder && intent.Status == stripe.PaymentIntentStatusRequiresCapture {
		captureParams := &stripe.PaymentIntentCaptureParams{}
		captureParams.Context = ctx
		intent, err = paymentintent.Capture(intent.ID, captureParams)
		if err != nil {
			return nil, fmt.Errorf("stripe: failed to capture payment: %w", err)
		}
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("stripe: payment intent %s ended in status %s", intent.ID, intent.Status)
	}
	return intent, nil
}

// CancelPayments refunds every captured payment of a canceled order. The
// state machine voids the payments afterwards; payments never captured have
// nothing to return.
func (g *StripeGateway) CancelPayments(ctx context.Context, o *order.Order) error {
	for i := range o.Payments {
		p := &o.Payments[i]
		if p.State != order.PaymentStatusCompleted || p.GatewayPaymentID == "" {
			continue
		}
		if err := g.Refund(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Refund returns a captured payment to the customer, used after an order
// with completed payments is canceled
func (g *StripeGateway) Refund(ctx context.Context, p *order.Payment) error {
	if p.GatewayPaymentID == "" {
		return fmt.Errorf("stripe: payment %s has no gateway reference", p.ID)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(p.GatewayPaymentID),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe: failed to refund payment %s: %w", p.ID, err)
	}

	g.logger.Info("Payment refunded",
		zap.String("payment_id", p.ID.String()),
		zap.String("intent_id", p.GatewayPaymentID))
	return nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

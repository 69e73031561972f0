// Package notification delivers customer-facing order notifications.
package notification

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
	"go.uber.org/zap"
)

// Mailer sends customer-facing order email
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, o *order.Order) error
	SendCancelation(ctx context.Context, o *order.Order) error
}

// LogMailer records outgoing mail in the log instead of delivering it.
// Deployments plug a real provider in behind the Mailer interface; the
// default keeps development and tests free of SMTP.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mailer")}
}

// SendOrderConfirmation logs the confirmation that would be sent
func (m *LogMailer) SendOrderConfirmation(_ context.Context, o *order.Order) error {
	m.logger.Info("Order confirmation email",
		zap.String("order_number", o.Number),
		zap.String("email", o.Email),
		zap.String("total", o.GetTotalMoney().Display()))
	return nil
}

// SendCancelation logs the cancelation notice that would be sent
func (m *LogMailer) SendCancelation(_ context.Context, o *order.Order) error {
	m.logger.Info("Order cancelation email",
		zap.String("order_number", o.Number),
		zap.String("email", o.Email))
	return nil
}

// OrderNotifier adapts a Mailer to the order lifecycle hooks: it finalizes
// completed orders and dispatches cancelation notices
type OrderNotifier struct {
	mailer Mailer
	logger *zap.Logger
}

// NewOrderNotifier creates an OrderNotifier
func NewOrderNotifier(mailer Mailer, logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{mailer: mailer, logger: logger}
}

// Finalize freezes the order's totals and sends the confirmation. Runs at
// most once per order, on its first completion.
func (n *OrderNotifier) Finalize(ctx context.Context, o *order.Order) error {
	o.RecalculateTotals()
	if err := n.mailer.SendOrderConfirmation(ctx, o); err != nil {
		return err
	}
	n.logger.Info("Order finalized",
		zap.String("order_number", o.Number),
		zap.String("total", o.GetTotalMoney().Display()))
	return nil
}

// NotifyCancel sends the cancelation notice
func (n *OrderNotifier) NotifyCancel(ctx context.Context, o *order.Order) error {
	return n.mailer.SendCancelation(ctx, o)
}

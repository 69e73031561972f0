package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogger records every published domain event to the structured log.
// It subscribes as a wildcard handler.
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger creates the audit log handler
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// Handle writes one audit line per event
func (a *AuditLogger) Handle(_ context.Context, evt shared.DomainEvent) error {
	a.logger.Info("Domain event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
		zap.Time("occurred_at", evt.OccurredAt()),
	)
	return nil
}

// EventTypes returns no types, subscribing the logger to all events
func (a *AuditLogger) EventTypes() []string {
	return nil
}

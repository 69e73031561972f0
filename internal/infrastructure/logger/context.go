package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// OrderNumberKey is the context key for the order being operated on
	OrderNumberKey contextKey = "order_number"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithOrderNumber adds the order number to context and returns the enriched
// logger
func WithOrderNumber(ctx context.Context, logger *zap.Logger, number string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, OrderNumberKey, number)
	enriched := logger.With(zap.String("order_number", number))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetOrderNumber retrieves the order number from context
func GetOrderNumber(ctx context.Context) string {
	if number, ok := ctx.Value(OrderNumberKey).(string); ok {
		return number
	}
	return ""
}

// L returns a logger from the given context enriched with the request ID
// and order number when present.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if requestID := GetRequestID(ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if number := GetOrderNumber(ctx); number != "" {
		l = l.With(zap.String("order_number", number))
	}
	return l
}

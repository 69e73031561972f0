package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps the request in an otelgin server span named after the route
// pattern. After the handlers run it marks 4xx and 5xx responses as span
// errors and tags the span with the request ID when one is present.
func Tracing(serviceName string) gin.HandlerFunc {
	base := otelgin.Middleware(serviceName)

	return func(c *gin.Context) {
		// otelgin runs the rest of the chain before returning
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		if requestID := c.GetString(RequestIDKey); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
	}
}

// SpanPanicNotifier records a recovered handler panic on the request span.
// It plugs into Recovery; with tracing disabled the span is a no-op and
// nothing is recorded.
func SpanPanicNotifier(recovered any, c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	span.RecordError(fmt.Errorf("panic: %v", recovered))
	span.SetStatus(codes.Error, "handler panic")
}

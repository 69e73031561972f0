package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func setupTracingEngine(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(Tracing("storefront-test"))
	return engine, recorder
}

func TestTracing(t *testing.T) {
	t.Run("successful request records a span with the request id", func(t *testing.T) {
		engine, recorder := setupTracingEngine(t)
		engine.GET("/orders/:number", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"number": c.Param("number")})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/R123456789", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status().Code)

		foundRequestID := false
		for _, attr := range spans[0].Attributes() {
			if attr.Key == "request_id" && attr.Value.AsString() != "" {
				foundRequestID = true
			}
		}
		assert.True(t, foundRequestID)
	})

	t.Run("recovered panic is recorded on the span", func(t *testing.T) {
		engine, recorder := setupTracingEngine(t)
		engine.Use(Recovery(zap.NewNop(), SpanPanicNotifier))
		engine.GET("/orders/:number", func(c *gin.Context) {
			panic("order store unavailable")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/R123456789", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)

		foundException := false
		for _, event := range spans[0].Events() {
			if event.Name == "exception" {
				foundException = true
			}
		}
		assert.True(t, foundException, "expected the panic to be recorded as an exception event")
	})

	t.Run("error response marks the span", func(t *testing.T) {
		engine, recorder := setupTracingEngine(t)
		engine.GET("/orders/:number", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/R000000000", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()

	service := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "storefront-test",
	})

	router := gin.New()
	protected := router.Group("/admin")
	protected.Use(JWTAuth(service), RequireRole("admin"))
	protected.GET("/orders", func(c *gin.Context) {
		claims := GetClaims(c)
		c.String(http.StatusOK, claims.Subject)
	})
	return router, service
}

func TestJWTAuth(t *testing.T) {
	router, service := newAuthRouter(t)

	t.Run("rejects a request without a token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a valid token without the admin role", func(t *testing.T) {
		token, _, err := service.GenerateToken("clerk@example.com", "clerk")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admits an admin token", func(t *testing.T) {
		token, _, err := service.GenerateToken("admin@example.com", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin@example.com", w.Body.String())
	})
}

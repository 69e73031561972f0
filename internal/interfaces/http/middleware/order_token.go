package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
)

// orderTokenQuery is the query parameter carrying the guest order token
const orderTokenQuery = "order_token"

// OrderTokenResolver looks up the guest token guarding a single order
type OrderTokenResolver interface {
	OrderToken(ctx context.Context, number string) (string, error)
}

// OrderTokenAuth guards order-scoped storefront endpoints. A request passes
// with a valid JWT bearer token, or with an order_token query parameter
// matching the guest token of the order named in the route. The token grants
// access to that order only.
func OrderTokenAuth(resolver OrderTokenResolver, service *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader(authHeaderKey); strings.HasPrefix(header, bearerPrefix) {
			if claims, err := service.ValidateToken(strings.TrimPrefix(header, bearerPrefix)); err == nil {
				c.Set(ClaimsKey, claims)
				c.Next()
				return
			}
		}

		token := c.Query(orderTokenQuery)
		if token == "" {
			abortUnauthorized(c, "Missing order token")
			return
		}

		expected, err := resolver.OrderToken(c.Request.Context(), c.Param("number"))
		if err != nil || expected == "" || expected != token {
			abortUnauthorized(c, "Invalid order token")
			return
		}

		c.Next()
	}
}

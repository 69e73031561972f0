package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// adminRole is the role required on admin-only endpoints
const adminRole = "admin"

// Config carries the handlers and services the router wires together
type Config struct {
	Checkout    *handler.CheckoutHandler
	Returns     *handler.ReturnsHandler
	Products    *handler.ProductHandler
	JWT         *auth.JWTService
	OrderTokens middleware.OrderTokenResolver
}

// Setup registers all API routes on the engine. Order-scoped storefront
// endpoints require the order's guest token; catalog management, stock and
// order administration sit behind the admin JWT.
func Setup(engine *gin.Engine, cfg Config) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	orders := api.Group("/orders")
	orders.POST("", cfg.Checkout.Create)

	// guest access to a single order requires its token, admins pass by JWT
	guarded := orders.Group("/:number", middleware.OrderTokenAuth(cfg.OrderTokens, cfg.JWT))
	{
		guarded.GET("", cfg.Checkout.Get)
		guarded.POST("/line-items", cfg.Checkout.AddLineItem)
		guarded.POST("/payments", cfg.Checkout.AddPayment)
		guarded.PUT("/advance", cfg.Checkout.Advance)
		guarded.PUT("/complete", cfg.Checkout.Complete)
	}

	returns := api.Group("/return-authorizations")
	{
		returns.POST("", cfg.Returns.Create)
		returns.GET("/:number", cfg.Returns.Get)
		returns.PUT("/:number/cancel", cfg.Returns.Cancel)
		returns.POST("/:number/items", cfg.Returns.CreateItems)
	}

	api.GET("/return-items/:id/eligible-variants", cfg.Returns.EligibleVariants)
	api.POST("/exchanges/preview", cfg.Returns.PreviewExchange)
	api.POST("/exchanges", cfg.Returns.PerformExchange)

	api.GET("/products", cfg.Products.List)
	api.GET("/products/:slug", cfg.Products.Get)
	api.GET("/products/:slug/properties", cfg.Products.ListProperties)

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(cfg.JWT), middleware.RequireRole(adminRole))
	{
		admin.GET("/orders", cfg.Checkout.List)
		admin.PUT("/orders/:number/cancel", cfg.Checkout.Cancel)
		admin.PUT("/orders/:number/resume", cfg.Checkout.Resume)

		admin.GET("/return-authorizations", cfg.Returns.List)

		admin.POST("/products", cfg.Products.Create)
		admin.DELETE("/products/:id", cfg.Products.Delete)
		admin.POST("/products/:slug/properties", cfg.Products.AddProperty)
		admin.PUT("/products/:slug/properties/:id", cfg.Products.UpdateProperty)
		admin.DELETE("/products/:slug/properties/:id", cfg.Products.RemoveProperty)
		admin.POST("/variants/:id/stock", cfg.Products.SetStock)
	}
}

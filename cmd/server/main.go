package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	returnsapp "github.com/storefront/backend/internal/application/returns"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/returns"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/strategy/pricing"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected")

	if cfg.Tracing.Enabled {
		if err := telemetry.RegisterDBTracing(db.DB, cfg.Database.DBName); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
		log.Info("Database tracing enabled")
	}

	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	rmaRepo := persistence.NewGormReturnAuthorizationRepository(db.DB)
	returnItemRepo := persistence.NewGormReturnItemRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	siblingFinder := persistence.NewGormSiblingFinder(db.DB)
	txManager := persistence.NewTxManager(db.DB)

	// Checkout collaborators
	shippingCalculator := pricing.NewTieredFlatRate(
		decimal.NewFromFloat(cfg.Shipping.BaseAmount),
		shippingTiers(cfg.Shipping.Tiers),
	)
	estimator, err := pricing.NewCalculatedEstimator(shippingCalculator)
	if err != nil {
		log.Fatal("Invalid shipping calculator configuration", zap.Error(err))
	}
	notifier := notification.NewOrderNotifier(notification.NewLogMailer(log), log)

	hooks := order.Hooks{
		Estimator: estimator,
		Finalizer: notifier,
		Restocker: checkoutapp.NewStockRestocker(stockRepo),
		Notifier:  notifier,
	}
	if cfg.Payment.StripeAPIKey != "" {
		gateway, err := payment.NewStripeGateway(cfg.Payment.StripeAPIKey, cfg.Payment.CaptureOnOrder, log)
		if err != nil {
			log.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
		hooks.Payments = gateway
		hooks.Canceler = gateway
	} else {
		// validate() requires the key in production
		log.Warn("Stripe API key not configured, payment capture disabled")
	}
	if cfg.Shipping.TaxRate > 0 {
		hooks.Tax = pricing.NewFlatRateTax(decimal.NewFromFloat(cfg.Shipping.TaxRate))
	}

	// Return eligibility chain
	validators := []returns.EligibilityValidator{
		returns.NewTimeSincePurchase(cfg.Returns.ReturnWindow()),
	}
	if cfg.Returns.RequireRMA {
		validators = append(validators, returns.RMARequired{})
	}
	eligibility := returns.NewDefaultEligibilityValidator(validators...)

	exchangeables := cache.NewEligibleVariantsCache(
		returns.NewSameOptionValue(siblingFinder, cfg.Returns.ExchangeOptionRestrictions...),
		redisClient,
		cfg.Returns.EligibleVariantsCacheTTL,
		log,
	)

	// Application services
	checkoutService := checkoutapp.NewService(orderRepo, variantRepo, stockRepo, txManager, hooks)
	returnsService := returnsapp.NewService(orderRepo, rmaRepo, returnItemRepo, variantRepo, stockRepo, txManager, eligibility, exchangeables)
	catalogService := catalogapp.NewService(productRepo, variantRepo, stockRepo)
	catalogService.SetExchangeCacheInvalidator(exchangeables)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogger(log))
	checkoutService.SetEventPublisher(eventBus)
	returnsService.SetEventPublisher(eventBus)
	catalogService.SetEventPublisher(eventBus)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.App.Name))
	}
	engine.Use(middleware.Recovery(log, middleware.SpanPanicNotifier))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Setup(engine, router.Config{
		Checkout:    handler.NewCheckoutHandler(checkoutService),
		Returns:     handler.NewReturnsHandler(returnsService),
		Products:    handler.NewProductHandler(catalogService),
		JWT:         jwtService,
		OrderTokens: checkoutService,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// shippingTiers converts the configured threshold to amount map into
// calculator tiers, skipping entries that do not parse as decimals
func shippingTiers(raw map[string]float64) []pricing.Tier {
	tiers := make([]pricing.Tier, 0, len(raw))
	for threshold, amount := range raw {
		t, err := decimal.NewFromString(threshold)
		if err != nil {
			continue
		}
		tiers = append(tiers, pricing.Tier{
			Threshold: t,
			Amount:    decimal.NewFromFloat(amount),
		})
	}
	return tiers
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cache"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/config"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/database"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/events"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/handler"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/middleware"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/repository"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/service"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/sse"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/worker"
	"github.com/DamianKursa/hvyt-ecom-sub000/pkg/woocommerce"
)

const (
	// eventTimeout bounds each post-order side effect.
	eventTimeout = 10 * time.Second
	// invalidAuthLimit failed token checks per minute are allowed per IP.
	invalidAuthLimit = 20
)

// main is the application entrypoint for the storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting storefront api")
	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Connect database
	db, err := database.Connect(ctx, &cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 4a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 4b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 5. Initialize store backend client and caches
	woo := woocommerce.NewClient(woocommerce.Config{
		BaseURL:        cfg.WooCommerce.BaseURL,
		ConsumerKey:    cfg.WooCommerce.ConsumerKey,
		ConsumerSecret: cfg.WooCommerce.ConsumerSecret,
		Timeout:        cfg.WooCommerce.Timeout,
	})
	catalogCache := cache.NewCatalogCache(redisClient, cfg.Cache.CatalogStaleTTL)
	cartSnapshots := cache.NewCartSnapshotStore(redisClient, cfg.Worker.CartRetention)
	idempotency := cache.NewIdempotencyStore(redisClient, cfg.Cache.IdempotencyTTL)

	// 6. Initialize repositories
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// 7. Initialize order event consumers
	hub := sse.NewHub()
	consumers := []events.Handler{
		sse.NewHubNotifier(hub),
		events.NewAddressSaver(woo),
	}
	var publisher *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic))
		consumers = append(consumers, publisher)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrderTopic).Msg("Kafka order publisher enabled")
	}
	dispatcher := events.NewDispatcher(eventTimeout, consumers...)

	// 8. Initialize services
	assembler := &checkout.Assembler{
		FreeShippingThreshold: cfg.Store.FreeShippingThreshold,
		CODMarkers:            cfg.Store.CODTitleMarkers,
	}
	catalogSvc := service.NewCatalogService(woo, catalogCache, cfg.Cache.CatalogStaticTTL, cfg.Cache.CatalogDynamicTTL)
	couponSvc := service.NewCouponService(woo)
	shippingSvc := service.NewShippingService(woo, catalogCache, assembler, cfg.Cache.CatalogStaticTTL)
	cartSvc := service.NewCartService(cartSnapshots, cartRepo, catalogSvc, couponSvc, cfg.Store.VATRate)
	checkoutSvc := service.NewCheckoutService(
		cartSvc, shippingSvc, assembler, woo, orderRepo, idempotency, dispatcher,
		service.CheckoutConfig{HomeCountry: cfg.Store.HomeCountry},
	)

	// 9. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"postgres":    db.PingContext,
			"redis":       redisClient.Ping,
			"woocommerce": woo.Ping,
		}),
		Product:  handler.NewProductHandler(catalogSvc),
		Cart:     handler.NewCartHandler(cartSvc),
		Checkout: handler.NewCheckoutHandler(cartSvc, shippingSvc, checkoutSvc),
		Admin:    handler.NewAdminHandler(hub, orderRepo),
	}

	// 10. Initialize middleware
	limiter := middleware.NewInvalidAuthRateLimiter(invalidAuthLimit, time.Minute)
	stopCleanup := make(chan struct{})
	go limiter.Cleanup(5*time.Minute, stopCleanup)
	jwtMw := middleware.NewJWTMiddleware(limiter)

	// 11. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 12. Start workers
	go worker.NewShippingSyncWorker(shippingSvc, cfg.Worker.ShippingSyncInterval).Start(ctx)
	go worker.NewCartPurgeWorker(cartRepo, cfg.Worker.CartPurgeInterval, cfg.Worker.CartRetention).Start(ctx)

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 15. Cancel context to stop workers
	cancel()
	close(stopCleanup)

	// 16. Shutdown HTTP server, then drain order events
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Order events still running at shutdown")
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka writer")
		}
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Admin    *handler.AdminHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Catalog
	products := router.Group("/v1/products")
	{
		products.GET("/:slug", handlers.Product.GetProduct)
		products.POST("/:slug/resolve", handlers.Product.Resolve)
		products.GET("/:slug/preselect", handlers.Product.Preselect)
	}

	// Cart (session bound, customer token optional)
	cart := router.Group("/v1/cart")
	cart.Use(middleware.CartSessionMiddleware(), jwtMiddleware.OptionalCustomer())
	{
		cart.GET("", handlers.Cart.Get)
		cart.DELETE("", handlers.Cart.Clear)
		cart.POST("/items", handlers.Cart.AddItem)
		cart.PATCH("/items/:key", handlers.Cart.ChangeQuantity)
		cart.DELETE("/items/:key", handlers.Cart.RemoveItem)
		cart.POST("/coupon", handlers.Cart.ApplyCoupon)
		cart.DELETE("/coupon", handlers.Cart.ClearCoupon)
		cart.POST("/reconcile", handlers.Cart.Reconcile)
	}

	// Checkout
	checkoutGroup := router.Group("/v1/checkout")
	checkoutGroup.Use(middleware.CartSessionMiddleware(), jwtMiddleware.OptionalCustomer())
	{
		checkoutGroup.GET("/shipping-methods", handlers.Checkout.ShippingMethods)
		checkoutGroup.GET("/payment-methods", handlers.Checkout.PaymentMethods)
		checkoutGroup.POST("", handlers.Checkout.PlaceOrder)
	}

	// Admin routes. The stream authenticates with a query token since
	// EventSource cannot send headers.
	admin := router.Group("/v1/admin")
	admin.GET("/orders/stream", handlers.Admin.Stream)
	admin.Use(jwtMiddleware.Admin())
	{
		admin.GET("/orders", handlers.Admin.ListOrders)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

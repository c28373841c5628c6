// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourbook/internal/auth"
	"tourbook/internal/availability"
	"tourbook/internal/cart"
	"tourbook/internal/catalog"
	"tourbook/internal/holds"
	"tourbook/internal/integration"
	"tourbook/internal/invoices"
	"tourbook/internal/notifications"
	"tourbook/internal/reservations"
	"tourbook/internal/shared/config"
	"tourbook/internal/shared/database"
	"tourbook/pkg/cache"
	"tourbook/pkg/logger"
	"tourbook/pkg/metrics"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher
	log       *logger.Logger

	// Shared services wired across route groups
	catalogService      catalog.Service
	availabilityService availability.Service
	invoiceService      invoices.Service
	bookingService      reservations.Service
	holdService         holds.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/metrics", metrics.Handler())

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupAvailabilityRoutes(api)
		r.setupBookingRoutes(api)
		r.setupInvoiceRoutes(api)
		r.setupCartRoutes(api)
		r.setupIntegrationRoutes(api)
	}
}

// HoldService exposes the hold manager so main can start the janitor.
func (r *Router) HoldService() holds.Service {
	return r.holdService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tourbook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tourbook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)

	auth.SetupAuthRoutes(rg, authController)
}

// setupCatalogRoutes configures the package catalog routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())

	var cacheService cache.Service
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.GetRedis())
	}

	r.catalogService = catalog.NewService(catalogRepo, cacheService, r.config.Redis.CatalogCacheTTL)
	catalogController := catalog.NewController(r.catalogService)

	catalog.SetupCatalogRoutes(rg, catalogController)
}

// setupAvailabilityRoutes configures the availability snapshot routes
func (r *Router) setupAvailabilityRoutes(rg *gin.RouterGroup) {
	ledgerRepo := availability.NewRepository(r.db.GetPostgreSQL())
	r.availabilityService = availability.NewService(ledgerRepo, r.catalogService, r.config.Booking.DefaultCapacity)
	availabilityController := availability.NewController(r.availabilityService)

	availability.SetupAvailabilityRoutes(rg, availabilityController)
}

// setupBookingRoutes configures checkout and reservation management routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	txManager := database.NewTxManager(r.db.GetPostgreSQL())
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	ledgerRepo := availability.NewRepository(r.db.GetPostgreSQL())
	invoiceRepo := invoices.NewRepository(r.db.GetPostgreSQL())

	r.invoiceService = invoices.NewService(invoiceRepo, r.config.Booking.TaxRate)
	r.bookingService = reservations.NewService(
		txManager,
		reservationRepo,
		ledgerRepo,
		r.catalogService,
		r.invoiceService,
		r.publisher,
		r.config.Booking,
		r.log,
	)
	bookingController := reservations.NewController(r.bookingService)

	reservations.SetupReservationRoutes(rg, bookingController)
}

// setupInvoiceRoutes configures invoice lookup routes
func (r *Router) setupInvoiceRoutes(rg *gin.RouterGroup) {
	invoiceController := invoices.NewController(r.invoiceService)
	invoices.SetupInvoiceRoutes(rg, invoiceController)
}

// setupCartRoutes configures the durable cart routes
func (r *Router) setupCartRoutes(rg *gin.RouterGroup) {
	txManager := database.NewTxManager(r.db.GetPostgreSQL())
	cartRepo := cart.NewRepository(r.db.GetPostgreSQL())
	cartService := cart.NewService(
		cartRepo,
		r.catalogService,
		r.availabilityService,
		r.bookingService,
		txManager,
		r.config.Booking.TaxRate,
	)
	cartController := cart.NewController(cartService)

	cart.SetupCartRoutes(rg, cartController)
}

// setupIntegrationRoutes configures the partner channel routes
func (r *Router) setupIntegrationRoutes(rg *gin.RouterGroup) {
	var store holds.Store
	if r.config.Booking.HoldStore == "redis" && r.db.Redis != nil {
		store = holds.NewRedisStore(r.db.GetRedis())
	} else {
		store = holds.NewMemoryStore()
	}

	r.holdService = holds.NewService(store, r.availabilityService, r.bookingService,
		r.config.Booking.HoldTTL, r.log)

	integrationController := integration.NewController(
		r.catalogService,
		r.availabilityService,
		r.holdService,
		r.bookingService,
		r.config.Booking.TaxRate,
	)

	integration.SetupIntegrationRoutes(rg, integrationController)
}

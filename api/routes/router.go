// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"tripvia/internal/auth"
	"tripvia/internal/bookings"
	"tripvia/internal/catalog"
	"tripvia/internal/notifications"
	"tripvia/internal/shared/config"
	"tripvia/internal/shared/database"
	"tripvia/pkg/cache"
	"tripvia/pkg/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tripvia/docs" // registers the generated swagger spec
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	// Services shared across modules
	catalogService      catalog.Service
	notificationService notifications.Service
	bookingService      bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded payment proofs are served straight from disk
	engine.Static("/uploads", r.config.Upload.Path)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Catalog routes must come before booking routes: the booking
		// service prices against the catalog service.
		r.setupCatalogRoutes(api)

		r.setupNotificationRoutes(api)

		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tripvia-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tripvia-backend",
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

	// The auth repository doubles as the user directory for the
	// notification module; wire notifications here so the dependency
	// is available before booking routes are set up.
	r.setupNotificationService(authRepo)
}

// setupNotificationService builds the notification service shared by the
// booking engine and the notification routes
func (r *Router) setupNotificationService(userDir notifications.UserDirectory) {
	notificationRepo := notifications.NewRepository(r.db.GetPostgreSQL())

	var producer notifications.Producer
	if r.config.Kafka.Enabled {
		p, err := notifications.NewKafkaProducer(r.config.Kafka)
		if err != nil {
			// Booking flow must not depend on Kafka being up
			producer = notifications.NopProducer{}
		} else {
			producer = p
		}
	} else {
		producer = notifications.NopProducer{}
	}

	r.notificationService = notifications.NewService(notificationRepo, producer, userDir)
}

// setupCatalogRoutes configures trip and travel catalog routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	catalogService := catalog.NewService(catalogRepo, r.config.Booking)

	if r.db.Redis != nil {
		catalogService.SetCacheService(cache.NewService(r.db.GetRedisClient()))
	}

	r.catalogService = catalogService

	catalogController := catalog.NewController(catalogService)
	catalog.SetupCatalogRoutes(rg, catalogController)
}

// setupNotificationRoutes configures in-app notification routes
func (r *Router) setupNotificationRoutes(rg *gin.RouterGroup) {
	notificationController := notifications.NewController(r.notificationService)
	notifications.SetupNotificationRoutes(rg, notificationController)
}

// setupBookingRoutes configures booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.catalogService, r.notificationService, r.config.Booking)
	r.bookingService = bookingService

	store := storage.NewFileStore(r.config.Upload.Path, "/uploads")
	bookingController := bookings.NewController(bookingService, store, r.config.Upload.MaxSize)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// BookingService exposes the booking service for background jobs
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

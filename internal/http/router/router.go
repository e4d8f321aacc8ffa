package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bygglink/quote-api/internal/config"
	"github.com/bygglink/quote-api/internal/database"
	"github.com/bygglink/quote-api/internal/http/handler"
	"github.com/bygglink/quote-api/internal/http/middleware"
	"github.com/bygglink/quote-api/internal/inventory"

	_ "github.com/bygglink/quote-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	inventoryClient   *inventory.Client
	rateLimiter       *middleware.RateLimiter
	quotationHandler  *handler.QuotationHandler
	salesOrderHandler *handler.SalesOrderHandler
	customerHandler   *handler.CustomerHandler
	productHandler    *handler.ProductHandler
	taxRateHandler    *handler.TaxRateHandler
	activityHandler   *handler.ActivityHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	inventoryClient *inventory.Client,
	rateLimiter *middleware.RateLimiter,
	quotationHandler *handler.QuotationHandler,
	salesOrderHandler *handler.SalesOrderHandler,
	customerHandler *handler.CustomerHandler,
	productHandler *handler.ProductHandler,
	taxRateHandler *handler.TaxRateHandler,
	activityHandler *handler.ActivityHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		inventoryClient:   inventoryClient,
		rateLimiter:       rateLimiter,
		quotationHandler:  quotationHandler,
		salesOrderHandler: salesOrderHandler,
		customerHandler:   customerHandler,
		productHandler:    productHandler,
		taxRateHandler:    taxRateHandler,
		activityHandler:   activityHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// Check inventory feed (optional dependency, never fails readiness)
		checks["inventory"] = rt.inventoryClient.HealthCheck(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Quotations
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", rt.quotationHandler.List)
			r.Post("/", rt.quotationHandler.Create)
			r.Get("/{id}", rt.quotationHandler.GetByID)
			r.Put("/{id}", rt.quotationHandler.Update)
			r.Delete("/{id}", rt.quotationHandler.Delete)

			// Lifecycle
			r.Post("/{id}/phase", rt.quotationHandler.ChangePhase)
			r.Post("/{id}/convert", rt.salesOrderHandler.ConvertQuotation)

			// Lines and items
			r.Post("/{id}/lines", rt.quotationHandler.AddLine)
			r.Put("/{id}/lines/{lineNumber}", rt.quotationHandler.UpdateLine)
			r.Delete("/{id}/lines/{lineNumber}", rt.quotationHandler.RemoveLine)
			r.Post("/{id}/lines/{lineNumber}/items", rt.quotationHandler.AddItem)
			r.Put("/{id}/lines/{lineNumber}/items/{itemCode}", rt.quotationHandler.UpdateItem)
			r.Delete("/{id}/lines/{lineNumber}/items/{itemCode}", rt.quotationHandler.RemoveItem)

			// Revisions
			r.Get("/{id}/revisions", rt.quotationHandler.ListRevisions)
			r.Get("/{id}/revisions/compare", rt.quotationHandler.CompareRevisions)
			r.Get("/{id}/revisions/{version}", rt.quotationHandler.GetRevision)

			// Activity trail
			r.Get("/{id}/activities", rt.quotationHandler.GetActivities)
		})

		// Sales orders
		r.Route("/sales-orders", func(r chi.Router) {
			r.Get("/", rt.salesOrderHandler.List)
			r.Get("/{id}", rt.salesOrderHandler.GetByID)
			r.Post("/{id}/status", rt.salesOrderHandler.UpdateStatus)
			r.Get("/{id}/activities", rt.salesOrderHandler.GetActivities)
		})

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", rt.customerHandler.List)
			r.Post("/", rt.customerHandler.Create)
			r.Get("/{id}", rt.customerHandler.GetByID)
			r.Put("/{id}", rt.customerHandler.Update)
			r.Delete("/{id}", rt.customerHandler.Delete)
			r.Get("/{id}/activities", rt.customerHandler.GetActivities)
		})

		// Products
		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.productHandler.List)
			r.Post("/", rt.productHandler.Create)
			r.Post("/sync", rt.productHandler.SyncPrices)
			r.Get("/code/{code}", rt.productHandler.GetByCode)
			r.Get("/{id}", rt.productHandler.GetByID)
			r.Put("/{id}", rt.productHandler.Update)
			r.Delete("/{id}", rt.productHandler.Delete)
		})

		// Tax rates
		r.Route("/tax-rates", func(r chi.Router) {
			r.Get("/", rt.taxRateHandler.List)
			r.Post("/", rt.taxRateHandler.Create)
			r.Get("/default", rt.taxRateHandler.GetDefault)
			r.Put("/{id}", rt.taxRateHandler.Update)
		})

		// Recent activity across all entities
		r.Get("/activities", rt.activityHandler.ListRecent)
	})

	return r
}

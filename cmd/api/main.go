package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bygglink/quote-api/docs"
	"github.com/bygglink/quote-api/internal/config"
	"github.com/bygglink/quote-api/internal/database"
	"github.com/bygglink/quote-api/internal/http/handler"
	"github.com/bygglink/quote-api/internal/http/middleware"
	"github.com/bygglink/quote-api/internal/http/router"
	"github.com/bygglink/quote-api/internal/inventory"
	"github.com/bygglink/quote-api/internal/jobs"
	"github.com/bygglink/quote-api/internal/logger"
	"github.com/bygglink/quote-api/internal/repository"
	"github.com/bygglink/quote-api/internal/service"
)

// @title Bygglink Quote API
// @version 1.0
// @description Quotation and sales order API with versioned pricing, revision history and inventory-fed product catalog

// @contact.name API Support
// @contact.email support@bygglink.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize inventory feed connection (optional, read-only)
	// The app continues without it if not configured
	var inventoryClient *inventory.Client
	if cfg.Inventory.Enabled {
		inventoryClient, err = inventory.NewClient(&cfg.Inventory, log)
		if err != nil {
			log.Warn("Inventory feed connection failed, continuing without it",
				zap.Error(err),
			)
		}
	} else {
		log.Info("Inventory feed not configured, skipping")
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	productRepo := repository.NewProductRepository(db)
	taxRateRepo := repository.NewTaxRateRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	customerService := service.NewCustomerService(customerRepo, log)
	quotationService := service.NewQuotationService(quotationRepo, revisionRepo, customerRepo, taxRateRepo, activityRepo, numberSequenceService, log)
	revisionService := service.NewRevisionService(revisionRepo, log)
	salesOrderService := service.NewSalesOrderService(salesOrderRepo, quotationRepo, activityRepo, numberSequenceService, log)
	productService := service.NewProductService(productRepo, log)
	if inventoryClient != nil {
		productService.SetInventoryClient(inventoryClient)
	}
	taxRateService := service.NewTaxRateService(taxRateRepo, log)
	activityService := service.NewActivityService(activityRepo, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	quotationHandler := handler.NewQuotationHandler(quotationService, revisionService, activityService, log)
	salesOrderHandler := handler.NewSalesOrderHandler(salesOrderService, activityService, log)
	customerHandler := handler.NewCustomerHandler(customerService, activityService, log)
	productHandler := handler.NewProductHandler(productService, log)
	taxRateHandler := handler.NewTaxRateHandler(taxRateService, log)
	activityHandler := handler.NewActivityHandler(activityService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		inventoryClient,
		rateLimiter,
		quotationHandler,
		salesOrderHandler,
		customerHandler,
		productHandler,
		taxRateHandler,
		activityHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.ExpiryEnabled || (cfg.Jobs.PriceSyncEnabled && inventoryClient.IsEnabled()) {
		scheduler = jobs.NewScheduler(log)

		if cfg.Jobs.ExpiryEnabled {
			if err := jobs.RegisterExpiryJob(
				scheduler,
				quotationService,
				log,
				cfg.Jobs.ExpiryCron,
				cfg.Jobs.TimeoutDuration(),
				cfg.Jobs.ExpiryOnStartup,
			); err != nil {
				log.Error("Failed to register expiry job", zap.Error(err))
			}
		}

		if cfg.Jobs.PriceSyncEnabled && inventoryClient.IsEnabled() {
			if err := jobs.RegisterPriceSyncJob(
				scheduler,
				productService,
				log,
				cfg.Jobs.PriceSyncCron,
				cfg.Jobs.TimeoutDuration(),
				cfg.Jobs.PriceSyncOnStartup,
			); err != nil {
				log.Error("Failed to register price sync job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.GetJobNames()),
		)
	} else {
		log.Info("Background jobs disabled",
			zap.Bool("expiry_enabled", cfg.Jobs.ExpiryEnabled),
			zap.Bool("price_sync_enabled", cfg.Jobs.PriceSyncEnabled),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close inventory connection if initialized
		if inventoryClient != nil {
			if err := inventoryClient.Close(); err != nil {
				log.Warn("Error closing inventory connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

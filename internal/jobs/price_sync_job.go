package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PriceSyncJobName is the name of the inventory price sync job
const PriceSyncJobName = "price_sync"

// ProductSyncService defines the interface for syncing product prices from
// the inventory feed.
type ProductSyncService interface {
	// SyncPrices pulls the article list from the inventory feed and upserts
	// feed-sourced products. Returns the number of products written.
	SyncPrices(ctx context.Context) (synced int, err error)
}

// PriceSyncJob refreshes catalog prices from the external inventory feed.
type PriceSyncJob struct {
	productService ProductSyncService
	logger         *zap.Logger
	timeout        time.Duration
}

// NewPriceSyncJob creates a new price sync job.
// The timeout controls how long the sync operation is allowed to run.
func NewPriceSyncJob(productService ProductSyncService, logger *zap.Logger, timeout time.Duration) *PriceSyncJob {
	return &PriceSyncJob{
		productService: productService,
		logger:         logger,
		timeout:        timeout,
	}
}

// Run executes the price sync job.
// This is called by the scheduler according to the cron expression.
func (j *PriceSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting inventory price sync job")

	synced, err := j.productService.SyncPrices(ctx)
	if err != nil {
		j.logger.Error("inventory price sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("inventory price sync job completed",
		zap.Int("synced", synced),
		zap.Duration("duration", time.Since(start)))
}

// RegisterPriceSyncJob registers the price sync job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 30 5 * * *" for 05:30 daily).
// If runOnStartup is true, one sync runs immediately in a background
// goroutine so it doesn't block API startup.
func RegisterPriceSyncJob(scheduler *Scheduler, productService ProductSyncService, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnStartup bool) error {
	job := NewPriceSyncJob(productService, logger, timeout)

	if runOnStartup {
		go job.Run()
	}

	return scheduler.AddJob(PriceSyncJobName, cronExpr, job.Run)
}

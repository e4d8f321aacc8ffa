package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiryJobName is the name of the quotation expiry job
const ExpiryJobName = "quotation_expiry"

// QuotationExpiryService defines the interface for expiring overdue quotations.
// This interface allows the job to call the service without importing the service package directly.
type QuotationExpiryService interface {
	// ExpireOverdue moves open and sent quotations whose validity date has
	// passed into the expired phase. Returns the number of quotations expired.
	ExpireOverdue(ctx context.Context) (expired int, err error)
}

// ExpiryJob moves quotations past their validity date into the expired phase.
type ExpiryJob struct {
	quotationService QuotationExpiryService
	logger           *zap.Logger
	timeout          time.Duration
}

// NewExpiryJob creates a new quotation expiry job.
// The timeout controls how long one expiry pass is allowed to run.
func NewExpiryJob(quotationService QuotationExpiryService, logger *zap.Logger, timeout time.Duration) *ExpiryJob {
	return &ExpiryJob{
		quotationService: quotationService,
		logger:           logger,
		timeout:          timeout,
	}
}

// Run executes one expiry pass.
// This is called by the scheduler according to the cron expression.
func (j *ExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	expired, err := j.quotationService.ExpireOverdue(ctx)
	if err != nil {
		j.logger.Error("quotation expiry job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("quotation expiry job completed",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterExpiryJob registers the quotation expiry job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 0 * * * *" for the top of every hour).
// If runOnStartup is true, one expiry pass runs immediately in a background
// goroutine so overdue quotations do not wait for the first cron fire.
func RegisterExpiryJob(scheduler *Scheduler, quotationService QuotationExpiryService, logger *zap.Logger, cronExpr string, timeout time.Duration, runOnStartup bool) error {
	job := NewExpiryJob(quotationService, logger, timeout)

	if runOnStartup {
		go job.Run()
	}

	return scheduler.AddJob(ExpiryJobName, cronExpr, job.Run)
}

// File: internal/jobs/order_expiry.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/billing"
	"github.com/shuvankardaspersonal/ai-photo-editor-pro/internal/config"
)

// OrderExpiryJob periodically expires orders left pending past the TTL, so
// abandoned checkouts cannot be captured later.
type OrderExpiryJob struct {
	billingService *billing.Service
	logger         *zap.Logger
	cfg            *config.Config
	cronScheduler  *cron.Cron
}

// NewOrderExpiryJob creates a new OrderExpiryJob.
func NewOrderExpiryJob(
	billingService *billing.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *OrderExpiryJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &OrderExpiryJob{
		billingService: billingService,
		logger:         logger.Named("OrderExpiryJob"),
		cfg:            cfg,
		cronScheduler:  scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *OrderExpiryJob) SetupAndStart() error {
	jobSpec := j.cfg.OrderExpiryJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Order expiry job schedule not defined (ORDER_EXPIRY_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule order expiry job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Order expiry job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *OrderExpiryJob) runJob() {
	j.logger.Info("Starting order expiry job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	expiredCount, err := j.billingService.ExpirePendingOrders(ctx)
	if err != nil {
		j.logger.Error("Order expiry job run failed", zap.Error(err))
	} else {
		j.logger.Info("Order expiry job run completed", zap.Int64("orders_expired", expiredCount))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *OrderExpiryJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping order expiry job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Order expiry job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Order expiry job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to the cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}

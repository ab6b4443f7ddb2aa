package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/printshop/backend/internal/application/finance"
	"github.com/printshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CronTriggerConfig holds the daily run time and how often to check for it
type CronTriggerConfig struct {
	Hour          int
	Minute        int
	CheckInterval time.Duration
	// Location is the zone Hour and Minute are read in
	Location *time.Location
}

// CronTriggerConfigFromConfig maps the scheduler section. The business
// timezone of the printing section decides when "01:00" is.
func CronTriggerConfigFromConfig(cfg *config.Config) CronTriggerConfig {
	loc, err := time.LoadLocation(cfg.Printing.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return CronTriggerConfig{
		Hour:          cfg.Scheduler.OverdueHour,
		Minute:        cfg.Scheduler.OverdueMinute,
		CheckInterval: cfg.Scheduler.CheckInterval,
		Location:      loc,
	}
}

// CronTrigger queues one overdue sweep per tenant once a day
type CronTrigger struct {
	config         CronTriggerConfig
	scheduler      *Scheduler
	tenantProvider finance.TenantProvider
	logger         *zap.Logger
	now            func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	cfg CronTriggerConfig,
	scheduler *Scheduler,
	tenantProvider finance.TenantProvider,
	logger *zap.Logger,
) *CronTrigger {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronTrigger{
		config:         cfg,
		scheduler:      scheduler,
		tenantProvider: tenantProvider,
		logger:         logger,
		now:            time.Now,
	}
}

// Start starts the check loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("overdue sweep trigger started",
		zap.Int("hour", c.config.Hour),
		zap.Int("minute", c.config.Minute),
		zap.String("timezone", c.config.Location.String()),
	)
	return nil
}

// Stop stops the check loop
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.cancel()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("overdue sweep trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires at most once per local date, on the first check at
// or after the configured time. A process started late in the day still
// sweeps that day.
func (c *CronTrigger) checkAndTrigger(ctx context.Context) bool {
	now := c.now().In(c.config.Location)
	today := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastRunDate == today {
		c.mu.Unlock()
		return false
	}
	scheduled := time.Date(now.Year(), now.Month(), now.Day(), c.config.Hour, c.config.Minute, 0, 0, c.config.Location)
	if now.Before(scheduled) {
		c.mu.Unlock()
		return false
	}
	c.lastRunDate = today
	c.mu.Unlock()

	c.TriggerNow(ctx, now)
	return true
}

// TriggerNow queues a sweep for every active tenant against asOf
func (c *CronTrigger) TriggerNow(ctx context.Context, asOf time.Time) int {
	tenantIDs, err := c.tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		c.logger.Error("failed to list tenants for overdue sweep", zap.Error(err))
		return 0
	}

	queued := 0
	for _, tenantID := range tenantIDs {
		if err := c.scheduler.ScheduleOverdueSweep(tenantID, asOf.UTC()); err != nil {
			c.logger.Error("failed to queue overdue sweep",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		queued++
	}

	c.logger.Info("overdue sweep queued", zap.Int("tenants", queued))
	return queued
}

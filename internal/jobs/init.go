package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"airspace-analytics/sectorcap/internal/config"
	"airspace-analytics/sectorcap/internal/logging"
)

// InitializeJobs schedules the background jobs and starts the scheduler.
// The periodic ingest only runs when ingest_cron is set. Stop the returned
// scheduler on shutdown.
func InitializeJobs(ctx context.Context, cfg *config.Config, health HealthChecker, ingest Ingester) (*cron.Cron, error) {
	c := cron.New()

	healthJob := NewModelHealthJob(health)
	if _, err := c.AddFunc(cfg.HealthCheckCron, func() { healthJob.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid health_check_cron %q: %w", cfg.HealthCheckCron, err)
	}
	logging.Info("Model health job scheduled", "schedule", cfg.HealthCheckCron)

	if cfg.IngestCron != "" {
		ingestJob := NewIngestJob(ingest)
		if _, err := c.AddFunc(cfg.IngestCron, func() { _ = ingestJob.Run(ctx) }); err != nil {
			return nil, fmt.Errorf("invalid ingest_cron %q: %w", cfg.IngestCron, err)
		}
		logging.Info("Periodic ingestion scheduled", "schedule", cfg.IngestCron)
	}

	c.Start()
	return c, nil
}

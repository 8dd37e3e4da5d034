package jobs

import (
	"context"
	"time"

	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/services"
)

type HealthChecker interface {
	Check(ctx context.Context) *dtos.ModelHealthReport
}

// ModelHealthJob refreshes the stored model health report
type ModelHealthJob struct {
	health HealthChecker
}

func NewModelHealthJob(health HealthChecker) *ModelHealthJob {
	return &ModelHealthJob{health: health}
}

func (j *ModelHealthJob) Run(ctx context.Context) *dtos.ModelHealthReport {
	start := time.Now()
	report := j.health.Check(ctx)

	fields := []interface{}{"verdict", report.Verdict, "duration_ms", time.Since(start).Milliseconds()}
	for _, m := range report.Models {
		fields = append(fields, m.Model, m.Status)
	}
	if report.Verdict == services.VerdictHealthy {
		logging.Info("Model health check finished", fields...)
	} else {
		logging.Warn("Model health check finished", fields...)
	}
	return report
}

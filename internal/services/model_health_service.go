package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

const (
	HealthGood     = "Good"
	HealthWarning  = "Warning"
	HealthCritical = "Critical"
	HealthError    = "Error"

	VerdictHealthy  = "Healthy"
	VerdictWarnings = "Warnings Detected"
	VerdictCritical = "Critical Issues"

	ModelDailyDemand  = "daily_demand"
	ModelSeasonal     = "seasonal_trend"
	ModelAirlineTrend = "airline_growth"
)

// gauge values of sectorcap_model_health_status
var healthLevels = map[string]float64{
	HealthGood:     0,
	HealthWarning:  1,
	HealthCritical: 2,
	HealthError:    3,
}

// ModelHealthService grades the in-sample fit of every forecaster and keeps
// the latest report for the status endpoint
type ModelHealthService struct {
	demand   DemandForecaster
	seasonal SeasonalForecaster
	airlines AirlineAnalyzer
	metrics  *metrics.MetricsRegistry
	now      func() time.Time

	latest atomic.Pointer[dtos.ModelHealthReport]
}

func NewModelHealthService(
	demand DemandForecaster,
	seasonal SeasonalForecaster,
	airlines AirlineAnalyzer,
	m *metrics.MetricsRegistry,
) *ModelHealthService {
	return &ModelHealthService{
		demand:   demand,
		seasonal: seasonal,
		airlines: airlines,
		metrics:  m,
		now:      time.Now,
	}
}

// Latest returns the last stored report, or nil before the first check
func (s *ModelHealthService) Latest() *dtos.ModelHealthReport {
	return s.latest.Load()
}

// Check runs every forecaster over the unfiltered data set. Sub-model
// failures become Error entries; Check itself never fails.
func (s *ModelHealthService) Check(ctx context.Context) *dtos.ModelHealthReport {
	now := s.now().UTC()
	report := &dtos.ModelHealthReport{CheckedAt: now}

	report.Models = append(report.Models, s.checkDemand(ctx))
	report.Models = append(report.Models, s.checkSeasonal(ctx, now.Year()))
	report.Models = append(report.Models, s.checkAirlines(ctx))

	report.Verdict = VerdictHealthy
	for _, m := range report.Models {
		switch m.Status {
		case HealthCritical, HealthError:
			report.Verdict = VerdictCritical
		case HealthWarning:
			if report.Verdict == VerdictHealthy {
				report.Verdict = VerdictWarnings
			}
		}
		s.metrics.SetModelHealth(m.Model, healthLevels[m.Status])
	}

	s.latest.Store(report)
	logging.Info("Model health checked", "verdict", report.Verdict)
	return report
}

func (s *ModelHealthService) checkDemand(ctx context.Context) dtos.ModelHealthEntry {
	forecast, err := s.demand.Forecast(ctx, 1, filters.FilterSpec{})
	if err != nil {
		return errorEntry(ModelDailyDemand, err)
	}
	return gradedEntry(ModelDailyDemand, "r2", forecast.AccuracyMetrics.R2, 0.7, 0.4)
}

func (s *ModelHealthService) checkSeasonal(ctx context.Context, year int) dtos.ModelHealthEntry {
	start := fmt.Sprintf("%d-01-01", year)
	end := fmt.Sprintf("%d-12-31", year)
	forecast, err := s.seasonal.Forecast(ctx, start, end, filters.FilterSpec{})
	if err != nil {
		return errorEntry(ModelSeasonal, err)
	}
	return gradedEntry(ModelSeasonal, "r2", forecast.AccuracyMetrics.R2, 0.6, 0.3)
}

func (s *ModelHealthService) checkAirlines(ctx context.Context) dtos.ModelHealthEntry {
	result, err := s.airlines.Analyze(ctx, defaultGrowthMonths, filters.FilterSpec{})
	if err != nil {
		return errorEntry(ModelAirlineTrend, err)
	}
	if len(result.Airlines) == 0 {
		return dtos.ModelHealthEntry{
			Model:   ModelAirlineTrend,
			Status:  HealthWarning,
			Metric:  "mean_r2",
			Message: "No airline data to fit",
		}
	}

	var total float64
	for _, a := range result.Airlines {
		total += a.R2
	}
	return gradedEntry(ModelAirlineTrend, "mean_r2", total/float64(len(result.Airlines)), 0.5, 0.25)
}

func gradedEntry(model, metric string, value, good, warning float64) dtos.ModelHealthEntry {
	e := dtos.ModelHealthEntry{Model: model, Metric: metric, Value: &value}
	switch {
	case value >= good:
		e.Status = HealthGood
	case value >= warning:
		e.Status = HealthWarning
		e.Message = fmt.Sprintf("%s %.2f is below %.2f", metric, value, good)
	default:
		e.Status = HealthCritical
		e.Message = fmt.Sprintf("%s %.2f is below %.2f", metric, value, warning)
	}
	return e
}

func errorEntry(model string, err error) dtos.ModelHealthEntry {
	logging.Warn("Model health sub-check failed", "model", model, "error", err.Error())
	return dtos.ModelHealthEntry{Model: model, Status: HealthError, Message: err.Error()}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/models/dtos"
)

type healthFixture struct {
	demandR2   float64
	seasonalR2 float64
	seasonErr  error
	airlineR2  []float64

	seasonalStart, seasonalEnd string
}

func (f *healthFixture) service() *ModelHealthService {
	demand := &mockDemand{
		forecastFunc: func(_ context.Context, daysAhead int, _ filters.FilterSpec) (*dtos.DemandForecast, error) {
			if daysAhead != 1 {
				return nil, errors.New("unexpected horizon")
			}
			return &dtos.DemandForecast{AccuracyMetrics: dtos.AccuracyMetrics{R2: f.demandR2}}, nil
		},
	}
	seasonal := &mockSeasonal{
		forecastFunc: func(_ context.Context, start, end string, _ filters.FilterSpec) (*dtos.SeasonalTrendForecast, error) {
			f.seasonalStart, f.seasonalEnd = start, end
			if f.seasonErr != nil {
				return nil, f.seasonErr
			}
			return &dtos.SeasonalTrendForecast{AccuracyMetrics: dtos.AccuracyMetrics{R2: f.seasonalR2}}, nil
		},
	}
	airlines := &mockAirlines{
		analyzeFunc: func(context.Context, int, filters.FilterSpec) (*dtos.AirlineGrowthResult, error) {
			out := &dtos.AirlineGrowthResult{}
			for _, r2 := range f.airlineR2 {
				out.Airlines = append(out.Airlines, dtos.AirlineTrend{R2: r2})
			}
			return out, nil
		},
	}
	svc := NewModelHealthService(demand, seasonal, airlines, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC) }
	return svc
}

func statuses(r *dtos.ModelHealthReport) map[string]string {
	out := map[string]string{}
	for _, m := range r.Models {
		out[m.Model] = m.Status
	}
	return out
}

func TestModelHealthService_Healthy(t *testing.T) {
	f := &healthFixture{demandR2: 0.92, seasonalR2: 0.75, airlineR2: []float64{0.9, 0.6}}
	svc := f.service()

	report := svc.Check(context.Background())

	assert.Equal(t, VerdictHealthy, report.Verdict)
	assert.Equal(t, map[string]string{ModelDailyDemand: HealthGood, ModelSeasonal: HealthGood, ModelAirlineTrend: HealthGood}, statuses(report))
	assert.Equal(t, "2025-01-01", f.seasonalStart)
	assert.Equal(t, "2025-12-31", f.seasonalEnd)
	assert.Same(t, report, svc.Latest())
}

func TestModelHealthService_Thresholds(t *testing.T) {
	f := &healthFixture{demandR2: 0.5, seasonalR2: 0.6, airlineR2: []float64{0.3, 0.2}}
	report := f.service().Check(context.Background())

	assert.Equal(t, VerdictWarnings, report.Verdict)
	got := statuses(report)
	assert.Equal(t, HealthWarning, got[ModelDailyDemand])
	assert.Equal(t, HealthGood, got[ModelSeasonal])
	assert.Equal(t, HealthWarning, got[ModelAirlineTrend])

	f = &healthFixture{demandR2: 0.39, seasonalR2: 0.29, airlineR2: []float64{0.1}}
	report = f.service().Check(context.Background())
	assert.Equal(t, VerdictCritical, report.Verdict)
	assert.Equal(t, map[string]string{ModelDailyDemand: HealthCritical, ModelSeasonal: HealthCritical, ModelAirlineTrend: HealthCritical}, statuses(report))
}

func TestModelHealthService_SubModelErrorIsCaptured(t *testing.T) {
	f := &healthFixture{demandR2: 0.9, seasonErr: errors.New("not enough history"), airlineR2: []float64{0.8}}
	report := f.service().Check(context.Background())

	require.Len(t, report.Models, 3)
	seasonal := report.Models[1]
	assert.Equal(t, HealthError, seasonal.Status)
	assert.Equal(t, "not enough history", seasonal.Message)
	assert.Nil(t, seasonal.Value)
	assert.Equal(t, VerdictCritical, report.Verdict)
}

func TestModelHealthService_NoAirlinesIsWarning(t *testing.T) {
	f := &healthFixture{demandR2: 0.9, seasonalR2: 0.9}
	report := f.service().Check(context.Background())

	assert.Equal(t, HealthWarning, statuses(report)[ModelAirlineTrend])
	assert.Equal(t, VerdictWarnings, report.Verdict)
}

func TestModelHealthService_LatestBeforeCheck(t *testing.T) {
	assert.Nil(t, (&healthFixture{}).service().Latest())
}

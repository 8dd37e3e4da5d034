package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/parsing"
	"airspace-analytics/sectorcap/internal/regression"
)

const (
	annualHarmonics  = 10
	weeklyHarmonics  = 3
	yearLength       = 365.25
	seasonalRidge    = 1.0
	maxSeasonalRange = 731
)

// SeasonalTrendService fits a harmonic regression (annual and weekly Fourier
// terms plus a linear trend) and projects it over an arbitrary date window.
type SeasonalTrendService struct {
	analytics
}

func NewSeasonalTrendService(sectors SectorStore, flights FlightAnalytics, cache *common.ResultCache, m *metrics.MetricsRegistry) *SeasonalTrendService {
	return &SeasonalTrendService{analytics: newAnalytics(flights, sectors, cache, m)}
}

type seasonalArgs struct {
	Start  string             `json:"start"`
	End    string             `json:"end"`
	Filter filters.FilterSpec `json:"filter"`
}

func (s *SeasonalTrendService) Forecast(ctx context.Context, start, end string, spec filters.FilterSpec) (result *dtos.SeasonalTrendForecast, err error) {
	began := time.Now()
	defer func() { s.observe("seasonal_trend", began, err) }()

	from, okFrom := parsing.ParseDate(start)
	to, okTo := parsing.ParseDate(end)
	if !okFrom || !okTo {
		return nil, common.NewCoreError(constants.ErrCodeInvalidFilter, "start and end must be valid dates", nil)
	}
	if to.Before(from) {
		return nil, common.NewCoreError(constants.ErrCodeInvalidFilter, "end must not be before start", nil)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > maxSeasonalRange {
		return nil, common.NewCoreError(constants.ErrCodeInvalidFilter,
			fmt.Sprintf("forecast window is limited to %d days", maxSeasonalRange), nil)
	}

	args := seasonalArgs{Start: from.Format(dayLayout), End: to.Format(dayLayout), Filter: spec}
	return common.Cached(s.cache, constants.CachePrefixSeasonal, args, func() (*dtos.SeasonalTrendForecast, error) {
		return s.forecast(ctx, from, to, spec)
	})
}

func (s *SeasonalTrendService) forecast(ctx context.Context, from, to time.Time, spec filters.FilterSpec) (*dtos.SeasonalTrendForecast, error) {
	where, err := s.builder.Build(ctx, spec)
	if err != nil {
		return nil, err
	}
	series, _, err := s.loadSeries(ctx, where)
	if err != nil {
		return nil, err
	}
	if series.len() < constants.MinSeasonalHistoryDays {
		return nil, common.NewCoreError(constants.ErrCodeInsufficientData,
			fmt.Sprintf("Need at least %d days of history, found %d", constants.MinSeasonalHistoryDays, series.len()), nil)
	}

	X := make([][]float64, series.len())
	for i := range X {
		X[i] = harmonicFeatures(series.date(i))
	}
	model, err := regression.FitRidge(X, series.values, seasonalRidge)
	if err != nil {
		return nil, err
	}

	fitted := make([]float64, len(X))
	for i, row := range X {
		fitted[i] = model.Predict(row)
	}
	fit := regression.Score(series.values, fitted)

	result := &dtos.SeasonalTrendForecast{
		StartDate: from.Format(dayLayout),
		EndDate:   to.Format(dayLayout),
		AccuracyMetrics: dtos.AccuracyMetrics{
			R2:           regression.Clip01(fit.R2),
			MAE:          fit.MAE,
			RMSE:         fit.RMSE,
			ResidualStd:  fit.ResidualStd,
			TrainingDays: series.len(),
			Model:        "harmonic ridge regression",
			Features:     harmonicFeatureNames(),
		},
		HistoryDays: series.len(),
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		value := math.Max(0, model.Predict(harmonicFeatures(d)))
		lower, upper := band(value, fit.ResidualStd)
		p := dtos.ForecastPoint{Date: d.Format(dayLayout), Value: value, Lower: lower, Upper: upper}
		result.Forecast = append(result.Forecast, p)
		result.TotalProjected += value
		if result.PeakDay == nil || value > result.PeakDay.Value {
			peak := p
			result.PeakDay = &peak
		}
	}

	result.MonthlyMeans, result.PeakMonth = monthlyMeans(series)

	logging.Debug("Seasonal trend fitted", "history_days", series.len(), "r2", result.AccuracyMetrics.R2, "rmse", fit.RMSE)
	return result, nil
}

// harmonicFeatures builds the annual and weekly Fourier terms and the trend
// term for one day. Both the phase and the trend run on days since the Unix
// epoch so history and future share one time axis.
func harmonicFeatures(d time.Time) []float64 {
	t := math.Floor(float64(d.Unix()) / 86400)
	x := make([]float64, 0, 2*annualHarmonics+2*weeklyHarmonics+1)
	for k := 1; k <= annualHarmonics; k++ {
		w := 2 * math.Pi * float64(k) * t / yearLength
		x = append(x, math.Sin(w), math.Cos(w))
	}
	for k := 1; k <= weeklyHarmonics; k++ {
		w := 2 * math.Pi * float64(k) * t / 7
		x = append(x, math.Sin(w), math.Cos(w))
	}
	return append(x, t)
}

func harmonicFeatureNames() []string {
	names := make([]string, 0, 2*annualHarmonics+2*weeklyHarmonics+1)
	for k := 1; k <= annualHarmonics; k++ {
		names = append(names, fmt.Sprintf("year_sin_%d", k), fmt.Sprintf("year_cos_%d", k))
	}
	for k := 1; k <= weeklyHarmonics; k++ {
		names = append(names, fmt.Sprintf("week_sin_%d", k), fmt.Sprintf("week_cos_%d", k))
	}
	return append(names, "trend")
}

// monthlyMeans averages the reindexed history per calendar month and returns
// the month with the largest mean; ties keep the earlier month.
func monthlyMeans(series dailySeries) (map[string]float64, string) {
	var sums, counts [12]float64
	for i, v := range series.values {
		m := series.date(i).Month() - 1
		sums[m] += v
		counts[m]++
	}

	means := make(map[string]float64, 12)
	peak, best := "", math.Inf(-1)
	for m := 0; m < 12; m++ {
		if counts[m] == 0 {
			continue
		}
		name := time.Month(m + 1).String()
		means[name] = sums[m] / counts[m]
		if means[name] > best {
			peak, best = name, means[name]
		}
	}
	return means, peak
}

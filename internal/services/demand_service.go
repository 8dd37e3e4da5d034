package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/parsing"
	"airspace-analytics/sectorcap/internal/regression"

	"gonum.org/v1/gonum/stat"
)

const (
	DemandModeStandard = "standard"
	DemandModeSeasonal = "seasonal"

	TrendIncreasing = "Increasing"
	TrendDecreasing = "Decreasing"
	TrendStable     = "Stable"

	maxDemandHorizon = 365
)

// candidate lags in feature order; a lag is used only when at least a week of
// rows remains after dropping the rows it leaves undefined
var demandLags = []int{1, 7, 14, 28}

// DemandService forecasts daily flight counts. Without a date window it rolls
// a bagged tree ensemble forward day by day; with both dates set it projects
// the same calendar window for the next season.
type DemandService struct {
	analytics
	forest regression.ForestConfig
}

func NewDemandService(
	sectors SectorStore,
	flights FlightAnalytics,
	cache *common.ResultCache,
	m *metrics.MetricsRegistry,
	forest regression.ForestConfig,
) *DemandService {
	return &DemandService{
		analytics: newAnalytics(flights, sectors, cache, m),
		forest:    forest,
	}
}

type demandArgs struct {
	DaysAhead int                `json:"days_ahead"`
	Filter    filters.FilterSpec `json:"filter"`
}

func (s *DemandService) Forecast(ctx context.Context, daysAhead int, spec filters.FilterSpec) (result *dtos.DemandForecast, err error) {
	start := time.Now()
	defer func() { s.observe("demand", start, err) }()

	if daysAhead < 1 || daysAhead > maxDemandHorizon {
		return nil, common.NewCoreError(constants.ErrCodeInvalidFilter,
			fmt.Sprintf("days_ahead must be between 1 and %d", maxDemandHorizon), nil)
	}

	args := demandArgs{DaysAhead: daysAhead, Filter: spec}
	return common.Cached(s.cache, constants.CachePrefixDemand, args, func() (*dtos.DemandForecast, error) {
		if spec.HasDateWindow() {
			return s.seasonal(ctx, spec)
		}
		return s.standard(ctx, daysAhead, spec)
	})
}

func (s *DemandService) standard(ctx context.Context, daysAhead int, spec filters.FilterSpec) (*dtos.DemandForecast, error) {
	where, err := s.builder.Build(ctx, spec)
	if err != nil {
		return nil, err
	}
	series, observed, err := s.loadSeries(ctx, where)
	if err != nil {
		return nil, err
	}
	if observed < constants.MinDemandHistoryDays {
		return nil, common.NewCoreError(constants.ErrCodeInsufficientData,
			fmt.Sprintf("Need at least %d days of history, found %d", constants.MinDemandHistoryDays, observed), nil)
	}

	lags := usableLags(series.len())
	maxLag := lags[len(lags)-1]

	X := make([][]float64, 0, series.len()-maxLag)
	y := make([]float64, 0, series.len()-maxLag)
	for i := maxLag; i < series.len(); i++ {
		X = append(X, demandFeatures(series.values, i, series.date(i), lags))
		y = append(y, series.values[i])
	}

	forest, err := regression.FitForest(X, y, s.forest)
	if err != nil {
		return nil, err
	}

	fitted := make([]float64, len(X))
	for i, row := range X {
		fitted[i] = forest.Predict(row)
	}
	fit := regression.Score(y, fitted)

	// recursive roll-out: predictions become the lags of later steps
	buf := append(make([]float64, 0, series.len()+daysAhead), series.values...)
	forecast := make([]dtos.ForecastPoint, 0, daysAhead)
	for step := 0; step < daysAhead; step++ {
		i := len(buf)
		d := series.date(i)
		m, std := forest.PredictStats(demandFeatures(buf, i, d, lags))
		value := math.Max(0, m)
		lower, upper := band(value, std)
		forecast = append(forecast, dtos.ForecastPoint{
			Date:  d.Format(dayLayout),
			Value: value,
			Lower: lower,
			Upper: upper,
		})
		buf = append(buf, value)
	}

	historyFrom := max(0, series.len()-constants.DemandHistoryWindow)
	history := make([]dtos.DailyPoint, 0, series.len()-historyFrom)
	for i := historyFrom; i < series.len(); i++ {
		history = append(history, dtos.DailyPoint{Date: series.date(i).Format(dayLayout), Value: series.values[i]})
	}

	result := &dtos.DemandForecast{
		Mode:     DemandModeStandard,
		History:  history,
		Forecast: forecast,
		AccuracyMetrics: dtos.AccuracyMetrics{
			R2:           fit.R2,
			MAE:          fit.MAE,
			RMSE:         fit.RMSE,
			TrainingDays: len(y),
			Model:        fmt.Sprintf("bagged regression trees (%d)", effectiveTrees(s.forest)),
			Features:     demandFeatureNames(lags),
		},
	}

	trailing := series.values[max(0, series.len()-7):]
	s.narrate(result, mean(trailing), daysAhead)

	logging.Debug("Demand forecast fitted", "training_days", len(y), "lags", lags, "r2", fit.R2)
	return result, nil
}

// usableLags keeps the candidate lags that leave at least 7 training rows
func usableLags(n int) []int {
	var lags []int
	for _, l := range demandLags {
		if l <= n-7 {
			lags = append(lags, l)
		}
	}
	return lags
}

func demandFeatures(values []float64, i int, d time.Time, lags []int) []float64 {
	x := make([]float64, 0, len(lags)+4)
	for _, l := range lags {
		x = append(x, values[i-l])
	}
	return append(x,
		float64(d.YearDay()),
		float64(d.Month()),
		float64(d.Year()),
		float64((int(d.Weekday())+6)%7),
	)
}

func demandFeatureNames(lags []int) []string {
	names := make([]string, 0, len(lags)+4)
	for _, l := range lags {
		names = append(names, "lag_"+strconv.Itoa(l))
	}
	return append(names, "doy", "month", "year", "dow")
}

func effectiveTrees(cfg regression.ForestConfig) int {
	if cfg.Trees <= 0 {
		return regression.DefaultForestConfig().Trees
	}
	return cfg.Trees
}

// narrate fills the trend label, peak day, projected total and summary.
// baseline is the mean daily count the forecast is compared against.
func (s *DemandService) narrate(result *dtos.DemandForecast, baseline float64, days int) {
	values := make([]float64, len(result.Forecast))
	for i, p := range result.Forecast {
		values[i] = p.Value
		if result.PeakDay == nil || p.Value > result.PeakDay.Value {
			peak := p
			result.PeakDay = &peak
		}
	}
	result.TotalProjected = sum(values)
	result.Trend = trendLabel(mean(values), baseline)

	if result.PeakDay == nil {
		result.Summary = "No forecast days requested"
		return
	}
	result.Summary = fmt.Sprintf("%.0f flights projected over %d days (%s); busiest day %s with %.0f flights",
		result.TotalProjected, days, result.Trend, result.PeakDay.Date, result.PeakDay.Value)
}

// trendLabel compares a projected mean with a baseline using a ±5% dead band
func trendLabel(projected, baseline float64) string {
	if baseline <= 0 {
		if projected > 0 {
			return TrendIncreasing
		}
		return TrendStable
	}
	switch ratio := projected / baseline; {
	case ratio > 1.05:
		return TrendIncreasing
	case ratio < 0.95:
		return TrendDecreasing
	}
	return TrendStable
}

// seasonal projects the MM-DD window of spec for the season after the last
// observed one: the typical day profile scaled by the annual growth trend.
func (s *DemandService) seasonal(ctx context.Context, spec filters.FilterSpec) (*dtos.DemandForecast, error) {
	startD, okStart := parsing.ParseDate(spec.StartDate)
	endD, okEnd := parsing.ParseDate(spec.EndDate)
	if !okStart || !okEnd {
		return nil, common.NewCoreError(constants.ErrCodeInvalidFilter, "start_date and end_date must be valid dates", nil)
	}

	where, err := s.builder.Build(ctx, spec, filters.Seasonal())
	if err != nil {
		return nil, err
	}
	counts, err := s.flights.DailyCounts(ctx, where)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, common.NewCoreError(constants.ErrCodeInsufficientData, "No history inside the seasonal window", nil)
	}

	window := newSeasonWindow(startD, endD)
	seasons := map[int]map[string]float64{}
	points := map[int][]dtos.DailyPoint{}
	for _, c := range counts {
		d, ok := parsing.ParseDate(c.Date)
		if !ok {
			continue
		}
		year := window.seasonOf(d)
		if seasons[year] == nil {
			seasons[year] = map[string]float64{}
		}
		seasons[year][d.Format("01-02")] += float64(c.Count)
		points[year] = append(points[year], dtos.DailyPoint{Date: d.Format(dayLayout), Value: float64(c.Count)})
	}

	years := make([]int, 0, len(seasons))
	for y := range seasons {
		years = append(years, y)
	}
	sort.Ints(years)

	xs := make([]float64, len(years))
	totals := make([]float64, len(years))
	result := &dtos.DemandForecast{
		Mode:              DemandModeSeasonal,
		HistoricalSeasons: make(map[string][]dtos.DailyPoint, len(years)),
		SeasonTotals:      make(map[string]float64, len(years)),
	}
	for i, y := range years {
		var total float64
		for _, v := range seasons[y] {
			total += v
		}
		xs[i], totals[i] = float64(y), total

		key := strconv.Itoa(y)
		sort.Slice(points[y], func(a, b int) bool { return points[y][a].Date < points[y][b].Date })
		result.HistoricalSeasons[key] = points[y]
		result.SeasonTotals[key] = total
	}

	trend, err := regression.FitTrend(xs, totals)
	if err != nil {
		return nil, err
	}
	target := max(years[len(years)-1]+1, startD.Year())
	predicted := math.Max(0, trend.At(float64(target)))
	historicalMean := mean(totals)
	growth := 1.0
	if historicalMean > 0 {
		growth = predicted / historicalMean
	}

	// typical day: mean and spread per MM-DD across seasons, absent days count as 0
	forecast := []dtos.ForecastPoint{}
	perDay := make([]float64, len(years))
	for d := window.startIn(target); !d.After(window.endIn(target)); d = d.AddDate(0, 0, 1) {
		md := d.Format("01-02")
		for i, y := range years {
			perDay[i] = seasons[y][md]
		}
		m, std := stat.PopMeanStdDev(perDay, nil)
		value := m * growth
		lower, upper := band(value, std*growth)
		forecast = append(forecast, dtos.ForecastPoint{Date: d.Format(dayLayout), Value: value, Lower: lower, Upper: upper})
	}

	result.Forecast = forecast
	result.History = result.HistoricalSeasons[strconv.Itoa(years[len(years)-1])]
	result.GrowthFactor = growth
	result.TargetYear = target
	result.AccuracyMetrics = dtos.AccuracyMetrics{
		R2:           trend.R2,
		TrainingDays: len(counts),
		Model:        "seasonal profile × annual linear trend",
		Features:     []string{"season_year"},
	}

	// the historical mean daily count of the window is the baseline
	s.narrate(result, historicalMean/float64(max(1, len(forecast))), len(forecast))
	logging.Debug("Seasonal demand projected", "seasons", len(years), "target_year", target, "growth_factor", growth)
	return result, nil
}

// seasonWindow is a month-day window that may wrap the year end
type seasonWindow struct {
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
	startMD    string
	wraps      bool
}

func newSeasonWindow(start, end time.Time) seasonWindow {
	w := seasonWindow{
		startMonth: start.Month(), startDay: start.Day(),
		endMonth: end.Month(), endDay: end.Day(),
		startMD: start.Format("01-02"),
	}
	w.wraps = end.Format("01-02") < w.startMD
	return w
}

// seasonOf returns the year in which the season containing d starts
func (w seasonWindow) seasonOf(d time.Time) int {
	if w.wraps && d.Format("01-02") < w.startMD {
		return d.Year() - 1
	}
	return d.Year()
}

func (w seasonWindow) startIn(year int) time.Time {
	return time.Date(year, w.startMonth, w.startDay, 0, 0, 0, 0, time.UTC)
}

func (w seasonWindow) endIn(year int) time.Time {
	if w.wraps {
		year++
	}
	return time.Date(year, w.endMonth, w.endDay, 0, 0, 0, 0, time.UTC)
}

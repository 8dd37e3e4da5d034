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
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/regression"
)

const (
	GrowthPositive = "Positive"
	GrowthNegative = "Negative"
	GrowthStable   = "Stable"

	MarketExpansion   = "Expansion"
	MarketContraction = "Contraction"
	MarketStability   = "Stability"

	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"

	defaultGrowthMonths = 12
	growthSlopeBand     = 0.5
)

// AirlineGrowthService fits a linear trend to the per-period volume of the
// busiest operators
type AirlineGrowthService struct {
	analytics
}

func NewAirlineGrowthService(sectors SectorStore, flights FlightAnalytics, cache *common.ResultCache, m *metrics.MetricsRegistry) *AirlineGrowthService {
	return &AirlineGrowthService{analytics: newAnalytics(flights, sectors, cache, m)}
}

type growthArgs struct {
	Months int                `json:"months"`
	Filter filters.FilterSpec `json:"filter"`
}

// Analyze trends the top operators over the last months periods. With both
// filter dates set the periods are season years instead of months.
func (s *AirlineGrowthService) Analyze(ctx context.Context, months int, spec filters.FilterSpec) (result *dtos.AirlineGrowthResult, err error) {
	start := time.Now()
	defer func() { s.observe("airline_growth", start, err) }()

	if months <= 0 {
		months = defaultGrowthMonths
	}
	return common.Cached(s.cache, constants.CachePrefixAirlineGrowth, growthArgs{Months: months, Filter: spec}, func() (*dtos.AirlineGrowthResult, error) {
		return s.analyze(ctx, months, spec)
	})
}

func (s *AirlineGrowthService) analyze(ctx context.Context, months int, spec filters.FilterSpec) (*dtos.AirlineGrowthResult, error) {
	yearly := spec.HasDateWindow()
	var opts []filters.Option
	result := &dtos.AirlineGrowthResult{Period: PeriodMonthly, Airlines: []dtos.AirlineTrend{}, Periods: []string{}}
	if yearly {
		opts = append(opts, filters.Seasonal())
		result.Period = PeriodYearly
	}

	where, err := s.builder.Build(ctx, spec, opts...)
	if err != nil {
		return nil, err
	}
	top, err := s.flights.TopAirlines(ctx, where, constants.TopAirlines)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		result.MarketState = MarketStability
		result.Message = "No airline data matches the filter"
		return result, nil
	}

	stats, err := s.flights.DurationStats(ctx, where)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(top))
	for i, a := range top {
		names[i] = a.Airline
	}
	counts, err := s.flights.AirlinePeriodCounts(ctx, where, names, yearly)
	if err != nil {
		return nil, err
	}

	byAirline := make(map[string]map[string]float64, len(top))
	var periods []string
	for _, c := range counts {
		if byAirline[c.Airline] == nil {
			byAirline[c.Airline] = map[string]float64{}
		}
		byAirline[c.Airline][c.Period] += float64(c.Count)
		periods = append(periods, c.Period)
	}

	result.Periods = contiguousPeriods(periods, yearly)
	if !yearly && len(result.Periods) > months {
		result.Periods = result.Periods[len(result.Periods)-months:]
	}

	xs := make([]float64, len(result.Periods))
	for i := range xs {
		xs[i] = float64(i)
	}

	for _, a := range top {
		series := make([]float64, len(result.Periods))
		points := make([]dtos.DailyPoint, len(result.Periods))
		for i, p := range result.Periods {
			series[i] = byAirline[a.Airline][p]
			points[i] = dtos.DailyPoint{Date: p, Value: series[i]}
		}

		trend := dtos.AirlineTrend{
			Airline:      a.Airline,
			TotalFlights: a.Count,
			Series:       points,
			Trend:        GrowthStable,
		}
		if stats.Count > 0 {
			trend.MarketShare = float64(a.Count) / float64(stats.Count)
		}
		if len(series) > 0 {
			fit, err := regression.FitTrend(xs, series)
			if err != nil {
				return nil, err
			}
			trend.Slope = fit.Slope
			trend.R2 = fit.R2
			trend.CurrentVolume = series[len(series)-1]
			trend.NextForecast = math.Max(0, fit.At(float64(len(series))))
			trend.Trend = growthDirection(fit.Slope)
		}

		switch trend.Trend {
		case GrowthPositive:
			result.PositiveCount++
		case GrowthNegative:
			result.NegativeCount++
		default:
			result.StableCount++
		}
		result.Airlines = append(result.Airlines, trend)
	}

	switch {
	case result.PositiveCount > result.NegativeCount:
		result.MarketState = MarketExpansion
	case result.NegativeCount > result.PositiveCount:
		result.MarketState = MarketContraction
	default:
		result.MarketState = MarketStability
	}
	result.Message = fmt.Sprintf("%d growing, %d shrinking and %d stable operators over %d %s periods",
		result.PositiveCount, result.NegativeCount, result.StableCount, len(result.Periods), result.Period)
	return result, nil
}

func growthDirection(slope float64) string {
	switch {
	case slope > growthSlopeBand:
		return GrowthPositive
	case slope < -growthSlopeBand:
		return GrowthNegative
	}
	return GrowthStable
}

// contiguousPeriods fills the gaps between the first and last observed period
// so operators absent in a period count as zero. Months are YYYY-MM, years YYYY.
func contiguousPeriods(observed []string, yearly bool) []string {
	if len(observed) == 0 {
		return []string{}
	}
	sort.Strings(observed)
	first, last := observed[0], observed[len(observed)-1]

	if yearly {
		from, errFrom := strconv.Atoi(first)
		to, errTo := strconv.Atoi(last)
		if errFrom != nil || errTo != nil {
			return dedupeSorted(observed)
		}
		out := make([]string, 0, to-from+1)
		for y := from; y <= to; y++ {
			out = append(out, strconv.Itoa(y))
		}
		return out
	}

	from, errFrom := time.Parse("2006-01", first)
	to, errTo := time.Parse("2006-01", last)
	if errFrom != nil || errTo != nil {
		return dedupeSorted(observed)
	}
	var out []string
	for m := from; !m.After(to); m = m.AddDate(0, 1, 0) {
		out = append(out, m.Format("2006-01"))
	}
	return out
}

func dedupeSorted(values []string) []string {
	out := make([]string, 0, len(values))
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			out = append(out, v)
		}
	}
	return out
}

package services

import (
	"context"
	"math"
	"time"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/db/repositories"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/parsing"
)

const dayLayout = "2006-01-02"

// analytics carries what every analytics service needs to query and report
type analytics struct {
	flights FlightAnalytics
	builder *filters.Builder
	cache   *common.ResultCache
	metrics *metrics.MetricsRegistry
}

func newAnalytics(flights FlightAnalytics, sectors SectorStore, cache *common.ResultCache, m *metrics.MetricsRegistry) analytics {
	return analytics{
		flights: flights,
		builder: filters.NewBuilder(sectors),
		cache:   cache,
		metrics: m,
	}
}

// observe records the duration and outcome of one operation. Precondition
// failures are logged at warn level; anything else at error level.
func (a analytics) observe(op string, start time.Time, err error) {
	code := ""
	if err != nil {
		code = common.ErrorCode(err)
		if code == "" {
			code = "INTERNAL"
			logging.Error("Analytics operation failed", "operation", op, "error", err.Error())
		} else {
			logging.Warn("Analytics precondition not met", "operation", op, "code", code, "error", err.Error())
		}
	}
	a.metrics.ObserveAnalytics(op, time.Since(start), code)
}

// dailySeries is a gap-free run of daily counts starting at start
type dailySeries struct {
	start  time.Time
	values []float64
}

func (s dailySeries) len() int { return len(s.values) }

func (s dailySeries) date(i int) time.Time { return s.start.AddDate(0, 0, i) }

func (s dailySeries) last() time.Time { return s.date(len(s.values) - 1) }

// loadSeries queries daily counts and reindexes them to a complete daily
// range, filling missing days with 0. observed is the number of distinct
// days the query returned.
func (a analytics) loadSeries(ctx context.Context, where filters.Where) (series dailySeries, observed int, err error) {
	counts, err := a.flights.DailyCounts(ctx, where)
	if err != nil {
		return dailySeries{}, 0, err
	}
	return reindex(counts), len(counts), nil
}

func reindex(counts []repositories.DailyCount) dailySeries {
	byDay := make(map[time.Time]float64, len(counts))
	var first, last time.Time
	for _, c := range counts {
		d, ok := parsing.ParseDate(c.Date)
		if !ok {
			continue
		}
		byDay[d] += float64(c.Count)
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	if len(byDay) == 0 {
		return dailySeries{}
	}

	n := int(last.Sub(first).Hours()/24) + 1
	s := dailySeries{start: first, values: make([]float64, n)}
	for d, v := range byDay {
		s.values[int(d.Sub(first).Hours()/24)] = v
	}
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// band returns the 95% interval around value, clipped at zero
func band(value, std float64) (lower, upper float64) {
	lower = math.Max(0, value-1.96*std)
	upper = math.Max(value, value+1.96*std)
	return lower, upper
}

package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
)

// DailyCount is the number of flights on one day; Date is YYYY-MM-DD
type DailyCount struct {
	Date  string `db:"ds"`
	Count int64  `db:"y"`
}

type DurationStats struct {
	Count        int64   `db:"n"`
	MeanDuration float64 `db:"mean_duration"`
}

// HourlyCount is the number of departures in one (ISO weekday, hour) slot
type HourlyCount struct {
	DayOfWeek int   `db:"dow"`
	Hour      int   `db:"hr"`
	Count     int64 `db:"n"`
}

// WeekdayDays is the number of distinct dates observed for one ISO weekday
type WeekdayDays struct {
	DayOfWeek int   `db:"dow"`
	Days      int64 `db:"n"`
}

type AirlineCount struct {
	Airline string `db:"empresa"`
	Count   int64  `db:"n"`
}

type AirlinePeriodCount struct {
	Airline string `db:"empresa"`
	Period  string `db:"period"`
	Count   int64  `db:"n"`
}

// FlightQueryRepository runs the analytical aggregations over flights
type FlightQueryRepository struct {
	db *sqlx.DB
}

func NewFlightQueryRepository(db *sqlx.DB) *FlightQueryRepository {
	return &FlightQueryRepository{db: db}
}

func (r *FlightQueryRepository) DailyCounts(ctx context.Context, where filters.Where) ([]DailyCount, error) {
	out := []DailyCount{}
	query := fmt.Sprintf(constants.DailyCountsFmt, where.Clause)
	if err := r.db.SelectContext(ctx, &out, query, where.Params...); err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	return out, nil
}

func (r *FlightQueryRepository) DurationStats(ctx context.Context, where filters.Where) (*DurationStats, error) {
	var stats DurationStats
	query := fmt.Sprintf(constants.DurationStatsFmt, where.Clause)
	if err := r.db.GetContext(ctx, &stats, query, where.Params...); err != nil {
		return nil, fmt.Errorf("duration stats: %w", err)
	}
	return &stats, nil
}

func (r *FlightQueryRepository) HourlyCounts(ctx context.Context, where filters.Where) ([]HourlyCount, error) {
	out := []HourlyCount{}
	query := fmt.Sprintf(constants.HourlyCountsFmt, where.Clause)
	if err := r.db.SelectContext(ctx, &out, query, where.Params...); err != nil {
		return nil, fmt.Errorf("hourly counts: %w", err)
	}
	return out, nil
}

func (r *FlightQueryRepository) DaysPerWeekday(ctx context.Context, where filters.Where) ([]WeekdayDays, error) {
	out := []WeekdayDays{}
	query := fmt.Sprintf(constants.DistinctDatesPerDowFmt, where.Clause)
	if err := r.db.SelectContext(ctx, &out, query, where.Params...); err != nil {
		return nil, fmt.Errorf("days per weekday: %w", err)
	}
	return out, nil
}

func (r *FlightQueryRepository) TopAirlines(ctx context.Context, where filters.Where, limit int) ([]AirlineCount, error) {
	out := []AirlineCount{}
	query := fmt.Sprintf(constants.TopAirlinesFmt, where.Clause)
	args := append(append([]any{}, where.Params...), limit)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("top airlines: %w", err)
	}
	return out, nil
}

// AirlinePeriodCounts counts flights per airline per month, or per year when yearly is set
func (r *FlightQueryRepository) AirlinePeriodCounts(ctx context.Context, where filters.Where, airlines []string, yearly bool) ([]AirlinePeriodCount, error) {
	out := []AirlinePeriodCount{}
	if len(airlines) == 0 {
		return out, nil
	}

	period := constants.MonthlyPeriodExpr
	if yearly {
		period = constants.YearlyPeriodExpr
	}
	query := fmt.Sprintf(constants.AirlinePeriodCountsFmt, period, filters.Placeholders(len(airlines)), where.Clause)

	args := make([]any, 0, len(airlines)+len(where.Params))
	for _, a := range airlines {
		args = append(args, a)
	}
	args = append(args, where.Params...)

	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("airline period counts: %w", err)
	}
	return out, nil
}

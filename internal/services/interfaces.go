package services

import (
	"context"

	"airspace-analytics/sectorcap/internal/db/repositories"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/models/entities"
)

// SectorStore is the sector persistence used by the services.
// GetByID and Update return (nil, nil) for unknown ids.
type SectorStore interface {
	Create(ctx context.Context, in entities.SectorInput) (*entities.Sector, error)
	GetByID(ctx context.Context, id string) (*entities.Sector, error)
	List(ctx context.Context) ([]entities.Sector, error)
	Update(ctx context.Context, id string, in entities.SectorInput) (*entities.Sector, error)
	Delete(ctx context.Context, id string) error
}

// FlightAnalytics runs the aggregations the analytics services build on
type FlightAnalytics interface {
	DailyCounts(ctx context.Context, where filters.Where) ([]repositories.DailyCount, error)
	DurationStats(ctx context.Context, where filters.Where) (*repositories.DurationStats, error)
	HourlyCounts(ctx context.Context, where filters.Where) ([]repositories.HourlyCount, error)
	DaysPerWeekday(ctx context.Context, where filters.Where) ([]repositories.WeekdayDays, error)
	TopAirlines(ctx context.Context, where filters.Where, limit int) ([]repositories.AirlineCount, error)
	AirlinePeriodCounts(ctx context.Context, where filters.Where, airlines []string, yearly bool) ([]repositories.AirlinePeriodCount, error)
}

type RegionLookup interface {
	ForAirports(ctx context.Context, icaoCodes []string) ([]entities.Region, error)
}

type CapacityComputer interface {
	Compute(ctx context.Context, sectorID string, spec filters.FilterSpec) (*dtos.CapacityResult, error)
}

type DemandForecaster interface {
	Forecast(ctx context.Context, daysAhead int, spec filters.FilterSpec) (*dtos.DemandForecast, error)
}

type SeasonalForecaster interface {
	Forecast(ctx context.Context, start, end string, spec filters.FilterSpec) (*dtos.SeasonalTrendForecast, error)
}

type AirlineAnalyzer interface {
	Analyze(ctx context.Context, months int, spec filters.FilterSpec) (*dtos.AirlineGrowthResult, error)
}

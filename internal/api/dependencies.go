package api

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/config"
	"airspace-analytics/sectorcap/internal/db/repositories"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/ingestion"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/models/entities"
	"airspace-analytics/sectorcap/internal/regression"
	"airspace-analytics/sectorcap/internal/services"
)

// Ingestor runs and administers file ingestion
type Ingestor interface {
	Ingest(ctx context.Context, forceReload bool, file string) (*dtos.IngestSummary, error)
	Progress() dtos.IngestProgress
	History(ctx context.Context, limit int) ([]entities.FileHistoryEntry, error)
	Reset(ctx context.Context) error
	DeleteFile(ctx context.Context, name string) error
}

type SectorManager interface {
	List(ctx context.Context) ([]entities.Sector, error)
	Get(ctx context.Context, id string) (*entities.Sector, error)
	Create(ctx context.Context, in entities.SectorInput) (*entities.Sector, error)
	Update(ctx context.Context, id string, in entities.SectorInput) (*entities.Sector, error)
	Delete(ctx context.Context, id string) error
}

type RegionManager interface {
	LoadFromJSON(ctx context.Context, reader io.Reader) (int, error)
	List(ctx context.Context) ([]entities.Region, error)
}

type HeatmapBuilder interface {
	Heatmap(ctx context.Context, spec filters.FilterSpec) (*dtos.PeakHoursResult, error)
}

type SaturationAssessor interface {
	Assess(ctx context.Context, sectorID string, daysAhead int, spec filters.FilterSpec) (*dtos.SaturationResult, error)
}

// HealthReporter runs the model health check and keeps the last report
type HealthReporter interface {
	Check(ctx context.Context) *dtos.ModelHealthReport
	Latest() *dtos.ModelHealthReport
}

type Repositories struct {
	Ledger  *repositories.FileProcessingRepository
	Sectors *repositories.SectorRepository
	Flights *repositories.FlightQueryRepository
	Regions *repositories.RegionRepository
}

type Services struct {
	Ingest     Ingestor
	Sectors    SectorManager
	Regions    RegionManager
	Capacity   services.CapacityComputer
	Demand     services.DemandForecaster
	Seasonal   services.SeasonalForecaster
	PeakHours  HeatmapBuilder
	Airlines   services.AirlineAnalyzer
	Saturation SaturationAssessor
	Health     HealthReporter
}

type Dependencies struct {
	DB       *sqlx.DB
	Cache    *common.ResultCache
	Metrics  *metrics.MetricsRegistry
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories and services on top of an open pool
func InitDependencies(cfg *config.Config, conn *sqlx.DB, cache *common.ResultCache, m *metrics.MetricsRegistry) (*Dependencies, error) {
	columns, err := ingestion.LoadColumnMap(cfg.ColumnAliasesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load column aliases: %w", err)
	}

	repos := &Repositories{
		Ledger:  repositories.NewFileProcessingRepository(conn),
		Sectors: repositories.NewSectorRepository(conn),
		Flights: repositories.NewFlightQueryRepository(conn),
		Regions: repositories.NewRegionRepository(conn),
	}

	pipeline := ingestion.Init(conn, ingestion.Options{
		DataDir: cfg.DataDir,
		Columns: columns,
		Cache:   cache,
		Metrics: m,
	})

	forest := regression.DefaultForestConfig()
	forest.Trees = cfg.ForestTrees
	forest.Seed = uint64(cfg.ForestSeed)

	capacity := services.NewCapacityService(repos.Sectors, repos.Flights, repos.Regions, cache, m)
	demand := services.NewDemandService(repos.Sectors, repos.Flights, cache, m, forest)
	seasonal := services.NewSeasonalTrendService(repos.Sectors, repos.Flights, cache, m)
	airlines := services.NewAirlineGrowthService(repos.Sectors, repos.Flights, cache, m)

	svcs := &Services{
		Ingest:     pipeline,
		Sectors:    services.NewSectorService(repos.Sectors, cache),
		Regions:    common.NewRegionLoaderService(repos.Regions),
		Capacity:   capacity,
		Demand:     demand,
		Seasonal:   seasonal,
		PeakHours:  services.NewPeakHoursService(repos.Sectors, repos.Flights, cache, m),
		Airlines:   airlines,
		Saturation: services.NewSaturationService(repos.Sectors, capacity, demand, cache, m, cfg.PeakHourFactor),
		Health:     services.NewModelHealthService(demand, seasonal, airlines, m),
	}

	return &Dependencies{
		DB:       conn,
		Cache:    cache,
		Metrics:  m,
		Repo:     repos,
		Services: svcs,
	}, nil
}

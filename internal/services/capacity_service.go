package services

import (
	"context"
	"time"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/filters"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/models/dtos"
	"airspace-analytics/sectorcap/internal/models/entities"
)

// CapacityService derives the hourly controller capacity of a sector from its
// control-task times and the mean sector transit time of matching flights.
type CapacityService struct {
	analytics
	sectors SectorStore
	regions RegionLookup
}

func NewCapacityService(
	sectors SectorStore,
	flights FlightAnalytics,
	regions RegionLookup,
	cache *common.ResultCache,
	m *metrics.MetricsRegistry,
) *CapacityService {
	return &CapacityService{
		analytics: newAnalytics(flights, sectors, cache, m),
		sectors:   sectors,
		regions:   regions,
	}
}

type capacityArgs struct {
	SectorID  string             `json:"sector_id"`
	UpdatedAt time.Time          `json:"updated_at"`
	Filter    filters.FilterSpec `json:"filter"`
}

// Compute returns the capacity of the sector under spec. When the sector has
// no control-task times the partial result is returned together with a
// MISSING_PARAMETERS error.
func (s *CapacityService) Compute(ctx context.Context, sectorID string, spec filters.FilterSpec) (result *dtos.CapacityResult, err error) {
	start := time.Now()
	defer func() { s.observe("capacity", start, err) }()

	sector, err := s.sectors.GetByID(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	if sector == nil {
		return nil, common.NewCoreError(constants.ErrCodeSectorNotFound, "", nil)
	}

	// the sector scope always comes from the loaded sector
	spec.SectorID = ""
	args := capacityArgs{SectorID: sector.ID, UpdatedAt: sector.UpdatedAt, Filter: spec}
	return common.Cached(s.cache, constants.CachePrefixCapacity, args, func() (*dtos.CapacityResult, error) {
		return s.compute(ctx, sector, spec)
	})
}

func (s *CapacityService) compute(ctx context.Context, sector *entities.Sector, spec filters.FilterSpec) (*dtos.CapacityResult, error) {
	r := sector.AdjustmentFactorR
	if r <= 0 {
		r = constants.DefaultAdjustmentFactor
	}

	result := &dtos.CapacityResult{
		SectorID:   sector.ID,
		SectorName: sector.Name,
		TFC:        sector.TFC(),
		Breakdown: dtos.TFCBreakdown{
			TTransfer:     sector.TTransfer,
			TCommAG:       sector.TCommAG,
			TSeparation:   sector.TSeparation,
			TCoordination: sector.TCoordination,
		},
		R:              r,
		PlanningBuffer: constants.PlanningBuffer,
		Formula:        constants.CapacityFormula,
	}
	if sector.CapacityBaseline.Valid {
		v := sector.CapacityBaseline.Int64
		result.CapacityBaseline = &v
	}

	if result.TFC <= 0 {
		result.TFC = 0
		return result, common.NewCoreError(constants.ErrCodeMissingParameters, "", nil)
	}

	where, err := s.builder.Build(ctx, spec, filters.ForSector(sector))
	if err != nil {
		return nil, err
	}
	stats, err := s.flights.DurationStats(ctx, where)
	if err != nil {
		return nil, err
	}

	result.FlightCount = stats.Count
	result.MeanDurationMinutes = stats.MeanDuration
	result.TPS = stats.MeanDuration * 60
	if stats.Count == 0 || result.TPS <= 0 {
		return nil, common.NewCoreError(constants.ErrCodeNoData, "", nil)
	}

	result.SCV = result.TPS / (result.TFC * constants.PlanningBuffer)
	result.CH = 3600 * result.SCV / result.TPS
	result.CHAdjusted = result.CH * r

	result.OriginRegions = s.regionsFor(ctx, sector.Definition.Origins)
	result.DestinationRegions = s.regionsFor(ctx, sector.Definition.Destinations)

	logging.Debug("Capacity computed",
		"sector_id", sector.ID,
		"tfc", result.TFC,
		"tps", result.TPS,
		"flights", result.FlightCount,
		"ch_adjusted", result.CHAdjusted,
	)
	return result, nil
}

// regionsFor enriches the result; lookup failures only cost the enrichment
func (s *CapacityService) regionsFor(ctx context.Context, codes []string) []entities.Region {
	if s.regions == nil || len(codes) == 0 {
		return nil
	}
	regions, err := s.regions.ForAirports(ctx, codes)
	if err != nil {
		logging.Warn("Region lookup failed", "error", err.Error())
		return nil
	}
	return regions
}
